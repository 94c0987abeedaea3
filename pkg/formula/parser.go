package formula

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrSyntax          = errors.New("公式语法错误")
	ErrUnknownVariable = errors.New("公式引用了未知变量")
	ErrUnknownFunction = errors.New("公式调用了不支持的函数")
	ErrDivisionByZero  = errors.New("公式除数为零")
)

// Env 公式求值时的变量环境，key 为变量名
type Env map[string]decimal.Decimal

// Expression 解析后的公式
type Expression struct {
	source string
	root   node
	vars   []string
}

// Source 返回原始公式文本
func (e *Expression) Source() string {
	return e.source
}

// Variables 返回公式引用的变量名（按首次出现顺序，去重）
func (e *Expression) Variables() []string {
	out := make([]string, len(e.vars))
	copy(out, e.vars)
	return out
}

// Eval 在给定环境下求值
func (e *Expression) Eval(env Env) (decimal.Decimal, error) {
	return e.root.eval(env)
}

// Parse 解析公式
//
// 文法（自顶向下）：
//
//	expr       := comparison
//	comparison := additive [ ("==" | "!=" | "<" | "<=" | ">" | ">=") additive ]
//	additive   := term { ("+" | "-") term }
//	term       := unary { ("*" | "/") unary }
//	unary      := ("+" | "-") unary | primary
//	primary    := NUMBER | "${" NAME "}" | FUNC "(" expr { "," expr } ")" | "(" expr ")"
func Parse(src string) (*Expression, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, seen: make(map[string]bool)}
	if p.peek().kind == tokEOF {
		return nil, fmt.Errorf("%w: 公式为空", ErrSyntax)
	}

	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("%w: 位置 %d 处多余的 %s", ErrSyntax, t.pos, t)
	}

	return &Expression{source: src, root: root, vars: p.vars}, nil
}

// Evaluate 解析并求值，适合一次性使用的场景
func Evaluate(src string, env Env) (decimal.Decimal, error) {
	expr, err := Parse(src)
	if err != nil {
		return decimal.Zero, err
	}
	return expr.Eval(env)
}

type parser struct {
	tokens []token
	pos    int
	vars   []string
	seen   map[string]bool
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, fmt.Errorf("%w: 位置 %d 处期望 %s，实际为 %s", ErrSyntax, t.pos, what, t)
	}
	return t, nil
}

func (p *parser) parseExpr() (node, error) {
	return p.parseComparison()
}

func (p *parser) parseComparison() (node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t.kind == tokOperator && isComparison(t.text) {
		p.next()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: t.text, left: left, right: right}
		if n := p.peek(); n.kind == tokOperator && isComparison(n.text) {
			return nil, fmt.Errorf("%w: 位置 %d 处比较运算不能连用", ErrSyntax, n.pos)
		}
	}
	return left, nil
}

func (p *parser) parseAdditive() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOperator || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: t.text, left: left, right: right}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOperator || (t.text != "*" && t.text != "/") {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: t.text, left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	t := p.peek()
	if t.kind == tokOperator && (t.text == "+" || t.text == "-") {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if t.text == "+" {
			return operand, nil
		}
		return &negateNode{operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		v, err := decimal.NewFromString(t.text)
		if err != nil {
			return nil, fmt.Errorf("%w: 位置 %d 处数字 %q 无法解析", ErrSyntax, t.pos, t.text)
		}
		return &numberNode{value: v}, nil

	case tokVariable:
		if !p.seen[t.text] {
			p.seen[t.text] = true
			p.vars = append(p.vars, t.text)
		}
		return &variableNode{name: t.text}, nil

	case tokIdent:
		return p.parseCall(t)

	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, fmt.Errorf("%w: 位置 %d 处意外的 %s", ErrSyntax, t.pos, t)
}

func (p *parser) parseCall(name token) (node, error) {
	spec, ok := functions[name.text]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name.text)
	}
	if _, err := p.expect(tokLParen, "("); err != nil {
		return nil, err
	}

	var args []node
	if p.peek().kind != tokRParen {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}

	if len(args) < spec.minArgs || (spec.maxArgs >= 0 && len(args) > spec.maxArgs) {
		return nil, fmt.Errorf("%w: 函数 %s 参数个数错误（%d）", ErrSyntax, name.text, len(args))
	}
	if name.text == "ROUND" && len(args) == 2 {
		if err := checkRoundPlaces(args[1], name.pos); err != nil {
			return nil, err
		}
	}
	return &callNode{name: name.text, fn: spec.fn, args: args}, nil
}

// checkRoundPlaces ROUND 的小数位只能是 0 到 MaxRoundPlaces 之间的整数字面量，保存工资组时即可拒绝
func checkRoundPlaces(arg node, pos int) error {
	n, ok := arg.(*numberNode)
	if !ok {
		return fmt.Errorf("%w: 位置 %d 处 ROUND 的小数位必须是整数常量", ErrSyntax, pos)
	}
	if !n.value.IsInteger() || n.value.IsNegative() || n.value.GreaterThan(decimal.NewFromInt(MaxRoundPlaces)) {
		return fmt.Errorf("%w: 位置 %d 处 ROUND 的小数位须在 0-%d 之间，实际为 %s", ErrSyntax, pos, MaxRoundPlaces, n.value)
	}
	return nil
}

func isComparison(op string) bool {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		return true
	}
	return false
}
