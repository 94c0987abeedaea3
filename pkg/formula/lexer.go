package formula

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokVariable
	tokIdent
	tokOperator
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "结尾"
	}
	return fmt.Sprintf("%q", t.text)
}

// tokenize 把公式拆成词法单元
//
// 只识别白名单内的字符：数字、${变量}、函数名、四则运算、比较运算、括号和逗号，
// 其它任何字符都直接报语法错误。
func tokenize(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			start := i
			seenDot := false
			for i < len(src) && (isDigit(src[i]) || src[i] == '.') {
				if src[i] == '.' {
					if seenDot {
						return nil, fmt.Errorf("%w: 位置 %d 处数字格式错误", ErrSyntax, start)
					}
					seenDot = true
				}
				i++
			}
			tokens = append(tokens, token{kind: tokNumber, text: src[start:i], pos: start})

		case c == '$':
			if i+1 >= len(src) || src[i+1] != '{' {
				return nil, fmt.Errorf("%w: 位置 %d 处 $ 后缺少 {", ErrSyntax, i)
			}
			end := strings.IndexByte(src[i+2:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: 位置 %d 处变量引用未闭合", ErrSyntax, i)
			}
			name := strings.TrimSpace(src[i+2 : i+2+end])
			if name == "" {
				return nil, fmt.Errorf("%w: 位置 %d 处变量名为空", ErrSyntax, i)
			}
			tokens = append(tokens, token{kind: tokVariable, text: name, pos: i})
			i += end + 3

		case isLetter(c):
			start := i
			for i < len(src) && (isLetter(src[i]) || isDigit(src[i])) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: strings.ToUpper(src[start:i]), pos: start})

		case c == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == ',':
			tokens = append(tokens, token{kind: tokComma, text: ",", pos: i})
			i++

		case c == '+' || c == '-' || c == '*' || c == '/':
			tokens = append(tokens, token{kind: tokOperator, text: string(c), pos: i})
			i++

		case c == '=' || c == '!' || c == '<' || c == '>':
			if i+1 < len(src) && src[i+1] == '=' {
				tokens = append(tokens, token{kind: tokOperator, text: src[i : i+2], pos: i})
				i += 2
				continue
			}
			if c == '=' || c == '!' {
				return nil, fmt.Errorf("%w: 位置 %d 处不支持的运算符 %q", ErrSyntax, i, string(c))
			}
			tokens = append(tokens, token{kind: tokOperator, text: string(c), pos: i})
			i++

		default:
			return nil, fmt.Errorf("%w: 位置 %d 处非法字符 %q", ErrSyntax, i, string(c))
		}
	}
	tokens = append(tokens, token{kind: tokEOF, pos: len(src)})
	return tokens, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
