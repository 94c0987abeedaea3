package formula

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// MaxRoundPlaces ROUND 允许的最大小数位
const MaxRoundPlaces = 10

type node interface {
	eval(env Env) (decimal.Decimal, error)
}

type numberNode struct {
	value decimal.Decimal
}

func (n *numberNode) eval(Env) (decimal.Decimal, error) {
	return n.value, nil
}

type variableNode struct {
	name string
}

func (n *variableNode) eval(env Env) (decimal.Decimal, error) {
	v, ok := env[n.name]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownVariable, n.name)
	}
	return v, nil
}

type negateNode struct {
	operand node
}

func (n *negateNode) eval(env Env) (decimal.Decimal, error) {
	v, err := n.operand.eval(env)
	if err != nil {
		return decimal.Zero, err
	}
	return v.Neg(), nil
}

type binaryNode struct {
	op          string
	left, right node
}

func (n *binaryNode) eval(env Env) (decimal.Decimal, error) {
	l, err := n.left.eval(env)
	if err != nil {
		return decimal.Zero, err
	}
	r, err := n.right.eval(env)
	if err != nil {
		return decimal.Zero, err
	}

	switch n.op {
	case "+":
		return l.Add(r), nil
	case "-":
		return l.Sub(r), nil
	case "*":
		return l.Mul(r), nil
	case "/":
		if r.IsZero() {
			return decimal.Zero, ErrDivisionByZero
		}
		return l.Div(r), nil
	case "==":
		return boolValue(l.Equal(r)), nil
	case "!=":
		return boolValue(!l.Equal(r)), nil
	case "<":
		return boolValue(l.LessThan(r)), nil
	case "<=":
		return boolValue(l.LessThanOrEqual(r)), nil
	case ">":
		return boolValue(l.GreaterThan(r)), nil
	case ">=":
		return boolValue(l.GreaterThanOrEqual(r)), nil
	}
	return decimal.Zero, fmt.Errorf("%w: 未知运算符 %s", ErrSyntax, n.op)
}

type callNode struct {
	name string
	fn   func(env Env, args []node) (decimal.Decimal, error)
	args []node
}

func (n *callNode) eval(env Env) (decimal.Decimal, error) {
	return n.fn(env, n.args)
}

type funcSpec struct {
	minArgs int
	maxArgs int // -1 表示不限
	fn      func(env Env, args []node) (decimal.Decimal, error)
}

// 白名单函数，除此之外的标识符一律拒绝
var functions = map[string]funcSpec{
	"IF":    {minArgs: 3, maxArgs: 3, fn: fnIf},
	"MIN":   {minArgs: 1, maxArgs: -1, fn: fnMin},
	"MAX":   {minArgs: 1, maxArgs: -1, fn: fnMax},
	"ROUND": {minArgs: 1, maxArgs: 2, fn: fnRound},
	"ABS":   {minArgs: 1, maxArgs: 1, fn: fnAbs},
}

// IF 只计算命中的分支，IF(${x}==0, 0, 100/${x}) 不会因为另一分支除零而失败
func fnIf(env Env, args []node) (decimal.Decimal, error) {
	cond, err := args[0].eval(env)
	if err != nil {
		return decimal.Zero, err
	}
	if !cond.IsZero() {
		return args[1].eval(env)
	}
	return args[2].eval(env)
}

func fnMin(env Env, args []node) (decimal.Decimal, error) {
	values, err := evalAll(env, args)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Min(values[0], values[1:]...), nil
}

func fnMax(env Env, args []node) (decimal.Decimal, error) {
	values, err := evalAll(env, args)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Max(values[0], values[1:]...), nil
}

func fnRound(env Env, args []node) (decimal.Decimal, error) {
	values, err := evalAll(env, args)
	if err != nil {
		return decimal.Zero, err
	}
	places := int32(0)
	if len(values) == 2 {
		p := values[1]
		if !p.IsInteger() || p.IsNegative() || p.GreaterThan(decimal.NewFromInt(MaxRoundPlaces)) {
			return decimal.Zero, fmt.Errorf("%w: ROUND 的小数位须为 0-%d 之间的整数", ErrSyntax, MaxRoundPlaces)
		}
		places = int32(p.IntPart())
	}
	return values[0].Round(places), nil
}

func fnAbs(env Env, args []node) (decimal.Decimal, error) {
	v, err := args[0].eval(env)
	if err != nil {
		return decimal.Zero, err
	}
	return v.Abs(), nil
}

func evalAll(env Env, args []node) ([]decimal.Decimal, error) {
	values := make([]decimal.Decimal, len(args))
	for i, a := range args {
		v, err := a.eval(env)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func boolValue(b bool) decimal.Decimal {
	if b {
		return one
	}
	return decimal.Zero
}
