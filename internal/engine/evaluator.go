package engine

import (
	"fmt"

	"salarysystem/internal/model"
	"salarysystem/pkg/formula"

	"github.com/shopspring/decimal"
)

// EvaluateItem 计算单个工资项
//
//   - fixed：直接返回 Value
//   - percentage：Value（小数）乘以环境中 Base 对应的值，Base 必须显式存在
//   - formula：解析表达式后在环境中求值
//
// 纯函数，不修改 env
func EvaluateItem(item *model.SalaryItem, env formula.Env) (decimal.Decimal, error) {
	var expr *formula.Expression
	if item.Type == model.SalaryItemTypeFormula {
		var err error
		expr, err = formula.Parse(item.Value)
		if err != nil {
			return decimal.Zero, itemError(item.Name, err)
		}
	}
	return evaluateCompiled(item, expr, env)
}

func evaluateCompiled(item *model.SalaryItem, expr *formula.Expression, env formula.Env) (decimal.Decimal, error) {
	switch item.Type {
	case model.SalaryItemTypeFixed:
		v, err := decimal.NewFromString(item.Value)
		if err != nil {
			return decimal.Zero, itemError(item.Name, fmt.Errorf("%w: 固定金额 %q 不是数字", ErrConfiguration, item.Value))
		}
		return v, nil

	case model.SalaryItemTypePercentage:
		rate, err := decimal.NewFromString(item.Value)
		if err != nil {
			return decimal.Zero, itemError(item.Name, fmt.Errorf("%w: 比例 %q 不是数字", ErrConfiguration, item.Value))
		}
		base, ok := env[item.Base]
		if !ok {
			return decimal.Zero, itemError(item.Name, fmt.Errorf("%w: %s", ErrUnknownVariable, item.Base))
		}
		return rate.Mul(base), nil

	case model.SalaryItemTypeFormula:
		v, err := expr.Eval(env)
		if err != nil {
			return decimal.Zero, itemError(item.Name, err)
		}
		return v, nil
	}
	return decimal.Zero, itemError(item.Name, fmt.Errorf("%w: 未知的工资项类型 %q", ErrConfiguration, item.Type))
}

// references 返回工资项依赖的变量名
func references(item *model.SalaryItem) (*formula.Expression, []string, error) {
	switch item.Type {
	case model.SalaryItemTypeFixed:
		if _, err := decimal.NewFromString(item.Value); err != nil {
			return nil, nil, itemError(item.Name, fmt.Errorf("%w: 固定金额 %q 不是数字", ErrConfiguration, item.Value))
		}
		return nil, nil, nil
	case model.SalaryItemTypePercentage:
		if _, err := decimal.NewFromString(item.Value); err != nil {
			return nil, nil, itemError(item.Name, fmt.Errorf("%w: 比例 %q 不是数字", ErrConfiguration, item.Value))
		}
		if item.Base == "" {
			return nil, nil, itemError(item.Name, fmt.Errorf("%w: 比例项未指定计算基数", ErrConfiguration))
		}
		return nil, []string{item.Base}, nil
	case model.SalaryItemTypeFormula:
		expr, err := formula.Parse(item.Value)
		if err != nil {
			return nil, nil, itemError(item.Name, err)
		}
		return expr, expr.Variables(), nil
	}
	return nil, nil, itemError(item.Name, fmt.Errorf("%w: 未知的工资项类型 %q", ErrConfiguration, item.Type))
}
