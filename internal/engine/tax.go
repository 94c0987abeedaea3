package engine

import (
	"fmt"
	"sort"

	"salarysystem/internal/model"

	"github.com/shopspring/decimal"
)

// TaxResult 个税计算明细
type TaxResult struct {
	TaxableIncome  decimal.Decimal `json:"taxable_income"`
	Adjusted       decimal.Decimal `json:"adjusted"`
	Level          int             `json:"level"` // 命中的级距下标，-1 表示低于最低级距
	Rate           decimal.Decimal `json:"rate"`
	QuickDeduction decimal.Decimal `json:"quick_deduction"`
	Tax            decimal.Decimal `json:"tax"`
}

// SortedLevels 按起点升序返回级距，起点重复视为配置错误
func SortedLevels(f *model.TaxFormula) ([]model.TaxLevel, error) {
	if len(f.Levels) == 0 {
		return nil, fmt.Errorf("%w: 税率表 %q 没有级距", ErrConfiguration, f.Name)
	}
	levels := make([]model.TaxLevel, len(f.Levels))
	copy(levels, f.Levels)
	sort.SliceStable(levels, func(i, j int) bool {
		return levels[i].Threshold.LessThan(levels[j].Threshold)
	})
	for i := 1; i < len(levels); i++ {
		if levels[i].Threshold.Equal(levels[i-1].Threshold) {
			return nil, fmt.Errorf("%w: 税率表 %q 级距起点 %s 重复", ErrConfiguration, f.Name, levels[i].Threshold)
		}
	}
	return levels, nil
}

// CalculateTaxDetail 累进税率 + 速算扣除数
//
// 级距区间为 [Threshold, 下一级 Threshold)，恰好等于某一起点的收入归入以它为起点的较高一档
func CalculateTaxDetail(taxableIncome decimal.Decimal, f *model.TaxFormula, specialDeductions decimal.Decimal) (TaxResult, error) {
	levels, err := SortedLevels(f)
	if err != nil {
		return TaxResult{}, err
	}

	adjusted := clampZero(taxableIncome.Sub(specialDeductions))
	res := TaxResult{
		TaxableIncome:  taxableIncome,
		Adjusted:       adjusted,
		Level:          -1,
		Rate:           decimal.Zero,
		QuickDeduction: decimal.Zero,
		Tax:            decimal.Zero,
	}

	for i := len(levels) - 1; i >= 0; i-- {
		if adjusted.GreaterThanOrEqual(levels[i].Threshold) {
			res.Level = i
			res.Rate = levels[i].Rate
			res.QuickDeduction = levels[i].QuickDeduction
			break
		}
	}
	if res.Level < 0 {
		return res, nil
	}

	res.Tax = clampZero(adjusted.Mul(res.Rate).Sub(res.QuickDeduction)).Round(2)
	return res, nil
}

// CalculateTax 只返回税额
func CalculateTax(taxableIncome decimal.Decimal, f *model.TaxFormula, specialDeductions decimal.Decimal) (decimal.Decimal, error) {
	res, err := CalculateTaxDetail(taxableIncome, f, specialDeductions)
	if err != nil {
		return decimal.Zero, err
	}
	return res.Tax, nil
}
