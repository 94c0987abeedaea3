package engine

import (
	"sort"

	"salarysystem/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultWorkingDaysPerMonth 月计薪天数，日薪 = 月薪 / 21.75
var DefaultWorkingDaysPerMonth = decimal.RequireFromString("21.75")

// DeductionLine 某一类考勤异常的扣款
type DeductionLine struct {
	ExceptionTypeID int64           `json:"exception_type_id"`
	Name            string          `json:"name"`
	RuleType        string          `json:"rule_type"`
	Occurrences     int             `json:"occurrences"`
	TotalCount      decimal.Decimal `json:"total_count"`
	Amount          decimal.Decimal `json:"amount"`
}

// DeductionResult 考勤扣款汇总
type DeductionResult struct {
	Total    decimal.Decimal
	Lines    []DeductionLine
	Warnings []Warning
}

// AttendanceEngine 考勤扣款规则引擎
type AttendanceEngine struct {
	workingDays decimal.Decimal
}

func NewAttendanceEngine(workingDaysPerMonth decimal.Decimal) *AttendanceEngine {
	if !workingDaysPerMonth.IsPositive() {
		workingDaysPerMonth = DefaultWorkingDaysPerMonth
	}
	return &AttendanceEngine{workingDays: workingDaysPerMonth}
}

type exceptionGroup struct {
	typeID      int64
	occurrences int
	count       decimal.Decimal
}

// CalculateDeductions 按异常类型分组后套用各自的扣款规则
//
// salaryBase 无效或不为正时，per_day_salary 类规则按 0 计并给出告警；
// 找不到规则、规则类型未知同样按 0 计并告警，不会让整个员工的计算失败
func (e *AttendanceEngine) CalculateDeductions(
	records []model.AttendanceRecord,
	settings []model.AttendanceExceptionSetting,
	salaryBase decimal.NullDecimal,
) DeductionResult {
	result := DeductionResult{Total: decimal.Zero}

	byType := make(map[int64]*exceptionGroup)
	for _, r := range records {
		g, ok := byType[r.ExceptionTypeID]
		if !ok {
			g = &exceptionGroup{typeID: r.ExceptionTypeID, count: decimal.Zero}
			byType[r.ExceptionTypeID] = g
		}
		g.occurrences++
		g.count = g.count.Add(r.ExceptionCount)
	}
	if len(byType) == 0 {
		return result
	}

	rules := make(map[int64]*model.AttendanceExceptionSetting, len(settings))
	for i := range settings {
		rules[settings[i].ID] = &settings[i]
	}

	groups := make([]*exceptionGroup, 0, len(byType))
	for _, g := range byType {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].typeID < groups[j].typeID })

	for _, g := range groups {
		rule, ok := rules[g.typeID]
		if !ok {
			result.Warnings = append(result.Warnings,
				newWarning(WarningDataUnavailable, "考勤异常类型 %d 没有对应的扣款规则，按 0 处理", g.typeID))
			continue
		}

		amount, warn := e.apply(rule, g, salaryBase)
		if warn != nil {
			result.Warnings = append(result.Warnings, *warn)
		}
		if amount.IsNegative() {
			result.Warnings = append(result.Warnings,
				newWarning(WarningArithmeticAnomaly, "考勤异常[%s]扣款为负数 %s，已按 0 处理", rule.Name, amount.StringFixed(2)))
			amount = decimal.Zero
		}
		amount = amount.Round(2)

		result.Lines = append(result.Lines, DeductionLine{
			ExceptionTypeID: g.typeID,
			Name:            rule.Name,
			RuleType:        rule.DeductionRuleType,
			Occurrences:     g.occurrences,
			TotalCount:      g.count,
			Amount:          amount,
		})
		result.Total = result.Total.Add(amount)
	}
	return result
}

func (e *AttendanceEngine) apply(rule *model.AttendanceExceptionSetting, g *exceptionGroup, salaryBase decimal.NullDecimal) (decimal.Decimal, *Warning) {
	value := rule.DeductionRuleValue

	switch rule.DeductionRuleType {
	case model.DeductionRuleFixed:
		return value.Mul(decimal.NewFromInt(int64(g.occurrences))), nil

	case model.DeductionRulePerHour:
		return value.Mul(g.count), nil

	case model.DeductionRulePerDaySalary:
		if !salaryBase.Valid || !salaryBase.Decimal.IsPositive() {
			w := newWarning(WarningDataUnavailable, "考勤异常[%s]按日薪扣款但缺少工资基数，按 0 处理", rule.Name)
			return decimal.Zero, &w
		}
		daily := salaryBase.Decimal.Div(e.workingDays)
		return daily.Mul(value).Mul(g.count), nil

	case model.DeductionRuleTieredCount:
		over := g.count.Sub(rule.DeductionRuleThreshold)
		if over.IsNegative() {
			over = decimal.Zero
		}
		return value.Mul(over), nil
	}

	w := newWarning(WarningUnknownRuleType, "考勤异常[%s]的扣款规则类型 %q 无法识别，按 0 处理", rule.Name, rule.DeductionRuleType)
	return decimal.Zero, &w
}

// CountOccurrences 本月考勤异常记录条数，作为公式变量 attendanceExceptionCount
func CountOccurrences(records []model.AttendanceRecord) int {
	return len(records)
}
