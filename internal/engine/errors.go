package engine

import (
	"errors"
	"fmt"

	"salarysystem/pkg/formula"
)

// ============================================================================
// 错误分类
// ============================================================================
//
// 致命错误（只中止当前员工的计算，不影响批量中的其他人）：
//   - ErrConfiguration：缺少工资组、工资项、税率表、社保方案等配置
//   - ErrFormula 及其细分：未知变量、引用顺序错误、顺序号重复、循环引用、语法错误
//
// 非致命的降级（计入 Warning，金额按 0 处理）：
//   - 数据缺失（如按日薪扣款却拿不到工资基数）
//   - 算术异常（扣款或税额为负，截断为 0）
//
// ============================================================================

var (
	ErrConfiguration = errors.New("薪资配置错误")
	ErrFormula       = errors.New("工资项公式错误")

	ErrUnknownVariable = formula.ErrUnknownVariable
	ErrSyntax          = formula.ErrSyntax
	ErrDivisionByZero  = formula.ErrDivisionByZero
	ErrInvalidOrdering = errors.New("公式引用了计算顺序不早于自身的工资项")
	ErrDuplicateOrder  = errors.New("工资组内计算顺序重复")
	ErrCyclicReference = errors.New("工资项之间存在循环引用")
)

var formulaKinds = []error{
	ErrUnknownVariable,
	ErrSyntax,
	formula.ErrUnknownFunction,
	ErrDivisionByZero,
	ErrInvalidOrdering,
	ErrDuplicateOrder,
	ErrCyclicReference,
}

// ItemError 携带出错的工资项名
// errors.Is(err, ErrFormula) 对所有公式类错误成立
type ItemError struct {
	Item string
	Err  error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("工资项[%s]: %v", e.Item, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

func (e *ItemError) Is(target error) bool {
	return target == ErrFormula && IsFormulaError(e.Err)
}

// IsFormulaError 判断是否属于公式类错误
func IsFormulaError(err error) bool {
	for _, kind := range formulaKinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

func itemError(item string, err error) error {
	return &ItemError{Item: item, Err: err}
}

// ============================================================================
// 非致命告警
// ============================================================================

const (
	WarningDataUnavailable   = "DATA_UNAVAILABLE"
	WarningArithmeticAnomaly = "ARITHMETIC_ANOMALY"
	WarningUnknownRuleType   = "UNKNOWN_RULE_TYPE"
)

// Warning 计算过程中的降级提示，随结果一起保存
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newWarning(code, format string, args ...interface{}) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}
