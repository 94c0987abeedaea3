package repository

import "errors"

var (
	ErrEmployeeNotFound             = errors.New("员工不存在")
	ErrSalaryGroupNotFound          = errors.New("工资组不存在")
	ErrSocialInsuranceGroupNotFound = errors.New("社保方案不存在")
	ErrTaxFormulaNotFound           = errors.New("税率表不存在")
	ErrResultNotFound               = errors.New("工资结果不存在")
)
