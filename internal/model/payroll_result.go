package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	PayrollStatusCalculated = "calculated"
	PayrollStatusPending    = "pending" // 配置变更后等待重算
)

// PayrollResult 员工月度工资结果
//
// (EmployeeID, YearMonth) 唯一，重算时在同一事务内先删后插，
// 不会出现半条结果
type PayrollResult struct {
	ID                  int64                 `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID          int64                 `gorm:"uniqueIndex:uk_result_employee_month;not null" json:"employee_id"`
	YearMonth           string                `gorm:"column:salary_month;type:char(7);uniqueIndex:uk_result_employee_month;index;not null" json:"year_month"`
	SalaryGroupID       int64                 `gorm:"index;not null" json:"salary_group_id"`
	BaseSalary          decimal.Decimal       `gorm:"type:decimal(12,2);not null" json:"base_salary"`
	TotalSalary         decimal.Decimal       `gorm:"type:decimal(12,2);not null" json:"total_salary"`
	SocialInsurance     decimal.Decimal       `gorm:"type:decimal(12,2);not null" json:"social_insurance"`
	CompanyInsurance    decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0" json:"company_insurance"`
	Tax                 decimal.Decimal       `gorm:"type:decimal(12,2);not null" json:"tax"`
	AttendanceDeduction decimal.Decimal       `gorm:"type:decimal(12,2);not null" json:"attendance_deduction"`
	RewardPunishment    decimal.Decimal       `gorm:"type:decimal(12,2);not null" json:"reward_punishment"`
	NetSalary           decimal.Decimal       `gorm:"type:decimal(12,2);not null" json:"net_salary"`
	Status              string                `gorm:"type:varchar(20);index;not null" json:"status"`
	Warnings            datatypes.JSON        `gorm:"type:json" json:"warnings"`
	Details             []PayrollResultDetail `gorm:"foreignKey:ResultID" json:"details"`
	CreatedAt           time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PayrollResult) TableName() string {
	return "payroll_result"
}

// DetailMap 把明细还原成 工资项名 -> 金额
func (r *PayrollResult) DetailMap() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(r.Details))
	for _, d := range r.Details {
		out[d.ItemName] = d.Amount
	}
	return out
}

// PayrollResultDetail 工资结果明细，Sort 保留计算顺序用于界面展示
type PayrollResultDetail struct {
	ID       int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ResultID int64           `gorm:"index;not null" json:"result_id"`
	ItemName string          `gorm:"type:varchar(64);not null" json:"item_name"`
	Amount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Sort     int             `gorm:"not null" json:"sort"`
}

func (PayrollResultDetail) TableName() string {
	return "payroll_result_detail"
}
