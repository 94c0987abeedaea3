package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EmployeeStatusActive   = "ACTIVE"
	EmployeeStatusResigned = "RESIGNED"
)

// Employee 员工
// 只保留薪资计算需要的字段，组织架构等信息由其它模块维护
type Employee struct {
	ID                     int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeNo             string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"employee_no"`
	Name                   string          `gorm:"type:varchar(64);not null" json:"name"`
	DepartmentID           int64           `gorm:"index;not null" json:"department_id"`
	SalaryGroupID          int64           `gorm:"index;not null" json:"salary_group_id"`
	SocialInsuranceGroupID *int64          `json:"social_insurance_group_id"`
	TaxFormulaID           *int64          `json:"tax_formula_id"`                                        // 为空时使用默认税率表
	BaseSalary             decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"base_salary"` // 工资项未给出基本工资时的兜底
	SpecialDeduction       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"special_deduction"`
	EntryDate              time.Time       `gorm:"type:date;not null" json:"entry_date"`
	Status                 string          `gorm:"type:varchar(20);index;not null;default:ACTIVE" json:"status"`
	CreatedAt              time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Employee) TableName() string {
	return "employee"
}

const (
	RewardTypeReward     = "REWARD"
	RewardTypePunishment = "PUNISHMENT"
)

// RewardPunishment 奖惩记录，金额始终为正数，方向由类型决定
type RewardPunishment struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID int64           `gorm:"index:idx_reward_employee_month;not null" json:"employee_id"`
	YearMonth  string          `gorm:"column:salary_month;type:char(7);index:idx_reward_employee_month;not null" json:"year_month"`
	Type       string          `gorm:"type:varchar(20);not null" json:"type"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Reason     string          `gorm:"type:varchar(256)" json:"reason"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (RewardPunishment) TableName() string {
	return "reward_punishment"
}

// Signed 奖励为正，惩罚为负
func (r RewardPunishment) Signed() decimal.Decimal {
	if r.Type == RewardTypePunishment {
		return r.Amount.Abs().Neg()
	}
	return r.Amount.Abs()
}
