package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DeductionRuleFixed        = "fixed"          // 每次固定扣款
	DeductionRulePerHour      = "per_hour"       // 按小时扣款
	DeductionRulePerDaySalary = "per_day_salary" // 按日薪比例扣款
	DeductionRuleTieredCount  = "tiered_count"   // 超过阈值的次数才扣款
)

// AttendanceExceptionSetting 考勤异常类型及其扣款规则
type AttendanceExceptionSetting struct {
	ID                     int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                   string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	DeductionRuleType      string          `gorm:"type:varchar(20);not null" json:"deduction_rule_type"`
	DeductionRuleValue     decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"deduction_rule_value"`
	DeductionRuleThreshold decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"deduction_rule_threshold"` // 仅 tiered_count 使用
	Notes                  string          `gorm:"type:varchar(256)" json:"notes"`
	CreatedAt              time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AttendanceExceptionSetting) TableName() string {
	return "attendance_exception_setting"
}

// AttendanceRecord 考勤异常记录
// ExceptionCount 的单位随规则而定：小时、天或次数
type AttendanceRecord struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID      int64           `gorm:"index:idx_attendance_employee_date;not null" json:"employee_id"`
	RecordDate      time.Time       `gorm:"type:date;index:idx_attendance_employee_date;not null" json:"record_date"`
	ExceptionTypeID int64           `gorm:"not null" json:"exception_type_id"`
	ExceptionCount  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"exception_count"`
	Remark          string          `gorm:"type:varchar(256)" json:"remark"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_record"
}
