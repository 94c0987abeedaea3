package model

import (
	"time"
)

// ============================================================================
// 工资项类型
// ============================================================================

const (
	SalaryItemTypeFixed      = "fixed"      // 固定金额
	SalaryItemTypePercentage = "percentage" // 按比例，Value 为小数（0.2 即 20%）
	SalaryItemTypeFormula    = "formula"    // 公式，Value 为表达式，变量写作 ${工资项名}
)

// SalaryItem 工资项
//
// 一旦被已保存的工资组中的公式引用就不应再修改，否则会改变历史工资的含义
type SalaryItem struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"name" validate:"required,max=64"`
	Type        string    `gorm:"type:varchar(20);not null" json:"type" validate:"required,oneof=fixed percentage formula"`
	Value       string    `gorm:"type:varchar(1024);not null" json:"value" validate:"required"`
	Base        string    `gorm:"type:varchar(64)" json:"base" validate:"required_if=Type percentage"` // 比例项的计算基数（变量名）
	Description string    `gorm:"type:varchar(256)" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SalaryItem) TableName() string {
	return "salary_item"
}

// SalaryGroup 工资组
type SalaryGroup struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string            `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	Members   []SalaryGroupItem `gorm:"foreignKey:SalaryGroupID" json:"members"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SalaryGroup) TableName() string {
	return "salary_group"
}

// SalaryGroupItem 工资组成员，CalculationOrder 在组内唯一
type SalaryGroupItem struct {
	ID               int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	SalaryGroupID    int64 `gorm:"uniqueIndex:uk_group_order;index;not null" json:"salary_group_id"`
	SalaryItemID     int64 `gorm:"not null" json:"salary_item_id" validate:"required,gt=0"`
	CalculationOrder int   `gorm:"uniqueIndex:uk_group_order;not null" json:"calculation_order" validate:"gte=0"`
}

func (SalaryGroupItem) TableName() string {
	return "salary_group_item"
}
