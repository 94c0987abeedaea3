package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxFormula 个税税率表
// 只能有一张 IsDefault 的表，员工未指定时使用
type TaxFormula struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name              string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	IsDefault         bool            `gorm:"index;not null;default:false" json:"is_default"`
	StandardDeduction decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"standard_deduction"` // 起征点，如 5000
	Levels            []TaxLevel      `gorm:"foreignKey:TaxFormulaID" json:"levels"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TaxFormula) TableName() string {
	return "tax_formula"
}

// TaxLevel 税率级距，区间为 [Threshold, 下一级 Threshold)
type TaxLevel struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	TaxFormulaID   int64           `gorm:"index;not null" json:"tax_formula_id"`
	Threshold      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"threshold"`
	Rate           decimal.Decimal `gorm:"type:decimal(6,4);not null" json:"rate"`
	QuickDeduction decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"quick_deduction"`
	Sort           int             `gorm:"not null;default:0" json:"sort"`
}

func (TaxLevel) TableName() string {
	return "tax_level"
}
