package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SocialInsuranceGroup 社保公积金方案
// 基数为 0 表示按实际工资作为基数
type SocialInsuranceGroup struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`

	PensionBase         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"pension_base"`
	PensionPersonalRate decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0" json:"pension_personal_rate"`
	PensionCompanyRate  decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0" json:"pension_company_rate"`

	MedicalBase         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"medical_base"`
	MedicalPersonalRate decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0" json:"medical_personal_rate"`
	MedicalCompanyRate  decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0" json:"medical_company_rate"`

	UnemploymentBase         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"unemployment_base"`
	UnemploymentPersonalRate decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0" json:"unemployment_personal_rate"`
	UnemploymentCompanyRate  decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0" json:"unemployment_company_rate"`

	// 工伤、生育只有单位缴纳
	InjuryBase           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"injury_base"`
	InjuryCompanyRate    decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0" json:"injury_company_rate"`
	MaternityBase        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"maternity_base"`
	MaternityCompanyRate decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0" json:"maternity_company_rate"`

	HousingFundBase         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"housing_fund_base"`
	HousingFundPersonalRate decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0" json:"housing_fund_personal_rate"`
	HousingFundCompanyRate  decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0" json:"housing_fund_company_rate"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SocialInsuranceGroup) TableName() string {
	return "social_insurance_group"
}
