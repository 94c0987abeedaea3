package engine

import (
	"salarysystem/internal/model"

	"github.com/shopspring/decimal"
)

const (
	InsurancePension      = "pension"
	InsuranceMedical      = "medical"
	InsuranceUnemployment = "unemployment"
	InsuranceInjury       = "injury"
	InsuranceMaternity    = "maternity"
	InsuranceHousingFund  = "housing_fund"
)

// InsuranceLine 单个险种的缴纳明细
type InsuranceLine struct {
	Category     string          `json:"category"`
	Base         decimal.Decimal `json:"base"`
	PersonalRate decimal.Decimal `json:"personal_rate"`
	CompanyRate  decimal.Decimal `json:"company_rate"`
	Personal     decimal.Decimal `json:"personal"`
	Company      decimal.Decimal `json:"company"`
}

// InsuranceResult Personal 为个人代扣合计，Company 为单位成本合计（含工伤、生育）
type InsuranceResult struct {
	Lines    []InsuranceLine
	Personal decimal.Decimal
	Company  decimal.Decimal
}

// CalculateInsurance 计算社保公积金
//
// 方案中基数大于 0 时用方案基数，否则用实际工资，不做上下限封顶
func CalculateInsurance(group *model.SocialInsuranceGroup, wageBasis decimal.Decimal) InsuranceResult {
	if wageBasis.IsNegative() {
		wageBasis = decimal.Zero
	}

	specs := []struct {
		category string
		base     decimal.Decimal
		personal decimal.Decimal
		company  decimal.Decimal
	}{
		{InsurancePension, group.PensionBase, group.PensionPersonalRate, group.PensionCompanyRate},
		{InsuranceMedical, group.MedicalBase, group.MedicalPersonalRate, group.MedicalCompanyRate},
		{InsuranceUnemployment, group.UnemploymentBase, group.UnemploymentPersonalRate, group.UnemploymentCompanyRate},
		{InsuranceInjury, group.InjuryBase, decimal.Zero, group.InjuryCompanyRate},
		{InsuranceMaternity, group.MaternityBase, decimal.Zero, group.MaternityCompanyRate},
		{InsuranceHousingFund, group.HousingFundBase, group.HousingFundPersonalRate, group.HousingFundCompanyRate},
	}

	res := InsuranceResult{Personal: decimal.Zero, Company: decimal.Zero}
	for _, s := range specs {
		base := s.base
		if !base.IsPositive() {
			base = wageBasis
		}
		line := InsuranceLine{
			Category:     s.category,
			Base:         base,
			PersonalRate: s.personal,
			CompanyRate:  s.company,
			Personal:     clampZero(base.Mul(s.personal)).Round(2),
			Company:      clampZero(base.Mul(s.company)).Round(2),
		}
		res.Lines = append(res.Lines, line)
		res.Personal = res.Personal.Add(line.Personal)
		res.Company = res.Company.Add(line.Company)
	}
	return res
}

// CalculatePersonalWithholding 个人代扣部分：养老、医疗、失业、公积金
func CalculatePersonalWithholding(group *model.SocialInsuranceGroup, wageBasis decimal.Decimal) decimal.Decimal {
	return CalculateInsurance(group, wageBasis).Personal
}

func clampZero(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
