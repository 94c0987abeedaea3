package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"salarysystem/internal/config"
	"salarysystem/internal/engine"
	"salarysystem/internal/model"
	"salarysystem/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testMonth = "2024-06"

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func int64Ptr(v int64) *int64 {
	return &v
}

type payrollFixture struct {
	employees  *fakeEmployees
	configs    *fakeConfigs
	attendance *fakeAttendance
	rewards    *fakeRewards
	results    *fakeResults
	locker     *fakeLocker
	cfg        *config.Config
}

// newPayrollFixture 工资组：基本工资 8000、岗位津贴 1000、绩效 20%、工龄工资、全勤奖
// 社保个人合计 22.5%，默认税率表起征点 5000
func newPayrollFixture() *payrollFixture {
	items := map[int64]*model.SalaryItem{
		1: {ID: 1, Name: "BaseSalary", Type: model.SalaryItemTypeFixed, Value: "8000"},
		2: {ID: 2, Name: "PositionAllowance", Type: model.SalaryItemTypeFixed, Value: "1000"},
		3: {ID: 3, Name: "PerformanceBonus", Type: model.SalaryItemTypePercentage, Value: "0.2", Base: "BaseSalary"},
		4: {ID: 4, Name: "SeniorityPay", Type: model.SalaryItemTypeFormula, Value: "${workYears} * 100"},
		5: {ID: 5, Name: "FullAttendanceBonus", Type: model.SalaryItemTypeFormula, Value: "IF(${attendanceExceptionCount} == 0, 500, 0)"},
		6: {ID: 6, Name: "Broken", Type: model.SalaryItemTypeFormula, Value: "${Later} + 1"},
		7: {ID: 7, Name: "Later", Type: model.SalaryItemTypeFixed, Value: "1"},
	}
	groups := map[int64]*model.SalaryGroup{
		10: {ID: 10, Name: "标准工资组", Members: []model.SalaryGroupItem{
			{SalaryGroupID: 10, SalaryItemID: 1, CalculationOrder: 1},
			{SalaryGroupID: 10, SalaryItemID: 2, CalculationOrder: 2},
			{SalaryGroupID: 10, SalaryItemID: 3, CalculationOrder: 3},
			{SalaryGroupID: 10, SalaryItemID: 4, CalculationOrder: 4},
			{SalaryGroupID: 10, SalaryItemID: 5, CalculationOrder: 5},
		}},
		20: {ID: 20, Name: "错误工资组", Members: []model.SalaryGroupItem{
			{SalaryGroupID: 20, SalaryItemID: 6, CalculationOrder: 1},
			{SalaryGroupID: 20, SalaryItemID: 7, CalculationOrder: 2},
		}},
	}
	insurance := map[int64]*model.SocialInsuranceGroup{
		100: {
			ID:                       100,
			Name:                     "标准社保",
			PensionPersonalRate:      dec("0.08"),
			PensionCompanyRate:       dec("0.16"),
			MedicalPersonalRate:      dec("0.02"),
			MedicalCompanyRate:       dec("0.10"),
			UnemploymentPersonalRate: dec("0.005"),
			UnemploymentCompanyRate:  dec("0.005"),
			HousingFundPersonalRate:  dec("0.12"),
			HousingFundCompanyRate:   dec("0.12"),
		},
	}
	defaultTax := &model.TaxFormula{
		ID:                1,
		Name:              "综合所得月度税率表",
		IsDefault:         true,
		StandardDeduction: dec("5000"),
		Levels: []model.TaxLevel{
			{Threshold: dec("0"), Rate: dec("0.03"), QuickDeduction: dec("0")},
			{Threshold: dec("3000"), Rate: dec("0.10"), QuickDeduction: dec("210")},
			{Threshold: dec("12000"), Rate: dec("0.20"), QuickDeduction: dec("1410")},
			{Threshold: dec("25000"), Rate: dec("0.25"), QuickDeduction: dec("2660")},
		},
	}
	settings := []model.AttendanceExceptionSetting{
		{ID: 1, Name: "迟到", DeductionRuleType: model.DeductionRuleFixed, DeductionRuleValue: dec("50")},
		{ID: 2, Name: "事假", DeductionRuleType: model.DeductionRulePerDaySalary, DeductionRuleValue: dec("1")},
	}

	entry := time.Date(2021, 3, 1, 0, 0, 0, 0, time.Local)
	emps := []*model.Employee{
		{ID: 1, EmployeeNo: "E001", Name: "张三", DepartmentID: 1, SalaryGroupID: 10, SocialInsuranceGroupID: int64Ptr(100), EntryDate: entry, Status: model.EmployeeStatusActive},
		{ID: 2, EmployeeNo: "E002", Name: "李四", DepartmentID: 1, SalaryGroupID: 20, SocialInsuranceGroupID: int64Ptr(100), EntryDate: entry, Status: model.EmployeeStatusActive},
		{ID: 3, EmployeeNo: "E003", Name: "王五", DepartmentID: 2, SalaryGroupID: 10, SocialInsuranceGroupID: int64Ptr(100), EntryDate: entry, Status: model.EmployeeStatusActive},
	}
	byID := make(map[int64]*model.Employee, len(emps))
	for _, e := range emps {
		byID[e.ID] = e
	}

	cfg := &config.Config{}
	cfg.Payroll.BaseSalaryItem = "BaseSalary"
	cfg.Payroll.BatchConcurrency = 1
	cfg.Kafka.Topic.PayrollResult = "payroll-result"

	return &payrollFixture{
		employees:  &fakeEmployees{byID: byID, list: emps},
		configs:    &fakeConfigs{groups: groups, items: items, insurance: insurance, defaultTax: defaultTax, settings: settings},
		attendance: &fakeAttendance{records: map[string][]model.AttendanceRecord{}},
		rewards:    &fakeRewards{records: map[string][]model.RewardPunishment{}},
		results:    newFakeResults(),
		locker:     newFakeLocker(),
		cfg:        cfg,
	}
}

func (f *payrollFixture) service(t *testing.T) *PayrollService {
	t.Helper()
	svc, err := NewPayrollService(PayrollStores{
		Employees:  f.employees,
		Configs:    f.configs,
		Attendance: f.attendance,
		Rewards:    f.rewards,
		Results:    f.results,
		Locker:     f.locker,
	}, f.cfg, zap.NewNop())
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2024, 6, 30, 12, 0, 0, 0, time.Local) }
	return svc
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "%s: want %s got %s", field, want, got)
}

func warningCodes(t *testing.T, r *model.PayrollResult) []string {
	t.Helper()
	var ws []engine.Warning
	require.NoError(t, json.Unmarshal(r.Warnings, &ws))
	codes := make([]string, 0, len(ws))
	for _, w := range ws {
		codes = append(codes, w.Code)
	}
	return codes
}

func TestCalculateEmployeeSalary_StandardGroup(t *testing.T) {
	f := newPayrollFixture()
	svc := f.service(t)

	r, err := svc.CalculateEmployeeSalary(context.Background(), 1, testMonth)
	require.NoError(t, err)

	assertDecimal(t, "11400", r.TotalSalary, "total")
	assertDecimal(t, "8000", r.BaseSalary, "base")
	assertDecimal(t, "2565", r.SocialInsurance, "social insurance")
	assertDecimal(t, "4389", r.CompanyInsurance, "company insurance")
	assertDecimal(t, "173.5", r.Tax, "tax")
	assertDecimal(t, "0", r.AttendanceDeduction, "attendance")
	assertDecimal(t, "0", r.RewardPunishment, "reward")
	assertDecimal(t, "8661.5", r.NetSalary, "net")
	assert.Equal(t, model.PayrollStatusCalculated, r.Status)
	assert.Equal(t, int64(10), r.SalaryGroupID)
	assert.Empty(t, warningCodes(t, r))
	assert.JSONEq(t, "[]", string(r.Warnings))

	details := r.DetailMap()
	assertDecimal(t, "1600", details["PerformanceBonus"], "PerformanceBonus")
	assertDecimal(t, "300", details["SeniorityPay"], "SeniorityPay")
	assertDecimal(t, "500", details["FullAttendanceBonus"], "FullAttendanceBonus")

	sum := decimal.Zero
	for i, d := range r.Details {
		sum = sum.Add(d.Amount)
		if i > 0 {
			assert.Less(t, r.Details[i-1].Sort, d.Sort)
		}
	}
	assert.True(t, sum.Equal(r.TotalSalary))

	require.Len(t, f.results.events, 1)
	event := f.results.events[0]
	assert.Equal(t, model.EventPayrollCalculated, event.EventType)
	assert.Equal(t, "payroll-result", event.Topic)
	assert.Equal(t, "1:2024-06", event.MessageKey)
	assert.Equal(t, model.OutboxStatusPending, event.Status)

	var payload model.PayrollCalculatedEvent
	require.NoError(t, json.Unmarshal([]byte(event.Payload), &payload))
	assert.Equal(t, event.EventNo, payload.EventNo)
	assert.Equal(t, "11400.00", payload.TotalSalary)
	assert.Equal(t, "8661.50", payload.NetSalary)
	assert.Equal(t, 0, payload.WarningCount)
}

func TestCalculateEmployeeSalary_AttendanceExceptions(t *testing.T) {
	f := newPayrollFixture()
	f.attendance.records[resultKey(1, testMonth)] = []model.AttendanceRecord{
		{EmployeeID: 1, ExceptionTypeID: 1, ExceptionCount: dec("1")},
		{EmployeeID: 1, ExceptionTypeID: 1, ExceptionCount: dec("1")},
	}
	svc := f.service(t)

	r, err := svc.CalculateEmployeeSalary(context.Background(), 1, testMonth)
	require.NoError(t, err)

	assertDecimal(t, "10900", r.TotalSalary, "total")
	assertDecimal(t, "0", r.DetailMap()["FullAttendanceBonus"], "FullAttendanceBonus")
	assertDecimal(t, "100", r.AttendanceDeduction, "attendance")
	assertDecimal(t, "2452.5", r.SocialInsurance, "social insurance")
	assertDecimal(t, "134.75", r.Tax, "tax")
	assertDecimal(t, "8212.75", r.NetSalary, "net")
}

func TestCalculateEmployeeSalary_PerDayDeductionUsesBaseSalaryItem(t *testing.T) {
	f := newPayrollFixture()
	f.attendance.records[resultKey(1, testMonth)] = []model.AttendanceRecord{
		{EmployeeID: 1, ExceptionTypeID: 2, ExceptionCount: dec("1")},
	}
	svc := f.service(t)

	r, err := svc.CalculateEmployeeSalary(context.Background(), 1, testMonth)
	require.NoError(t, err)

	// 8000 / 21.75
	assertDecimal(t, "367.82", r.AttendanceDeduction, "attendance")
	assertDecimal(t, "8000", r.BaseSalary, "base")
}

func TestCalculateEmployeeSalary_PerDayDeductionWithoutBase(t *testing.T) {
	f := newPayrollFixture()
	f.cfg.Payroll.BaseSalaryItem = ""
	f.attendance.records[resultKey(1, testMonth)] = []model.AttendanceRecord{
		{EmployeeID: 1, ExceptionTypeID: 2, ExceptionCount: dec("1")},
	}
	svc := f.service(t)

	r, err := svc.CalculateEmployeeSalary(context.Background(), 1, testMonth)
	require.NoError(t, err)

	assertDecimal(t, "0", r.AttendanceDeduction, "attendance")
	assert.Contains(t, warningCodes(t, r), engine.WarningDataUnavailable)
}

func TestCalculateEmployeeSalary_RewardPunishmentAffectsNetOnly(t *testing.T) {
	f := newPayrollFixture()
	svc := f.service(t)

	before, err := svc.CalculateEmployeeSalary(context.Background(), 1, testMonth)
	require.NoError(t, err)

	f.rewards.records[resultKey(1, testMonth)] = []model.RewardPunishment{
		{EmployeeID: 1, YearMonth: testMonth, Type: model.RewardTypeReward, Amount: dec("1000")},
		{EmployeeID: 1, YearMonth: testMonth, Type: model.RewardTypePunishment, Amount: dec("200")},
	}
	after, err := svc.CalculateEmployeeSalary(context.Background(), 1, testMonth)
	require.NoError(t, err)

	assertDecimal(t, "800", after.RewardPunishment, "reward")
	assert.True(t, after.TotalSalary.Equal(before.TotalSalary))
	assert.True(t, after.Tax.Equal(before.Tax))
	assert.True(t, after.NetSalary.Sub(before.NetSalary).Equal(dec("800")), "net diff %s", after.NetSalary.Sub(before.NetSalary))
}

func TestCalculateEmployeeSalary_Idempotent(t *testing.T) {
	f := newPayrollFixture()
	svc := f.service(t)

	first, err := svc.CalculateEmployeeSalary(context.Background(), 1, testMonth)
	require.NoError(t, err)
	firstCopy := *first
	second, err := svc.CalculateEmployeeSalary(context.Background(), 1, testMonth)
	require.NoError(t, err)

	assert.True(t, firstCopy.TotalSalary.Equal(second.TotalSalary))
	assert.True(t, firstCopy.SocialInsurance.Equal(second.SocialInsurance))
	assert.True(t, firstCopy.Tax.Equal(second.Tax))
	assert.True(t, firstCopy.NetSalary.Equal(second.NetSalary))
	assert.Equal(t, string(firstCopy.Warnings), string(second.Warnings))
	require.Len(t, second.Details, len(firstCopy.Details))
	for i := range second.Details {
		assert.Equal(t, firstCopy.Details[i].ItemName, second.Details[i].ItemName)
		assert.True(t, firstCopy.Details[i].Amount.Equal(second.Details[i].Amount))
	}

	// 同一 (员工, 年月) 只保留一条
	_, total, err := svc.ListResults(context.Background(), testMonth, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, 2, f.results.replaces)
}

func TestCalculateEmployeeSalary_NoSocialInsuranceGroup(t *testing.T) {
	f := newPayrollFixture()
	f.employees.byID[1].SocialInsuranceGroupID = nil
	svc := f.service(t)

	r, err := svc.CalculateEmployeeSalary(context.Background(), 1, testMonth)
	require.NoError(t, err)

	assertDecimal(t, "0", r.SocialInsurance, "social insurance")
	assertDecimal(t, "0", r.CompanyInsurance, "company insurance")
	// 11400 - 5000 = 6400 -> 640 - 210
	assertDecimal(t, "430", r.Tax, "tax")
	assert.Equal(t, []string{engine.WarningDataUnavailable}, warningCodes(t, r))
}

func TestCalculateEmployeeSalary_NegativeNetIsKeptWithWarning(t *testing.T) {
	f := newPayrollFixture()
	f.rewards.records[resultKey(1, testMonth)] = []model.RewardPunishment{
		{EmployeeID: 1, YearMonth: testMonth, Type: model.RewardTypePunishment, Amount: dec("10000")},
	}
	svc := f.service(t)

	r, err := svc.CalculateEmployeeSalary(context.Background(), 1, testMonth)
	require.NoError(t, err)

	assertDecimal(t, "-1338.5", r.NetSalary, "net")
	assert.Contains(t, warningCodes(t, r), engine.WarningArithmeticAnomaly)
}

func TestCalculateEmployeeSalary_ConfigurationErrors(t *testing.T) {
	t.Run("missing social insurance group", func(t *testing.T) {
		f := newPayrollFixture()
		f.employees.byID[1].SocialInsuranceGroupID = int64Ptr(999)
		_, err := f.service(t).CalculateEmployeeSalary(context.Background(), 1, testMonth)
		assert.ErrorIs(t, err, engine.ErrConfiguration)
		assert.ErrorIs(t, err, repository.ErrSocialInsuranceGroupNotFound)
		assert.Empty(t, f.results.byKey)
	})

	t.Run("missing tax formula", func(t *testing.T) {
		f := newPayrollFixture()
		f.configs.defaultTax = nil
		_, err := f.service(t).CalculateEmployeeSalary(context.Background(), 1, testMonth)
		assert.ErrorIs(t, err, engine.ErrConfiguration)
		assert.Empty(t, f.results.byKey)
	})

	t.Run("missing salary group", func(t *testing.T) {
		f := newPayrollFixture()
		f.employees.byID[1].SalaryGroupID = 999
		_, err := f.service(t).CalculateEmployeeSalary(context.Background(), 1, testMonth)
		assert.ErrorIs(t, err, engine.ErrConfiguration)
	})

	t.Run("unknown employee", func(t *testing.T) {
		f := newPayrollFixture()
		_, err := f.service(t).CalculateEmployeeSalary(context.Background(), 42, testMonth)
		assert.ErrorIs(t, err, repository.ErrEmployeeNotFound)
	})

	t.Run("invalid month", func(t *testing.T) {
		f := newPayrollFixture()
		_, err := f.service(t).CalculateEmployeeSalary(context.Background(), 1, "2024-6")
		assert.ErrorIs(t, err, engine.ErrInvalidYearMonth)
	})
}

func TestCalculateEmployeeSalary_FormulaErrorIsNotPersisted(t *testing.T) {
	f := newPayrollFixture()
	svc := f.service(t)

	_, err := svc.CalculateEmployeeSalary(context.Background(), 2, testMonth)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrFormula)
	assert.ErrorIs(t, err, engine.ErrInvalidOrdering)

	var itemErr *engine.ItemError
	require.True(t, errors.As(err, &itemErr))
	assert.Equal(t, "Broken", itemErr.Item)

	_, err = svc.GetResult(context.Background(), 2, testMonth)
	assert.ErrorIs(t, err, repository.ErrResultNotFound)
	assert.Empty(t, f.results.events)
}

func TestCalculateEmployeeSalary_PreviousResultSurvivesFailure(t *testing.T) {
	f := newPayrollFixture()
	svc := f.service(t)

	_, err := svc.CalculateEmployeeSalary(context.Background(), 1, testMonth)
	require.NoError(t, err)

	f.configs.defaultTax = nil
	_, err = svc.CalculateEmployeeSalary(context.Background(), 1, testMonth)
	require.Error(t, err)

	stored, err := svc.GetResult(context.Background(), 1, testMonth)
	require.NoError(t, err)
	assertDecimal(t, "8661.5", stored.NetSalary, "net")
}

func TestCalculateEmployeeSalary_LockBusy(t *testing.T) {
	f := newPayrollFixture()
	svc := f.service(t)

	unlock, err := f.locker.Lock(context.Background(), 1, testMonth)
	require.NoError(t, err)

	_, err = svc.CalculateEmployeeSalary(context.Background(), 1, testMonth)
	assert.ErrorIs(t, err, errLockBusy)
	assert.Zero(t, f.results.replaces)

	unlock()
	_, err = svc.CalculateEmployeeSalary(context.Background(), 1, testMonth)
	assert.NoError(t, err)
}

func TestCalculateEmployeeSalary_ReleasesLockOnFailure(t *testing.T) {
	f := newPayrollFixture()
	f.results.failWith = errors.New("db down")
	svc := f.service(t)

	_, err := svc.CalculateEmployeeSalary(context.Background(), 1, testMonth)
	require.Error(t, err)
	assert.Empty(t, f.locker.held)
}

func TestBatchCalculateSalary_IsolatesFailures(t *testing.T) {
	f := newPayrollFixture()
	svc := f.service(t)

	summary, err := svc.BatchCalculateSalary(context.Background(), testMonth, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Zero(t, summary.Cancelled)
	assert.Equal(t, testMonth, summary.YearMonth)
	assert.NotEmpty(t, summary.BatchNo)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, int64(2), summary.Failures[0].EmployeeID)
	assert.Equal(t, "E002", summary.Failures[0].EmployeeNo)
	assert.NotEmpty(t, summary.Failures[0].Error)

	_, err = svc.GetResult(context.Background(), 1, testMonth)
	assert.NoError(t, err)
	_, err = svc.GetResult(context.Background(), 3, testMonth)
	assert.NoError(t, err)
}

func TestBatchCalculateSalary_ReusesConfiguration(t *testing.T) {
	f := newPayrollFixture()
	svc := f.service(t)

	_, err := svc.BatchCalculateSalary(context.Background(), testMonth, nil)
	require.NoError(t, err)

	// 员工 1、3 共用工资组 10，员工 2 使用工资组 20
	assert.Equal(t, int32(2), f.configs.groupCalls.Load())
	assert.Equal(t, int32(2), f.configs.itemCalls.Load())
	assert.Equal(t, int32(1), f.configs.settingsCalls.Load())
}

func TestBatchCalculateSalary_DepartmentFilter(t *testing.T) {
	f := newPayrollFixture()
	svc := f.service(t)

	summary, err := svc.BatchCalculateSalary(context.Background(), testMonth, int64Ptr(2))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Succeeded)
}

func TestBatchCalculateSalary_ConcurrentMatchesSequential(t *testing.T) {
	f := newPayrollFixture()
	f.cfg.Payroll.BatchConcurrency = 4
	svc := f.service(t)

	summary, err := svc.BatchCalculateSalary(context.Background(), testMonth, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)

	for _, id := range []int64{1, 3} {
		r, err := svc.GetResult(context.Background(), id, testMonth)
		require.NoError(t, err)
		assertDecimal(t, "8661.5", r.NetSalary, "net")
	}
}

func TestBatchCalculateSalary_CancelledBeforeStart(t *testing.T) {
	f := newPayrollFixture()
	svc := f.service(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := svc.BatchCalculateSalary(ctx, testMonth, nil)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Equal(t, 3, summary.Cancelled)
	assert.Zero(t, summary.Succeeded)
	assert.Zero(t, f.results.replaces)
}

func TestBatchCalculateSalary_CancelledMidway(t *testing.T) {
	f := newPayrollFixture()
	svc := f.service(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// 员工 1 读取考勤时批次被取消，此时它已经开始计算
	f.attendance.onList = func(employeeID int64) {
		if employeeID == 1 {
			cancel()
		}
	}

	summary, err := svc.BatchCalculateSalary(ctx, testMonth, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Zero(t, summary.Failed)
	assert.Empty(t, summary.Failures)
	assert.Equal(t, 2, summary.Cancelled)
	assert.Equal(t, summary.Total, summary.Succeeded+summary.Failed+summary.Cancelled)

	r, err := svc.GetResult(context.Background(), 1, testMonth)
	require.NoError(t, err)
	assertDecimal(t, "8661.5", r.NetSalary, "net")
	assert.Len(t, f.results.events, 1)
}

func TestCalculateEmployeeSalary_HonoursCallerCancellation(t *testing.T) {
	f := newPayrollFixture()
	svc := f.service(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.CalculateEmployeeSalary(ctx, 1, testMonth)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.results.replaces)
}

func TestListResults_Paging(t *testing.T) {
	f := newPayrollFixture()
	svc := f.service(t)

	_, _, err := svc.ListResults(context.Background(), "bad", 1, 20)
	assert.ErrorIs(t, err, engine.ErrInvalidYearMonth)

	_, total, err := svc.ListResults(context.Background(), testMonth, 0, 1000)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestNewPayrollService_InvalidWorkingDays(t *testing.T) {
	f := newPayrollFixture()
	f.cfg.Payroll.WorkingDaysPerMonth = "abc"
	_, err := NewPayrollService(PayrollStores{}, f.cfg, zap.NewNop())
	assert.Error(t, err)
}
