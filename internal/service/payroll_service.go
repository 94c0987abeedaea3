package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"salarysystem/internal/config"
	"salarysystem/internal/engine"
	"salarysystem/internal/model"
	"salarysystem/internal/repository"
	"salarysystem/pkg/formula"
	"salarysystem/pkg/idgen"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

// PayrollService 计薪编排
//
// 单个员工：取配置 -> 工资项 -> 考勤扣款 -> 社保 -> 奖惩 -> 个税 -> 实发 -> 落库。
// 各步骤严格串行，落库之前没有任何副作用
type PayrollService struct {
	stores         PayrollStores
	attendance     *engine.AttendanceEngine
	baseSalaryItem string
	concurrency    int
	topic          string
	logger         *zap.Logger
	now            func() time.Time
}

func NewPayrollService(stores PayrollStores, cfg *config.Config, logger *zap.Logger) (*PayrollService, error) {
	workingDays := engine.DefaultWorkingDaysPerMonth
	if cfg.Payroll.WorkingDaysPerMonth != "" {
		d, err := decimal.NewFromString(cfg.Payroll.WorkingDaysPerMonth)
		if err != nil {
			return nil, fmt.Errorf("payroll.working_days_per_month 配置错误: %w", err)
		}
		workingDays = d
	}

	concurrency := cfg.Payroll.BatchConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &PayrollService{
		stores:         stores,
		attendance:     engine.NewAttendanceEngine(workingDays),
		baseSalaryItem: cfg.Payroll.BaseSalaryItem,
		concurrency:    concurrency,
		topic:          cfg.Kafka.Topic.PayrollResult,
		logger:         logger,
		now:            time.Now,
	}, nil
}

// CalculateEmployeeSalary 计算并保存单个员工的月度工资
//
// 失败时返回错误，不会返回之前保存的旧结果
func (s *PayrollService) CalculateEmployeeSalary(ctx context.Context, employeeID int64, yearMonth string) (*model.PayrollResult, error) {
	if _, err := engine.ParseYearMonth(yearMonth); err != nil {
		return nil, err
	}

	emp, err := s.stores.Employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return s.calculateAndSave(ctx, s.stores.Configs, emp, yearMonth)
}

func (s *PayrollService) calculateAndSave(ctx context.Context, configs ConfigStore, emp *model.Employee, yearMonth string) (*model.PayrollResult, error) {
	unlock, err := s.stores.Locker.Lock(ctx, emp.ID, yearMonth)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result, warnings, err := s.compute(ctx, configs, emp, yearMonth)
	if err != nil {
		return nil, err
	}

	event, err := s.newEvent(result, len(warnings))
	if err != nil {
		return nil, err
	}
	if err := s.stores.Results.Replace(ctx, result, event); err != nil {
		return nil, fmt.Errorf("保存工资结果失败: %w", err)
	}

	s.logger.Info("员工工资计算完成",
		zap.Int64("employee_id", emp.ID),
		zap.String("year_month", yearMonth),
		zap.String("total_salary", result.TotalSalary.StringFixed(2)),
		zap.String("net_salary", result.NetSalary.StringFixed(2)))
	return result, nil
}

// compute 纯计算，不写任何数据
func (s *PayrollService) compute(ctx context.Context, configs ConfigStore, emp *model.Employee, yearMonth string) (*model.PayrollResult, []engine.Warning, error) {
	group, err := configs.GetSalaryGroup(ctx, emp.SalaryGroupID)
	if err != nil {
		return nil, nil, configError(err, "员工 %d 的工资组 %d", emp.ID, emp.SalaryGroupID)
	}
	ids := make([]int64, 0, len(group.Members))
	for _, m := range group.Members {
		ids = append(ids, m.SalaryItemID)
	}
	items, err := configs.GetSalaryItems(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("查询工资项失败: %w", err)
	}

	records, err := s.stores.Attendance.ListRecords(ctx, emp.ID, yearMonth)
	if err != nil {
		return nil, nil, fmt.Errorf("查询考勤记录失败: %w", err)
	}
	rewards, err := s.stores.Rewards.ListByEmployeeMonth(ctx, emp.ID, yearMonth)
	if err != nil {
		return nil, nil, fmt.Errorf("查询奖惩记录失败: %w", err)
	}
	rewardTotal := decimal.Zero
	for _, r := range rewards {
		rewardTotal = rewardTotal.Add(r.Signed())
	}
	rewardTotal = rewardTotal.Round(2)

	workYears, err := engine.WorkYears(emp.EntryDate, yearMonth)
	if err != nil {
		return nil, nil, err
	}

	resolution, err := engine.Resolve(group, items, formula.Env{
		engine.VarBaseSalary:               emp.BaseSalary,
		engine.VarWorkYears:                decimal.NewFromInt(int64(workYears)),
		engine.VarAttendanceExceptionCount: decimal.NewFromInt(int64(engine.CountOccurrences(records))),
		engine.VarRewardPunishment:         rewardTotal,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("员工 %d 工资项计算失败: %w", emp.ID, err)
	}

	var warnings []engine.Warning

	salaryBase := s.salaryBase(emp, resolution)
	settings, err := configs.ListAttendanceSettings(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("查询考勤规则失败: %w", err)
	}
	deduction := s.attendance.CalculateDeductions(records, settings, salaryBase)
	warnings = append(warnings, deduction.Warnings...)

	insurance := engine.InsuranceResult{Personal: decimal.Zero, Company: decimal.Zero}
	if emp.SocialInsuranceGroupID == nil {
		warnings = append(warnings, engine.Warning{
			Code:    engine.WarningDataUnavailable,
			Message: "员工未配置社保方案，社保代扣按 0 处理",
		})
	} else {
		siGroup, err := configs.GetSocialInsuranceGroup(ctx, *emp.SocialInsuranceGroupID)
		if err != nil {
			return nil, nil, configError(err, "员工 %d 的社保方案 %d", emp.ID, *emp.SocialInsuranceGroupID)
		}
		insurance = engine.CalculateInsurance(siGroup, resolution.Total)
	}

	taxFormula, err := configs.GetTaxFormula(ctx, emp.TaxFormulaID)
	if err != nil {
		return nil, nil, configError(err, "员工 %d 的税率表", emp.ID)
	}
	taxable := resolution.Total.Sub(insurance.Personal)
	special := taxFormula.StandardDeduction.Add(emp.SpecialDeduction)
	tax, err := engine.CalculateTax(taxable, taxFormula, special)
	if err != nil {
		return nil, nil, err
	}

	net := resolution.Total.
		Sub(insurance.Personal).
		Sub(tax).
		Sub(deduction.Total).
		Add(rewardTotal)
	if net.IsNegative() {
		warnings = append(warnings, engine.Warning{
			Code:    engine.WarningArithmeticAnomaly,
			Message: fmt.Sprintf("实发工资为负数 %s，请核对扣款与奖惩", net.StringFixed(2)),
		})
	}

	if warnings == nil {
		warnings = []engine.Warning{}
	}
	warningJSON, err := json.Marshal(warnings)
	if err != nil {
		return nil, nil, fmt.Errorf("序列化计算告警失败: %w", err)
	}

	result := &model.PayrollResult{
		EmployeeID:          emp.ID,
		YearMonth:           yearMonth,
		SalaryGroupID:       group.ID,
		BaseSalary:          salaryBase.Decimal,
		TotalSalary:         resolution.Total,
		SocialInsurance:     insurance.Personal,
		CompanyInsurance:    insurance.Company,
		Tax:                 tax,
		AttendanceDeduction: deduction.Total,
		RewardPunishment:    rewardTotal,
		NetSalary:           net,
		Status:              model.PayrollStatusCalculated,
		Warnings:            datatypes.JSON(warningJSON),
		Details:             make([]model.PayrollResultDetail, 0, len(resolution.Components)),
	}
	for _, c := range resolution.Components {
		result.Details = append(result.Details, model.PayrollResultDetail{
			ItemName: c.Name,
			Amount:   c.Amount,
			Sort:     c.Order,
		})
	}

	for _, w := range warnings {
		s.logger.Warn("工资计算降级",
			zap.Int64("employee_id", emp.ID),
			zap.String("year_month", yearMonth),
			zap.String("code", w.Code),
			zap.String("message", w.Message))
	}
	return result, warnings, nil
}

// salaryBase 日薪基数：优先取配置的基本工资项，其次取员工档案里的基本工资
func (s *PayrollService) salaryBase(emp *model.Employee, res *engine.Resolution) decimal.NullDecimal {
	if s.baseSalaryItem != "" {
		if v, ok := res.Values()[s.baseSalaryItem]; ok && v.IsPositive() {
			return decimal.NullDecimal{Decimal: v, Valid: true}
		}
	}
	if emp.BaseSalary.IsPositive() {
		return decimal.NullDecimal{Decimal: emp.BaseSalary, Valid: true}
	}
	return decimal.NullDecimal{}
}

func (s *PayrollService) newEvent(result *model.PayrollResult, warningCount int) (*model.OutboxMessage, error) {
	eventNo := idgen.GenerateEventNo()
	payload, err := json.Marshal(model.PayrollCalculatedEvent{
		EventNo:      eventNo,
		EmployeeID:   result.EmployeeID,
		YearMonth:    result.YearMonth,
		TotalSalary:  result.TotalSalary.StringFixed(2),
		NetSalary:    result.NetSalary.StringFixed(2),
		WarningCount: warningCount,
		CalculatedAt: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("序列化工资事件失败: %w", err)
	}
	return &model.OutboxMessage{
		EventNo:    eventNo,
		EventType:  model.EventPayrollCalculated,
		MessageKey: fmt.Sprintf("%d:%s", result.EmployeeID, result.YearMonth),
		Topic:      s.topic,
		Payload:    string(payload),
		Status:     model.OutboxStatusPending,
	}, nil
}

// configError 把"找不到"类错误归为配置错误
func configError(err error, format string, args ...interface{}) error {
	if errors.Is(err, repository.ErrSalaryGroupNotFound) ||
		errors.Is(err, repository.ErrSocialInsuranceGroupNotFound) ||
		errors.Is(err, repository.ErrTaxFormulaNotFound) {
		return fmt.Errorf("%w: %s: %w", engine.ErrConfiguration, fmt.Sprintf(format, args...), err)
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ============================================================================
// 批量计薪
// ============================================================================

// BatchFailure 单个员工的失败原因
type BatchFailure struct {
	EmployeeID int64  `json:"employee_id"`
	EmployeeNo string `json:"employee_no"`
	Name       string `json:"name"`
	Error      string `json:"error"`
}

// BatchSummary 批量计薪汇总
type BatchSummary struct {
	BatchNo   string         `json:"batch_no"`
	YearMonth string         `json:"year_month"`
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Cancelled int            `json:"cancelled"` // 取消时尚未开始计算的员工数
	Failures  []BatchFailure `json:"failures"`
}

// BatchCalculateSalary 批量计算某月工资，departmentID 为空时计算全部在职员工
//
// 单个员工失败不影响其他人，失败原因记录在汇总里。ctx 取消后不再开始新的员工，
// 已开始的员工会完整算完并落库；此时返回汇总和 ctx.Err()
func (s *PayrollService) BatchCalculateSalary(ctx context.Context, yearMonth string, departmentID *int64) (*BatchSummary, error) {
	if _, err := engine.ParseYearMonth(yearMonth); err != nil {
		return nil, err
	}

	employees, err := s.stores.Employees.ListActive(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("查询员工列表失败: %w", err)
	}

	summary := &BatchSummary{
		BatchNo:   idgen.GenerateBatchNo(),
		YearMonth: yearMonth,
		Total:     len(employees),
		Failures:  []BatchFailure{},
	}
	s.logger.Info("批量计薪开始",
		zap.String("batch_no", summary.BatchNo),
		zap.String("year_month", yearMonth),
		zap.Int("employees", len(employees)))

	configs := newMemoConfigStore(s.stores.Configs)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.concurrency)

	for i, emp := range employees {
		if ctx.Err() != nil {
			mu.Lock()
			summary.Cancelled += len(employees) - i
			mu.Unlock()
			break
		}

		emp := emp // per-iteration copy (go 1.21 loop semantics)
		g.Go(func() error {
			if ctx.Err() != nil {
				mu.Lock()
				summary.Cancelled++
				mu.Unlock()
				return nil
			}

			// 已开始的员工不再受批次取消影响，保证整条算完落库
			_, err := s.calculateAndSave(context.WithoutCancel(ctx), configs, emp, yearMonth)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				summary.Failures = append(summary.Failures, BatchFailure{
					EmployeeID: emp.ID,
					EmployeeNo: emp.EmployeeNo,
					Name:       emp.Name,
					Error:      err.Error(),
				})
				s.logger.Warn("员工工资计算失败",
					zap.String("batch_no", summary.BatchNo),
					zap.Int64("employee_id", emp.ID),
					zap.Error(err))
				return nil
			}
			summary.Succeeded++
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(summary.Failures, func(i, j int) bool {
		return summary.Failures[i].EmployeeID < summary.Failures[j].EmployeeID
	})

	s.logger.Info("批量计薪结束",
		zap.String("batch_no", summary.BatchNo),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("cancelled", summary.Cancelled))

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// ============================================================================
// 查询
// ============================================================================

func (s *PayrollService) GetResult(ctx context.Context, employeeID int64, yearMonth string) (*model.PayrollResult, error) {
	if _, err := engine.ParseYearMonth(yearMonth); err != nil {
		return nil, err
	}
	return s.stores.Results.GetByKey(ctx, employeeID, yearMonth)
}

func (s *PayrollService) ListResults(ctx context.Context, yearMonth string, page, pageSize int) ([]*model.PayrollResult, int64, error) {
	if _, err := engine.ParseYearMonth(yearMonth); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}
	return s.stores.Results.ListByMonth(ctx, yearMonth, page, pageSize)
}
