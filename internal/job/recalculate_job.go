package job

import (
	"context"
	"time"

	"salarysystem/internal/config"
	"salarysystem/internal/model"

	"go.uber.org/zap"
)

// PendingResultStore 待重算的工资结果队列，按最后更新时间排序
type PendingResultStore interface {
	ListPending(ctx context.Context, limit int) ([]*model.PayrollResult, error)
	DeferPending(ctx context.Context, id int64) error
}

// Calculator 单个员工的计薪入口，实现见 service.PayrollService
type Calculator interface {
	CalculateEmployeeSalary(ctx context.Context, employeeID int64, yearMonth string) (*model.PayrollResult, error)
}

// RecalculateJob 工资组变更后，后台重算被标记为 pending 的结果
//
// 重算成功后结果状态回到 calculated；失败的结果保持 pending 并移到队列末尾，
// 总是失败的结果不会挡住排在后面的结果
type RecalculateJob struct {
	results    PendingResultStore
	calculator Calculator
	logger     *zap.Logger
	stopCh     chan struct{}
	interval   time.Duration
	batchSize  int
}

func NewRecalculateJob(results PendingResultStore, calculator Calculator, cfg *config.Config, logger *zap.Logger) *RecalculateJob {
	interval := time.Duration(cfg.Business.RecalcIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	batchSize := cfg.Business.RecalcBatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	return &RecalculateJob{
		results:    results,
		calculator: calculator,
		logger:     logger.Named("recalculate_job"),
		stopCh:     make(chan struct{}),
		interval:   interval,
		batchSize:  batchSize,
	}
}

func (j *RecalculateJob) Start(ctx context.Context) {
	j.logger.Info("工资重算任务启动", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("收到停止信号，任务退出")
			return
		case <-j.stopCh:
			j.logger.Info("任务停止")
			return
		case <-ticker.C:
			j.recalculatePending(ctx)
		}
	}
}

func (j *RecalculateJob) Stop() {
	close(j.stopCh)
}

func (j *RecalculateJob) recalculatePending(ctx context.Context) int {
	pending, err := j.results.ListPending(ctx, j.batchSize)
	if err != nil {
		j.logger.Error("查询待重算结果失败", zap.Error(err))
		return 0
	}
	if len(pending) == 0 {
		return 0
	}

	j.logger.Info("发现待重算的工资结果", zap.Int("count", len(pending)))

	done := 0
	for _, r := range pending {
		if ctx.Err() != nil {
			break
		}
		if _, err := j.calculator.CalculateEmployeeSalary(ctx, r.EmployeeID, r.YearMonth); err != nil {
			j.logger.Warn("重算失败",
				zap.Int64("employee_id", r.EmployeeID),
				zap.String("year_month", r.YearMonth),
				zap.Error(err))
			if err := j.results.DeferPending(ctx, r.ID); err != nil {
				j.logger.Error("推迟待重算结果失败", zap.Int64("result_id", r.ID), zap.Error(err))
			}
			continue
		}
		done++
	}

	j.logger.Info("本轮重算完成", zap.Int("succeeded", done), zap.Int("total", len(pending)))
	return done
}
