package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salarysystem/internal/config"
	"salarysystem/internal/handler"
	"salarysystem/internal/infrastructure/cache"
	"salarysystem/internal/infrastructure/database"
	"salarysystem/internal/infrastructure/lock"
	"salarysystem/internal/infrastructure/logger"
	"salarysystem/internal/infrastructure/mq"
	"salarysystem/internal/job"
	"salarysystem/internal/repository"
	"salarysystem/internal/service"
	"salarysystem/pkg/idgen"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "salary-system")
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	if err := run(cfg, log); err != nil {
		// os.Exit 不执行 defer，先刷日志再退出
		log.Error("服务异常退出", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

func run(cfg *config.Config, log *zap.Logger) error {
	if err := idgen.Init(1); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.InitMySQL(&cfg.MySQL, log)
	if err != nil {
		return err
	}

	rdb, err := cache.InitRedis(ctx, &cfg.Redis, log)
	if err != nil {
		return err
	}
	defer rdb.Close()

	producer, err := mq.InitKafka(&cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer producer.Close()

	configRepo := repository.NewConfigRepository(db)
	resultRepo := repository.NewPayrollResultRepository(db)

	payrollService, err := service.NewPayrollService(service.PayrollStores{
		Employees:  repository.NewEmployeeRepository(db),
		Configs:    configRepo,
		Attendance: repository.NewAttendanceRepository(db),
		Rewards:    repository.NewRewardPunishmentRepository(db),
		Results:    resultRepo,
		Locker:     lock.NewPayrollLocker(rdb, time.Duration(cfg.Payroll.LockTTLSeconds)*time.Second, log),
	}, cfg, log)
	if err != nil {
		return err
	}
	groupService := service.NewSalaryGroupService(configRepo, configRepo, log)

	// 后台任务
	outboxSender := job.NewOutboxSender(repository.NewOutboxRepository(db), producer, cfg, log)
	go outboxSender.Start(ctx)

	recalculateJob := job.NewRecalculateJob(resultRepo, payrollService, cfg, log)
	go recalculateJob.Start(ctx)

	router := handler.SetupRouter(handler.NewHandler(payrollService, groupService, log), log)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("服务启动", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("HTTP 服务启动失败: %w", err)
	}

	log.Info("正在关闭服务...")

	// 先停后台任务，再等待进行中的请求（包括批量计薪）结束
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("服务关闭异常", zap.Error(err))
	}

	log.Info("服务已关闭")
	return nil
}
