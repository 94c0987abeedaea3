package database

import (
	"fmt"
	"time"

	"salarysystem/internal/config"
	"salarysystem/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models 需要建表的全部模型
func Models() []interface{} {
	return []interface{}{
		&model.Employee{},
		&model.SalaryItem{},
		&model.SalaryGroup{},
		&model.SalaryGroupItem{},
		&model.AttendanceExceptionSetting{},
		&model.AttendanceRecord{},
		&model.SocialInsuranceGroup{},
		&model.TaxFormula{},
		&model.TaxLevel{},
		&model.RewardPunishment{},
		&model.PayrollResult{},
		&model.PayrollResultDetail{},
		&model.OutboxMessage{},
	}
}

// DSN 拼接 MySQL 连接串，parseTime 保证 date 列能扫描成 time.Time
func DSN(cfg *config.MySQLConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)
}

// InitMySQL 初始化 MySQL 连接
func InitMySQL(cfg *config.MySQLConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(DSN(cfg)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("连接 MySQL 失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 DB 失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(Models()...); err != nil {
			return nil, fmt.Errorf("自动迁移表结构失败: %w", err)
		}
	}

	log.Info("MySQL 连接成功", zap.String("host", cfg.Host), zap.String("database", cfg.Database))
	return db, nil
}
