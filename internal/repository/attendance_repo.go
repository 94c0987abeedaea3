package repository

import (
	"context"

	"salarysystem/internal/engine"
	"salarysystem/internal/model"

	"gorm.io/gorm"
)

type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListRecords 员工某月的考勤异常记录
func (r *AttendanceRepository) ListRecords(ctx context.Context, employeeID int64, yearMonth string) ([]model.AttendanceRecord, error) {
	start, end, err := engine.MonthRange(yearMonth)
	if err != nil {
		return nil, err
	}

	var records []model.AttendanceRecord
	err = r.db.WithContext(ctx).
		Where("employee_id = ? AND record_date >= ? AND record_date < ?", employeeID, start, end).
		Order("record_date ASC, id ASC").
		Find(&records).Error
	return records, err
}

type RewardPunishmentRepository struct {
	db *gorm.DB
}

func NewRewardPunishmentRepository(db *gorm.DB) *RewardPunishmentRepository {
	return &RewardPunishmentRepository{db: db}
}

func (r *RewardPunishmentRepository) ListByEmployeeMonth(ctx context.Context, employeeID int64, yearMonth string) ([]model.RewardPunishment, error) {
	var records []model.RewardPunishment
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND `salary_month` = ?", employeeID, yearMonth).
		Order("id ASC").
		Find(&records).Error
	return records, err
}
