package repository

import (
	"context"
	"errors"
	"time"

	"salarysystem/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PayrollResultRepository struct {
	db         *gorm.DB
	outboxRepo *OutboxRepository
}

func NewPayrollResultRepository(db *gorm.DB) *PayrollResultRepository {
	return &PayrollResultRepository{
		db:         db,
		outboxRepo: NewOutboxRepository(db),
	}
}

// Replace 重算落库：同一事务内删除旧结果及明细，写入新结果、明细和事件
//
// 事务失败时旧结果保持原样，不会出现只有一半明细的结果
func (r *PayrollResultRepository) Replace(ctx context.Context, result *model.PayrollResult, event *model.OutboxMessage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.deleteByKey(ctx, tx, result.EmployeeID, result.YearMonth); err != nil {
			return err
		}

		result.ID = 0
		if err := tx.Omit(clause.Associations).Create(result).Error; err != nil {
			return err
		}

		if len(result.Details) > 0 {
			for i := range result.Details {
				result.Details[i].ID = 0
				result.Details[i].ResultID = result.ID
			}
			if err := tx.Create(&result.Details).Error; err != nil {
				return err
			}
		}

		if event != nil {
			if err := r.outboxRepo.Create(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PayrollResultRepository) deleteByKey(ctx context.Context, tx *gorm.DB, employeeID int64, yearMonth string) error {
	var ids []int64
	err := tx.WithContext(ctx).
		Model(&model.PayrollResult{}).
		Where("employee_id = ? AND `salary_month` = ?", employeeID, yearMonth).
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	if err := tx.WithContext(ctx).Where("result_id IN ?", ids).Delete(&model.PayrollResultDetail{}).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).Where("id IN ?", ids).Delete(&model.PayrollResult{}).Error
}

// GetByKey 按 (员工, 年月) 查询，明细按计算顺序返回
func (r *PayrollResultRepository) GetByKey(ctx context.Context, employeeID int64, yearMonth string) (*model.PayrollResult, error) {
	var result model.PayrollResult
	err := r.db.WithContext(ctx).
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort ASC")
		}).
		Where("employee_id = ? AND `salary_month` = ?", employeeID, yearMonth).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	return &result, nil
}

// ListByMonth 分页查询某月结果，不含明细
func (r *PayrollResultRepository) ListByMonth(ctx context.Context, yearMonth string, page, pageSize int) ([]*model.PayrollResult, int64, error) {
	var results []*model.PayrollResult
	var total int64

	query := r.db.WithContext(ctx).Model(&model.PayrollResult{}).Where("`salary_month` = ?", yearMonth)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("employee_id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&results).Error
	return results, total, err
}

// ListPending 等待重算的结果
func (r *PayrollResultRepository) ListPending(ctx context.Context, limit int) ([]*model.PayrollResult, error) {
	var results []*model.PayrollResult
	err := r.db.WithContext(ctx).
		Where("status = ?", model.PayrollStatusPending).
		Order("updated_at ASC, id ASC").
		Limit(limit).
		Find(&results).Error
	return results, err
}

// DeferPending 重算失败后把结果移到待重算队列末尾，避免总是失败的结果挡住后面的
func (r *PayrollResultRepository) DeferPending(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.PayrollResult{}).
		Where("id = ? AND status = ?", id, model.PayrollStatusPending).
		Update("updated_at", time.Now()).Error
}

// MarkPendingByGroup 工资组配置变更后，把该组员工 fromMonth 及以后的已算结果标记为待重算
func (r *PayrollResultRepository) MarkPendingByGroup(ctx context.Context, tx *gorm.DB, groupID int64, fromMonth string) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	employees := tx.Model(&model.Employee{}).Select("id").Where("salary_group_id = ?", groupID)
	res := tx.WithContext(ctx).
		Model(&model.PayrollResult{}).
		Where("status = ? AND `salary_month` >= ? AND employee_id IN (?)", model.PayrollStatusCalculated, fromMonth, employees).
		Update("status", model.PayrollStatusPending)
	return res.RowsAffected, res.Error
}
