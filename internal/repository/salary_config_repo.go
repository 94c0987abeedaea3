package repository

import (
	"context"
	"errors"

	"salarysystem/internal/model"

	"gorm.io/gorm"
)

// ConfigRepository 薪资规则配置：工资组、工资项、考勤规则、社保方案、税率表
type ConfigRepository struct {
	db *gorm.DB
}

func NewConfigRepository(db *gorm.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

func (r *ConfigRepository) GetSalaryGroup(ctx context.Context, id int64) (*model.SalaryGroup, error) {
	var group model.SalaryGroup
	err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("calculation_order ASC")
		}).
		Where("id = ?", id).
		First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSalaryGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

// GetSalaryItems 按 ID 批量查询，找不到的 ID 不出现在结果里，由调用方判断
func (r *ConfigRepository) GetSalaryItems(ctx context.Context, ids []int64) (map[int64]*model.SalaryItem, error) {
	out := make(map[int64]*model.SalaryItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var items []*model.SalaryItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, item := range items {
		out[item.ID] = item
	}
	return out, nil
}

func (r *ConfigRepository) GetSocialInsuranceGroup(ctx context.Context, id int64) (*model.SocialInsuranceGroup, error) {
	var group model.SocialInsuranceGroup
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSocialInsuranceGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

// GetTaxFormula id 为空时取默认税率表
func (r *ConfigRepository) GetTaxFormula(ctx context.Context, id *int64) (*model.TaxFormula, error) {
	query := r.db.WithContext(ctx).
		Preload("Levels", func(db *gorm.DB) *gorm.DB {
			return db.Order("threshold ASC")
		})
	if id != nil {
		query = query.Where("id = ?", *id)
	} else {
		query = query.Where("is_default = ?", true)
	}

	var f model.TaxFormula
	if err := query.First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaxFormulaNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *ConfigRepository) ListAttendanceSettings(ctx context.Context) ([]model.AttendanceExceptionSetting, error) {
	var settings []model.AttendanceExceptionSetting
	err := r.db.WithContext(ctx).Order("id ASC").Find(&settings).Error
	return settings, err
}

// ReplaceGroupMembers 在一个事务内替换工资组成员，并把该组员工 fromMonth 及以后的结果标记为待重算
// 返回被标记的结果条数
func (r *ConfigRepository) ReplaceGroupMembers(ctx context.Context, groupID int64, members []model.SalaryGroupItem, fromMonth string) (int64, error) {
	var marked int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.SalaryGroup{}).Where("id = ?", groupID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrSalaryGroupNotFound
		}

		if err := tx.Where("salary_group_id = ?", groupID).Delete(&model.SalaryGroupItem{}).Error; err != nil {
			return err
		}

		if len(members) > 0 {
			rows := make([]model.SalaryGroupItem, len(members))
			for i, m := range members {
				rows[i] = model.SalaryGroupItem{
					SalaryGroupID:    groupID,
					SalaryItemID:     m.SalaryItemID,
					CalculationOrder: m.CalculationOrder,
				}
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		n, err := NewPayrollResultRepository(r.db).MarkPendingByGroup(ctx, tx, groupID, fromMonth)
		if err != nil {
			return err
		}
		marked = n
		return nil
	})
	return marked, err
}
