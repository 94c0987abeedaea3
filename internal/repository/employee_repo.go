package repository

import (
	"context"
	"errors"

	"salarysystem/internal/model"

	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}

// ListActive 在职员工，departmentID 为空时返回全部部门
func (r *EmployeeRepository) ListActive(ctx context.Context, departmentID *int64) ([]*model.Employee, error) {
	query := r.db.WithContext(ctx).Where("status = ?", model.EmployeeStatusActive)
	if departmentID != nil {
		query = query.Where("department_id = ?", *departmentID)
	}

	var employees []*model.Employee
	err := query.Order("id ASC").Find(&employees).Error
	return employees, err
}
