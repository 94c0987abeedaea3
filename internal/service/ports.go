package service

import (
	"context"

	"salarysystem/internal/model"
)

// 服务依赖的存储与锁，gorm / Redis 实现见 repository 和 infrastructure/lock

type EmployeeStore interface {
	GetByID(ctx context.Context, id int64) (*model.Employee, error)
	ListActive(ctx context.Context, departmentID *int64) ([]*model.Employee, error)
}

type ConfigStore interface {
	GetSalaryGroup(ctx context.Context, id int64) (*model.SalaryGroup, error)
	GetSalaryItems(ctx context.Context, ids []int64) (map[int64]*model.SalaryItem, error)
	GetSocialInsuranceGroup(ctx context.Context, id int64) (*model.SocialInsuranceGroup, error)
	GetTaxFormula(ctx context.Context, id *int64) (*model.TaxFormula, error)
	ListAttendanceSettings(ctx context.Context) ([]model.AttendanceExceptionSetting, error)
}

type AttendanceStore interface {
	ListRecords(ctx context.Context, employeeID int64, yearMonth string) ([]model.AttendanceRecord, error)
}

type RewardPunishmentStore interface {
	ListByEmployeeMonth(ctx context.Context, employeeID int64, yearMonth string) ([]model.RewardPunishment, error)
}

type ResultStore interface {
	Replace(ctx context.Context, result *model.PayrollResult, event *model.OutboxMessage) error
	GetByKey(ctx context.Context, employeeID int64, yearMonth string) (*model.PayrollResult, error)
	ListByMonth(ctx context.Context, yearMonth string, page, pageSize int) ([]*model.PayrollResult, int64, error)
}

// GroupMemberStore 工资组成员写入
type GroupMemberStore interface {
	ReplaceGroupMembers(ctx context.Context, groupID int64, members []model.SalaryGroupItem, fromMonth string) (int64, error)
}

// KeyLocker 按 (员工, 年月) 串行化计算，返回的函数用于释放
type KeyLocker interface {
	Lock(ctx context.Context, employeeID int64, yearMonth string) (func(), error)
}

// PayrollStores 计薪所需的全部依赖
type PayrollStores struct {
	Employees  EmployeeStore
	Configs    ConfigStore
	Attendance AttendanceStore
	Rewards    RewardPunishmentStore
	Results    ResultStore
	Locker     KeyLocker
}
