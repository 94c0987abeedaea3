package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"salarysystem/internal/model"
	"salarysystem/internal/repository"
)

var errLockBusy = errors.New("lock busy")

type fakeEmployees struct {
	byID map[int64]*model.Employee
	list []*model.Employee
}

func (f *fakeEmployees) GetByID(_ context.Context, id int64) (*model.Employee, error) {
	emp, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployees) ListActive(_ context.Context, departmentID *int64) ([]*model.Employee, error) {
	var out []*model.Employee
	for _, emp := range f.list {
		if departmentID == nil || emp.DepartmentID == *departmentID {
			out = append(out, emp)
		}
	}
	return out, nil
}

type fakeConfigs struct {
	groups     map[int64]*model.SalaryGroup
	items      map[int64]*model.SalaryItem
	insurance  map[int64]*model.SocialInsuranceGroup
	taxes      map[int64]*model.TaxFormula
	defaultTax *model.TaxFormula
	settings   []model.AttendanceExceptionSetting

	groupCalls    atomic.Int32
	itemCalls     atomic.Int32
	settingsCalls atomic.Int32
	failGroup     error
}

func (f *fakeConfigs) GetSalaryGroup(_ context.Context, id int64) (*model.SalaryGroup, error) {
	f.groupCalls.Add(1)
	if f.failGroup != nil {
		return nil, f.failGroup
	}
	g, ok := f.groups[id]
	if !ok {
		return nil, repository.ErrSalaryGroupNotFound
	}
	return g, nil
}

func (f *fakeConfigs) GetSalaryItems(_ context.Context, ids []int64) (map[int64]*model.SalaryItem, error) {
	f.itemCalls.Add(1)
	out := make(map[int64]*model.SalaryItem, len(ids))
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			out[id] = item
		}
	}
	return out, nil
}

func (f *fakeConfigs) GetSocialInsuranceGroup(_ context.Context, id int64) (*model.SocialInsuranceGroup, error) {
	g, ok := f.insurance[id]
	if !ok {
		return nil, repository.ErrSocialInsuranceGroupNotFound
	}
	return g, nil
}

func (f *fakeConfigs) GetTaxFormula(_ context.Context, id *int64) (*model.TaxFormula, error) {
	if id == nil {
		if f.defaultTax == nil {
			return nil, repository.ErrTaxFormulaNotFound
		}
		return f.defaultTax, nil
	}
	t, ok := f.taxes[*id]
	if !ok {
		return nil, repository.ErrTaxFormulaNotFound
	}
	return t, nil
}

func (f *fakeConfigs) ListAttendanceSettings(context.Context) ([]model.AttendanceExceptionSetting, error) {
	f.settingsCalls.Add(1)
	return f.settings, nil
}

type fakeAttendance struct {
	records map[string][]model.AttendanceRecord
	onList  func(employeeID int64)
}

func (f *fakeAttendance) ListRecords(ctx context.Context, employeeID int64, yearMonth string) ([]model.AttendanceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.onList != nil {
		f.onList(employeeID)
	}
	return f.records[resultKey(employeeID, yearMonth)], nil
}

type fakeRewards struct {
	records map[string][]model.RewardPunishment
}

func (f *fakeRewards) ListByEmployeeMonth(ctx context.Context, employeeID int64, yearMonth string) ([]model.RewardPunishment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.records[resultKey(employeeID, yearMonth)], nil
}

type fakeResults struct {
	mu       sync.Mutex
	nextID   int64
	byKey    map[string]*model.PayrollResult
	events   []*model.OutboxMessage
	replaces int
	failWith error
}

func newFakeResults() *fakeResults {
	return &fakeResults{byKey: make(map[string]*model.PayrollResult)}
}

func resultKey(employeeID int64, yearMonth string) string {
	return fmt.Sprintf("%d:%s", employeeID, yearMonth)
}

// Replace 与 gorm 事务一致，ctx 已取消时写入失败
func (f *fakeResults) Replace(ctx context.Context, result *model.PayrollResult, event *model.OutboxMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.failWith != nil {
		return f.failWith
	}
	f.replaces++
	f.nextID++
	result.ID = f.nextID
	for i := range result.Details {
		result.Details[i].ResultID = result.ID
	}
	stored := *result
	stored.Details = append([]model.PayrollResultDetail(nil), result.Details...)
	f.byKey[resultKey(result.EmployeeID, result.YearMonth)] = &stored
	if event != nil {
		f.events = append(f.events, event)
	}
	return nil
}

func (f *fakeResults) GetByKey(_ context.Context, employeeID int64, yearMonth string) (*model.PayrollResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byKey[resultKey(employeeID, yearMonth)]
	if !ok {
		return nil, repository.ErrResultNotFound
	}
	return r, nil
}

func (f *fakeResults) ListByMonth(_ context.Context, yearMonth string, page, pageSize int) ([]*model.PayrollResult, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.PayrollResult
	for _, r := range f.byKey {
		if r.YearMonth == yearMonth {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

type fakeLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (f *fakeLocker) Lock(ctx context.Context, employeeID int64, yearMonth string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := resultKey(employeeID, yearMonth)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held[key] {
		return nil, errLockBusy
	}
	f.held[key] = true
	return func() {
		f.mu.Lock()
		delete(f.held, key)
		f.mu.Unlock()
	}, nil
}

type fakeGroupMembers struct {
	calls     int
	groupID   int64
	members   []model.SalaryGroupItem
	fromMonth string
	marked    int64
}

func (f *fakeGroupMembers) ReplaceGroupMembers(_ context.Context, groupID int64, members []model.SalaryGroupItem, fromMonth string) (int64, error) {
	f.calls++
	f.groupID = groupID
	f.members = members
	f.fromMonth = fromMonth
	return f.marked, nil
}
