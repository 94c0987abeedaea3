package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"salarysystem/internal/model"

	"golang.org/x/sync/singleflight"
)

// memoConfigStore 批量计薪期间缓存配置读取
//
// 配置在一次批量内视为只读，只缓存成功的结果；并发未命中用 singleflight 合并
type memoConfigStore struct {
	next ConfigStore

	mu     sync.Mutex
	values map[string]interface{}
	group  singleflight.Group
}

func newMemoConfigStore(next ConfigStore) *memoConfigStore {
	return &memoConfigStore{next: next, values: make(map[string]interface{})}
}

func (m *memoConfigStore) load(key string, fn func() (interface{}, error)) (interface{}, error) {
	m.mu.Lock()
	v, ok := m.values[key]
	m.mu.Unlock()
	if ok {
		return v, nil
	}

	v, err, _ := m.group.Do(key, func() (interface{}, error) {
		v, err := fn()
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.values[key] = v
		m.mu.Unlock()
		return v, nil
	})
	return v, err
}

func (m *memoConfigStore) GetSalaryGroup(ctx context.Context, id int64) (*model.SalaryGroup, error) {
	v, err := m.load(fmt.Sprintf("group:%d", id), func() (interface{}, error) {
		return m.next.GetSalaryGroup(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.SalaryGroup), nil
}

func (m *memoConfigStore) GetSalaryItems(ctx context.Context, ids []int64) (map[int64]*model.SalaryItem, error) {
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatInt(id, 10)
	}

	v, err := m.load("items:"+strings.Join(parts, ","), func() (interface{}, error) {
		return m.next.GetSalaryItems(ctx, ids)
	})
	if err != nil {
		return nil, err
	}
	return v.(map[int64]*model.SalaryItem), nil
}

func (m *memoConfigStore) GetSocialInsuranceGroup(ctx context.Context, id int64) (*model.SocialInsuranceGroup, error) {
	v, err := m.load(fmt.Sprintf("insurance:%d", id), func() (interface{}, error) {
		return m.next.GetSocialInsuranceGroup(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.SocialInsuranceGroup), nil
}

func (m *memoConfigStore) GetTaxFormula(ctx context.Context, id *int64) (*model.TaxFormula, error) {
	key := "tax:default"
	if id != nil {
		key = fmt.Sprintf("tax:%d", *id)
	}
	v, err := m.load(key, func() (interface{}, error) {
		return m.next.GetTaxFormula(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.TaxFormula), nil
}

func (m *memoConfigStore) ListAttendanceSettings(ctx context.Context) ([]model.AttendanceExceptionSetting, error) {
	v, err := m.load("attendance_settings", func() (interface{}, error) {
		return m.next.ListAttendanceSettings(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.AttendanceExceptionSetting), nil
}
