package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================================
// 分布式锁
// ============================================================================
//
// 加锁：SET key value NX EX ttl，value 为持有者标识
// 释放：Lua 脚本比较 value 后再 DEL，避免锁过期后误删别人的锁
//
// 薪资场景下按 (员工, 年月) 加锁：同一员工同一月份的重算在多实例之间串行，
// 不同员工、不同月份互不影响
// ============================================================================

var (
	ErrLockFailed = errors.New("获取分布式锁失败")
	ErrNotHeld    = errors.New("锁已过期或被他人持有")
)

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`)

// DistributedLock 分布式锁
type DistributedLock struct {
	client     *redis.Client
	key        string
	value      string
	expiration time.Duration
}

func NewDistributedLock(client *redis.Client, key, value string, expiration time.Duration) *DistributedLock {
	return &DistributedLock{
		client:     client,
		key:        key,
		value:      value,
		expiration: expiration,
	}
}

// TryLock 非阻塞加锁
func (l *DistributedLock) TryLock(ctx context.Context) (bool, error) {
	return l.client.SetNX(ctx, l.key, l.value, l.expiration).Result()
}

// Lock 阻塞加锁，最多重试 maxRetries 次
func (l *DistributedLock) Lock(ctx context.Context, retryInterval time.Duration, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		ok, err := l.TryLock(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return ErrLockFailed
}

// Unlock 释放锁；锁已不属于自己时返回 ErrNotHeld
func (l *DistributedLock) Unlock(ctx context.Context) error {
	n, err := unlockScript.Run(ctx, l.client, []string{l.key}, l.value).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotHeld
	}
	return nil
}

// PayrollLocker 按 (员工, 年月) 加锁
type PayrollLocker struct {
	client        *redis.Client
	ttl           time.Duration
	retryInterval time.Duration
	maxRetries    int
	logger        *zap.Logger
}

func NewPayrollLocker(client *redis.Client, ttl time.Duration, logger *zap.Logger) *PayrollLocker {
	return &PayrollLocker{
		client:        client,
		ttl:           ttl,
		retryInterval: 100 * time.Millisecond,
		maxRetries:    int(ttl / (100 * time.Millisecond)),
		logger:        logger,
	}
}

// WithRetry 调整等待锁的节奏
func (p *PayrollLocker) WithRetry(interval time.Duration, maxRetries int) *PayrollLocker {
	p.retryInterval = interval
	p.maxRetries = maxRetries
	return p
}

func PayrollLockKey(employeeID int64, yearMonth string) string {
	return fmt.Sprintf("payroll:lock:%d:%s", employeeID, yearMonth)
}

// Lock 获取锁，返回的 unlock 可以重复调用
func (p *PayrollLocker) Lock(ctx context.Context, employeeID int64, yearMonth string) (func(), error) {
	l := NewDistributedLock(p.client, PayrollLockKey(employeeID, yearMonth), uuid.NewString(), p.ttl)
	if err := l.Lock(ctx, p.retryInterval, p.maxRetries); err != nil {
		return nil, fmt.Errorf("员工 %d 的 %s 工资正在计算中: %w", employeeID, yearMonth, err)
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		// 请求上下文可能已取消，释放锁不能依赖它
		unlockCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := l.Unlock(unlockCtx); err != nil {
			p.logger.Warn("释放薪资计算锁失败",
				zap.Int64("employee_id", employeeID),
				zap.String("year_month", yearMonth),
				zap.Error(err))
		}
	}, nil
}
