/*
Package lock 订单级写锁

同一订单上的收款、状态迁移等写操作必须串行执行，避免并发收款共同越过
剩余应付金额。LocalLocker 适用于单实例部署；RedisLocker 适用于多实例。
两者在等待超过 WaitTimeout 或 ctx 结束时返回 errors.ErrLockTimeout。
*/
package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"aquadash/domain/shared"
	apperrors "aquadash/pkg/errors"
)

// LocalLocker 进程内按键互斥
type LocalLocker struct {
	mu          sync.Mutex
	slots       map[string]*slot
	waitTimeout time.Duration
}

type slot struct {
	ch   chan struct{}
	refs int
}

// NewLocalLocker waitTimeout <= 0 时只受 ctx 约束
func NewLocalLocker(waitTimeout time.Duration) *LocalLocker {
	return &LocalLocker{
		slots:       make(map[string]*slot),
		waitTimeout: waitTimeout,
	}
}

func (l *LocalLocker) acquireSlot(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *LocalLocker) releaseSlot(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	s := l.acquireSlot(key)

	waitCtx := ctx
	if l.waitTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, l.waitTimeout)
		defer cancel()
	}

	select {
	case s.ch <- struct{}{}:
	case <-waitCtx.Done():
		l.releaseSlot(key, s)
		return nil, fmt.Errorf("lock %s: %w", key, apperrors.ErrLockTimeout)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.releaseSlot(key, s)
		})
	}, nil
}

var _ shared.Locker = (*LocalLocker)(nil)
