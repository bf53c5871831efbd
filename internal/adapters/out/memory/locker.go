package memory

import (
	"context"
	"sync"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/ports"
)

var _ ports.OrderLocker = &Locker{}

// Locker is an in-process ports.OrderLocker. Each order id gets its own
// lock, created on first use and dropped once nobody holds or waits for it.
type Locker struct {
	mu    sync.Mutex
	locks map[kernel.UUID]*keyedLock
}

type keyedLock struct {
	held chan struct{}
	refs int
}

func NewLocker() *Locker {
	return &Locker{locks: make(map[kernel.UUID]*keyedLock)}
}

func (l *Locker) Lock(ctx context.Context, id kernel.UUID) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &keyedLock{held: make(chan struct{}, 1)}
		l.locks[id] = lock
	}
	lock.refs++
	l.mu.Unlock()

	select {
	case lock.held <- struct{}{}:
	case <-ctx.Done():
		l.release(id, lock)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-lock.held
			l.release(id, lock)
		})
	}, nil
}

func (l *Locker) release(id kernel.UUID, lock *keyedLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, id)
	}
}
