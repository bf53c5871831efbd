package kernel

import (
	"sync"
	"time"
)

var (
	clockMu sync.RWMutex
	clock   = func() time.Time { return time.Now().UTC() }
)

// Now returns the current domain time in UTC.
func Now() time.Time {
	clockMu.RLock()
	defer clockMu.RUnlock()
	return clock()
}

// SetClock replaces the domain clock and returns a function restoring the previous one.
func SetClock(fn func() time.Time) (restore func()) {
	clockMu.Lock()
	previous := clock
	clock = fn
	clockMu.Unlock()

	return func() {
		clockMu.Lock()
		clock = previous
		clockMu.Unlock()
	}
}
