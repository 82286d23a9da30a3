// Package clock makes time controllable from unit tests (thumbnail expiration, cache freshness).
package clock

import (
	"sync"
	"time"
)

var (
	mu             sync.RWMutex
	clockSingleton Clock = DefaultClock{}
)

type Clock interface {
	Now() time.Time
}

type DefaultClock struct{}

func (c DefaultClock) Now() time.Time {
	return time.Now()
}

type TestClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *TestClock) FastForward(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

func (c *TestClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Same as time.Now() but makes possible to control time from unit tests.
func Now() time.Time {
	mu.RLock()
	c := clockSingleton
	mu.RUnlock()
	return c.Now()
}

// FreezeAt stops the clock until Unfreeze is called. The returned clock can still be moved forward.
func FreezeAt(now time.Time) *TestClock {
	testClock := &TestClock{now: now}
	mu.Lock()
	clockSingleton = testClock
	mu.Unlock()
	return testClock
}

func Unfreeze() {
	mu.Lock()
	clockSingleton = DefaultClock{}
	mu.Unlock()
}
