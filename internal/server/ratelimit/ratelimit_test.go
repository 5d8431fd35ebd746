package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = clock.Now
	t.Cleanup(l.Stop)
	return l, clock
}

func TestLimiter_DefaultLimit(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", "/test", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, 6*time.Second, info.RetryAfter)
}

func TestLimiter_Refill(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		l.Allow("127.0.0.1", "/test", "GET")
	}
	allowed, _ := l.Allow("127.0.0.1", "/test", "GET")
	require.False(t, allowed)

	clock.Advance(6 * time.Second)
	allowed, _ = l.Allow("127.0.0.1", "/test", "GET")
	assert.True(t, allowed)

	allowed, _ = l.Allow("127.0.0.1", "/test", "GET")
	assert.False(t, allowed)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	allowed, _ := l.Allow("10.0.0.1", "/kb/search", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("10.0.0.1", "/kb/search", "GET")
	assert.False(t, allowed)

	allowed, _ = l.Allow("10.0.0.2", "/kb/search", "GET")
	assert.True(t, allowed)
}

func TestLimiter_ExpensiveEndpointTier(t *testing.T) {
	l, clock := newTestLimiter(t, NewConfig(true, 20, time.Minute, nil, nil))

	allowed, info := l.Allow("127.0.0.1", "/analyze", "POST")
	require.True(t, allowed)
	assert.Equal(t, 5, info.Limit)

	allowed, info = l.Allow("127.0.0.1", "/analyze", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 12*time.Second, info.RetryAfter)

	// other routes keep the global budget
	allowed, info = l.Allow("127.0.0.1", "/skills/match", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 20, info.Limit)

	clock.Advance(12 * time.Second)
	allowed, _ = l.Allow("127.0.0.1", "/analyze", "POST")
	assert.True(t, allowed)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l, _ := newTestLimiter(t, NewConfig(true, 1, time.Minute, nil, nil))
	for i := 0; i < 50; i++ {
		allowed, _ := l.Allow("127.0.0.1", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	l, _ := newTestLimiter(t, NewConfig(true, 1, time.Minute, []string{"127.0.0.1"}, []string{" 192.168.1.1 "}))

	for i := 0; i < 20; i++ {
		allowed, info := l.Allow("127.0.0.1", "/analyze", "POST")
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}

	allowed, _ := l.Allow("192.168.1.1", "/health", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: false})
	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("127.0.0.1", "/analyze", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})

	var wg sync.WaitGroup
	var allowedCount atomic.Int64
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("127.0.0.1", "/test", "GET"); ok {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), allowedCount.Load())
}

func TestLimiter_Sweep(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute, IdleTTL: time.Hour})

	for i := 0; i < 10; i++ {
		l.Allow(fmt.Sprintf("10.0.0.%d", i), "/test", "GET")
	}
	require.Equal(t, 10, l.Len())

	clock.Advance(30 * time.Minute)
	for i := 0; i < 5; i++ {
		l.Allow(fmt.Sprintf("10.0.0.%d", i), "/test", "GET")
	}

	clock.Advance(31 * time.Minute)
	l.Sweep()
	assert.Equal(t, 5, l.Len())
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l, _ := newTestLimiter(t, nil)

	allowed, info := l.Allow("127.0.0.1", "/test", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 60, info.Limit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/analyses/", Method: "GET", Limit: 7, Window: time.Minute},
		{Path: "/analyze", Method: "POST", Limit: 3, Window: time.Minute},
	}

	assert.Equal(t, 3, MatchEndpoint("/analyze", "POST", configs).Limit)
	assert.Equal(t, 7, MatchEndpoint("/analyses/123", "GET", configs).Limit)
	assert.Nil(t, MatchEndpoint("/analyze", "GET", configs))
	assert.Zero(t, MatchEndpoint("/health", "GET", configs).Limit)
}
