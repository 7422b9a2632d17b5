package ratelimit

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestLimiter_PerKeyBudget(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	l := PerMinute("signup", 5, m)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	allowed := 0
	for i := 0; i < 8; i++ {
		if l.Allow("10.0.0.1") {
			allowed++
		}
	}
	assert.Equal(t, 5, allowed)
	assert.True(t, l.Allow("10.0.0.2"), "other clients keep their own budget")
	assert.Equal(t, 3.0, testutil.ToFloat64(m.rejected.WithLabelValues("signup")))
	assert.InDelta(t, 12, l.RetryAfter("10.0.0.1"), 1)
	assert.Equal(t, 0, l.RetryAfter("unknown"))

	now = now.Add(13 * time.Second)
	assert.True(t, l.Allow("10.0.0.1"), "one token refills every 12s")
	assert.False(t, l.Allow("10.0.0.1"))
}

func TestLimiter_Sweep(t *testing.T) {
	l := PerMinute("login", 5, nil)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(time.Minute)
	l.Allow("b")
	now = now.Add(90 * time.Second)
	l.sweep()

	assert.Equal(t, 1, l.size())
}

func TestLimiter_JanitorStops(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	l := PerMinute("resend", 3, nil)
	l.StartJanitor(time.Millisecond)
	l.Allow("a")
	time.Sleep(5 * time.Millisecond)
	l.Stop()
	l.Stop()
}

func TestLimiter_ZeroBudgetClamps(t *testing.T) {
	l := PerMinute("x", 0, nil)
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.Equal(t, "x", l.Scope())
}
