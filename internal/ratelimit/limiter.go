// Package ratelimit throttles abuse-prone endpoints per client key.
package ratelimit

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

// Metrics counts rejected requests per limiter scope.
type Metrics struct {
	rejected *prometheus.CounterVec
}

// NewMetrics registers the rejection counter on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		rejected: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ratelimit_rejections_total",
				Help: "Total requests rejected by a rate limiter",
			},
			[]string{"scope"},
		),
	}
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per key. Buckets idle for longer than the
// idle TTL are dropped by the janitor.
type Limiter struct {
	scope   string
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	metrics *Metrics
	now     func() time.Time

	mu      sync.Mutex
	clients map[string]*client

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// PerMinute builds a limiter that admits n requests per minute per key,
// all of which may arrive at once.
func PerMinute(scope string, n int, metrics *Metrics) *Limiter {
	if n < 1 {
		n = 1
	}
	return &Limiter{
		scope:   scope,
		limit:   rate.Every(time.Minute / time.Duration(n)),
		burst:   n,
		idleTTL: 2 * time.Minute,
		metrics: metrics,
		now:     time.Now,
		clients: make(map[string]*client),
	}
}

// Scope names the limiter in metrics and logs.
func (l *Limiter) Scope() string { return l.scope }

// Allow consumes one token for key.
func (l *Limiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	allowed := c.limiter.AllowN(now, 1)
	l.mu.Unlock()

	if !allowed && l.metrics != nil {
		l.metrics.rejected.WithLabelValues(l.scope).Inc()
	}
	return allowed
}

// RetryAfter is the whole number of seconds until key regains a token.
func (l *Limiter) RetryAfter(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.clients[key]
	if !ok {
		return 0
	}
	r := c.limiter.ReserveN(l.now(), 1)
	d := r.DelayFrom(l.now())
	r.CancelAt(l.now())
	secs := int(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return secs
}

func (l *Limiter) sweep() {
	cutoff := l.now().Add(-l.idleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, k)
		}
	}
}

func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// StartJanitor sweeps idle buckets every interval until Stop is called.
func (l *Limiter) StartJanitor(interval time.Duration) {
	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	go func() {
		defer close(l.done)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				l.sweep()
			case <-l.stop:
				return
			}
		}
	}()
}

// Stop ends the janitor and waits for it to exit.
func (l *Limiter) Stop() {
	if l.stop == nil {
		return
	}
	l.stopOnce.Do(func() {
		close(l.stop)
		<-l.done
	})
}
