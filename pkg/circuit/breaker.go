// Package circuit implements a circuit breaker for outbound calls. The
// crawler wraps DiningCode fetches with one so a block or outage stops
// hammering the site instead of burning the whole keyword run.
package circuit

import (
	"context"
	"errors"
	"sync"
	"time"

	"seoul-store-crawler/pkg/logging"
	"seoul-store-crawler/pkg/metrics"
)

// ErrOpen indicates the breaker is open and the call was short-circuited.
var ErrOpen = errors.New("circuit open")

type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

// Config tunes a breaker instance.
type Config struct {
	Name string

	OperationTimeout  time.Duration // per-call timeout, 0 = none
	OpenFor           time.Duration // how long to stay open before probing
	MaxConsecFailures int           // consecutive failures to open
	WindowSize        int           // sliding window of recent calls
	FailureRate       float64       // 0..1 fraction in window to open
}

// Breaker tracks recent call outcomes and fails fast while open.
type Breaker struct {
	cfg Config
	log *logging.ComponentLogger

	mu         sync.Mutex
	state      State
	nextProbe  time.Time
	consecFail int
	window     []bool // true = success
	idx        int
	used       int

	opens    *metrics.Counter
	failures *metrics.Counter
	latency  *metrics.Histogram
}

func New(cfg Config, log *logging.Logger) *Breaker {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = 20
	}
	if cfg.OpenFor <= 0 {
		cfg.OpenFor = 30 * time.Second
	}
	return &Breaker{
		cfg:    cfg,
		log:    log.WithComponent("circuit"),
		window: make([]bool, cfg.WindowSize),
		opens:  metrics.Default.Counter("circuit_"+cfg.Name+"_opens_total", "Times the breaker opened"),
		failures: metrics.Default.Counter("circuit_"+cfg.Name+"_failures_total",
			"Failed calls through the breaker"),
		latency: metrics.Default.Histogram("circuit_"+cfg.Name+"_call_seconds",
			"Latency of calls through the breaker", []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}),
	}
}

// Do runs op under the breaker. While open it returns ErrOpen without
// calling op; after OpenFor elapses a single probe is allowed through.
func (b *Breaker) Do(ctx context.Context, op func(ctx context.Context) error) error {
	b.mu.Lock()
	if b.state == Open {
		if time.Now().Before(b.nextProbe) {
			b.mu.Unlock()
			return ErrOpen
		}
		b.transition(HalfOpen)
	}
	b.mu.Unlock()

	if b.cfg.OperationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.OperationTimeout)
		defer cancel()
	}

	timer := b.latency.Start()
	err := op(ctx)
	timer.Observe()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.consecFail++
		b.failures.Inc()
		b.record(false)
		if b.state == HalfOpen || b.shouldOpen() {
			b.transition(Open)
			b.nextProbe = time.Now().Add(b.cfg.OpenFor)
		}
		return err
	}

	b.consecFail = 0
	b.record(true)
	if b.state == HalfOpen {
		b.transition(Closed)
	}
	return nil
}

// State returns the current breaker state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) record(success bool) {
	b.window[b.idx] = success
	b.idx = (b.idx + 1) % len(b.window)
	if b.used < len(b.window) {
		b.used++
	}
}

func (b *Breaker) shouldOpen() bool {
	if b.state != Closed {
		return false
	}
	if b.cfg.MaxConsecFailures > 0 && b.consecFail >= b.cfg.MaxConsecFailures {
		return true
	}
	if b.cfg.FailureRate > 0 && b.used > 0 {
		fail := 0
		for i := 0; i < b.used; i++ {
			if !b.window[i] {
				fail++
			}
		}
		if float64(fail)/float64(b.used) >= b.cfg.FailureRate {
			return true
		}
	}
	return false
}

func (b *Breaker) transition(next State) {
	if b.state == next {
		return
	}
	b.state = next
	if next == Open {
		b.opens.Inc()
	}
	b.log.Info("breaker state change",
		logging.String("name", b.cfg.Name),
		logging.Int("state", int(next)))
}
