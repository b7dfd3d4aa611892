package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// BreakerState is the current mode of a Breaker.
type BreakerState int

const (
	// BreakerClosed is the normal operating state. Calls flow through.
	BreakerClosed BreakerState = iota
	// BreakerOpen rejects calls immediately until the cooldown elapses.
	BreakerOpen
	// BreakerHalfOpen admits a single probe call to test recovery.
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrBreakerOpen is returned when a call is rejected without being attempted.
var ErrBreakerOpen = eris.New("provider circuit open")

// BreakerConfig controls when a Breaker opens and how it recovers.
type BreakerConfig struct {
	// Threshold is the number of consecutive trip-worthy failures before the
	// breaker opens. Default: 5.
	Threshold int

	// Cooldown is how long the breaker stays open before admitting a probe.
	// Default: 30s.
	Cooldown time.Duration

	// ShouldTrip decides which errors count toward the threshold. If nil,
	// only transient errors count: a provider rejecting one request with a
	// 4xx is not a provider outage.
	ShouldTrip func(err error) bool

	// OnStateChange is called on every state transition.
	OnStateChange func(from, to BreakerState)
}

// Breaker short-circuits calls to a provider that is hard down, so that a
// keyword fan-out against a dead catalog fails fast instead of burning a
// full retry cycle per keyword. One Breaker guards one provider.
type Breaker struct {
	cfg BreakerConfig

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
	probing  bool

	now func() time.Time
}

// NewBreaker creates a Breaker with defaults applied.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.ShouldTrip == nil {
		cfg.ShouldTrip = IsTransient
	}
	return &Breaker{
		cfg:   cfg,
		state: BreakerClosed,
		now:   time.Now,
	}
}

// Run executes fn unless the breaker is open, in which case it returns
// ErrBreakerOpen without calling fn. While half-open, only one probe call
// is admitted at a time.
func (b *Breaker) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	release, err := b.admit()
	if err != nil {
		return err
	}

	err = fn(ctx)
	release(err)
	return err
}

// RunVal is like Breaker.Run but preserves fn's return value.
func RunVal[T any](ctx context.Context, b *Breaker, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	release, err := b.admit()
	if err != nil {
		return zero, err
	}

	val, err := fn(ctx)
	release(err)
	return val, err
}

// State returns the effective state, accounting for an elapsed cooldown.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.cfg.Cooldown {
		return BreakerHalfOpen
	}
	return b.state
}

// Failures returns the consecutive failure count, for observability.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// Reset forces the breaker closed and clears its counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	old := b.state
	b.state = BreakerClosed
	b.failures = 0
	b.probing = false
	if old != BreakerClosed && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(old, BreakerClosed)
	}
}

// admit decides whether a call may proceed and returns the function used to
// record its outcome.
func (b *Breaker) admit() (func(error), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		return b.record, nil
	case BreakerOpen:
		if b.now().Sub(b.openedAt) < b.cfg.Cooldown {
			return nil, ErrBreakerOpen
		}
		b.transition(BreakerHalfOpen)
		b.probing = true
		return b.record, nil
	case BreakerHalfOpen:
		if b.probing {
			return nil, ErrBreakerOpen
		}
		b.probing = true
		return b.record, nil
	default:
		return b.record, nil
	}
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil || !b.cfg.ShouldTrip(err) {
		switch b.state {
		case BreakerHalfOpen:
			b.transition(BreakerClosed)
			b.probing = false
			b.failures = 0
		case BreakerClosed:
			b.failures = 0
		}
		return
	}

	b.failures++
	b.openedAt = b.now()

	switch b.state {
	case BreakerClosed:
		if b.failures >= b.cfg.Threshold {
			b.transition(BreakerOpen)
		}
	case BreakerHalfOpen:
		// Failed probe. Back to open for another cooldown.
		b.transition(BreakerOpen)
		b.probing = false
	}
}

func (b *Breaker) transition(to BreakerState) {
	from := b.state
	b.state = to
	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(from, to)
	}
}
