package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func failTransient(_ context.Context) error {
	return NewTransientError(errors.New("provider down"), 503)
}

func succeed(_ context.Context) error { return nil }

func TestBreaker_StaysClosedUnderThreshold(t *testing.T) {
	b := NewBreaker(BreakerConfig{Threshold: 3, Cooldown: time.Minute})

	for i := 0; i < 2; i++ {
		_ = b.Run(context.Background(), failTransient)
	}
	if got := b.State(); got != BreakerClosed {
		t.Errorf("expected closed after 2 failures, got %s", got)
	}
}

func TestBreaker_OpensAtThreshold(t *testing.T) {
	b := NewBreaker(BreakerConfig{Threshold: 3, Cooldown: time.Minute})

	for i := 0; i < 3; i++ {
		_ = b.Run(context.Background(), failTransient)
	}
	if got := b.State(); got != BreakerOpen {
		t.Errorf("expected open after 3 failures, got %s", got)
	}

	var called bool
	err := b.Run(context.Background(), func(_ context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrBreakerOpen) {
		t.Errorf("expected ErrBreakerOpen, got %v", err)
	}
	if called {
		t.Error("open breaker must not invoke the call")
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := NewBreaker(BreakerConfig{Threshold: 3, Cooldown: time.Minute})

	_ = b.Run(context.Background(), failTransient)
	_ = b.Run(context.Background(), failTransient)
	_ = b.Run(context.Background(), succeed)
	_ = b.Run(context.Background(), failTransient)
	_ = b.Run(context.Background(), failTransient)

	if got := b.State(); got != BreakerClosed {
		t.Errorf("expected closed (success reset the streak), got %s", got)
	}
	if got := b.Failures(); got != 2 {
		t.Errorf("expected 2 consecutive failures, got %d", got)
	}
}

func TestBreaker_PermanentErrorsDoNotTrip(t *testing.T) {
	b := NewBreaker(BreakerConfig{Threshold: 2, Cooldown: time.Minute})

	// A provider rejecting individual requests is not a provider outage.
	for i := 0; i < 5; i++ {
		_ = b.Run(context.Background(), func(_ context.Context) error {
			return HTTPError(404, "podcast not found", nil)
		})
	}
	if got := b.State(); got != BreakerClosed {
		t.Errorf("expected closed for permanent errors, got %s", got)
	}
}

func TestBreaker_HalfOpenAfterCooldown(t *testing.T) {
	b := NewBreaker(BreakerConfig{Threshold: 1, Cooldown: time.Minute})
	now := time.Now()
	b.now = func() time.Time { return now }

	_ = b.Run(context.Background(), failTransient)
	if got := b.State(); got != BreakerOpen {
		t.Fatalf("expected open, got %s", got)
	}

	now = now.Add(2 * time.Minute)
	if got := b.State(); got != BreakerHalfOpen {
		t.Errorf("expected half-open after cooldown, got %s", got)
	}
}

func TestBreaker_ProbeSuccessCloses(t *testing.T) {
	b := NewBreaker(BreakerConfig{Threshold: 1, Cooldown: time.Minute})
	now := time.Now()
	b.now = func() time.Time { return now }

	_ = b.Run(context.Background(), failTransient)
	now = now.Add(2 * time.Minute)

	if err := b.Run(context.Background(), succeed); err != nil {
		t.Fatalf("probe should have been admitted: %v", err)
	}
	if got := b.State(); got != BreakerClosed {
		t.Errorf("expected closed after successful probe, got %s", got)
	}
	if got := b.Failures(); got != 0 {
		t.Errorf("expected failure count reset, got %d", got)
	}
}

func TestBreaker_ProbeFailureReopens(t *testing.T) {
	b := NewBreaker(BreakerConfig{Threshold: 1, Cooldown: time.Minute})
	now := time.Now()
	b.now = func() time.Time { return now }

	_ = b.Run(context.Background(), failTransient)
	now = now.Add(2 * time.Minute)

	_ = b.Run(context.Background(), failTransient)
	if got := b.State(); got != BreakerOpen {
		t.Errorf("expected reopened after failed probe, got %s", got)
	}

	// Still rejecting before the next cooldown elapses.
	if err := b.Run(context.Background(), succeed); !errors.Is(err, ErrBreakerOpen) {
		t.Errorf("expected ErrBreakerOpen during second cooldown, got %v", err)
	}
}

func TestBreaker_SingleProbeAtATime(t *testing.T) {
	b := NewBreaker(BreakerConfig{Threshold: 1, Cooldown: time.Minute})
	now := time.Now()
	b.now = func() time.Time { return now }

	_ = b.Run(context.Background(), failTransient)
	now = now.Add(2 * time.Minute)

	release, err := b.admit()
	if err != nil {
		t.Fatalf("first probe should be admitted: %v", err)
	}

	// While the probe is in flight, other calls are rejected.
	if _, err := b.admit(); !errors.Is(err, ErrBreakerOpen) {
		t.Errorf("expected second probe rejected, got %v", err)
	}

	release(nil)
	if got := b.State(); got != BreakerClosed {
		t.Errorf("expected closed after probe completed, got %s", got)
	}
}

func TestBreaker_StateChangeCallback(t *testing.T) {
	var transitions []string
	b := NewBreaker(BreakerConfig{
		Threshold: 1,
		Cooldown:  time.Minute,
		OnStateChange: func(from, to BreakerState) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})
	now := time.Now()
	b.now = func() time.Time { return now }

	_ = b.Run(context.Background(), failTransient)
	now = now.Add(2 * time.Minute)
	_ = b.Run(context.Background(), succeed)

	want := []string{"closed->open", "open->half-open", "half-open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("expected %d transitions, got %v", len(want), transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition %d: expected %s, got %s", i, want[i], transitions[i])
		}
	}
}

func TestBreaker_Reset(t *testing.T) {
	b := NewBreaker(BreakerConfig{Threshold: 1, Cooldown: time.Hour})

	_ = b.Run(context.Background(), failTransient)
	if got := b.State(); got != BreakerOpen {
		t.Fatalf("expected open, got %s", got)
	}

	b.Reset()
	if got := b.State(); got != BreakerClosed {
		t.Errorf("expected closed after reset, got %s", got)
	}
	if err := b.Run(context.Background(), succeed); err != nil {
		t.Errorf("expected call admitted after reset, got %v", err)
	}
}

func TestRunVal_PreservesValue(t *testing.T) {
	b := NewBreaker(BreakerConfig{})

	val, err := RunVal(context.Background(), b, func(_ context.Context) (int, error) {
		return 17, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != 17 {
		t.Errorf("expected 17, got %d", val)
	}
}

func TestRunVal_RejectedWhenOpen(t *testing.T) {
	b := NewBreaker(BreakerConfig{Threshold: 1, Cooldown: time.Hour})
	_ = b.Run(context.Background(), failTransient)

	val, err := RunVal(context.Background(), b, func(_ context.Context) (string, error) {
		return "should not run", nil
	})
	if !errors.Is(err, ErrBreakerOpen) {
		t.Errorf("expected ErrBreakerOpen, got %v", err)
	}
	if val != "" {
		t.Errorf("expected zero value, got %q", val)
	}
}
