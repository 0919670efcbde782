package circuit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
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

func newTestBreaker(config Config) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := NewBreaker("sheets", config, zap.NewNop())
	b.now = clock.Now
	return b, clock
}

func TestNewBreaker(t *testing.T) {
	breaker := NewBreaker("test", DefaultConfig(), nil)

	if breaker.State() != StateClosed {
		t.Errorf("Expected initial state CLOSED, got %s", breaker.State())
	}
	if breaker.IsOpen() {
		t.Error("Expected breaker to not be open initially")
	}
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	breaker, _ := newTestBreaker(Config{Threshold: 3, Cooldown: time.Second, SuccessThreshold: 1, MaxHalfOpen: 1})

	for i := 0; i < 3; i++ {
		breaker.Record(errors.New("append failed"))
	}

	if breaker.State() != StateOpen {
		t.Fatalf("Expected state OPEN, got %s", breaker.State())
	}
	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	breaker, _ := newTestBreaker(Config{Threshold: 2, Cooldown: time.Second})

	breaker.Record(errors.New("one"))
	breaker.Record(nil)
	breaker.Record(errors.New("two"))

	if breaker.State() != StateClosed {
		t.Errorf("non-consecutive failures should not open the breaker, got %s", breaker.State())
	}
}

func TestBreaker_HalfOpenAfterCooldown(t *testing.T) {
	breaker, clock := newTestBreaker(Config{Threshold: 1, Cooldown: time.Minute, SuccessThreshold: 2, MaxHalfOpen: 1})

	breaker.Record(errors.New("down"))
	clock.Advance(59 * time.Second)
	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("Expected still open before cooldown, got %v", err)
	}

	clock.Advance(time.Second)
	if err := breaker.Allow(); err != nil {
		t.Fatalf("Expected trial call after cooldown, got %v", err)
	}
	if breaker.State() != StateHalfOpen {
		t.Errorf("Expected HALF_OPEN, got %s", breaker.State())
	}
	if err := breaker.Allow(); !errors.Is(err, ErrTooManyRequests) {
		t.Errorf("Expected second concurrent trial to be rejected, got %v", err)
	}
}

func TestBreaker_ClosesAfterTrialSuccesses(t *testing.T) {
	breaker, clock := newTestBreaker(Config{Threshold: 1, Cooldown: time.Second, SuccessThreshold: 2, MaxHalfOpen: 1})

	breaker.Record(errors.New("down"))
	clock.Advance(time.Second)

	for i := 0; i < 2; i++ {
		if err := breaker.Allow(); err != nil {
			t.Fatalf("trial %d rejected: %v", i, err)
		}
		breaker.Record(nil)
	}

	if breaker.State() != StateClosed {
		t.Errorf("Expected CLOSED after trial successes, got %s", breaker.State())
	}
}

func TestBreaker_TrialFailureReopens(t *testing.T) {
	breaker, clock := newTestBreaker(Config{Threshold: 1, Cooldown: time.Second, SuccessThreshold: 1, MaxHalfOpen: 1})

	breaker.Record(errors.New("down"))
	clock.Advance(time.Second)
	_ = breaker.Allow()
	breaker.Record(errors.New("still down"))

	if breaker.State() != StateOpen {
		t.Errorf("Expected OPEN after failed trial, got %s", breaker.State())
	}
}

func TestBreaker_Execute(t *testing.T) {
	breaker := NewBreaker("test", DefaultConfig(), nil)
	ctx := context.Background()

	if err := breaker.Execute(ctx, func(context.Context) error { return nil }); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	testErr := errors.New("test failure")
	if err := breaker.Execute(ctx, func(context.Context) error { return testErr }); err != testErr {
		t.Errorf("Expected test error, got %v", err)
	}
	if got := breaker.Snapshot().Failures; got != 1 {
		t.Errorf("Expected 1 failure recorded, got %d", got)
	}
}

func TestBreaker_ExecuteIgnoresCallerCancellation(t *testing.T) {
	breaker := NewBreaker("test", Config{Threshold: 1, Cooldown: time.Hour}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := breaker.Execute(ctx, func(ctx context.Context) error { return ctx.Err() })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if breaker.State() != StateClosed {
		t.Errorf("caller cancellation should not open the breaker, got %s", breaker.State())
	}
}

func TestBreaker_Reset(t *testing.T) {
	breaker := NewBreaker("test", Config{Threshold: 1, Cooldown: time.Hour}, nil)

	breaker.Record(errors.New("error"))
	if breaker.State() != StateOpen {
		t.Fatal("Expected state OPEN")
	}

	breaker.Reset()

	if breaker.State() != StateClosed {
		t.Errorf("Expected state CLOSED after reset, got %s", breaker.State())
	}
	if breaker.Snapshot().Failures != 0 {
		t.Error("Expected failures cleared after reset")
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateClosed, "CLOSED"},
		{StateOpen, "OPEN"},
		{StateHalfOpen, "HALF_OPEN"},
		{State(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.expected)
		}
	}
}

func TestBreaker_ExecuteCountsDeadline(t *testing.T) {
	breaker := NewBreaker("test", Config{Threshold: 1, Cooldown: time.Hour}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	err := breaker.Execute(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline exceeded, got %v", err)
	}
	if breaker.State() != StateOpen {
		t.Errorf("a slow backend should count as a failure, got %s", breaker.State())
	}
}
