package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Status represents health check status
type Status int

const (
	StatusUnknown Status = iota
	StatusHealthy
	StatusUnhealthy
	StatusDegraded
	StatusDisabled
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusUnhealthy:
		return "unhealthy"
	case StatusDegraded:
		return "degraded"
	case StatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// CheckResult is the latest outcome for one dependency.
type CheckResult struct {
	Name         string
	Status       Status
	Latency      time.Duration
	LastCheck    time.Time
	LastError    error
	Details      map[string]any
	CheckCount   int
	FailureCount int
}

// Checker probes a single dependency. A returned error marks it unhealthy;
// details are reported alongside either way.
type Checker interface {
	Check(ctx context.Context) (map[string]any, error)
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) (map[string]any, error)

func (f CheckerFunc) Check(ctx context.Context) (map[string]any, error) { return f(ctx) }

type registration struct {
	checker  Checker
	required bool
}

// Monitor runs registered checks on demand and, once started, on an
// interval so failures show up in the logs without anyone polling.
type Monitor struct {
	mu       sync.RWMutex
	checkers map[string]registration
	results  map[string]*CheckResult
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewMonitor creates a new health monitor
func NewMonitor(interval, timeout time.Duration, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Monitor{
		checkers: make(map[string]registration),
		results:  make(map[string]*CheckResult),
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Register adds a checker. A failing required checker makes the whole
// service unhealthy; any other failure only degrades it.
func (m *Monitor) Register(name string, checker Checker, required bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkers[name] = registration{checker: checker, required: required}
	m.logger.Info("Registered health checker",
		zap.String("name", name),
		zap.Bool("required", required),
	)
}

// Disable reports name as disabled without checking anything.
func (m *Monitor) Disable(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.checkers, name)
	m.results[name] = &CheckResult{Name: name, Status: StatusDisabled}
}

// Start begins periodic checks. It is a no-op when already running or when
// the interval is not positive.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil || m.interval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.run(ctx)
}

// Stop ends periodic checks and waits for the loop to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckAll(ctx)
		}
	}
}

// CheckAll probes every registered dependency in parallel and returns a
// snapshot of all results, disabled ones included.
func (m *Monitor) CheckAll(ctx context.Context) map[string]CheckResult {
	m.mu.RLock()
	checkers := make(map[string]registration, len(m.checkers))
	for name, reg := range m.checkers {
		checkers[name] = reg
	}
	m.mu.RUnlock()

	g, gctx := errgroup.WithContext(ctx)
	for name, reg := range checkers {
		g.Go(func() error {
			m.record(name, m.probe(gctx, name, reg.checker))
			return nil
		})
	}
	_ = g.Wait()

	return m.Results()
}

func (m *Monitor) probe(ctx context.Context, name string, checker Checker) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()
	details, err := checker.Check(ctx)
	result := CheckResult{
		Name:      name,
		Status:    StatusHealthy,
		Latency:   time.Since(start),
		LastCheck: start,
		Details:   details,
	}
	if err != nil {
		result.Status = StatusUnhealthy
		result.LastError = err
		m.logger.Warn("Health check failed",
			zap.String("name", name),
			zap.Duration("latency", result.Latency),
			zap.Error(err),
		)
	}
	return result
}

func (m *Monitor) record(name string, result CheckResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.results[name]; ok {
		result.CheckCount = existing.CheckCount + 1
		result.FailureCount = existing.FailureCount
	} else {
		result.CheckCount = 1
	}
	if result.Status == StatusUnhealthy {
		result.FailureCount++
	}
	m.results[name] = &result
}

// Results returns the latest result for every dependency.
func (m *Monitor) Results() map[string]CheckResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make(map[string]CheckResult, len(m.results))
	for name, result := range m.results {
		results[name] = *result
	}
	return results
}

// Overall folds results into one status using each checker's required flag.
func (m *Monitor) Overall(results map[string]CheckResult) Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	overall := StatusHealthy
	for name, result := range results {
		switch result.Status {
		case StatusUnhealthy:
			if m.checkers[name].required {
				return StatusUnhealthy
			}
			overall = StatusDegraded
		case StatusDegraded:
			overall = StatusDegraded
		}
	}
	return overall
}
