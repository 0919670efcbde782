package audit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Payphone-Digital/referral/internal/constants"
	apperrors "github.com/Payphone-Digital/referral/internal/errors"
	"github.com/Payphone-Digital/referral/pkg/circuit"
	ctxutil "github.com/Payphone-Digital/referral/pkg/context"
	"github.com/Payphone-Digital/referral/pkg/logger"
	"go.uber.org/zap"
)

var ErrDispatcherClosed = errors.New("audit dispatcher is closed")

type DispatcherConfig struct {
	QueueSize int
	Workers   int
	Timeout   time.Duration
	Breaker   circuit.Config
}

// Stats counts what happened to emitted events.
type Stats struct {
	Queued    int64            `json:"queued"`
	Delivered int64            `json:"delivered"`
	Failed    int64            `json:"failed"`
	Dropped   int64            `json:"dropped"`
	Breaker   circuit.Snapshot `json:"breaker"`
}

type job struct {
	ctx   context.Context
	event Event
}

// Dispatcher is an Emitter backed by a bounded queue and a fixed worker
// pool. Emit never blocks: a full queue or open breaker drops the event.
type Dispatcher struct {
	sink    Sink
	timeout time.Duration
	workers int
	breaker *circuit.Breaker
	queue   chan job
	wg      sync.WaitGroup

	mu      sync.RWMutex
	closed  bool
	started bool

	queued, delivered, failed, dropped atomic.Int64
}

func NewDispatcher(sink Sink, cfg DispatcherConfig, log *zap.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Breaker == (circuit.Config{}) {
		cfg.Breaker = circuit.DefaultConfig()
	}
	return &Dispatcher{
		sink:    sink,
		timeout: cfg.Timeout,
		workers: cfg.Workers,
		breaker: circuit.NewBreaker("audit-sink", cfg.Breaker, log),
		queue:   make(chan job, cfg.QueueSize),
	}
}

// Start launches the workers. It is safe to call more than once.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
}

func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(ctx, event, ErrDispatcherClosed)
		return
	}

	select {
	case d.queue <- job{ctx: ctxutil.Detach(ctx), event: event}:
		d.queued.Add(1)
	default:
		d.drop(ctx, event, errors.New("audit queue full"))
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for j := range d.queue {
		d.deliver(j)
	}
}

func (d *Dispatcher) deliver(j job) {
	ctx, cancel := context.WithTimeout(j.ctx, d.timeout)
	defer cancel()

	start := time.Now()
	err := d.breaker.Execute(ctx, func(ctx context.Context) error {
		return d.sink.AppendRow(ctx, constants.SheetUsers, j.event.Row())
	})
	if err != nil {
		d.failed.Add(1)
		logger.WarnWithContext(ctx, "Audit delivery failed").
			String("code", apperrors.CodeExternalSinkFailure).
			String("action", j.event.Action).
			Phone(j.event.Phone).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return
	}
	d.delivered.Add(1)
}

func (d *Dispatcher) drop(ctx context.Context, event Event, reason error) {
	d.dropped.Add(1)
	logger.WarnWithContext(ctx, "Audit event dropped").
		String("code", apperrors.CodeExternalSinkFailure).
		String("action", event.Action).
		Phone(event.Phone).
		Err(reason).
		Log()
}

// Close stops accepting events and waits for queued ones to be delivered,
// or for ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	if !d.started {
		// Nothing will drain the queue; deliver inline.
		d.started = true
		d.wg.Add(1)
		go d.run()
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) Stats() Stats {
	return Stats{
		Queued:    d.queued.Load(),
		Delivered: d.delivered.Load(),
		Failed:    d.failed.Load(),
		Dropped:   d.dropped.Load(),
		Breaker:   d.breaker.Snapshot(),
	}
}
