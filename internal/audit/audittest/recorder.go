// Package audittest provides in-memory audit doubles for tests.
package audittest

import (
	"context"
	"sync"

	"github.com/Payphone-Digital/referral/internal/audit"
)

// Row is a row captured by Recorder.AppendRow.
type Row struct {
	Sheet   string
	Columns []string
}

// Recorder captures emitted events and appended rows. Setting Err makes
// AppendRow fail.
type Recorder struct {
	mu     sync.Mutex
	events []audit.Event
	rows   []Row
	Err    error
}

func (r *Recorder) Emit(_ context.Context, e audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) AppendRow(_ context.Context, sheet string, columns []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	cp := make([]string, len(columns))
	copy(cp, columns)
	r.rows = append(r.rows, Row{Sheet: sheet, Columns: cp})
	return nil
}

func (r *Recorder) Events() []audit.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]audit.Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Rows() []Row {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Row, len(r.rows))
	copy(out, r.rows)
	return out
}

// Actions lists the action column of every emitted event, in order.
func (r *Recorder) Actions() []string {
	events := r.Events()
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Action
	}
	return out
}

// Admin records sheet administration calls.
type Admin struct {
	Recorder
	mu      sync.Mutex
	Ensured []string
	Headers map[string][]string
}

func (a *Admin) EnsureSheet(_ context.Context, title string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	a.Ensured = append(a.Ensured, title)
	return nil
}

func (a *Admin) WriteHeaders(_ context.Context, title string, headers []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Headers == nil {
		a.Headers = make(map[string][]string)
	}
	a.Headers[title] = headers
	return nil
}

var (
	_ audit.Emitter    = (*Recorder)(nil)
	_ audit.Sink       = (*Recorder)(nil)
	_ audit.SheetAdmin = (*Admin)(nil)
)
