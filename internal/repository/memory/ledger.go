package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Payphone-Digital/referral/internal/model"
	"github.com/Payphone-Digital/referral/internal/repository"
)

// ledgerEntry pairs a record with the lock that serializes its mutations.
type ledgerEntry struct {
	mu     sync.Mutex
	record model.CommissionRecord
}

type ledgerRepository struct {
	mu      sync.RWMutex
	entries map[string]*ledgerEntry
}

func NewLedgerRepository() repository.LedgerRepository {
	return &ledgerRepository{entries: make(map[string]*ledgerEntry)}
}

func (r *ledgerRepository) entry(phone string) (*ledgerEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[phone]
	return e, ok
}

func (r *ledgerRepository) GetOrCreate(ctx context.Context, phone string, now time.Time) (*model.CommissionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if e, ok := r.entry(phone); ok {
		return e.snapshot(), nil
	}

	r.mu.Lock()
	e, ok := r.entries[phone]
	if !ok {
		e = &ledgerEntry{record: *model.NewCommissionRecord(phone, now)}
		r.entries[phone] = e
	}
	r.mu.Unlock()

	return e.snapshot(), nil
}

func (r *ledgerRepository) Get(ctx context.Context, phone string) (*model.CommissionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e, ok := r.entry(phone)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return e.snapshot(), nil
}

func (r *ledgerRepository) IncrementReferrals(ctx context.Context, phone string, now time.Time) (*model.CommissionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e, ok := r.entry(phone)
	if !ok {
		return nil, repository.ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.record.Referrals++
	e.record.LastUpdated = now
	rec := e.record
	return &rec, nil
}

func (e *ledgerEntry) snapshot() *model.CommissionRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec := e.record
	return &rec
}
