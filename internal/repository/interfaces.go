package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Payphone-Digital/referral/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

type UserRepository interface {
	// Create inserts user, returning ErrDuplicate if the phone is taken.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

type LedgerRepository interface {
	// GetOrCreate returns the record for phone, inserting a zeroed one if absent.
	GetOrCreate(ctx context.Context, phone string, now time.Time) (*model.CommissionRecord, error)
	Get(ctx context.Context, phone string) (*model.CommissionRecord, error)
	// IncrementReferrals adds one referral atomically and returns the new state.
	IncrementReferrals(ctx context.Context, phone string, now time.Time) (*model.CommissionRecord, error)
}

type PartnerRepository interface {
	List(ctx context.Context) ([]model.Partner, error)
	GetByID(ctx context.Context, id string) (*model.Partner, error)
	Upsert(ctx context.Context, partner *model.Partner) error
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.Submission) error
}

type Repositories struct {
	User       UserRepository
	Ledger     LedgerRepository
	Partner    PartnerRepository
	Submission SubmissionRepository
}
