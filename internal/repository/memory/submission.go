package memory

import (
	"context"
	"sync"

	"github.com/Payphone-Digital/referral/internal/model"
	"github.com/Payphone-Digital/referral/internal/repository"
)

type SubmissionRepository struct {
	mu    sync.Mutex
	items []model.Submission
}

func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{}
}

var _ repository.SubmissionRepository = (*SubmissionRepository)(nil)

func (r *SubmissionRepository) Create(ctx context.Context, submission *model.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	r.items = append(r.items, *submission)
	r.mu.Unlock()
	return nil
}

// All returns a copy of every stored submission in insertion order.
func (r *SubmissionRepository) All() []model.Submission {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Submission, len(r.items))
	copy(out, r.items)
	return out
}
