package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Payphone-Digital/referral/internal/model"
	"github.com/Payphone-Digital/referral/internal/repository"
)

type partnerRepository struct {
	mu       sync.RWMutex
	partners map[string]model.Partner
}

func NewPartnerRepository(seed ...model.Partner) repository.PartnerRepository {
	r := &partnerRepository{partners: make(map[string]model.Partner, len(seed))}
	for _, p := range seed {
		r.partners[p.ID] = p
	}
	return r
}

func (r *partnerRepository) List(ctx context.Context) ([]model.Partner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]model.Partner, 0, len(r.partners))
	for _, p := range r.partners {
		out = append(out, p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *partnerRepository) GetByID(ctx context.Context, id string) (*model.Partner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.partners[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *partnerRepository) Upsert(ctx context.Context, partner *model.Partner) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	r.partners[partner.ID] = *partner
	r.mu.Unlock()
	return nil
}
