package memory

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Payphone-Digital/referral/internal/model"
	"github.com/Payphone-Digital/referral/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	user := &model.User{ID: "u-1", Phone: "9876543210", Name: "Asha", IsActive: true, RegisteredAt: time.Now()}
	require.NoError(t, repo.Create(ctx, user))

	byPhone, err := repo.GetByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "u-1", byPhone.ID)

	byID, err := repo.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", byID.Name)

	_, err = repo.GetByPhone(ctx, "0000000000")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	require.NoError(t, repo.Create(ctx, &model.User{ID: "u-1", Phone: "9876543210", Name: "Asha"}))

	got, err := repo.GetByID(ctx, "u-1")
	require.NoError(t, err)
	got.Name = "changed"

	again, err := repo.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", again.Name)
}

func TestUserRepository_ConcurrentDuplicatePhone(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	var created, duplicates atomic.Int32
	var g errgroup.Group
	for i := 0; i < 20; i++ {
		i := i
		g.Go(func() error {
			err := repo.Create(ctx, &model.User{ID: fmt.Sprintf("u-%d", i), Phone: "9876543210"})
			switch err {
			case nil:
				created.Add(1)
			case repository.ErrDuplicate:
				duplicates.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, int32(19), duplicates.Load())
}

func TestUserRepository_UpdateLastLogin(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	require.NoError(t, repo.Create(ctx, &model.User{ID: "u-1", Phone: "9876543210"}))

	at := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, "u-1", at))

	got, err := repo.GetByID(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, got.LastLoginAt.Equal(at))

	assert.ErrorIs(t, repo.UpdateLastLogin(ctx, "missing", at), repository.ErrNotFound)
}

func TestLedgerRepository_GetOrCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewLedgerRepository()
	now := time.Now()

	first, err := repo.GetOrCreate(ctx, "9876543210", now)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Referrals)
	assert.True(t, first.TotalEarnings.IsZero())

	_, err = repo.IncrementReferrals(ctx, "9876543210", now)
	require.NoError(t, err)

	second, err := repo.GetOrCreate(ctx, "9876543210", now)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Referrals, "GetOrCreate must not reset an existing record")
}

func TestLedgerRepository_IncrementUnknownPhone(t *testing.T) {
	repo := NewLedgerRepository()
	_, err := repo.IncrementReferrals(context.Background(), "9876543210", time.Now())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.Get(context.Background(), "9876543210")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLedgerRepository_ConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	repo := NewLedgerRepository()
	_, err := repo.GetOrCreate(ctx, "9876543210", time.Now())
	require.NoError(t, err)

	const n = 200
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := repo.IncrementReferrals(ctx, "9876543210", time.Now())
			return err
		})
	}
	require.NoError(t, g.Wait())

	rec, err := repo.Get(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, n, rec.Referrals)
}

func TestPartnerRepository_ListOrdered(t *testing.T) {
	ctx := context.Background()
	repo := NewPartnerRepository(
		model.Partner{ID: "icici-lombard", SortOrder: 2},
		model.Partner{ID: "acko-motor", SortOrder: 1},
	)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "acko-motor", list[0].ID)

	require.NoError(t, repo.Upsert(ctx, &model.Partner{ID: "acko-motor", Name: "Acko", SortOrder: 1}))
	p, err := repo.GetByID(ctx, "acko-motor")
	require.NoError(t, err)
	assert.Equal(t, "Acko", p.Name)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRepositories_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repos := NewRepositories(nil)
	assert.Error(t, repos.User.Create(ctx, &model.User{ID: "u", Phone: "9876543210"}))
	_, err := repos.Ledger.GetOrCreate(ctx, "9876543210", time.Now())
	assert.Error(t, err)
	assert.Error(t, repos.Submission.Create(ctx, &model.Submission{ID: "s"}))
}
