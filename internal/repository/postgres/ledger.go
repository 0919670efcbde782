package postgres

import (
	"context"
	"time"

	"github.com/Payphone-Digital/referral/internal/model"
	"github.com/Payphone-Digital/referral/internal/repository"
	ctxutil "github.com/Payphone-Digital/referral/pkg/context"
	"github.com/Payphone-Digital/referral/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) GetOrCreate(ctx context.Context, phone string, now time.Time) (*model.CommissionRecord, error) {
	rec := model.NewCommissionRecord(phone, now)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "phone"}}, DoNothing: true}).
		Create(rec).Error
	if err != nil {
		return nil, translate(err)
	}
	return r.Get(ctx, phone)
}

func (r *ledgerRepository) Get(ctx context.Context, phone string) (*model.CommissionRecord, error) {
	var rec model.CommissionRecord
	if err := r.db.WithContext(ctx).First(&rec, "phone = ?", phone).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// IncrementReferrals runs a single UPDATE ... RETURNING so concurrent calls
// never lose an increment.
func (r *ledgerRepository) IncrementReferrals(ctx context.Context, phone string, now time.Time) (*model.CommissionRecord, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "IncrementReferrals")

	var rec model.CommissionRecord
	result := r.db.WithContext(ctx).
		Model(&rec).
		Clauses(clause.Returning{}).
		Where("phone = ?", phone).
		Updates(map[string]any{
			"referrals":    gorm.Expr("referrals + ?", 1),
			"last_updated": now,
		})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to increment referrals").
			Phone(phone).
			Err(result.Error).
			Log()
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}
