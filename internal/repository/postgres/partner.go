package postgres

import (
	"context"

	"github.com/Payphone-Digital/referral/internal/model"
	"github.com/Payphone-Digital/referral/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type partnerRepository struct {
	db *gorm.DB
}

func NewPartnerRepository(db *gorm.DB) repository.PartnerRepository {
	return &partnerRepository{db: db}
}

func (r *partnerRepository) List(ctx context.Context) ([]model.Partner, error) {
	var partners []model.Partner
	if err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&partners).Error; err != nil {
		return nil, translate(err)
	}
	return partners, nil
}

func (r *partnerRepository) GetByID(ctx context.Context, id string) (*model.Partner, error) {
	var partner model.Partner
	if err := r.db.WithContext(ctx).First(&partner, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &partner, nil
}

func (r *partnerRepository) Upsert(ctx context.Context, partner *model.Partner) error {
	return translate(r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(partner).Error)
}
