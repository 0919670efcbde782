package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommissionRecord accumulates referral activity for one user.
// Referrals only ever grows; TotalEarnings is carried but not recomputed here.
type CommissionRecord struct {
	Phone         string          `gorm:"column:phone;size:10;primaryKey"`
	TotalEarnings decimal.Decimal `gorm:"column:total_earnings;type:numeric(14,2);not null"`
	Referrals     int             `gorm:"column:referrals;not null"`
	LastUpdated   time.Time       `gorm:"column:last_updated;not null"`
}

func (CommissionRecord) TableName() string { return "commission_records" }

// NewCommissionRecord returns a zeroed record for phone.
func NewCommissionRecord(phone string, now time.Time) *CommissionRecord {
	return &CommissionRecord{
		Phone:         phone,
		TotalEarnings: decimal.Zero,
		Referrals:     0,
		LastUpdated:   now,
	}
}
