package postgres

import (
	"github.com/Payphone-Digital/referral/internal/repository"
	"gorm.io/gorm"
)

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:       NewUserRepository(db),
		Ledger:     NewLedgerRepository(db),
		Partner:    NewPartnerRepository(db),
		Submission: NewSubmissionRepository(db),
	}
}
