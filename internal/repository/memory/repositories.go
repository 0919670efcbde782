// Package memory holds process-local repositories. State is lost on restart.
package memory

import (
	"github.com/Payphone-Digital/referral/internal/model"
	"github.com/Payphone-Digital/referral/internal/repository"
)

func NewRepositories(partners []model.Partner) *repository.Repositories {
	return &repository.Repositories{
		User:       NewUserRepository(),
		Ledger:     NewLedgerRepository(),
		Partner:    NewPartnerRepository(partners...),
		Submission: NewSubmissionRepository(),
	}
}
