package database

import (
	"github.com/Payphone-Digital/referral/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.CommissionRecord{},
		&model.Partner{},
		&model.Submission{},
		&model.AuditRow{},
	)
}
