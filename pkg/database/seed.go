package database

import (
	"github.com/Payphone-Digital/referral/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPartners returns the partner companies shown on the commission page.
// Link templates are rendered per user with sprig functions available.
func DefaultPartners() []model.Partner {
	return []model.Partner{
		{
			ID:          "acko-motor",
			Name:        "Acko Motor Insurance",
			Description: "Leading digital-first motor insurance provider with comprehensive coverage options and instant claims processing",
			LinkTemplate: `https://www.acko.com/car-insurance/?utm_source=referral` +
				`&utm_campaign={{ .PolicyType | default "listing" | lower | replace " " "-" | urlquery }}` +
				`&ref={{ .Phone | sha256sum | trunc 12 }}`,
			IsActive:  true,
			SortOrder: 1,
		},
		{
			ID:          "icici-lombard",
			Name:        "ICICI Lombard Insurance",
			Description: "Trusted insurance partner with competitive rates and extensive network coverage across India",
			LinkTemplate: `https://www.icicilombard.com/motor-insurance?channel=partner` +
				`&ref={{ .Phone | sha256sum | trunc 12 | upper }}`,
			IsActive:  true,
			SortOrder: 2,
		},
	}
}

// Seed creates initial data for the database
func Seed(db *gorm.DB) error {
	return SeedPartners(db)
}

// SeedPartners inserts the default partners, leaving edited rows alone.
func SeedPartners(db *gorm.DB) error {
	partners := DefaultPartners()
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&partners).Error
}
