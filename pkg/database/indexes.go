package database

import (
	"github.com/Payphone-Digital/referral/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// constraintStatements are applied after AutoMigrate. Each is idempotent.
var constraintStatements = []string{
	// Referral counts never go backwards or below zero.
	`DO $$ BEGIN
		ALTER TABLE commission_records ADD CONSTRAINT chk_commission_referrals_non_negative CHECK (referrals >= 0);
	EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,

	"CREATE INDEX IF NOT EXISTS idx_submissions_payload_gin ON submissions USING GIN (payload);",
	"CREATE INDEX IF NOT EXISTS idx_submissions_kind_created ON submissions(kind, created_at DESC);",
	"CREATE INDEX IF NOT EXISTS idx_audit_rows_sheet_created ON audit_rows(sheet, created_at DESC);",
}

// ApplyConstraints creates the checks and indexes AutoMigrate cannot express.
// Failures are logged and skipped so a restricted database role can still boot.
func ApplyConstraints(db *gorm.DB) error {
	applied := 0
	for _, stmt := range constraintStatements {
		if err := db.Exec(stmt).Error; err != nil {
			logger.GetLogger().Warn("Failed to apply database constraint",
				zap.String("statement", firstLine(stmt)),
				zap.Error(err),
			)
			continue
		}
		applied++
	}

	logger.GetLogger().Info("Database constraints applied",
		zap.Int("applied", applied),
		zap.Int("total", len(constraintStatements)),
	)
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
