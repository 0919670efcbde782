package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Payphone-Digital/referral/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DatabaseSink stores rows in the audit_rows table.
type DatabaseSink struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDatabaseSink(db *gorm.DB) *DatabaseSink {
	return &DatabaseSink{db: db, now: time.Now}
}

func (s *DatabaseSink) AppendRow(ctx context.Context, sheet string, columns []string) error {
	raw, err := json.Marshal(columns)
	if err != nil {
		return fmt.Errorf("audit: encode columns: %w", err)
	}
	row := &model.AuditRow{
		Sheet:     sheet,
		Columns:   datatypes.JSON(raw),
		CreatedAt: s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("audit: insert row: %w", err)
	}
	return nil
}
