package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditRow is one appended row when audit events are kept in postgres
// instead of the spreadsheet.
type AuditRow struct {
	ID        uint           `gorm:"column:id;primaryKey;autoIncrement"`
	Sheet     string         `gorm:"column:sheet;size:64;index;not null"`
	Columns   datatypes.JSON `gorm:"column:columns;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;not null"`
}

func (AuditRow) TableName() string { return "audit_rows" }
