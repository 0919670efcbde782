package model

import (
	"time"

	"gorm.io/datatypes"
)

// SubmissionKind identifies which public form a Submission came from.
type SubmissionKind string

const (
	SubmissionQuote        SubmissionKind = "quote"
	SubmissionApplication  SubmissionKind = "application"
	SubmissionConsultation SubmissionKind = "consultation"
)

// Submission is a stored copy of a public form. Payload keeps the full
// request so fields can be added to the forms without a migration.
type Submission struct {
	ID        string         `gorm:"column:id;type:uuid;primaryKey"`
	Kind      SubmissionKind `gorm:"column:kind;size:32;index;not null"`
	Name      string         `gorm:"column:name;not null"`
	Email     string         `gorm:"column:email"`
	Phone     string         `gorm:"column:phone;index"`
	Payload   datatypes.JSON `gorm:"column:payload"`
	CreatedAt time.Time      `gorm:"column:created_at;not null"`
}

func (Submission) TableName() string { return "submissions" }
