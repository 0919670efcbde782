package model

import "time"

// User is a registered referrer. Phone is the identity key and never changes.
type User struct {
	ID           string     `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Phone        string     `gorm:"column:phone;size:10;uniqueIndex;not null" json:"phone"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	Name         string     `gorm:"column:name" json:"name"`
	Email        string     `gorm:"column:email" json:"email"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true" json:"isActive"`
	RegisteredAt time.Time  `gorm:"column:registered_at;not null" json:"registeredAt"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
}

func (User) TableName() string { return "users" }
