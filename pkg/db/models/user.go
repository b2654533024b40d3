package models

import (
	"time"

	"github.com/agrilinkmw/agrilink-backend/pkg/enums"
)

// User represents the canonical identity entity. Role is immutable after
// registration; payout fields are populated for farmers only.
type User struct {
	ID                int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Name              string         `gorm:"column:name;not null"`
	Email             string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash      string         `gorm:"column:password_hash;not null"`
	Role              enums.UserRole `gorm:"column:role;type:text;not null"`
	ProfilePic        *string        `gorm:"column:profile_pic"`
	PhoneNumber       *string        `gorm:"column:phone_number"`
	BankName          *string        `gorm:"column:bank_name"`
	BankAccountNumber *string        `gorm:"column:bank_account_number"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime"`
}
