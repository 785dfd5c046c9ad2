package model

import "time"

// User is a registered credential. Salt and hash are hex encoded.
type User struct {
	Username     string    `json:"username" gorm:"primaryKey;size:255"`
	PasswordHash string    `json:"-" gorm:"size:128;not null"` // Never expose in JSON
	Salt         string    `json:"-" gorm:"size:64;not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName pins the table name across dialects.
func (User) TableName() string { return "users" }
