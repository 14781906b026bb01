package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles recognized by the admin route gate.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User is the local user directory the progress engine validates against.
// Passwords are stored as bcrypt hashes and never serialized.
type User struct {
	ID           string  `gorm:"primaryKey;type:uuid" json:"id"`
	Name         string  `gorm:"not null" json:"name"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"not null" json:"-"`
	Role         string  `gorm:"not null;default:'student'" json:"role"`
	AvatarURL    *string `json:"avatar_url,omitempty"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
