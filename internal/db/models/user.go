package models

import "time"

// User is a dashboard login. Role is one of viewer, interactive, admin.
type User struct {
	ID           string    `gorm:"primaryKey" json:"id"` // UUID
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `gorm:"not null;default:'viewer'" json:"role"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	LastLoginAt  time.Time `json:"last_login_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
