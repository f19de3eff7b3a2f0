package models

import "time"

// Credential holds the vendor OAuth token pair. There is at most one row per provider.
type Credential struct {
	Provider     string `gorm:"primaryKey"` // e.g., "zoho"
	AccessToken  string
	RefreshToken string
	APIDomain    string // api_domain returned by the token endpoint
	Scope        string
	ExpiresAt    time.Time
	RefreshedAt  time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
