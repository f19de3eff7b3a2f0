// Package token owns the vendor credential pair and the authorized/unauthorized session built on it.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pysugar/zoho-dashboard/internal/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultProvider keys the single credential row.
const DefaultProvider = "zoho"

// Pair is the vendor credential pair. RefreshToken may be empty.
type Pair struct {
	AccessToken  string
	RefreshToken string
	APIDomain    string
	Scope        string
	ExpiresAt    time.Time
}

// IsZero reports whether no access token is present.
func (p Pair) IsZero() bool {
	return p.AccessToken == ""
}

// Store persists one Pair in the credentials table. It survives process restarts.
type Store struct {
	db       *gorm.DB
	provider string
}

// NewStore creates a store for the default provider row.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, provider: DefaultProvider}
}

// Save overwrites the stored pair.
func (s *Store) Save(ctx context.Context, p Pair) error {
	row := models.Credential{
		Provider:     s.provider,
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		APIDomain:    p.APIDomain,
		Scope:        p.Scope,
		ExpiresAt:    p.ExpiresAt,
		RefreshedAt:  time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "api_domain", "scope", "expires_at", "refreshed_at", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Load returns the last saved pair, or the zero Pair when never authenticated.
func (s *Store) Load(ctx context.Context) (Pair, error) {
	var row models.Credential
	err := s.db.WithContext(ctx).Where("provider = ?", s.provider).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Pair{}, nil
	}
	if err != nil {
		return Pair{}, fmt.Errorf("load credentials: %w", err)
	}
	return Pair{
		AccessToken:  row.AccessToken,
		RefreshToken: row.RefreshToken,
		APIDomain:    row.APIDomain,
		Scope:        row.Scope,
		ExpiresAt:    row.ExpiresAt,
	}, nil
}

// UpdateAccessToken replaces the access token and leaves the refresh token untouched.
// A non-empty rotated refresh token replaces the stored one.
func (s *Store) UpdateAccessToken(ctx context.Context, accessToken, rotatedRefresh string, expiresAt time.Time) error {
	updates := map[string]interface{}{
		"access_token": accessToken,
		"expires_at":   expiresAt,
		"refreshed_at": time.Now(),
	}
	if rotatedRefresh != "" {
		updates["refresh_token"] = rotatedRefresh
	}
	res := s.db.WithContext(ctx).Model(&models.Credential{}).Where("provider = ?", s.provider).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update access token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAuthRequired
	}
	return nil
}

// Clear removes the stored pair. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("provider = ?", s.provider).Delete(&models.Credential{}).Error; err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
