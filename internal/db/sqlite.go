package db

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/pysugar/zoho-dashboard/internal/db/models"
	"github.com/pysugar/zoho-dashboard/internal/logging"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options controls first-run seeding.
type Options struct {
	SeedDemoUsers bool
	// LogSQL enables gorm statement logging.
	LogSQL bool
}

const sessionSecretKey = "session_jwt_secret"

// InitDB initializes the SQLite database connection, runs migrations and seeds first-run data.
func InitDB(dbPath string, opts Options) (*gorm.DB, error) {
	level := logger.Warn
	if opts.LogSQL {
		level = logger.Info
	}
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	// sqlite allows a single writer; serialise through one connection.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if _, err := EnsureSessionSecret(db); err != nil {
		return nil, err
	}
	if err := ensurePortfolio(db); err != nil {
		return nil, err
	}
	if opts.SeedDemoUsers {
		if err := ensureDemoUsers(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Migrate creates or updates every table the dashboard owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Credential{},
		&models.Config{},
		&models.User{},
		&models.PortfolioProject{},
		&models.RequestLog{},
	)
}

// EnsureSessionSecret returns the stored session signing secret, generating it on first run.
func EnsureSessionSecret(db *gorm.DB) (string, error) {
	var config models.Config
	err := db.Where("key = ?", sessionSecretKey).First(&config).Error
	if err == nil {
		return config.Value, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("load session secret: %w", err)
	}

	keyBytes := make([]byte, 32)
	if _, err := rand.Read(keyBytes); err != nil {
		return "", err
	}
	secret := hex.EncodeToString(keyBytes)
	if err := db.Create(&models.Config{Key: sessionSecretKey, Value: secret}).Error; err != nil {
		return "", fmt.Errorf("save session secret: %w", err)
	}
	logging.Info("generated new session signing secret")
	return secret, nil
}

// GetConfigValue returns a value from the configs table, or "" when unset.
func GetConfigValue(db *gorm.DB, key string) string {
	var config models.Config
	db.Where("key = ?", key).First(&config)
	return config.Value
}
