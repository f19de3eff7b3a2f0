// Package config loads dashboard settings from defaults, an optional YAML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when DASHBOARD_CONFIG_PATH is not set.
const DefaultConfigPath = "config/dashboard.yaml"

// Config is the root configuration of the dashboard service.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Zoho     ZohoConfig     `yaml:"zoho"`
	Session  SessionConfig  `yaml:"session"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

type DatabaseConfig struct {
	Path string `yaml:"path,omitempty"`
}

// ZohoConfig holds the OAuth client registration and the vendor endpoints.
type ZohoConfig struct {
	ClientID     string   `yaml:"client_id,omitempty"`
	ClientSecret string   `yaml:"client_secret,omitempty"`
	RedirectURI  string   `yaml:"redirect_uri,omitempty"`
	Scopes       []string `yaml:"scopes,omitempty"`
	// ForceConsent adds prompt=consent so the vendor always issues a refresh token.
	ForceConsent bool `yaml:"force_consent,omitempty"`

	AccountsURL     string `yaml:"accounts_url,omitempty"`
	PeopleBaseURL   string `yaml:"people_base_url,omitempty"`
	PayrollBaseURL  string `yaml:"payroll_base_url,omitempty"`
	ProjectsBaseURL string `yaml:"projects_base_url,omitempty"`
	// ProjectsPortal is the portal id inserted into Projects paths; empty uses the legacy unscoped paths.
	ProjectsPortal string `yaml:"projects_portal,omitempty"`
	CRMBaseURL     string `yaml:"crm_base_url,omitempty"`
	// AuthScheme prefixes the access token in the Authorization header.
	AuthScheme string        `yaml:"auth_scheme,omitempty"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
}

// SessionConfig configures dashboard (not vendor) logins.
type SessionConfig struct {
	JWTSecret     string        `yaml:"jwt_secret,omitempty"`
	TTL           time.Duration `yaml:"ttl,omitempty"`
	SeedDemoUsers bool          `yaml:"seed_demo_users,omitempty"`
}

type LoggingConfig struct {
	// One of: trace, debug, info, warn, error
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	// Empty means stderr
	FilePath string `yaml:"file_path,omitempty"`
}

// AuthURL is the vendor consent page.
func (z ZohoConfig) AuthURL() string {
	return strings.TrimRight(z.AccountsURL, "/") + "/oauth/v2/auth"
}

// TokenURL is the vendor token endpoint used for both code exchange and refresh.
func (z ZohoConfig) TokenURL() string {
	return strings.TrimRight(z.AccountsURL, "/") + "/oauth/v2/token"
}

// Load builds a configuration using these steps:
// 1. Start from the defaults
// 2. Load .env (if present) into the process environment
// 3. Decode the YAML file (if present) onto the defaults; keys absent from the file keep their default
// 4. Apply environment variable overrides
func Load() (*Config, error) {
	cfg := Defaults()

	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	if err := loadFromDisk(getConfigPath(), cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if err := applyEnvVarOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns a config with every default filled in. Client credentials have no default.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: "127.0.0.1:3000",
		},
		Database: DatabaseConfig{
			Path: "dashboard.db",
		},
		Zoho: ZohoConfig{
			RedirectURI:     "http://localhost:3000/auth/zoho/callback",
			Scopes:          []string{"ZohoPeople.employee.ALL", "ZohoPayroll.employees.ALL"},
			AccountsURL:     "https://accounts.zoho.com",
			PeopleBaseURL:   "https://people.zoho.com/people/api",
			PayrollBaseURL:  "https://payroll.zoho.com/api/v1",
			ProjectsBaseURL: "https://projectsapi.zoho.com/restapi",
			CRMBaseURL:      "https://www.zohoapis.com/crm/v2",
			AuthScheme:      "Zoho-oauthtoken",
			Timeout:         30 * time.Second,
		},
		Session: SessionConfig{
			TTL:           12 * time.Hour,
			SeedDemoUsers: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// loadFromDisk decodes the file onto cfg. An explicit zero value in the file (false, "")
// replaces the current value.
func loadFromDisk(configPath string, cfg *Config) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return err
		}
		return fmt.Errorf("unable to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unable to parse config file: %w", err)
	}
	return nil
}

func getConfigPath() string {
	if p := os.Getenv("DASHBOARD_CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultConfigPath
}
