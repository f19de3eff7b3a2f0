package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// envOverride binds an environment variable (and its legacy aliases) to a config field.
type envOverride struct {
	names []string
	apply func(cfg *Config, value string) error
}

func setString(dst func(*Config) *string) func(*Config, string) error {
	return func(cfg *Config, v string) error {
		*dst(cfg) = v
		return nil
	}
}

var envOverrides = []envOverride{
	{[]string{"ZOHO_CLIENT_ID", "VITE_ZOHO_CLIENT_ID"}, setString(func(c *Config) *string { return &c.Zoho.ClientID })},
	{[]string{"ZOHO_CLIENT_SECRET", "VITE_ZOHO_CLIENT_SECRET"}, setString(func(c *Config) *string { return &c.Zoho.ClientSecret })},
	{[]string{"ZOHO_REDIRECT_URI", "VITE_ZOHO_REDIRECT_URI"}, setString(func(c *Config) *string { return &c.Zoho.RedirectURI })},
	{[]string{"ZOHO_ACCOUNTS_URL"}, setString(func(c *Config) *string { return &c.Zoho.AccountsURL })},
	{[]string{"ZOHO_PEOPLE_BASE_URL"}, setString(func(c *Config) *string { return &c.Zoho.PeopleBaseURL })},
	{[]string{"ZOHO_PAYROLL_BASE_URL"}, setString(func(c *Config) *string { return &c.Zoho.PayrollBaseURL })},
	{[]string{"ZOHO_PROJECTS_BASE_URL"}, setString(func(c *Config) *string { return &c.Zoho.ProjectsBaseURL })},
	{[]string{"ZOHO_PROJECTS_PORTAL"}, setString(func(c *Config) *string { return &c.Zoho.ProjectsPortal })},
	{[]string{"ZOHO_CRM_BASE_URL"}, setString(func(c *Config) *string { return &c.Zoho.CRMBaseURL })},
	{[]string{"ZOHO_AUTH_SCHEME"}, setString(func(c *Config) *string { return &c.Zoho.AuthScheme })},
	{[]string{"ZOHO_SCOPES"}, func(c *Config, v string) error {
		c.Zoho.Scopes = SplitScopes(v)
		return nil
	}},
	{[]string{"ZOHO_FORCE_CONSENT"}, func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.Zoho.ForceConsent = b
		return nil
	}},
	{[]string{"ZOHO_TIMEOUT"}, func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Zoho.Timeout = d
		return nil
	}},
	{[]string{"DASHBOARD_ADDR"}, setString(func(c *Config) *string { return &c.Server.Addr })},
	{[]string{"DASHBOARD_DB_PATH"}, setString(func(c *Config) *string { return &c.Database.Path })},
	{[]string{"DASHBOARD_JWT_SECRET"}, setString(func(c *Config) *string { return &c.Session.JWTSecret })},
	{[]string{"DASHBOARD_SESSION_TTL"}, func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Session.TTL = d
		return nil
	}},
	{[]string{"DASHBOARD_SEED_DEMO_USERS"}, func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.Session.SeedDemoUsers = b
		return nil
	}},
	{[]string{"DASHBOARD_LOG_LEVEL"}, setString(func(c *Config) *string { return &c.Logging.Level })},
	{[]string{"DASHBOARD_LOG_FORMAT"}, setString(func(c *Config) *string { return &c.Logging.Format })},
	{[]string{"DASHBOARD_LOG_FILE"}, setString(func(c *Config) *string { return &c.Logging.FilePath })},
}

// applyEnvVarOverrides applies the first non-empty variable of every binding.
func applyEnvVarOverrides(cfg *Config) error {
	for _, o := range envOverrides {
		for _, name := range o.names {
			v := strings.TrimSpace(os.Getenv(name))
			if v == "" {
				continue
			}
			if err := o.apply(cfg, v); err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			break
		}
	}
	return nil
}

// SplitScopes accepts comma or whitespace separated scope lists.
func SplitScopes(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
