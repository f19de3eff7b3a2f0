package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError lists the settings that keep the vendor OAuth flow from working.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}
	return "zoho configuration: " + strings.Join(parts, "; ")
}

// Validate checks the vendor OAuth settings. It returns nil or a *ValidationError.
func (z ZohoConfig) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(z.ClientID) == "" {
		verr.Missing = append(verr.Missing, "client_id")
	}
	if strings.TrimSpace(z.ClientSecret) == "" {
		verr.Missing = append(verr.Missing, "client_secret")
	}
	if strings.TrimSpace(z.RedirectURI) == "" {
		verr.Missing = append(verr.Missing, "redirect_uri")
	} else if !isAbsoluteURL(z.RedirectURI) {
		verr.Invalid = append(verr.Invalid, "redirect_uri")
	}
	if len(z.Scopes) == 0 {
		verr.Missing = append(verr.Missing, "scopes")
	}
	endpoints := []struct{ name, raw string }{
		{"accounts_url", z.AccountsURL},
		{"people_base_url", z.PeopleBaseURL},
		{"payroll_base_url", z.PayrollBaseURL},
		{"projects_base_url", z.ProjectsBaseURL},
		{"crm_base_url", z.CRMBaseURL},
	}
	for _, ep := range endpoints {
		if !isAbsoluteURL(ep.raw) {
			verr.Invalid = append(verr.Invalid, ep.name)
		}
	}

	if len(verr.Missing) == 0 && len(verr.Invalid) == 0 {
		return nil
	}
	return verr
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// String renders the config without secrets, for startup logs.
func (z ZohoConfig) String() string {
	secret := "unset"
	if z.ClientSecret != "" {
		secret = "set"
	}
	return fmt.Sprintf("client_id=%q client_secret=%s redirect_uri=%q scopes=%v accounts=%s",
		z.ClientID, secret, z.RedirectURI, z.Scopes, z.AccountsURL)
}
