// Package zoho implements the vendor side of the OAuth authorization-code flow.
package zoho

import (
	"strings"

	"github.com/pysugar/zoho-dashboard/internal/config"
	"golang.org/x/oauth2"
)

// KnownScopes lists the scopes the dashboard features use, for setup guidance.
var KnownScopes = []ScopeInfo{
	{Scope: "ZohoPeople.forms.READ", Purpose: "read People form records"},
	{Scope: "ZohoPeople.employee.READ", Purpose: "read employee records"},
	{Scope: "ZohoPeople.employee.ALL", Purpose: "read and add employee records"},
	{Scope: "ZohoPayroll.employees.READ", Purpose: "read payslips"},
	{Scope: "ZohoProjects.projects.READ", Purpose: "read projects, tasks and timesheets"},
	{Scope: "ZohoCRM.modules.READ", Purpose: "read deals and contacts"},
	{Scope: "ZohoCRM.modules.ALL", Purpose: "read and update deals"},
}

// ScopeInfo describes one vendor OAuth scope.
type ScopeInfo struct {
	Scope   string `json:"scope"`
	Purpose string `json:"purpose"`
}

// NewOAuthConfig returns the oauth2 config for the vendor accounts server.
// The vendor expects a comma separated scope list, so scopes are passed as a single element.
func NewOAuthConfig(cfg config.ZohoConfig) *oauth2.Config {
	var scopes []string
	if len(cfg.Scopes) > 0 {
		scopes = []string{strings.Join(cfg.Scopes, ",")}
	}
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   cfg.AuthURL(),
			TokenURL:  cfg.TokenURL(),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// Authorizer builds the consent page URL. It is a pure function of static configuration.
type Authorizer struct {
	oauth        *oauth2.Config
	forceConsent bool
}

func NewAuthorizer(cfg config.ZohoConfig) *Authorizer {
	return &Authorizer{
		oauth:        NewOAuthConfig(cfg),
		forceConsent: cfg.ForceConsent,
	}
}

// AuthCodeURL returns the consent URL with response_type=code, client_id, scope, redirect_uri
// and access_type=offline. state is omitted when empty.
func (a *Authorizer) AuthCodeURL(state string) string {
	opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOffline}
	if a.forceConsent {
		opts = append(opts, oauth2.ApprovalForce)
	}
	return a.oauth.AuthCodeURL(state, opts...)
}
