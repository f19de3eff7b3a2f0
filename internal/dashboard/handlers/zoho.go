package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/pysugar/zoho-dashboard/internal/auth/token"
	"github.com/pysugar/zoho-dashboard/internal/auth/zoho"
	"github.com/pysugar/zoho-dashboard/internal/config"
	"github.com/pysugar/zoho-dashboard/internal/logging"
)

// ZohoStatusHandler handles GET /api/zoho/status
func ZohoStatusHandler(session *token.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pair, err := session.Store().Load(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp := map[string]interface{}{
			"authenticated": !pair.IsZero(),
			"state":         token.Unauthorized.String(),
			"connect_url":   ConnectURL,
		}
		if !pair.IsZero() {
			resp["state"] = token.Authorized.String()
			resp["has_refresh_token"] = pair.RefreshToken != ""
			resp["api_domain"] = pair.APIDomain
			resp["scope"] = pair.Scope
			if !pair.ExpiresAt.IsZero() {
				resp["expires_at"] = pair.ExpiresAt.Format(time.RFC3339)
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// ZohoLogoutHandler handles POST /api/zoho/logout. The stored credential pair is discarded.
func ZohoLogoutHandler(session *token.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := session.Logout(r.Context()); err != nil {
			writeError(w, r, err)
			return
		}
		logging.InfoContext(r.Context(), "zoho session cleared")
		writeJSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
	}
}

// SetupHandler handles GET /api/setup with guidance for registering the OAuth client.
func SetupHandler(cfg config.ZohoConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"configured":        true,
			"missing":           []string{},
			"invalid":           []string{},
			"redirect_uri":      cfg.RedirectURI,
			"scopes":            cfg.Scopes,
			"accounts_url":      cfg.AccountsURL,
			"known_scopes":      zoho.KnownScopes,
			"developer_console": "https://api-console.zoho.com/",
		}
		if err := cfg.Validate(); err != nil {
			resp["configured"] = false
			var verr *config.ValidationError
			if errors.As(err, &verr) {
				resp["missing"] = nonNilStrings(verr.Missing)
				resp["invalid"] = nonNilStrings(verr.Invalid)
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
