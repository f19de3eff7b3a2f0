package zoho

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pysugar/zoho-dashboard/internal/config"
	"github.com/pysugar/zoho-dashboard/internal/logging"
)

// StateCookie carries the CSRF state between Connect and the callback.
const StateCookie = "zoho_oauth_state"

const stateTTL = 10 * time.Minute

// HandleLogin starts the authorization-code flow by redirecting to the vendor consent page.
func HandleLogin(cfg config.ZohoConfig, authz *Authorizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Validate(); err != nil {
			logging.WarnContext(r.Context(), "zoho connect refused, configuration incomplete", "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": err.Error(),
				"setup": "/api/setup",
			})
			return
		}

		state := uuid.New().String()
		http.SetCookie(w, &http.Cookie{
			Name:     StateCookie,
			Value:    state,
			Path:     "/auth/zoho",
			MaxAge:   int(stateTTL.Seconds()),
			HttpOnly: true,
			Secure:   r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https",
			SameSite: http.SameSiteLaxMode,
		})

		http.Redirect(w, r, authz.AuthCodeURL(state), http.StatusTemporaryRedirect)
	}
}
