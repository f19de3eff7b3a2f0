// Package middleware guards dashboard routes with the session token.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pysugar/zoho-dashboard/internal/auth/users"
	"github.com/pysugar/zoho-dashboard/internal/logging"
)

// SessionCookie carries the dashboard session token.
const SessionCookie = "dashboard_session"

type ctxKey struct{}

// TokenParser is satisfied by *users.Issuer.
type TokenParser interface {
	Parse(token string) (users.Claims, error)
}

// ClaimsFromContext returns the claims set by RequireUser.
func ClaimsFromContext(ctx context.Context) (users.Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(users.Claims)
	return c, ok
}

// WithClaims stores claims on ctx.
func WithClaims(ctx context.Context, c users.Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// TokenFromRequest reads the session token from the Authorization header or the cookie.
func TokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// RequireUser rejects requests without a valid session token
func RequireUser(parser TokenParser) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := TokenFromRequest(r)
			if tok == "" {
				writeDenied(w, http.StatusUnauthorized, "Login required")
				return
			}
			claims, err := parser.Parse(tok)
			if err != nil {
				logging.Debug("rejected session token", "error", err, "request_id", logging.GetRequestID(r.Context()))
				writeDenied(w, http.StatusUnauthorized, "Session expired, please log in again")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequirePermission rejects users whose role lacks perm. It must run after RequireUser.
func RequirePermission(perm users.Permission) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeDenied(w, http.StatusUnauthorized, "Login required")
				return
			}
			if !users.PermissionsFor(claims.Role).Has(perm) {
				writeDenied(w, http.StatusForbidden, "Your role does not allow this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeDenied(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
