package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pysugar/zoho-dashboard/internal/auth/users"
	"github.com/pysugar/zoho-dashboard/internal/db/models"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())
		w.Write([]byte(claims.Username))
	})
}

func issue(t *testing.T, issuer *users.Issuer, role string) string {
	t.Helper()
	tok, _, err := issuer.Issue(models.User{ID: "u-" + role, Username: role, Role: role})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return tok
}

func TestRequireUser(t *testing.T) {
	issuer := users.NewIssuer("secret", time.Hour)
	h := RequireUser(issuer)(okHandler())

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
		body   string
	}{
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized, ""},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer junk") }, http.StatusUnauthorized, ""},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+issue(t, issuer, "viewer")) }, http.StatusOK, "viewer"},
		{"cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: SessionCookie, Value: issue(t, issuer, "admin")})
		}, http.StatusOK, "admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.body != "" && w.Body.String() != tt.body {
				t.Fatalf("body = %q, want %q", w.Body.String(), tt.body)
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	issuer := users.NewIssuer("secret", time.Hour)
	h := RequireUser(issuer)(RequirePermission(users.CanEdit)(okHandler()))

	for role, want := range map[string]int{
		users.RoleViewer:      http.StatusForbidden,
		users.RoleInteractive: http.StatusForbidden,
		users.RoleAdmin:       http.StatusOK,
	} {
		req := httptest.NewRequest(http.MethodPut, "/api/crm/deals/1", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, issuer, role))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("%s: status = %d, want %d", role, w.Code, want)
		}
	}
}

func TestRequirePermission_WithoutUser(t *testing.T) {
	w := httptest.NewRecorder()
	RequirePermission(users.CanView)(okHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
