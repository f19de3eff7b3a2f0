package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pysugar/zoho-dashboard/internal/auth/users"
	"github.com/pysugar/zoho-dashboard/internal/dashboard/middleware"
	"github.com/pysugar/zoho-dashboard/internal/logging"
)

type userView struct {
	ID          string            `json:"id"`
	Username    string            `json:"username"`
	Name        string            `json:"name,omitempty"`
	Email       string            `json:"email,omitempty"`
	Role        string            `json:"role"`
	Permissions users.Permissions `json:"permissions"`
}

// LoginHandler handles POST /auth/login with {"username","password"}.
// The session token is returned in the body and set as an HttpOnly cookie.
func LoginHandler(svc *users.Service, issuer *users.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "Invalid request body")
			return
		}

		user, err := svc.Login(r.Context(), req.Username, req.Password)
		if errors.Is(err, users.ErrInvalidCredentials) {
			logging.InfoContext(r.Context(), "dashboard login rejected", "username", req.Username)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}
		if err != nil {
			writeError(w, r, err)
			return
		}

		signed, exp, err := issuer.Issue(user)
		if err != nil {
			writeError(w, r, err)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookie,
			Value:    signed,
			Path:     "/",
			Expires:  exp,
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})

		logging.InfoContext(r.Context(), "dashboard login", "username", user.Username, "role", user.Role)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"token":      signed,
			"expires_at": exp.Format(time.RFC3339),
			"user": userView{
				ID:          user.ID,
				Username:    user.Username,
				Name:        user.Name,
				Email:       user.Email,
				Role:        user.Role,
				Permissions: users.PermissionsFor(user.Role),
			},
		})
	}
}

// LogoutHandler handles POST /auth/logout. It only drops the dashboard cookie; the vendor session stays.
func LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: middleware.SessionCookie, Value: "", Path: "/", MaxAge: -1})
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// MeHandler handles GET /api/me
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Login required"})
			return
		}
		writeJSON(w, http.StatusOK, userView{
			ID:          claims.UserID,
			Username:    claims.Username,
			Role:        claims.Role,
			Permissions: users.PermissionsFor(claims.Role),
		})
	}
}
