// Package handlers exposes the dashboard HTTP API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pysugar/zoho-dashboard/internal/auth/token"
	"github.com/pysugar/zoho-dashboard/internal/logging"
	"github.com/pysugar/zoho-dashboard/internal/upstream"
	"github.com/pysugar/zoho-dashboard/internal/zohoapi"
)

// ConnectURL starts the vendor consent flow.
const ConnectURL = "/auth/zoho/login"

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps gateway and accessor errors onto HTTP responses.
// A missing or rejected vendor session becomes 401 with a link to reconnect.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *upstream.APIError
	isAPIErr := errors.As(err, &apiErr)
	switch {
	case errors.Is(err, token.ErrAuthRequired), errors.Is(err, token.ErrSessionInvalid),
		isAPIErr && apiErr.Unauthorized():
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"error":          err.Error(),
			"reauthRequired": true,
			"connect_url":    ConnectURL,
		})
	case errors.Is(err, zohoapi.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case isAPIErr:
		logging.WarnContext(r.Context(), "zoho api error", "status", apiErr.Status, "code", apiErr.Code, "url", apiErr.URL)
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":         apiErr.Error(),
			"vendor_status": apiErr.Status,
			"vendor_code":   apiErr.Code,
		})
	default:
		logging.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": message})
}
