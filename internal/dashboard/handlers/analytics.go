package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pysugar/zoho-dashboard/internal/analytics"
)

// AnalyticsHandler handles GET /api/analytics/{module} for overview, project, crm and people.
func AnalyticsHandler(svc *analytics.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			out interface{}
			err error
		)
		switch chi.URLParam(r, "module") {
		case "overview":
			out, err = svc.Overview(r.Context())
		case "project", "projects":
			out, err = svc.Projects(r.Context())
		case "crm":
			out, err = svc.CRM(r.Context())
		case "people", "hr":
			out, err = svc.HR(r.Context())
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown analytics module"})
			return
		}
		respond(w, r, out, err)
	}
}
