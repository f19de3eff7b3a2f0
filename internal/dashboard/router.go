// Package dashboard assembles the HTTP surface of the dashboard service.
package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pysugar/zoho-dashboard/internal/analytics"
	"github.com/pysugar/zoho-dashboard/internal/auth/token"
	"github.com/pysugar/zoho-dashboard/internal/auth/users"
	"github.com/pysugar/zoho-dashboard/internal/auth/zoho"
	"github.com/pysugar/zoho-dashboard/internal/config"
	"github.com/pysugar/zoho-dashboard/internal/dashboard/handlers"
	"github.com/pysugar/zoho-dashboard/internal/dashboard/middleware"
	"github.com/pysugar/zoho-dashboard/internal/logging"
	"github.com/pysugar/zoho-dashboard/internal/monitor"
	"github.com/pysugar/zoho-dashboard/internal/portfolio"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Zoho       config.ZohoConfig
	Session    *token.Session
	Authorizer *zoho.Authorizer
	Exchanger  zoho.CodeExchanger
	Data       handlers.DataService
	Analytics  *analytics.Service
	Portfolio  *portfolio.Repository
	Users      *users.Service
	Issuer     *users.Issuer
	Monitor    *monitor.CallMonitor
}

// NewRouter builds the chi router for every dashboard route.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(logging.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	requireUser := middleware.RequireUser(d.Issuer)
	can := middleware.RequirePermission

	r.Get("/", handlers.DashboardHandler())

	// Dashboard session
	r.Post("/auth/login", handlers.LoginHandler(d.Users, d.Issuer))
	r.Post("/auth/logout", handlers.LogoutHandler())

	// Vendor OAuth flow. The credential pair is shared by every dashboard user, so only
	// editors may replace or clear it; the callback is reached from the vendor's redirect.
	r.With(requireUser, can(users.CanEdit)).Get("/auth/zoho/login", zoho.HandleLogin(d.Zoho, d.Authorizer))
	r.Get("/auth/zoho/callback", zoho.HandleCallback(d.Exchanger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/setup", handlers.SetupHandler(d.Zoho))
		r.Get("/version", handlers.VersionHandler())

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/me", handlers.MeHandler())
			r.Get("/zoho/status", handlers.ZohoStatusHandler(d.Session))
			r.With(can(users.CanEdit)).Post("/zoho/logout", handlers.ZohoLogoutHandler(d.Session))

			r.Group(func(r chi.Router) {
				r.Use(can(users.CanView))
				r.Get("/employees", handlers.EmployeesHandler(d.Data))
				r.Get("/employees/{id}", handlers.EmployeeHandler(d.Data))
				r.Get("/employees/{id}/payslips", handlers.PayslipsHandler(d.Data))
				r.Get("/attendance", handlers.AttendanceHandler(d.Data))
				r.Get("/projects", handlers.ProjectsHandler(d.Data))
				r.With(can(users.CanDrillDown)).Get("/projects/{id}/tasks", handlers.TasksHandler(d.Data))
				r.With(can(users.CanDrillDown)).Get("/projects/{id}/timesheets", handlers.TimesheetsHandler(d.Data))
				r.Get("/crm/deals", handlers.DealsHandler(d.Data))
				r.Get("/crm/contacts", handlers.ContactsHandler(d.Data))
				r.Get("/analytics/{module}", handlers.AnalyticsHandler(d.Analytics))
				r.Get("/portfolio", handlers.PortfolioHandler(d.Portfolio))
				r.Get("/kpis/{view}", handlers.KPIHandler())
			})

			r.Group(func(r chi.Router) {
				r.Use(can(users.CanEdit))
				r.Post("/employees", handlers.AddEmployeeHandler(d.Data))
				r.Put("/crm/deals/{id}", handlers.UpdateDealHandler(d.Data))
				r.Get("/monitor/logs", handlers.MonitorLogsHandler(d.Monitor))
				r.Get("/monitor/stats", handlers.MonitorStatsHandler(d.Monitor))
				r.Post("/monitor/clear", handlers.ClearMonitorHandler(d.Monitor))
			})

			r.With(can(users.CanUpload)).Post("/imports/csv", handlers.CSVImportHandler())
		})
	})

	return r
}
