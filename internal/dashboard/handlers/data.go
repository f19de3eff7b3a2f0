package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/pysugar/zoho-dashboard/internal/zohoapi"
)

// DataService is satisfied by *zohoapi.Service.
type DataService interface {
	Employees(ctx context.Context) ([]zohoapi.Employee, error)
	Employee(ctx context.Context, id string) (zohoapi.Employee, error)
	EmployeePayslips(ctx context.Context, employeeID, payPeriod string) ([]zohoapi.Payslip, error)
	Attendance(ctx context.Context, employeeID, from, to string) ([]zohoapi.AttendanceEntry, error)
	AddEmployee(ctx context.Context, fields map[string]interface{}) (zohoapi.InsertResult, error)
	Projects(ctx context.Context) ([]zohoapi.Project, error)
	ProjectTasks(ctx context.Context, projectID string) ([]zohoapi.Task, error)
	ProjectTimesheets(ctx context.Context, projectID, from, to string) ([]zohoapi.TimeLog, error)
	Deals(ctx context.Context) ([]zohoapi.Deal, error)
	Contacts(ctx context.Context) ([]zohoapi.Contact, error)
	UpdateDeal(ctx context.Context, id string, fields map[string]interface{}) (zohoapi.UpdateResult, error)
}

var (
	isoDate   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	payPeriod = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// validDates reports whether every non-empty value is YYYY-MM-DD.
func validDates(values ...string) bool {
	for _, v := range values {
		if v != "" && !isoDate.MatchString(v) {
			return false
		}
	}
	return true
}

// respond writes a list result wrapped in {"data": ...}.
func respond[T any](w http.ResponseWriter, r *http.Request, data T, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": data})
}

// EmployeesHandler handles GET /api/employees
func EmployeesHandler(svc DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Employees(r.Context())
		respond(w, r, list, err)
	}
}

// EmployeeHandler handles GET /api/employees/{id}
func EmployeeHandler(svc DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.Employee(r.Context(), chi.URLParam(r, "id"))
		respond(w, r, e, err)
	}
}

// PayslipsHandler handles GET /api/employees/{id}/payslips?pay_period=YYYY-MM
func PayslipsHandler(svc DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period := r.URL.Query().Get("pay_period")
		if period != "" && !payPeriod.MatchString(period) {
			badRequest(w, "pay_period must be YYYY-MM")
			return
		}
		list, err := svc.EmployeePayslips(r.Context(), chi.URLParam(r, "id"), period)
		respond(w, r, list, err)
	}
}

// AttendanceHandler handles GET /api/attendance?employee_id=&from=&to=
func AttendanceHandler(svc DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		from, to := q.Get("from"), q.Get("to")
		if !validDates(from, to) {
			badRequest(w, "from and to must be YYYY-MM-DD")
			return
		}
		list, err := svc.Attendance(r.Context(), q.Get("employee_id"), from, to)
		respond(w, r, list, err)
	}
}

// AddEmployeeHandler handles POST /api/employees with the People form fields as a JSON object.
func AddEmployeeHandler(svc DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil || len(fields) == 0 {
			badRequest(w, "Request body must be a non-empty JSON object")
			return
		}
		res, err := svc.AddEmployee(r.Context(), fields)
		respond(w, r, res, err)
	}
}

// ProjectsHandler handles GET /api/projects
func ProjectsHandler(svc DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Projects(r.Context())
		respond(w, r, list, err)
	}
}

// TasksHandler handles GET /api/projects/{id}/tasks
func TasksHandler(svc DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ProjectTasks(r.Context(), chi.URLParam(r, "id"))
		respond(w, r, list, err)
	}
}

// TimesheetsHandler handles GET /api/projects/{id}/timesheets?from=&to=
func TimesheetsHandler(svc DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		from, to := q.Get("from"), q.Get("to")
		if !validDates(from, to) {
			badRequest(w, "from and to must be YYYY-MM-DD")
			return
		}
		list, err := svc.ProjectTimesheets(r.Context(), chi.URLParam(r, "id"), from, to)
		respond(w, r, list, err)
	}
}

// DealsHandler handles GET /api/crm/deals
func DealsHandler(svc DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Deals(r.Context())
		respond(w, r, list, err)
	}
}

// ContactsHandler handles GET /api/crm/contacts
func ContactsHandler(svc DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Contacts(r.Context())
		respond(w, r, list, err)
	}
}

// UpdateDealHandler handles PUT /api/crm/deals/{id} with the CRM field values as a JSON object.
func UpdateDealHandler(svc DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil || len(fields) == 0 {
			badRequest(w, "Request body must be a non-empty JSON object")
			return
		}
		res, err := svc.UpdateDeal(r.Context(), chi.URLParam(r, "id"), fields)
		respond(w, r, res, err)
	}
}
