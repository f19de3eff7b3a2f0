package zohoapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/pysugar/zoho-dashboard/internal/auth/token"
	"github.com/pysugar/zoho-dashboard/internal/config"
	"github.com/pysugar/zoho-dashboard/internal/upstream"
)

type staticTokens struct {
	access string
}

func (s staticTokens) AccessToken(ctx context.Context) (string, error) {
	if s.access == "" {
		return "", token.ErrAuthRequired
	}
	return s.access, nil
}

func (s staticTokens) Refresh(ctx context.Context) (string, error) {
	return "", token.ErrSessionInvalid
}

// newTestService points every product base URL at one test server.
func newTestService(t *testing.T, access string, portal string, handler http.HandlerFunc) (*Service, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := config.ZohoConfig{
		PeopleBaseURL:   srv.URL + "/people/api",
		PayrollBaseURL:  srv.URL + "/payroll/v1",
		ProjectsBaseURL: srv.URL + "/restapi",
		ProjectsPortal:  portal,
		CRMBaseURL:      srv.URL + "/crm/v2",
	}
	gw := upstream.NewClient(staticTokens{access: access}, upstream.Options{HTTPClient: srv.Client()})
	return NewService(gw, cfg), &hits
}

func TestEmployees_UnwrapsPeopleEnvelope(t *testing.T) {
	svc, _ := newTestService(t, "tok", "", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/people/api/forms/employee/records" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"response":{"result":[{"employeeId":"1","firstName":"Ada"}]}}`))
	})

	list, err := svc.Employees(context.Background())
	if err != nil {
		t.Fatalf("Employees: %v", err)
	}
	if len(list) != 1 || list[0].EmployeeID != "1" || list[0].FirstName != "Ada" {
		t.Fatalf("unexpected employees %+v", list)
	}
}

func TestAccessors_UnauthorizedMakeNoNetworkCall(t *testing.T) {
	svc, hits := newTestService(t, "", "", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})
	ctx := context.Background()

	calls := map[string]func() error{
		"employees": func() error { _, err := svc.Employees(ctx); return err },
		"employee":  func() error { _, err := svc.Employee(ctx, "1"); return err },
		"payslips":  func() error { _, err := svc.EmployeePayslips(ctx, "1", ""); return err },
		"projects":  func() error { _, err := svc.Projects(ctx); return err },
		"deals":     func() error { _, err := svc.Deals(ctx); return err },
		"contacts":  func() error { _, err := svc.Contacts(ctx); return err },
	}
	for name, call := range calls {
		if err := call(); !errors.Is(err, token.ErrAuthRequired) {
			t.Errorf("%s: expected ErrAuthRequired, got %v", name, err)
		}
	}
	if hits.Load() != 0 {
		t.Fatalf("expected no network calls, got %d", hits.Load())
	}
}

func TestAccessors_AbsentCollectionsAreEmpty(t *testing.T) {
	svc, _ := newTestService(t, "tok", "", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	ctx := context.Background()

	employees, err := svc.Employees(ctx)
	if err != nil || employees == nil || len(employees) != 0 {
		t.Fatalf("Employees() = %v, %v", employees, err)
	}
	deals, err := svc.Deals(ctx)
	if err != nil || deals == nil || len(deals) != 0 {
		t.Fatalf("Deals() = %v, %v", deals, err)
	}
	tasks, err := svc.ProjectTasks(ctx, "p1")
	if err != nil || tasks == nil || len(tasks) != 0 {
		t.Fatalf("ProjectTasks() = %v, %v", tasks, err)
	}
	slips, err := svc.EmployeePayslips(ctx, "E1", "")
	if err != nil || slips == nil || len(slips) != 0 {
		t.Fatalf("EmployeePayslips() = %v, %v", slips, err)
	}
}

func TestEmployee_ObjectOrArray(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantID  string
		wantErr error
	}{
		{"object", `{"response":{"result":{"employeeId":"7"}}}`, "7", nil},
		{"array", `{"response":{"result":[{"employeeId":"8"}]}}`, "8", nil},
		{"empty array", `{"response":{"result":[]}}`, "", ErrNotFound},
		{"missing", `{"response":{}}`, "", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, "tok", "", func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			e, err := svc.Employee(context.Background(), "x")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Employee() error = %v, want %v", err, tt.wantErr)
			}
			if e.EmployeeID != tt.wantID {
				t.Fatalf("Employee() id = %q, want %q", e.EmployeeID, tt.wantID)
			}
		})
	}
}

func TestPayslipsAndAttendanceQuery(t *testing.T) {
	svc, _ := newTestService(t, "tok", "", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/payroll/v1/employees/E1/payslips":
			if r.URL.Query().Get("pay_period") != "2024-03" {
				t.Errorf("missing pay_period: %s", r.URL.RawQuery)
			}
			w.Write([]byte(`{"payslips":[{"employeeId":"E1","netSalary":1000.5,"deductions":{"pf":10}}]}`))
		case "/people/api/attendance/getAttendanceEntries":
			q := r.URL.Query()
			if q.Get("empId") != "E1" || q.Get("fromDate") != "2024-03-01" || q.Has("toDate") {
				t.Errorf("unexpected attendance query: %s", r.URL.RawQuery)
			}
			w.Write([]byte(`{"response":{"result":[{"date":"2024-03-01","status":"Present"}]}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()

	slips, err := svc.EmployeePayslips(ctx, "E1", "2024-03")
	if err != nil || len(slips) != 1 || slips[0].NetSalary != 1000.5 || slips[0].Deductions.PF != 10 {
		t.Fatalf("EmployeePayslips() = %+v, %v", slips, err)
	}
	entries, err := svc.Attendance(ctx, "E1", "2024-03-01", "")
	if err != nil || len(entries) != 1 || entries[0]["status"] != "Present" {
		t.Fatalf("Attendance() = %+v, %v", entries, err)
	}
}

func TestProjects_PortalScopedPaths(t *testing.T) {
	var paths []string
	svc, _ := newTestService(t, "tok", "acme", func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/restapi/portal/acme/projects/":
			w.Write([]byte(`{"projects":[{"id":"p1","name":"Alpha","status":"active"}]}`))
		case "/restapi/portal/acme/projects/p1/logs/":
			w.Write([]byte(`{"timelogs":[{"id":"l1","hours":2.5}]}`))
		default:
			w.Write([]byte(`{}`))
		}
	})
	ctx := context.Background()

	projects, err := svc.Projects(ctx)
	if err != nil || len(projects) != 1 || projects[0].Name != "Alpha" {
		t.Fatalf("Projects() = %+v, %v", projects, err)
	}
	logs, err := svc.ProjectTimesheets(ctx, "p1", "2024-01-01", "2024-01-31")
	if err != nil || len(logs) != 1 || logs[0].Hours != 2.5 {
		t.Fatalf("ProjectTimesheets() = %+v, %v", logs, err)
	}
	if len(paths) != 2 {
		t.Fatalf("unexpected paths %v", paths)
	}
}

func TestUpdateDeal_SendsDataArray(t *testing.T) {
	svc, _ := newTestService(t, "tok", "", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/crm/v2/Deals/D1" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Data []map[string]interface{} `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Data) != 1 || body.Data[0]["Stage"] != "Closed Won" {
			t.Errorf("unexpected body %+v (%v)", body, err)
		}
		w.Write([]byte(`{"data":[{"code":"SUCCESS","status":"success","message":"record updated","details":{"id":"D1"}}]}`))
	})

	res, err := svc.UpdateDeal(context.Background(), "D1", map[string]interface{}{"Stage": "Closed Won"})
	if err != nil || res.Code != "SUCCESS" || res.Details["id"] != "D1" {
		t.Fatalf("UpdateDeal() = %+v, %v", res, err)
	}
}

func TestAddEmployee_PostsInputData(t *testing.T) {
	svc, _ := newTestService(t, "tok", "", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/people/api/forms/json/employee/insertRecord" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		r.ParseForm()
		var input map[string]string
		if err := json.Unmarshal([]byte(r.PostForm.Get("inputData")), &input); err != nil || input["FirstName"] != "Ada" {
			t.Errorf("unexpected inputData %q", r.PostForm.Get("inputData"))
		}
		w.Write([]byte(`{"response":{"result":{"pkId":"42","message":"Successfully Added"}}}`))
	})

	res, err := svc.AddEmployee(context.Background(), map[string]interface{}{"FirstName": "Ada"})
	if err != nil || res.PkID != "42" {
		t.Fatalf("AddEmployee() = %+v, %v", res, err)
	}
}

func TestVendorErrorsPropagate(t *testing.T) {
	svc, _ := newTestService(t, "tok", "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"INVALID_MODULE","message":"the module name given seems to be invalid","status":"error"}`))
	})

	_, err := svc.Contacts(context.Background())
	var apiErr *upstream.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest || apiErr.Code != "INVALID_MODULE" {
		t.Fatalf("expected APIError, got %v", err)
	}
}
