// Package zohoapi maps dashboard data needs onto vendor endpoints. Every accessor is a single
// gateway call followed by unwrapping the product's response envelope.
package zohoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pysugar/zoho-dashboard/internal/config"
	"github.com/pysugar/zoho-dashboard/internal/upstream"
)

// ErrNotFound is returned when a single-record lookup yields nothing.
var ErrNotFound = errors.New("record not found")

// Doer is satisfied by *upstream.Client.
type Doer interface {
	Do(ctx context.Context, req upstream.Request, out interface{}) error
}

// Service exposes typed accessors over the People, Payroll, Projects and CRM APIs.
type Service struct {
	gw       Doer
	people   string
	payroll  string
	projects string
	crm      string
}

func NewService(gw Doer, cfg config.ZohoConfig) *Service {
	projects := cfg.ProjectsBaseURL
	if cfg.ProjectsPortal != "" {
		projects = upstream.JoinURL(projects, "portal", cfg.ProjectsPortal)
	}
	return &Service{
		gw:       gw,
		people:   cfg.PeopleBaseURL,
		payroll:  cfg.PayrollBaseURL,
		projects: projects,
		crm:      cfg.CRMBaseURL,
	}
}

// peopleEnvelope is {"response": {"result": ...}}
type peopleEnvelope struct {
	Response struct {
		Result json.RawMessage `json:"result"`
	} `json:"response"`
}

// ===== People =====

func (s *Service) Employees(ctx context.Context) ([]Employee, error) {
	var env peopleEnvelope
	if err := s.gw.Do(ctx, upstream.Request{URL: upstream.JoinURL(s.people, "forms", "employee", "records")}, &env); err != nil {
		return nil, err
	}
	out := []Employee{}
	return out, decodeList(env.Response.Result, &out)
}

// Employee returns one record. The vendor answers with an object or a one-element array.
func (s *Service) Employee(ctx context.Context, id string) (Employee, error) {
	var env peopleEnvelope
	if err := s.gw.Do(ctx, upstream.Request{URL: upstream.JoinURL(s.people, "forms", "employee", "records", id)}, &env); err != nil {
		return Employee{}, err
	}

	raw := bytes.TrimSpace(env.Response.Result)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Employee{}, ErrNotFound
	}
	if raw[0] == '[' {
		var list []Employee
		if err := json.Unmarshal(raw, &list); err != nil {
			return Employee{}, fmt.Errorf("decode employee: %w", err)
		}
		if len(list) == 0 {
			return Employee{}, ErrNotFound
		}
		return list[0], nil
	}
	var e Employee
	if err := json.Unmarshal(raw, &e); err != nil {
		return Employee{}, fmt.Errorf("decode employee: %w", err)
	}
	return e, nil
}

// Attendance lists attendance entries. Empty arguments are left out of the query.
func (s *Service) Attendance(ctx context.Context, employeeID, from, to string) ([]AttendanceEntry, error) {
	q := url.Values{}
	setIf(q, "empId", employeeID)
	setIf(q, "fromDate", from)
	setIf(q, "toDate", to)

	var env peopleEnvelope
	if err := s.gw.Do(ctx, upstream.Request{URL: upstream.JoinURL(s.people, "attendance", "getAttendanceEntries"), Query: q}, &env); err != nil {
		return nil, err
	}
	out := []AttendanceEntry{}
	return out, decodeList(env.Response.Result, &out)
}

// InsertResult is the People answer to a record insert.
type InsertResult struct {
	PkID    string `json:"pkId"`
	Message string `json:"message"`
}

// AddEmployee inserts an employee record. fields uses the People form field labels.
func (s *Service) AddEmployee(ctx context.Context, fields map[string]interface{}) (InsertResult, error) {
	input, err := json.Marshal(fields)
	if err != nil {
		return InsertResult{}, fmt.Errorf("encode employee: %w", err)
	}
	var env peopleEnvelope
	req := upstream.Request{
		Method: http.MethodPost,
		URL:    upstream.JoinURL(s.people, "forms", "json", "employee", "insertRecord"),
		Form:   url.Values{"inputData": {string(input)}},
	}
	if err := s.gw.Do(ctx, req, &env); err != nil {
		return InsertResult{}, err
	}
	var res InsertResult
	if len(env.Response.Result) > 0 {
		if err := json.Unmarshal(env.Response.Result, &res); err != nil {
			return InsertResult{}, fmt.Errorf("decode insert result: %w", err)
		}
	}
	return res, nil
}

// ===== Payroll =====

// EmployeePayslips lists payslips, optionally for one pay period.
func (s *Service) EmployeePayslips(ctx context.Context, employeeID, payPeriod string) ([]Payslip, error) {
	q := url.Values{}
	setIf(q, "pay_period", payPeriod)

	var env struct {
		Payslips []Payslip `json:"payslips"`
	}
	if err := s.gw.Do(ctx, upstream.Request{URL: upstream.JoinURL(s.payroll, "employees", employeeID, "payslips"), Query: q}, &env); err != nil {
		return nil, err
	}
	return nonNil(env.Payslips), nil
}

// ===== Projects =====

func (s *Service) Projects(ctx context.Context) ([]Project, error) {
	var env struct {
		Projects []Project `json:"projects"`
	}
	if err := s.gw.Do(ctx, upstream.Request{URL: upstream.JoinURL(s.projects, "projects") + "/"}, &env); err != nil {
		return nil, err
	}
	return nonNil(env.Projects), nil
}

func (s *Service) ProjectTasks(ctx context.Context, projectID string) ([]Task, error) {
	var env struct {
		Tasks []Task `json:"tasks"`
	}
	if err := s.gw.Do(ctx, upstream.Request{URL: upstream.JoinURL(s.projects, "projects", projectID, "tasks") + "/"}, &env); err != nil {
		return nil, err
	}
	return nonNil(env.Tasks), nil
}

// ProjectTimesheets lists time logs between from and to (YYYY-MM-DD, both optional).
func (s *Service) ProjectTimesheets(ctx context.Context, projectID, from, to string) ([]TimeLog, error) {
	q := url.Values{}
	setIf(q, "from_date", from)
	setIf(q, "to_date", to)

	var env struct {
		TimeLogs []TimeLog `json:"timelogs"`
	}
	if err := s.gw.Do(ctx, upstream.Request{URL: upstream.JoinURL(s.projects, "projects", projectID, "logs") + "/", Query: q}, &env); err != nil {
		return nil, err
	}
	return nonNil(env.TimeLogs), nil
}

// ===== CRM =====

func (s *Service) Deals(ctx context.Context) ([]Deal, error) {
	var env struct {
		Data []Deal `json:"data"`
	}
	if err := s.gw.Do(ctx, upstream.Request{URL: upstream.JoinURL(s.crm, "Deals")}, &env); err != nil {
		return nil, err
	}
	return nonNil(env.Data), nil
}

func (s *Service) Contacts(ctx context.Context) ([]Contact, error) {
	var env struct {
		Data []Contact `json:"data"`
	}
	if err := s.gw.Do(ctx, upstream.Request{URL: upstream.JoinURL(s.crm, "Contacts")}, &env); err != nil {
		return nil, err
	}
	return nonNil(env.Data), nil
}

// UpdateResult is the CRM answer for one updated record.
type UpdateResult struct {
	Code    string                 `json:"code"`
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// UpdateDeal updates one deal with the given CRM field values.
func (s *Service) UpdateDeal(ctx context.Context, id string, fields map[string]interface{}) (UpdateResult, error) {
	var env struct {
		Data []UpdateResult `json:"data"`
	}
	req := upstream.Request{
		Method: http.MethodPut,
		URL:    upstream.JoinURL(s.crm, "Deals", id),
		Body:   map[string]interface{}{"data": []map[string]interface{}{fields}},
	}
	if err := s.gw.Do(ctx, req, &env); err != nil {
		return UpdateResult{}, err
	}
	if len(env.Data) == 0 {
		return UpdateResult{}, nil
	}
	return env.Data[0], nil
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func decodeList(raw json.RawMessage, out interface{}) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
