// Package analytics computes the aggregates shown on the integrated dashboard.
package analytics

import (
	"context"
	"sort"
	"strings"

	"github.com/pysugar/zoho-dashboard/internal/zohoapi"
	"golang.org/x/sync/errgroup"
)

// Source is satisfied by *zohoapi.Service.
type Source interface {
	Employees(ctx context.Context) ([]zohoapi.Employee, error)
	Projects(ctx context.Context) ([]zohoapi.Project, error)
	Deals(ctx context.Context) ([]zohoapi.Deal, error)
	Contacts(ctx context.Context) ([]zohoapi.Contact, error)
}

type ProjectSummary struct {
	TotalProjects     int     `json:"totalProjects"`
	ActiveProjects    int     `json:"activeProjects"`
	CompletedProjects int     `json:"completedProjects"`
	TotalBudget       float64 `json:"totalBudget"`
}

// StageCount is the number of deals in one pipeline stage.
type StageCount struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

type CRMSummary struct {
	TotalDeals       int          `json:"totalDeals"`
	TotalDealValue   float64      `json:"totalDealValue"`
	AverageDealValue float64      `json:"averageDealValue"`
	TotalContacts    int          `json:"totalContacts"`
	DealsByStage     []StageCount `json:"dealsByStage"`
}

// DepartmentCount is the headcount of one department.
type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

type HRSummary struct {
	TotalEmployees  int               `json:"totalEmployees"`
	ActiveEmployees int               `json:"activeEmployees"`
	Departments     []DepartmentCount `json:"departments"`
}

type Overview struct {
	Projects ProjectSummary `json:"projects"`
	CRM      CRMSummary     `json:"crm"`
	HR       HRSummary      `json:"hr"`
}

// Service fetches from a Source and aggregates.
type Service struct {
	src Source
}

func NewService(src Source) *Service {
	return &Service{src: src}
}

func (s *Service) Projects(ctx context.Context) (ProjectSummary, error) {
	projects, err := s.src.Projects(ctx)
	if err != nil {
		return ProjectSummary{}, err
	}
	return SummarizeProjects(projects), nil
}

func (s *Service) CRM(ctx context.Context) (CRMSummary, error) {
	var (
		deals    []zohoapi.Deal
		contacts []zohoapi.Contact
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		deals, err = s.src.Deals(gctx)
		return err
	})
	g.Go(func() (err error) {
		contacts, err = s.src.Contacts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return CRMSummary{}, err
	}
	return SummarizeCRM(deals, contacts), nil
}

func (s *Service) HR(ctx context.Context) (HRSummary, error) {
	employees, err := s.src.Employees(ctx)
	if err != nil {
		return HRSummary{}, err
	}
	return SummarizeHR(employees), nil
}

// Overview fetches the three modules concurrently. The first failure cancels the rest.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Projects, err = s.Projects(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.CRM, err = s.CRM(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.HR, err = s.HR(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}

func SummarizeProjects(projects []zohoapi.Project) ProjectSummary {
	sum := ProjectSummary{TotalProjects: len(projects)}
	for _, p := range projects {
		switch strings.ToLower(strings.TrimSpace(p.Status)) {
		case "active", "in progress":
			sum.ActiveProjects++
		case "completed":
			sum.CompletedProjects++
		}
		sum.TotalBudget += p.Budget
	}
	return sum
}

func SummarizeCRM(deals []zohoapi.Deal, contacts []zohoapi.Contact) CRMSummary {
	sum := CRMSummary{
		TotalDeals:    len(deals),
		TotalContacts: len(contacts),
		DealsByStage:  []StageCount{},
	}
	byStage := map[string]int{}
	for _, d := range deals {
		sum.TotalDealValue += d.Amount
		byStage[d.Stage]++
	}
	if len(deals) > 0 {
		sum.AverageDealValue = sum.TotalDealValue / float64(len(deals))
	}
	for stage, n := range byStage {
		sum.DealsByStage = append(sum.DealsByStage, StageCount{Stage: stage, Count: n})
	}
	sort.Slice(sum.DealsByStage, func(i, j int) bool {
		a, b := sum.DealsByStage[i], sum.DealsByStage[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Stage < b.Stage
	})
	return sum
}

func SummarizeHR(employees []zohoapi.Employee) HRSummary {
	sum := HRSummary{TotalEmployees: len(employees), Departments: []DepartmentCount{}}
	byDept := map[string]int{}
	for _, e := range employees {
		if strings.EqualFold(e.EmployeeStatus, "active") {
			sum.ActiveEmployees++
		}
		dept := e.Department
		if dept == "" {
			dept = "Unassigned"
		}
		byDept[dept]++
	}
	for dept, n := range byDept {
		sum.Departments = append(sum.Departments, DepartmentCount{Department: dept, Count: n})
	}
	sort.Slice(sum.Departments, func(i, j int) bool {
		a, b := sum.Departments[i], sum.Departments[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Department < b.Department
	})
	return sum
}
