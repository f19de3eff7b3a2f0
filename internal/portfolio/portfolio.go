// Package portfolio serves the project portfolio table stored in sqlite.
package portfolio

import (
	"context"
	"fmt"
	"strings"

	"github.com/pysugar/zoho-dashboard/internal/db/models"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// sortColumns maps the public sort keys to columns. "id" orders by the numeric part of the code.
var sortColumns = map[string]string{
	"id":         "seq",
	"name":       "name",
	"completion": "completion",
	"status":     "status",
}

// Query selects one page of the portfolio.
type Query struct {
	Search   string
	SortBy   string
	SortDir  string
	Page     int
	PageSize int
}

// Page is one page of results.
type Page struct {
	Items      []models.PortfolioProject `json:"items"`
	Total      int64                     `json:"total"`
	Page       int                       `json:"page"`
	PageSize   int                       `json:"page_size"`
	TotalPages int                       `json:"total_pages"`
}

// Normalize fills defaults and clamps out-of-range values.
func (q Query) Normalize() Query {
	q.Search = strings.TrimSpace(q.Search)
	if _, ok := sortColumns[q.SortBy]; !ok {
		q.SortBy = "id"
	}
	if q.SortDir != "asc" {
		q.SortDir = "desc"
	}
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.PageSize <= 0:
		q.PageSize = DefaultPageSize
	case q.PageSize > MaxPageSize:
		q.PageSize = MaxPageSize
	}
	return q
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List runs q against the portfolio table.
func (r *Repository) List(ctx context.Context, q Query) (Page, error) {
	q = q.Normalize()

	tx := r.db.WithContext(ctx).Model(&models.PortfolioProject{})
	if q.Search != "" {
		like := "%" + strings.ToLower(q.Search) + "%"
		tx = tx.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ? OR LOWER(owner) LIKE ? OR LOWER(project_group) LIKE ?",
			like, like, like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return Page{}, fmt.Errorf("count portfolio: %w", err)
	}

	items := []models.PortfolioProject{}
	order := fmt.Sprintf("%s %s, id %s", sortColumns[q.SortBy], q.SortDir, q.SortDir)
	err := tx.Order(order).Offset((q.Page - 1) * q.PageSize).Limit(q.PageSize).Find(&items).Error
	if err != nil {
		return Page{}, fmt.Errorf("list portfolio: %w", err)
	}

	return Page{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: int((total + int64(q.PageSize) - 1) / int64(q.PageSize)),
	}, nil
}
