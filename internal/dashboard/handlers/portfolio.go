package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pysugar/zoho-dashboard/internal/portfolio"
)

// PortfolioHandler handles GET /api/portfolio?search=&sort=&dir=&page=&page_size=
func PortfolioHandler(repo *portfolio.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		pageSize, _ := strconv.Atoi(q.Get("page_size"))

		result, err := repo.List(r.Context(), portfolio.Query{
			Search:   q.Get("search"),
			SortBy:   q.Get("sort"),
			SortDir:  q.Get("dir"),
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// KPIHandler handles GET /api/kpis/{view}
func KPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cards, err := portfolio.KPIs(chi.URLParam(r, "view"))
		if errors.Is(err, portfolio.ErrUnknownView) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		respond(w, r, cards, err)
	}
}
