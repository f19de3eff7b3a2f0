package portfolio

import "errors"

// ErrUnknownView is returned for a KPI view that has no cards.
var ErrUnknownView = errors.New("unknown kpi view")

// KPICard is one headline figure on a dashboard view.
type KPICard struct {
	Title       string  `json:"title"`
	Value       string  `json:"value"`
	Description string  `json:"description"`
	Trend       float64 `json:"trend,omitempty"`
}

var kpiViews = map[string][]KPICard{
	"people": {
		{Title: "Total Employees", Value: "142", Description: "Across all departments", Trend: 5.2},
		{Title: "Active Today", Value: "138", Description: "Present and working", Trend: 2.1},
		{Title: "On Leave", Value: "4", Description: "Various leave types", Trend: -12.5},
		{Title: "New Joiners", Value: "8", Description: "This month", Trend: 25.0},
	},
	"payroll": {
		{Title: "Total Gross", Value: "₹1,18,25,00,000", Description: "Before employee deductions"},
		{Title: "Net Pay", Value: "₹99,85,00,000", Description: "Post deductions"},
		{Title: "Deductions", Value: "₹18,40,000", Description: "PF, ESI, PT and TDS"},
		{Title: "Headcount", Value: "142", Description: "Avg CTC ₹5,25,000/yr"},
	},
}

// KPIs returns the static cards of view.
func KPIs(view string) ([]KPICard, error) {
	cards, ok := kpiViews[view]
	if !ok {
		return nil, ErrUnknownView
	}
	out := make([]KPICard, len(cards))
	copy(out, cards)
	return out, nil
}
