package models

// PortfolioProject is one row of the project portfolio table.
type PortfolioProject struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	Code        string `gorm:"uniqueIndex;not null" json:"id"` // e.g., "NA-101"
	Seq         int    `gorm:"index" json:"-"`                 // numeric part of Code, used for ordering
	SystemID    string `json:"system_id"`
	Name        string `gorm:"index" json:"name"`
	Access      string `json:"access"`
	Customer    string `json:"customer"`
	Completion  int    `json:"completion"` // percent, 0-100
	Owner       string `json:"owner"`
	Status      string `gorm:"index" json:"status"`
	OpenTasks   int    `json:"open_tasks"`
	ClosedTasks int    `json:"closed_tasks"`
	Group       string `gorm:"column:project_group" json:"group"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Tags        string `json:"tags"` // comma separated
}
