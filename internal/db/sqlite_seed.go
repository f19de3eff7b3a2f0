package db

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pysugar/zoho-dashboard/internal/db/models"
	"github.com/pysugar/zoho-dashboard/internal/logging"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ===== First-run seed data =====

// demoUser is a built-in login for evaluating the dashboard roles.
type demoUser struct {
	Username string
	Password string
	Name     string
	Email    string
	Role     string
}

var demoUsers = []demoUser{
	{Username: "viewer", Password: "viewer123", Name: "Dashboard Viewer", Email: "viewer@national.com", Role: "viewer"},
	{Username: "manager", Password: "manager123", Name: "Project Manager", Email: "manager@national.com", Role: "interactive"},
	{Username: "admin", Password: "admin123", Name: "Administrator", Email: "admin@national.com", Role: "admin"},
}

// ensureDemoUsers creates the demo logins that do not exist yet
func ensureDemoUsers(db *gorm.DB) error {
	created := 0
	for _, du := range demoUsers {
		var count int64
		db.Model(&models.User{}).Where("username = ?", du.Username).Count(&count)
		if count > 0 {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(du.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := models.User{
			ID:           uuid.New().String(),
			Username:     du.Username,
			Email:        du.Email,
			Name:         du.Name,
			Role:         du.Role,
			PasswordHash: string(hash),
			IsActive:     true,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		created++
	}
	if created > 0 {
		logging.Warn("seeded demo dashboard users, disable with DASHBOARD_SEED_DEMO_USERS=false", "count", created)
	}
	return nil
}

// ensurePortfolio seeds the project portfolio table when it is empty
func ensurePortfolio(db *gorm.DB) error {
	var count int64
	db.Model(&models.PortfolioProject{}).Count(&count)
	if count > 0 {
		return nil
	}

	rows := defaultPortfolio()
	if err := db.CreateInBatches(rows, 50).Error; err != nil {
		return err
	}
	logging.Info("initialized project portfolio", "projects", len(rows))
	return nil
}

// CodeSeq extracts the numeric suffix of a portfolio code ("NA-110" -> 110).
func CodeSeq(code string) int {
	i := strings.LastIndex(code, "-")
	n, err := strconv.Atoi(code[i+1:])
	if err != nil {
		return 0
	}
	return n
}

func defaultPortfolio() []models.PortfolioProject {
	p := func(code, systemID, name string, completion int, owner, status string, open, closed int, group, start, end, tags string) models.PortfolioProject {
		return models.PortfolioProject{
			Code:        code,
			Seq:         CodeSeq(code),
			SystemID:    systemID,
			Name:        name,
			Access:      "Private",
			Customer:    "-",
			Completion:  completion,
			Owner:       owner,
			Status:      status,
			OpenTasks:   open,
			ClosedTasks: closed,
			Group:       group,
			StartDate:   start,
			EndDate:     end,
			Tags:        tags,
		}
	}

	return []models.PortfolioProject{
		p("NA-110", "293012000000431259", "Aug tracker", 40, "Karthik M K", "Active", 3, 2, "Finance", "", "", ""),
		p("NA-109", "293012000000372023", "HR Monthly Tracker August 2025", 45, "Shruthi Nandeesh", "Active", 23, 19, "Ungrouped Projects", "", "", ""),
		p("NA-108", "293012000000351081", "Under Review, Under Preparation, Dropped Opportunities", 14, "Munavar Sheik", "Active", 18, 3, "NIPL", "", "", ""),
		p("NA-107", "293012000000320136", "Kimmane Resort - Bangalore", 100, "Nirup Jayanth", "Active", 0, 2, "Ungrouped Projects", "", "", ""),
		p("NA-106", "293012000000319101", "Kimmane Residential", 58, "Nirup Jayanth", "Active", 5, 7, "Ungrouped Projects", "", "", ""),
		p("NA-104", "293012000000314095", "Hogenakkal Upcoming construction tender", 60, "Munavar Sheik", "Active", 2, 3, "NIPL", "", "", ""),
		p("NA-103", "293012000000294563", "iSky Tablespace Collaboration for Pre-leased development", 100, "Nirup Jayanth", "Active", 0, 3, "Ungrouped Projects", "", "", ""),
		p("NA-102", "293012000000294437", "iSky - Healthpals Collaboration for Smart Health Kiosks", 66, "Nirup Jayanth", "Active", 1, 2, "Ungrouped Projects", "22/07/2025", "31/07/2025", ""),
		p("NA-101", "293012000000298085", "Daily updation", 97, "Prasanna Hegde", "In Progress", 1, 34, "Consulting", "21/07/2025", "31/07/2025", ""),
		p("NA-99", "293012000000294049", "EOI for Empanelment of electrical vending vehicles for BBMP", 83, "Munavar Sheik", "Active", 1, 5, "Consulting", "", "", ""),
		p("NA-98", "293012000000281031", "D&C TWIN TUNNEL Package-2 Silk Board", 0, "Munavar Sheik", "Active", 3, 0, "NIPL", "15/07/2025", "02/09/2025", ""),
		p("NA-87", "293012000000265745", "Dal Moro - Cafe Interiors - Phoenix Market City", 8, "Siddharth Venkat", "Active", 107, 10, "Real Estate", "15/07/2025", "15/07/2025", ""),
		p("NA-84", "293012000000264664", "Construction Of Tech Infra At Bikaner Airport", 71, "Munavar Sheik", "Active", 2, 5, "NIPL", "19/06/2025", "11/08/2025", "Bikaner Airport MES"),
		p("NA-45", "293012000000230905", "Dal Moro's Marketing", 80, "Dipti Amarnath", "In Progress", 3, 12, "Digital Marketing", "", "", ""),
		p("NA-43", "293012000000230601", "Rainland_Isuzu Marketing", 69, "Dipti Amarnath", "In Progress", 8, 18, "Digital Marketing", "", "", ""),
	}
}
