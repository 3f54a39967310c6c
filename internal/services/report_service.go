package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ramothapp/canteen-backend/internal/models"
	"gorm.io/gorm"
)

// WorkerReport is one roster row in the daily report.
type WorkerReport struct {
	ID            uuid.UUID `json:"id"`
	StaffID       string    `json:"staff_id"`
	Name          string    `json:"name"`
	Department    string    `json:"department"`
	HasSelected   bool      `json:"has_selected"`
	MealName      string    `json:"meal_name,omitempty"`
	SelectionTime string    `json:"selection_time,omitempty"`
	Collected     bool      `json:"collected"`
}

type ReportStats struct {
	Total         int     `json:"total"`
	Selected      int     `json:"selected"`
	NotSelected   int     `json:"not_selected"`
	SelectionRate float64 `json:"selection_rate"`
}

// DepartmentGroup holds the selected rows of one department, for the
// kitchen's distribution sheets.
type DepartmentGroup struct {
	Department string         `json:"department"`
	Workers    []WorkerReport `json:"workers"`
}

type DailyReport struct {
	Date        string            `json:"date"`
	Rows        []WorkerReport    `json:"rows"`
	Stats       ReportStats       `json:"stats"`
	Departments []DepartmentGroup `json:"departments"`
	MealCounts  map[string]int    `json:"meal_counts"`
}

type DashboardStats struct {
	TotalWorkers    int     `json:"total_workers"`
	TodaySelections int     `json:"today_selections"`
	SelectionRate   float64 `json:"selection_rate"`
	CollectedCount  int     `json:"collected_count"`
	PendingCount    int     `json:"pending_count"`
}

// RecentSelection is a denormalized row for the admin dashboard feed.
type RecentSelection struct {
	UserName   string `json:"user_name"`
	Department string `json:"department"`
	MealName   string `json:"meal_name"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Collected  bool   `json:"collected"`
}

type ReportService struct {
	db  *gorm.DB
	loc *time.Location
}

func NewReportService(db *gorm.DB, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{db: db, loc: loc}
}

// BuildReport turns a roster plus a date's selections into the daily
// report. Pure: identical inputs give byte-identical output, rows sorted by
// department then name so exports are diffable. Only active workers count;
// admin and distributor accounts never appear.
func BuildReport(date string, roster []models.User, selections []models.Selection, loc *time.Location) *DailyReport {
	if loc == nil {
		loc = time.UTC
	}

	byUser := make(map[uuid.UUID]*models.Selection, len(selections))
	for i := range selections {
		byUser[selections[i].UserID] = &selections[i]
	}

	rows := make([]WorkerReport, 0, len(roster))
	for _, worker := range roster {
		if worker.Role != models.RoleWorker || !worker.IsActive {
			continue
		}
		row := WorkerReport{
			ID:         worker.ID,
			StaffID:    worker.StaffID,
			Name:       worker.Name(),
			Department: worker.Department,
		}
		if sel, ok := byUser[worker.ID]; ok {
			row.HasSelected = true
			row.MealName = sel.MealName
			row.SelectionTime = sel.CreatedAt.In(loc).Format("15:04")
			row.Collected = sel.Collected
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Department != rows[j].Department {
			return rows[i].Department < rows[j].Department
		}
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].StaffID < rows[j].StaffID
	})

	selected := 0
	mealCounts := make(map[string]int)
	grouped := make(map[string][]WorkerReport)
	for _, row := range rows {
		if !row.HasSelected {
			continue
		}
		selected++
		mealCounts[row.MealName]++
		grouped[row.Department] = append(grouped[row.Department], row)
	}

	departments := make([]DepartmentGroup, 0, len(grouped))
	for dept, workers := range grouped {
		departments = append(departments, DepartmentGroup{Department: dept, Workers: workers})
	}
	sort.Slice(departments, func(i, j int) bool {
		return departments[i].Department < departments[j].Department
	})

	total := len(rows)
	rate := 0.0
	if total > 0 {
		rate = float64(selected) / float64(total) * 100
	}

	return &DailyReport{
		Date:        date,
		Rows:        rows,
		Stats:       ReportStats{Total: total, Selected: selected, NotSelected: total - selected, SelectionRate: rate},
		Departments: departments,
		MealCounts:  mealCounts,
	}
}

// Daily pulls the roster and the date's selections and aggregates them.
// The two reads are a snapshot, not a transaction; a report generated
// during a concurrent write may miss it, which is acceptable.
func (s *ReportService) Daily(date string) (*DailyReport, error) {
	roster, err := s.activeWorkers()
	if err != nil {
		return nil, err
	}

	var selections []models.Selection
	if err := s.db.Where("date = ?", date).Find(&selections).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return BuildReport(date, roster, selections, s.loc), nil
}

// Dashboard computes the admin landing-page stats for a date.
func (s *ReportService) Dashboard(date string) (*DashboardStats, error) {
	report, err := s.Daily(date)
	if err != nil {
		return nil, err
	}

	collected := 0
	for _, row := range report.Rows {
		if row.Collected {
			collected++
		}
	}

	return &DashboardStats{
		TotalWorkers:    report.Stats.Total,
		TodaySelections: report.Stats.Selected,
		SelectionRate:   report.Stats.SelectionRate,
		CollectedCount:  collected,
		PendingCount:    report.Stats.Selected - collected,
	}, nil
}

// Recent returns the latest worker selections across all dates, newest
// first, with roster fields joined in.
func (s *ReportService) Recent(limit int) ([]RecentSelection, error) {
	limit = clampRecentLimit(limit)

	type joined struct {
		models.Selection
		FirstName  string
		LastName   string
		Department string
	}

	var rows []joined
	err := s.db.Model(&models.Selection{}).
		Select("selections.*, users.first_name, users.last_name, users.department").
		Joins("JOIN users ON users.id = selections.user_id").
		Where("users.role = ? AND users.is_active = true", models.RoleWorker).
		Order("selections.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	recent := make([]RecentSelection, 0, len(rows))
	for _, r := range rows {
		recent = append(recent, RecentSelection{
			UserName:   r.FirstName + " " + r.LastName,
			Department: r.Department,
			MealName:   r.MealName,
			Date:       r.Date,
			Time:       r.CreatedAt.In(s.loc).Format("15:04"),
			Collected:  r.Collected,
		})
	}
	return recent, nil
}

// clampRecentLimit keeps the feed size between the default and the cap.
// Oversized requests get the cap, not the default.
func clampRecentLimit(limit int) int {
	switch {
	case limit <= 0:
		return 5
	case limit > 50:
		return 50
	default:
		return limit
	}
}

func (s *ReportService) activeWorkers() ([]models.User, error) {
	var roster []models.User
	err := s.db.Where("role = ? AND is_active = true", models.RoleWorker).
		Order("department ASC, first_name ASC, last_name ASC").
		Find(&roster).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return roster, nil
}
