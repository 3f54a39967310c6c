// Package export renders daily reports as spreadsheets for kitchen staff.
// Field names and ordering come from the aggregator; layout is ours.
package export

import (
	"fmt"
	"sort"

	"github.com/ramothapp/canteen-backend/internal/services"
	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary     = "Daily Report"
	sheetDepartments = "By Department"
	sheetMeals       = "Meal Breakdown"
)

// DailyReportWorkbook builds an xlsx workbook from an aggregated report.
// The caller owns the returned file and must Close it.
func DailyReportWorkbook(report *services.DailyReport) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeSummary(f, report); err != nil {
		return nil, err
	}
	if err := writeDepartments(f, report); err != nil {
		return nil, err
	}
	if err := writeMealCounts(f, report); err != nil {
		return nil, err
	}

	// Drop excelize's default sheet.
	f.SetActiveSheet(0)
	return f, nil
}

func writeSummary(f *excelize.File, report *services.DailyReport) error {
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Date", report.Date},
		{"Total workers", report.Stats.Total},
		{"Selected", report.Stats.Selected},
		{"Not selected", report.Stats.NotSelected},
		{"Selection rate", fmt.Sprintf("%.1f%%", report.Stats.SelectionRate)},
		{},
		{"Staff ID", "Name", "Department", "Selected", "Meal", "Time", "Collected"},
	}
	for _, w := range report.Rows {
		selected := "No"
		if w.HasSelected {
			selected = "Yes"
		}
		collected := ""
		if w.HasSelected {
			collected = "No"
			if w.Collected {
				collected = "Yes"
			}
		}
		rows = append(rows, []interface{}{w.StaffID, w.Name, w.Department, selected, w.MealName, w.SelectionTime, collected})
	}

	return writeRows(f, sheetSummary, rows)
}

func writeDepartments(f *excelize.File, report *services.DailyReport) error {
	if _, err := f.NewSheet(sheetDepartments); err != nil {
		return err
	}

	rows := [][]interface{}{}
	for _, group := range report.Departments {
		rows = append(rows, []interface{}{group.Department})
		for i, w := range group.Workers {
			rows = append(rows, []interface{}{fmt.Sprintf("%d", i+1), w.Name, w.MealName, w.SelectionTime})
		}
		rows = append(rows, []interface{}{})
	}

	return writeRows(f, sheetDepartments, rows)
}

func writeMealCounts(f *excelize.File, report *services.DailyReport) error {
	if _, err := f.NewSheet(sheetMeals); err != nil {
		return err
	}

	names := make([]string, 0, len(report.MealCounts))
	for name := range report.MealCounts {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := [][]interface{}{{"Meal", "Count"}}
	for _, name := range names {
		rows = append(rows, []interface{}{name, report.MealCounts[name]})
	}

	return writeRows(f, sheetMeals, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
