package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ramothapp/canteen-backend/internal/dto"
	"github.com/ramothapp/canteen-backend/internal/export"
	"github.com/ramothapp/canteen-backend/internal/services"
)

type ReportHandler struct {
	reports    *services.ReportService
	selections *services.SelectionService
}

func NewReportHandler(reports *services.ReportService, selections *services.SelectionService) *ReportHandler {
	return &ReportHandler{reports: reports, selections: selections}
}

func (h *ReportHandler) reportDate(c *fiber.Ctx) (string, bool) {
	date := c.Query("date")
	if date == "" {
		return "", false
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", false
	}
	return date, true
}

func (h *ReportHandler) Daily(c *fiber.Ctx) error {
	date, ok := h.reportDate(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "date query param must be YYYY-MM-DD",
		})
	}

	report, err := h.reports.Daily(date)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) Export(c *fiber.Ctx) error {
	date, ok := h.reportDate(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "date query param must be YYYY-MM-DD",
		})
	}

	report, err := h.reports.Daily(date)
	if err != nil {
		return storeError(c, err)
	}

	workbook, err := export.DailyReportWorkbook(report)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to build workbook",
		})
	}
	defer workbook.Close()

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to encode workbook",
		})
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="daily-report-`+date+`.xlsx"`)
	return c.Send(buf.Bytes())
}

func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	date, ok := h.reportDate(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "date query param must be YYYY-MM-DD",
		})
	}

	stats, err := h.reports.Dashboard(date)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(stats)
}

func (h *ReportHandler) Recent(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "5"))
	recent, err := h.reports.Recent(limit)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(recent)
}

// Remind triggers the pick-tomorrow's-meal nudge. Hit by the deployment's
// scheduler shortly before the evening cutoff.
func (h *ReportHandler) Remind(c *fiber.Ctx) error {
	h.selections.SendReminder(time.Now())
	return c.JSON(dto.MessageResponse{Message: "Reminder published"})
}
