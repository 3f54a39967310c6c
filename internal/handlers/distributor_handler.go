package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ramothapp/canteen-backend/internal/dto"
	"github.com/ramothapp/canteen-backend/internal/services"
)

// DistributorHandler covers the serving-line workflow: per-date selection
// lists, marking meals collected, and flagging the day's food ready.
type DistributorHandler struct {
	selections *services.SelectionService
}

func NewDistributorHandler(selections *services.SelectionService) *DistributorHandler {
	return &DistributorHandler{selections: selections}
}

func (h *DistributorHandler) Collect(c *fiber.Ctx) error {
	var req dto.CollectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	sel, err := h.selections.MarkCollected(userID, req.Date)
	if err != nil {
		if errors.Is(err, services.ErrSelectionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return storeError(c, err)
	}

	return c.JSON(sel)
}

func (h *DistributorHandler) Selections(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "date query param is required",
		})
	}

	selections, err := h.selections.SelectionsForDate(date)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(selections)
}

func (h *DistributorHandler) SetFoodReady(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "date query param is required",
		})
	}

	status, err := h.selections.SetFoodReady(date, time.Now())
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(status)
}

func (h *DistributorHandler) FoodStatus(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "date query param is required",
		})
	}

	status, err := h.selections.FoodStatus(date)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(status)
}
