package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ramothapp/canteen-backend/internal/dto"
	"github.com/ramothapp/canteen-backend/internal/geo"
	"github.com/ramothapp/canteen-backend/internal/identity"
	"github.com/ramothapp/canteen-backend/internal/models"
	"github.com/ramothapp/canteen-backend/internal/services"
)

type SelectionHandler struct {
	selections *services.SelectionService
	users      *services.UserService
}

func NewSelectionHandler(selections *services.SelectionService, users *services.UserService) *SelectionHandler {
	return &SelectionHandler{selections: selections, users: users}
}

// actingUser loads the authenticated roster entry. The engine receives the
// stored row, not the token claims, so role changes take effect
// immediately.
func (h *SelectionHandler) actingUser(c *fiber.Ctx) (*models.User, error) {
	claims, err := identity.FromContext(c)
	if err != nil {
		return nil, err
	}
	user, err := h.users.ByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, services.ErrAccountInactive
	}
	return user, nil
}

func (h *SelectionHandler) Select(c *fiber.Ctx) error {
	user, err := h.actingUser(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.SelectMealRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.MealID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "meal_id is required",
		})
	}

	var reading *geo.Reading
	if req.Location != nil {
		reading = &geo.Reading{
			Lat:            req.Location.Lat,
			Lon:            req.Location.Lon,
			AccuracyMeters: req.Location.AccuracyM,
			SampleAge:      time.Duration(req.Location.SampleAgeMs) * time.Millisecond,
		}
	}

	sel, err := h.selections.Select(user, req.DayOffset, req.MealID, time.Now(), reading)
	if err != nil {
		return rejectSelection(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(sel)
}

func (h *SelectionHandler) Deselect(c *fiber.Ctx) error {
	user, err := h.actingUser(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.DeselectMealRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	removed, err := h.selections.Deselect(user, req.DayOffset, time.Now())
	if err != nil {
		return rejectSelection(c, err)
	}

	return c.JSON(dto.DeselectResponse{Removed: removed})
}

func (h *SelectionHandler) MySelections(c *fiber.Ctx) error {
	user, err := h.actingUser(c)
	if err != nil {
		return unauthorized(c)
	}

	selections, err := h.selections.SelectionsForUser(user)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(selections)
}

// rejectSelection maps engine rejections onto HTTP statuses. Business
// rejections are 4xx; only ErrStoreUnavailable becomes a 5xx.
func rejectSelection(c *fiber.Ctx, err error) error {
	var oor *services.OutOfRangeError
	switch {
	case errors.Is(err, services.ErrDeadlinePassed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.As(err, &oor):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: oor.Error(),
		})
	case errors.Is(err, services.ErrStaleLocation),
		errors.Is(err, services.ErrLowAccuracy),
		errors.Is(err, services.ErrLocationRequired):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrMenuNotFound), errors.Is(err, services.ErrMealNotOnMenu):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return storeError(c, err)
	}
}

func storeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrStoreUnavailable) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Store unavailable, try again",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal error",
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}
