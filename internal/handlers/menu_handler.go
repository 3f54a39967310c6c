package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ramothapp/canteen-backend/internal/dto"
	"github.com/ramothapp/canteen-backend/internal/services"
)

type MenuHandler struct {
	service *services.MenuService
}

func NewMenuHandler(service *services.MenuService) *MenuHandler {
	return &MenuHandler{service: service}
}

func (h *MenuHandler) Upsert(c *fiber.Ctx) error {
	var req dto.UpsertMenuRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "date must be YYYY-MM-DD",
		})
	}

	menu, err := h.service.Upsert(req.Date, req.Meals)
	if err != nil {
		if errors.Is(err, services.ErrTooFewMeals) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return storeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(menu)
}

func (h *MenuHandler) Get(c *fiber.Ctx) error {
	date := c.Params("date")
	menu, err := h.service.ForDate(date)
	if err != nil {
		if errors.Is(err, services.ErrMenuNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return storeError(c, err)
	}
	return c.JSON(menu)
}

func (h *MenuHandler) Week(c *fiber.Ctx) error {
	from := c.Query("from")
	until := c.Query("until")
	if from == "" || until == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "from and until query params are required",
		})
	}

	menus, err := h.service.Week(from, until)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(menus)
}

func (h *MenuHandler) Delete(c *fiber.Ctx) error {
	removed, err := h.service.Delete(c.Params("date"))
	if err != nil {
		return storeError(c, err)
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "no menu for that date",
		})
	}
	return c.JSON(dto.MessageResponse{Message: "Menu deleted"})
}
