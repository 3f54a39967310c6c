package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/ramothapp/canteen-backend/internal/config"
	"github.com/ramothapp/canteen-backend/internal/handlers"
	"github.com/ramothapp/canteen-backend/internal/middleware"
	"github.com/ramothapp/canteen-backend/internal/models"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	selectionHandler *handlers.SelectionHandler,
	menuHandler *handlers.MenuHandler,
	userHandler *handlers.UserHandler,
	distributorHandler *handlers.DistributorHandler,
	reportHandler *handlers.ReportHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health (public)
	api.Get("/health", healthHandler.Check)

	// Auth — stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Worker-facing (any authenticated role; the engine applies its own
	// role-based gates)
	protected := api.Group("", middleware.JWTProtected(cfg))
	protected.Post("/selections", selectionHandler.Select)
	protected.Delete("/selections", selectionHandler.Deselect)
	protected.Get("/selections/me", selectionHandler.MySelections)
	protected.Get("/menus", menuHandler.Week)
	protected.Get("/menus/:date", menuHandler.Get)

	// Distributor serving line
	distributor := api.Group("/distributor",
		middleware.JWTProtected(cfg),
		middleware.RoleRequired(models.RoleDistributor, models.RoleAdmin),
	)
	distributor.Get("/selections", distributorHandler.Selections)
	distributor.Post("/collect", distributorHandler.Collect)
	distributor.Post("/food-ready", distributorHandler.SetFoodReady)
	distributor.Get("/food-status", distributorHandler.FoodStatus)

	// Admin panel
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(cfg))
	admin.Post("/menus", menuHandler.Upsert)
	admin.Delete("/menus/:date", menuHandler.Delete)
	admin.Post("/users", userHandler.Create)
	admin.Get("/users", userHandler.List)
	admin.Put("/users/:id", userHandler.Update)
	admin.Delete("/users/:id", userHandler.Delete)
	admin.Get("/reports/daily", reportHandler.Daily)
	admin.Get("/reports/daily/export", reportHandler.Export)
	admin.Get("/dashboard", reportHandler.Dashboard)
	admin.Get("/selections/recent", reportHandler.Recent)
	admin.Post("/reminders", reportHandler.Remind)
}
