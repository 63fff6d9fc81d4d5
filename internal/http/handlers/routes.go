package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "discountd/internal/log"
)

// Mount registers the API routes on app.
func Mount(app *fiber.App, deps *Deps) {
	api := app.Group("/api/v1")

	quoteLimiter := limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|quote"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.quote.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	admin := RequireAdmin(deps.Auth)

	stores := api.Group("/stores/:storeId")
	stores.Get("/discounts", deps.DiscountHandler.List)
	stores.Post("/discounts", admin, deps.DiscountHandler.Create)
	stores.Put("/discounts/:id", admin, deps.DiscountHandler.Update)
	stores.Delete("/discounts/:id", admin, deps.DiscountHandler.Delete)
	stores.Post("/quote", quoteLimiter, deps.QuoteHandler.Quote)
	stores.Get("/products", deps.ProductHandler.List)
	stores.Get("/products/:id", deps.ProductHandler.Detail)
	stores.Put("/products/:id", admin, deps.ProductHandler.Save)

	api.Get("/discounts/:id", deps.DiscountHandler.Get)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})
}
