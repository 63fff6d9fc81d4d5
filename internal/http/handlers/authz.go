package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "discountd/internal/log"
	"discountd/internal/services"
)

// AdminKeyHeader carries the shared admin key on mutating requests.
const AdminKeyHeader = "X-Admin-Key"

func RequireAdmin(auth *services.AdminAuth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(AdminKeyHeader)
		if err := auth.Check(key); err != nil {
			applog.Security(c, "access.denied.admin", map[string]any{"key_present": key != ""})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "admin key required"})
		}
		c.Locals("admin", true)
		return c.Next()
	}
}
