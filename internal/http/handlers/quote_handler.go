package handlers

import (
	"github.com/gofiber/fiber/v2"

	"discountd/internal/domain"
	applog "discountd/internal/log"
	"discountd/internal/services"
	"discountd/internal/validate"
)

type QuoteHandler struct {
	Pricing *services.PricingService
}

type quoteRequest struct {
	Orders map[string]int `json:"orders"`
}

func (h *QuoteHandler) Quote(c *fiber.Ctx) error {
	storeID, ok := validate.ID(c.Params("storeId"))
	if !ok {
		return badRequest(c, "invalid store id")
	}
	var req quoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed basket")
	}
	orders, ok := validate.Orders(req.Orders)
	if !ok {
		return badRequest(c, "basket needs 1-200 products with quantities between 1 and 999")
	}
	q, err := h.Pricing.Quote(domain.Basket{StoreID: storeID, Orders: orders})
	if err != nil {
		return fail(c, "quote.price", err)
	}
	applog.Info(c, "quote.price", map[string]any{"store_id": storeID, "lines": len(q.Lines), "total": q.Total})
	return c.JSON(q)
}
