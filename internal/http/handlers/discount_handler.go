package handlers

import (
	"github.com/gofiber/fiber/v2"

	"discountd/internal/discounts"
	"discountd/internal/domain"
	applog "discountd/internal/log"
	"discountd/internal/metrics"
	"discountd/internal/services"
	"discountd/internal/validate"
)

type DiscountHandler struct {
	Catalog *services.DiscountCatalog
	Metrics *metrics.Metrics
}

func (h *DiscountHandler) changed(op string) {
	if h.Metrics != nil {
		h.Metrics.DiscountChanges.WithLabelValues(op).Inc()
	}
}

func (h *DiscountHandler) rejected(err error) {
	if h.Metrics != nil && isValidation(err) {
		h.Metrics.ValidationErrors.Inc()
	}
}

func (h *DiscountHandler) List(c *fiber.Ctx) error {
	storeID, ok := validate.ID(c.Params("storeId"))
	if !ok {
		return badRequest(c, "invalid store id")
	}
	list, err := h.Catalog.StoreDiscounts(storeID)
	if err != nil {
		return fail(c, "discount.list", err)
	}
	out := make([]*domain.DiscountDTO, 0, len(list))
	for _, d := range list {
		dto, err := discounts.ToDTO(d)
		if err != nil {
			return fail(c, "discount.list", err)
		}
		out = append(out, dto)
	}
	return c.JSON(fiber.Map{"storeId": storeID, "discounts": out})
}

func (h *DiscountHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid discount id")
	}
	d, err := h.Catalog.GetDiscount(id)
	if err != nil {
		return fail(c, "discount.get", err)
	}
	return h.respond(c, fiber.StatusOK, d)
}

func (h *DiscountHandler) Create(c *fiber.Ctx) error {
	storeID, ok := validate.ID(c.Params("storeId"))
	if !ok {
		return badRequest(c, "invalid store id")
	}
	var dto domain.DiscountDTO
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "malformed discount description")
	}
	if dto.ID != "" {
		if _, ok := validate.ID(dto.ID); !ok {
			return badRequest(c, "invalid discount id")
		}
		exists, err := h.Catalog.DiscountExists(dto.ID)
		if err != nil {
			return fail(c, "discount.create", err)
		}
		if exists {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "discount already exists"})
		}
	}
	d, err := h.Catalog.AddDiscountDTO(storeID, &dto)
	if err != nil {
		h.rejected(err)
		return fail(c, "discount.create", err)
	}
	h.changed("create")
	applog.Audit(c, "discount.create", map[string]any{"store_id": storeID, "discount_id": d.ID(), "type": string(dto.Type)})
	return h.respond(c, fiber.StatusCreated, d)
}

func (h *DiscountHandler) Update(c *fiber.Ctx) error {
	storeID, ok := validate.ID(c.Params("storeId"))
	if !ok {
		return badRequest(c, "invalid store id")
	}
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid discount id")
	}
	var dto domain.DiscountDTO
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "malformed discount description")
	}
	d, err := h.Catalog.UpdateDiscountDTO(storeID, id, &dto)
	if err != nil {
		h.rejected(err)
		return fail(c, "discount.update", err)
	}
	h.changed("update")
	applog.Audit(c, "discount.update", map[string]any{"store_id": storeID, "discount_id": id})
	return h.respond(c, fiber.StatusOK, d)
}

func (h *DiscountHandler) Delete(c *fiber.Ctx) error {
	storeID, ok := validate.ID(c.Params("storeId"))
	if !ok {
		return badRequest(c, "invalid store id")
	}
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid discount id")
	}
	if _, err := h.Catalog.RemoveStoreDiscount(storeID, id); err != nil {
		return fail(c, "discount.delete", err)
	}
	h.changed("delete")
	applog.Audit(c, "discount.delete", map[string]any{"store_id": storeID, "discount_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DiscountHandler) respond(c *fiber.Ctx, status int, d discounts.Discount) error {
	dto, err := discounts.ToDTO(d)
	if err != nil {
		return fail(c, "discount.render", err)
	}
	return c.Status(status).JSON(dto)
}
