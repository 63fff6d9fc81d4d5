package handlers

import (
	"github.com/gofiber/fiber/v2"

	"discountd/internal/domain"
	applog "discountd/internal/log"
	"discountd/internal/services"
	"discountd/internal/validate"
)

type ProductHandler struct {
	Products *services.ProductService
}

type productRequest struct {
	Title      string   `json:"title"`
	Price      float64  `json:"price"`
	Categories []string `json:"categories"`
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	storeID, ok := validate.ID(c.Params("storeId"))
	if !ok {
		return badRequest(c, "invalid store id")
	}
	list, err := h.Products.ListStoreProducts(storeID)
	if err != nil {
		return fail(c, "product.list", err)
	}
	if list == nil {
		list = []domain.Product{}
	}
	return c.JSON(fiber.Map{"storeId": storeID, "products": list})
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	storeID, ok := validate.ID(c.Params("storeId"))
	if !ok {
		return badRequest(c, "invalid store id")
	}
	productID, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	item, err := h.Products.Item(storeID, productID)
	if err != nil {
		return fail(c, "product.detail", err)
	}
	return c.JSON(item)
}

// Save creates or replaces a product and its categories.
func (h *ProductHandler) Save(c *fiber.Ctx) error {
	storeID, ok := validate.ID(c.Params("storeId"))
	if !ok {
		return badRequest(c, "invalid store id")
	}
	productID, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed product")
	}
	title, ok := validate.Title(req.Title)
	if !ok {
		return badRequest(c, "title must be 1-120 characters")
	}
	cats := make([]string, 0, len(req.Categories))
	for _, raw := range req.Categories {
		cat, ok := validate.ID(raw)
		if !ok {
			return badRequest(c, "invalid category")
		}
		cats = append(cats, cat)
	}
	p := domain.Product{ID: productID, StoreID: storeID, Title: title, Price: req.Price, Active: true}
	if err := h.Products.SaveProduct(p, cats...); err != nil {
		return fail(c, "product.save", err)
	}
	applog.Audit(c, "product.save", map[string]any{"store_id": storeID, "product_id": productID, "price": req.Price})
	return c.Status(fiber.StatusOK).JSON(p)
}
