package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"discountd/internal/conditions"
	"discountd/internal/discounts"
	applog "discountd/internal/log"
	"discountd/internal/repos"
	"discountd/internal/services"
)

type fieldError struct {
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// fieldErrors flattens joined validation failures into one entry per field.
func fieldErrors(err error) []fieldError {
	var out []fieldError
	var walk func(error)
	walk = func(err error) {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				walk(e)
			}
			return
		}
		var v *discounts.ValidationError
		if errors.As(err, &v) {
			out = append(out, fieldError{Field: v.Field, Reason: v.Reason})
			return
		}
		out = append(out, fieldError{Reason: err.Error()})
	}
	walk(err)
	return out
}

// fail maps a service error onto a JSON response. Unexpected errors are logged
// and reported without detail.
func fail(c *fiber.Ctx, action string, err error) error {
	switch {
	case isValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "invalid discount",
			"fields": fieldErrors(err),
		})
	case errors.Is(err, conditions.ErrUnsupportedCondition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrDiscountNotFound),
		errors.Is(err, services.ErrDiscountNotInStore):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "discount not found"})
	case errors.Is(err, repos.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, services.ErrEmptyBasket),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrMissingStore),
		errors.Is(err, services.ErrInvalidProduct):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Error(c, action, err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong, please try again"})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func isValidation(err error) bool {
	return errors.Is(err, discounts.ErrInvalidDiscount) || errors.Is(err, conditions.ErrInvalidCondition)
}

// ErrorHandler is the app-wide fiber error handler. Server faults are logged
// and never echoed to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
		return c.Status(code).JSON(fiber.Map{"error": "something went wrong, please try again"})
	}
	return c.Status(code).JSON(fiber.Map{"error": fe.Message})
}
