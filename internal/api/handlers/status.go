package handlers

import (
	"errors"

	"foodgram/domain"

	"github.com/gofiber/fiber/v2"
)

// statusForError picks the HTTP status for a service error. Missing targets
// are 404, ownership violations 403, everything else a plain 400.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrIngredientNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorizedRecipeAccess),
		errors.Is(err, domain.ErrUserNotAllowed):
		return fiber.StatusForbidden
	}
	return fiber.StatusBadRequest
}
