package handlers

import (
	"errors"
	"testing"

	"foodgram/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, statusForError(domain.ErrRecipeNotFound))
	assert.Equal(t, fiber.StatusNotFound, statusForError(domain.ErrUserNotFound))
	assert.Equal(t, fiber.StatusForbidden, statusForError(domain.ErrUnauthorizedRecipeAccess))
	assert.Equal(t, fiber.StatusBadRequest, statusForError(domain.ErrAlreadyFavorited))
	assert.Equal(t, fiber.StatusBadRequest, statusForError(errors.New("anything else")))
}

func TestCheckTagsShape(t *testing.T) {
	assert.NoError(t, checkTagsShape([]byte(`{"tags":[1,2]}`)))
	assert.NoError(t, checkTagsShape([]byte(`{"tags":[]}`)))
	assert.NoError(t, checkTagsShape([]byte(`{"name":"x"}`)))

	err := checkTagsShape([]byte(`{"tags":3}`))
	assert.ErrorIs(t, err, domain.ErrTagsNotList)
	assert.EqualError(t, err, "must be a list of ids")

	assert.ErrorIs(t, checkTagsShape([]byte(`{"tags":"3"}`)), domain.ErrTagsNotList)
	assert.ErrorIs(t, checkTagsShape([]byte(`{"tags":{"id":3}}`)), domain.ErrTagsNotList)
}
