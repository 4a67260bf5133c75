package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	MessageSuccessGetIngredients   = "success get ingredients"
	MessageSuccessCreateIngredient = "ingredient created successfully"
	MessageSuccessDeleteIngredient = "ingredient deleted successfully"
	MessageSuccessImportCSV        = "ingredients imported successfully"
	MessageSuccessGetTags          = "success get tags"
	MessageSuccessCreateTag        = "tag created successfully"
	MessageSuccessDeleteTag        = "tag deleted successfully"

	MessageFailedGetIngredients   = "failed to get ingredients"
	MessageFailedCreateIngredient = "failed to create ingredient"
	MessageFailedDeleteIngredient = "failed to delete ingredient"
	MessageFailedImportCSV        = "failed to import ingredients"
	MessageFailedGetTags          = "failed to get tags"
	MessageFailedCreateTag        = "failed to create tag"
	MessageFailedDeleteTag        = "failed to delete tag"

	ErrIngredientNotFound   = errors.New("ingredient not found")
	ErrIngredientExists     = errors.New("ingredient with this name and unit already exists")
	ErrIngredientReferenced = errors.New("ingredient is referenced by recipes and cannot be deleted")
	ErrInvalidUnit          = errors.New("measurement unit is not in the allowed set")
	ErrTagNotFound          = errors.New("tag not found")
	ErrTagExists            = errors.New("tag with this name, slug or color already exists")
	ErrTagReferenced        = errors.New("tag is referenced by recipes and cannot be deleted")
	ErrInvalidColor         = errors.New("color must be a 3 or 6 digit hex value")
)

// TagsNotFoundError aggregates every unknown tag id in a submitted list,
// so callers see all bad ids at once rather than just the first.
type TagsNotFoundError struct {
	Pks []uint
}

func (e *TagsNotFoundError) Error() string {
	parts := make([]string, 0, len(e.Pks))
	for _, pk := range e.Pks {
		parts = append(parts, fmt.Sprintf("tag not found, pk=%d", pk))
	}
	return strings.Join(parts, "; ")
}

type (
	IngredientResponse struct {
		ID              uint   `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}

	CreateIngredientRequest struct {
		Name            string `json:"name" validate:"required,max=48"`
		MeasurementUnit string `json:"measurement_unit" validate:"required,max=48"`
	}

	TagResponse struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}

	CreateTagRequest struct {
		Name  string `json:"name" validate:"required,max=200"`
		Color string `json:"color" validate:"required,max=7"`
		Slug  string `json:"slug" validate:"required,max=200"`
	}

	// ImportReport summarizes a CSV bulk import: inserted row count plus
	// every rejected line with its reason.
	ImportReport struct {
		Imported int      `json:"imported"`
		Skipped  int      `json:"skipped"`
		Errors   []string `json:"errors,omitempty"`
	}
)
