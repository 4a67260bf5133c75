package domain

import (
	"errors"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"

	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrRecipeNameTaken          = errors.New("recipe with this name already exists")
	ErrUnauthorizedRecipeAccess = errors.New("unauthorized access to recipe")
	ErrIngredientsRequired      = errors.New("ingredients required")
	ErrDuplicateIngredient      = errors.New("duplicate ingredient")
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrTagsRequired             = errors.New("tags required")
	ErrDuplicateTag             = errors.New("duplicate tag")
	ErrTagsNotList              = errors.New("must be a list of ids")
	ErrInvalidCookingTime       = errors.New("cooking time must be at least 1 minute")
	ErrImageRequired            = errors.New("image required")
	ErrInvalidImageFormat       = errors.New("invalid image format")
)

type (
	// RecipeIngredientInput is the write-model for one ingredient row:
	// a raw id plus an amount, resolved against the catalog on save.
	RecipeIngredientInput struct {
		ID     uint    `json:"id" validate:"required,min=1"`
		Amount float64 `json:"amount" validate:"required,gt=0"`
	}

	CreateRecipeRequest struct {
		Name        string                  `json:"name" validate:"required,max=128"`
		Text        string                  `json:"text" validate:"required"`
		CookingTime int                     `json:"cooking_time" validate:"required,min=1"`
		Image       string                  `json:"image" validate:"required"`
		Ingredients []RecipeIngredientInput `json:"ingredients" validate:"required"`
		Tags        []uint                  `json:"tags" validate:"required"`
	}

	// UpdateRecipeRequest replaces every submitted collection wholesale;
	// only the image may be omitted to keep the stored one.
	UpdateRecipeRequest struct {
		Name        string                  `json:"name" validate:"required,max=128"`
		Text        string                  `json:"text" validate:"required"`
		CookingTime int                     `json:"cooking_time" validate:"required,min=1"`
		Image       string                  `json:"image" validate:"omitempty"`
		Ingredients []RecipeIngredientInput `json:"ingredients" validate:"required"`
		Tags        []uint                  `json:"tags" validate:"required"`
	}

	// RecipeIngredientDetail is the read-model: the resolved ingredient
	// joined with its per-recipe amount.
	RecipeIngredientDetail struct {
		ID              uint    `json:"id"`
		Name            string  `json:"name"`
		MeasurementUnit string  `json:"measurement_unit"`
		Amount          float64 `json:"amount"`
	}

	RecipeResponse struct {
		ID               uint                     `json:"id"`
		Author           UserResponse             `json:"author"`
		Name             string                   `json:"name"`
		Text             string                   `json:"text"`
		CookingTime      int                      `json:"cooking_time"`
		ImageURL         string                   `json:"image"`
		Ingredients      []RecipeIngredientDetail `json:"ingredients"`
		Tags             []TagResponse            `json:"tags"`
		IsFavorited      bool                     `json:"is_favorited"`
		IsInShoppingCart bool                     `json:"is_in_shopping_cart"`
	}

	// RecipeShortResponse is the card shape used by favorite/cart summaries
	// and the subscriptions listing.
	RecipeShortResponse struct {
		ID          uint   `json:"id"`
		Name        string `json:"name"`
		ImageURL    string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	RecipeListFilter struct {
		AuthorID    string
		TagSlug     string
		FavoritedBy string
		InCartOf    string
	}
)
