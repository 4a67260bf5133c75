package shopping

import (
	"context"

	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ShoppingRepository interface {
		GetCartRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uint, error)
		GetRecipeIngredients(ctx context.Context, recipeID uint) ([]*entities.RecipeIngredient, error)
	}

	shoppingRepository struct {
		db *gorm.DB
	}
)

func NewShoppingRepository(db *gorm.DB) ShoppingRepository {
	return &shoppingRepository{db: db}
}

// GetCartRecipeIDs returns the user's cart in insertion order, which fixes
// the order ingredients first appear in the aggregate. recipe_id breaks ties
// between items sharing a timestamp.
func (r *shoppingRepository) GetCartRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uint, error) {
	var items []*entities.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc, recipe_id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.RecipeID)
	}
	return ids, nil
}

func (r *shoppingRepository) GetRecipeIngredients(ctx context.Context, recipeID uint) ([]*entities.RecipeIngredient, error) {
	var rows []*entities.RecipeIngredient
	err := r.db.WithContext(ctx).
		Preload("Ingredient").
		Where("recipe_id = ?", recipeID).
		Order("id asc").
		Find(&rows).Error
	return rows, err
}
