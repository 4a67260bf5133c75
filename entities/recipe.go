package entities

import (
	"github.com/google/uuid"
)

type Recipe struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AuthorID    uuid.UUID `gorm:"type:uuid;index" json:"author_id"`
	Name        string    `gorm:"uniqueIndex" json:"name"`
	Text        string    `gorm:"type:text" json:"text"`
	CookingTime int       `json:"cooking_time"`
	ImageURL    string    `json:"image_url"`

	Author      *User               `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Ingredients []*RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients,omitempty"`
	Tags        []*RecipeTag        `gorm:"foreignKey:RecipeID" json:"tags,omitempty"`
	Timestamp
}

// RecipeIngredient links a recipe to an ingredient with a per-recipe amount.
// A recipe never lists the same ingredient twice.
type RecipeIngredient struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	RecipeID     uint    `gorm:"uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uint    `gorm:"uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Amount       float64 `json:"amount"`

	Recipe     *Recipe     `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}

type RecipeTag struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	RecipeID uint `gorm:"uniqueIndex:idx_recipe_tag" json:"recipe_id"`
	TagID    uint `gorm:"uniqueIndex:idx_recipe_tag" json:"tag_id"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
	Tag    *Tag    `gorm:"foreignKey:TagID" json:"tag,omitempty"`
}
