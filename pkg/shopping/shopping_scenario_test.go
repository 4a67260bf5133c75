package shopping

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/pkg/catalog"
	"foodgram/pkg/recipe"
	"foodgram/pkg/relation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Full flow: catalog setup, two recipes, cart toggles, CSV export.
func TestShoppingListScenario(t *testing.T) {
	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Ingredient{},
		&entities.Tag{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.RecipeTag{},
		&entities.Favorite{},
		&entities.CartItem{},
		&entities.Subscription{},
	))

	catalogRepository := catalog.NewCatalogRepository(db)
	catalogService := catalog.NewCatalogService(catalogRepository)
	recipeService := recipe.NewRecipeService(recipe.NewRecipeRepository(db), catalogRepository, nil)
	relationService := relation.NewRelationService(relation.NewRelationRepository(db))
	shoppingService := NewShoppingService(NewShoppingRepository(db))

	author := &entities.User{ID: uuid.New(), Email: "a@example.com", Username: "author", Role: domain.RoleUser}
	require.NoError(t, db.Create(author).Error)
	authorID := author.ID.String()

	flour, err := catalogService.CreateIngredient(ctx, domain.CreateIngredientRequest{Name: "мука", MeasurementUnit: "г"})
	require.NoError(t, err)
	milk, err := catalogService.CreateIngredient(ctx, domain.CreateIngredientRequest{Name: "молоко", MeasurementUnit: "мл"})
	require.NoError(t, err)
	tag, err := catalogService.CreateTag(ctx, domain.CreateTagRequest{Name: "Выпечка", Color: "#fa0", Slug: "baking"})
	require.NoError(t, err)

	pie, err := recipeService.CreateRecipe(ctx, domain.CreateRecipeRequest{
		Name:        "пирог",
		Text:        "смешать и запечь",
		CookingTime: 45,
		Image:       "https://cdn.example.com/pie.png",
		Ingredients: []domain.RecipeIngredientInput{
			{ID: flour.ID, Amount: 500},
			{ID: milk.ID, Amount: 200},
		},
		Tags: []uint{tag.ID},
	}, authorID)
	require.NoError(t, err)

	pancakes, err := recipeService.CreateRecipe(ctx, domain.CreateRecipeRequest{
		Name:        "блины",
		Text:        "жарить",
		CookingTime: 20,
		Image:       "https://cdn.example.com/pancakes.png",
		Ingredients: []domain.RecipeIngredientInput{
			{ID: flour.ID, Amount: 200.5},
			{ID: milk.ID, Amount: 300},
		},
		Tags: []uint{tag.ID},
	}, authorID)
	require.NoError(t, err)

	_, err = relationService.AddCartItem(ctx, authorID, pie.ID)
	require.NoError(t, err)
	_, err = relationService.AddCartItem(ctx, authorID, pancakes.ID)
	require.NoError(t, err)

	// the flag shows up on reads once the recipe is in the cart
	detail, err := recipeService.GetRecipeDetail(ctx, pie.ID, authorID)
	require.NoError(t, err)
	assert.True(t, detail.IsInShoppingCart)

	data, err := shoppingService.ExportCSV(ctx, authorID)
	require.NoError(t, err)
	expected := "name,measurement_unit,amount\r\n" +
		"мука,г,700.5\r\n" +
		"молоко,мл,500.0\r\n"
	assert.Equal(t, expected, string(data))

	// dropping one recipe from the cart changes the aggregate
	require.NoError(t, relationService.RemoveCartItem(ctx, authorID, pancakes.ID))
	rows, err := shoppingService.Aggregate(ctx, authorID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 500.0, rows[0].Amount)
	assert.Equal(t, 200.0, rows[1].Amount)
}
