package shopping

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type cartFixture struct {
	db      *gorm.DB
	service ShoppingService
	user    *entities.User
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.CartItem{},
	))

	user := &entities.User{ID: uuid.New(), Email: "u@example.com", Username: "u"}
	require.NoError(t, db.Create(user).Error)

	return &cartFixture{
		db:      db,
		service: NewShoppingService(NewShoppingRepository(db)),
		user:    user,
	}
}

func (f *cartFixture) seedIngredient(t *testing.T, name, unit string) *entities.Ingredient {
	t.Helper()
	ingredient := &entities.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, f.db.Create(ingredient).Error)
	return ingredient
}

func (f *cartFixture) seedRecipe(t *testing.T, name string, rows ...*entities.RecipeIngredient) *entities.Recipe {
	t.Helper()
	recipe := &entities.Recipe{AuthorID: f.user.ID, Name: name, Text: "...", CookingTime: 10}
	require.NoError(t, f.db.Create(recipe).Error)
	for _, row := range rows {
		row.RecipeID = recipe.ID
		require.NoError(t, f.db.Create(row).Error)
	}
	return recipe
}

func (f *cartFixture) addToCart(t *testing.T, recipe *entities.Recipe, at time.Time) {
	t.Helper()
	require.NoError(t, f.db.Create(&entities.CartItem{
		ID:        uuid.New(),
		UserID:    f.user.ID,
		RecipeID:  recipe.ID,
		CreatedAt: at,
	}).Error)
}

func TestAggregateSumsAcrossRecipes(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	flour := f.seedIngredient(t, "мука", "г")
	sugar := f.seedIngredient(t, "сахар", "г")
	milk := f.seedIngredient(t, "молоко", "мл")

	pie := f.seedRecipe(t, "пирог",
		&entities.RecipeIngredient{IngredientID: flour.ID, Amount: 500},
		&entities.RecipeIngredient{IngredientID: sugar.ID, Amount: 100},
	)
	pancakes := f.seedRecipe(t, "блины",
		&entities.RecipeIngredient{IngredientID: milk.ID, Amount: 300},
		&entities.RecipeIngredient{IngredientID: flour.ID, Amount: 200.5},
	)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f.addToCart(t, pie, base)
	f.addToCart(t, pancakes, base.Add(time.Minute))

	rows, err := f.service.Aggregate(ctx, f.user.ID.String())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// first-seen order: pie's rows first, then pancakes' new ingredient
	assert.Equal(t, domain.ShoppingListRow{Name: "мука", MeasurementUnit: "г", Amount: 700.5}, rows[0])
	assert.Equal(t, domain.ShoppingListRow{Name: "сахар", MeasurementUnit: "г", Amount: 100}, rows[1])
	assert.Equal(t, domain.ShoppingListRow{Name: "молоко", MeasurementUnit: "мл", Amount: 300}, rows[2])
}

func TestAggregateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	flour := f.seedIngredient(t, "мука", "г")
	sugar := f.seedIngredient(t, "сахар", "г")
	pie := f.seedRecipe(t, "пирог",
		&entities.RecipeIngredient{IngredientID: flour.ID, Amount: 500},
		&entities.RecipeIngredient{IngredientID: sugar.ID, Amount: 100},
	)
	pancakes := f.seedRecipe(t, "блины",
		&entities.RecipeIngredient{IngredientID: flour.ID, Amount: 200.5},
	)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f.addToCart(t, pie, base)
	f.addToCart(t, pancakes, base.Add(time.Minute))

	first, err := f.service.Aggregate(ctx, f.user.ID.String())
	require.NoError(t, err)
	second, err := f.service.Aggregate(ctx, f.user.ID.String())
	require.NoError(t, err)

	// reading the list never mutates it: repeated calls give the same
	// rows in the same order
	assert.Equal(t, first, second)

	firstCSV, err := f.service.ExportCSV(ctx, f.user.ID.String())
	require.NoError(t, err)
	secondCSV, err := f.service.ExportCSV(ctx, f.user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, firstCSV, secondCSV)
}

func TestAggregateOrderStableOnTimestampTie(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	milk := f.seedIngredient(t, "молоко", "мл")
	flour := f.seedIngredient(t, "мука", "г")
	pancakes := f.seedRecipe(t, "блины",
		&entities.RecipeIngredient{IngredientID: milk.ID, Amount: 300},
	)
	pie := f.seedRecipe(t, "пирог",
		&entities.RecipeIngredient{IngredientID: flour.ID, Amount: 500},
	)

	// identical timestamps: the lower recipe id wins the tie
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f.addToCart(t, pie, at)
	f.addToCart(t, pancakes, at)

	rows, err := f.service.Aggregate(ctx, f.user.ID.String())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "молоко", rows[0].Name)
	assert.Equal(t, "мука", rows[1].Name)
}

func TestAggregateEmptyCart(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	rows, err := f.service.Aggregate(ctx, f.user.ID.String())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	flour := f.seedIngredient(t, "мука", "г")
	milk := f.seedIngredient(t, "молоко", "мл")
	pie := f.seedRecipe(t, "пирог",
		&entities.RecipeIngredient{IngredientID: flour.ID, Amount: 500},
		&entities.RecipeIngredient{IngredientID: milk.ID, Amount: 250.5},
	)
	f.addToCart(t, pie, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	data, err := f.service.ExportCSV(ctx, f.user.ID.String())
	require.NoError(t, err)

	expected := "name,measurement_unit,amount\r\n" +
		"мука,г,500.0\r\n" +
		"молоко,мл,250.5\r\n"
	assert.Equal(t, expected, string(data))
}

func TestExportCSVEmptyCartHasHeaderOnly(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	data, err := f.service.ExportCSV(ctx, f.user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "name,measurement_unit,amount\r\n", string(data))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "500.0", formatAmount(500))
	assert.Equal(t, "0.5", formatAmount(0.5))
	assert.Equal(t, "700.5", formatAmount(700.5))
	assert.Equal(t, "1.0", formatAmount(1))
}
