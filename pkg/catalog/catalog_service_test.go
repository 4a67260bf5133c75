package catalog

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	))
	return db
}

func newTestService(t *testing.T) (CatalogService, *gorm.DB) {
	db := newTestDB(t)
	return NewCatalogService(NewCatalogRepository(db)), db
}

func TestCreateIngredient(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	res, err := service.CreateIngredient(ctx, domain.CreateIngredientRequest{
		Name:            "Мука",
		MeasurementUnit: "г",
	})
	require.NoError(t, err)
	assert.Equal(t, "мука", res.Name, "names are stored lowercased")
	assert.Equal(t, "г", res.MeasurementUnit)
	assert.NotZero(t, res.ID)
}

func TestCreateIngredientRejectsUnknownUnit(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	_, err := service.CreateIngredient(ctx, domain.CreateIngredientRequest{
		Name:            "мука",
		MeasurementUnit: "мешок",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidUnit)
}

func TestCreateIngredientDuplicatePair(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	_, err := service.CreateIngredient(ctx, domain.CreateIngredientRequest{Name: "соль", MeasurementUnit: "г"})
	require.NoError(t, err)

	_, err = service.CreateIngredient(ctx, domain.CreateIngredientRequest{Name: "Соль", MeasurementUnit: "г"})
	assert.ErrorIs(t, err, domain.ErrIngredientExists)

	// same name under a different unit is a distinct catalog entry
	_, err = service.CreateIngredient(ctx, domain.CreateIngredientRequest{Name: "соль", MeasurementUnit: "ст. л."})
	assert.NoError(t, err)
}

func TestGetIngredientsSearchIsPrefixAndCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	for _, name := range []string{"мука", "мука ржаная", "сахар"} {
		_, err := service.CreateIngredient(ctx, domain.CreateIngredientRequest{Name: name, MeasurementUnit: "г"})
		require.NoError(t, err)
	}

	found, err := service.GetIngredients(ctx, "МуК")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "мука", found[0].Name)
	assert.Equal(t, "мука ржаная", found[1].Name)
}

func TestDeleteIngredientReferenced(t *testing.T) {
	ctx := context.Background()
	service, db := newTestService(t)

	res, err := service.CreateIngredient(ctx, domain.CreateIngredientRequest{Name: "мука", MeasurementUnit: "г"})
	require.NoError(t, err)

	recipe := &entities.Recipe{AuthorID: uuid.New(), Name: "хлеб", Text: "...", CookingTime: 60}
	require.NoError(t, db.Create(recipe).Error)
	require.NoError(t, db.Create(&entities.RecipeIngredient{
		RecipeID:     recipe.ID,
		IngredientID: res.ID,
		Amount:       500,
	}).Error)

	err = service.DeleteIngredient(ctx, res.ID)
	assert.ErrorIs(t, err, domain.ErrIngredientReferenced)

	require.NoError(t, db.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeIngredient{}).Error)
	assert.NoError(t, service.DeleteIngredient(ctx, res.ID))

	_, err = service.GetIngredientByID(ctx, res.ID)
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
}

func TestImportIngredientsCSV(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	_, err := service.CreateIngredient(ctx, domain.CreateIngredientRequest{Name: "соль", MeasurementUnit: "г"})
	require.NoError(t, err)

	csvBody := strings.Join([]string{
		"name,measurement_unit",
		"Мука,г",
		"соль,г",
		"перец,мешок",
		",г",
		"сахар,г",
	}, "\n")

	report, err := service.ImportIngredientsCSV(ctx, strings.NewReader(csvBody))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 3, report.Skipped)
	assert.Len(t, report.Errors, 3)

	found, err := service.GetIngredients(ctx, "мука")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "мука", found[0].Name)
}

func TestNormalizeHexColor(t *testing.T) {
	color, err := NormalizeHexColor("#aB3")
	require.NoError(t, err)
	assert.Equal(t, "#aaBB33", color)

	color, err = NormalizeHexColor("#a1b2c3")
	require.NoError(t, err)
	assert.Equal(t, "#a1b2c3", color)

	for _, bad := range []string{"fff", "#ab", "#abcd", "#ggg", ""} {
		_, err := NormalizeHexColor(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidColor, bad)
	}
}

func TestCreateTag(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	res, err := service.CreateTag(ctx, domain.CreateTagRequest{Name: "Завтрак", Color: "#e26", Slug: "breakfast"})
	require.NoError(t, err)
	assert.Equal(t, "#ee2266", res.Color)

	_, err = service.CreateTag(ctx, domain.CreateTagRequest{Name: "Завтрак", Color: "#000000", Slug: "other"})
	assert.ErrorIs(t, err, domain.ErrTagExists)
}

func TestDeleteTagReferenced(t *testing.T) {
	ctx := context.Background()
	service, db := newTestService(t)

	tag, err := service.CreateTag(ctx, domain.CreateTagRequest{Name: "Обед", Color: "#00ff00", Slug: "lunch"})
	require.NoError(t, err)

	recipe := &entities.Recipe{AuthorID: uuid.New(), Name: "суп", Text: "...", CookingTime: 40}
	require.NoError(t, db.Create(recipe).Error)
	require.NoError(t, db.Create(&entities.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}).Error)

	err = service.DeleteTag(ctx, tag.ID)
	assert.ErrorIs(t, err, domain.ErrTagReferenced)
}
