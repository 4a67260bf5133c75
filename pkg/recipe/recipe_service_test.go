package recipe

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/pkg/catalog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	service RecipeService
	author  *entities.User

	flour  *entities.Ingredient
	sugar  *entities.Ingredient
	salt   *entities.Ingredient
	dinner *entities.Tag
	lunch  *entities.Tag
}

func newFixture(t *testing.T) *fixture {
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
		&entities.Favorite{},
		&entities.CartItem{},
	))

	f := &fixture{
		db:      db,
		service: NewRecipeService(NewRecipeRepository(db), catalog.NewCatalogRepository(db), nil),
		author: &entities.User{
			ID:       uuid.New(),
			Email:    "author@example.com",
			Username: "author",
			Role:     domain.RoleUser,
		},
		flour:  &entities.Ingredient{Name: "мука", MeasurementUnit: "г"},
		sugar:  &entities.Ingredient{Name: "сахар", MeasurementUnit: "г"},
		salt:   &entities.Ingredient{Name: "соль", MeasurementUnit: "г"},
		dinner: &entities.Tag{Name: "Ужин", Color: "#112233", Slug: "dinner"},
		lunch:  &entities.Tag{Name: "Обед", Color: "#445566", Slug: "lunch"},
	}
	require.NoError(t, db.Create(f.author).Error)
	require.NoError(t, db.Create(f.flour).Error)
	require.NoError(t, db.Create(f.sugar).Error)
	require.NoError(t, db.Create(f.salt).Error)
	require.NoError(t, db.Create(f.dinner).Error)
	require.NoError(t, db.Create(f.lunch).Error)
	return f
}

func (f *fixture) createRequest() domain.CreateRecipeRequest {
	return domain.CreateRecipeRequest{
		Name:        "пирог",
		Text:        "смешать и запечь",
		CookingTime: 45,
		Image:       "https://cdn.example.com/pie.png",
		Ingredients: []domain.RecipeIngredientInput{
			{ID: f.flour.ID, Amount: 500},
			{ID: f.sugar.ID, Amount: 100},
		},
		Tags: []uint{f.dinner.ID},
	}
}

func TestCreateRecipe(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.service.CreateRecipe(ctx, f.createRequest(), f.author.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "пирог", res.Name)
	assert.Equal(t, "author", res.Author.Username)
	require.Len(t, res.Ingredients, 2)
	assert.Equal(t, "мука", res.Ingredients[0].Name)
	assert.Equal(t, 500.0, res.Ingredients[0].Amount)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, "dinner", res.Tags[0].Slug)
	assert.False(t, res.IsFavorited)
}

func TestCreateRecipeValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	authorID := f.author.ID.String()

	t.Run("no ingredients", func(t *testing.T) {
		req := f.createRequest()
		req.Ingredients = nil
		_, err := f.service.CreateRecipe(ctx, req, authorID)
		assert.ErrorIs(t, err, domain.ErrIngredientsRequired)
		assert.EqualError(t, err, "ingredients required")
	})

	t.Run("duplicate ingredient", func(t *testing.T) {
		req := f.createRequest()
		req.Ingredients = append(req.Ingredients, domain.RecipeIngredientInput{ID: f.flour.ID, Amount: 1})
		_, err := f.service.CreateRecipe(ctx, req, authorID)
		assert.ErrorIs(t, err, domain.ErrDuplicateIngredient)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		req := f.createRequest()
		req.Ingredients[0].Amount = 0
		_, err := f.service.CreateRecipe(ctx, req, authorID)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("unknown ingredient", func(t *testing.T) {
		req := f.createRequest()
		req.Ingredients[0].ID = 9999
		_, err := f.service.CreateRecipe(ctx, req, authorID)
		assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
	})

	t.Run("no tags", func(t *testing.T) {
		req := f.createRequest()
		req.Tags = nil
		_, err := f.service.CreateRecipe(ctx, req, authorID)
		assert.ErrorIs(t, err, domain.ErrTagsRequired)
	})

	t.Run("unknown tags aggregated", func(t *testing.T) {
		req := f.createRequest()
		req.Tags = []uint{f.dinner.ID, 777, 888}
		_, err := f.service.CreateRecipe(ctx, req, authorID)
		var notFound *domain.TagsNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, []uint{777, 888}, notFound.Pks)
		assert.EqualError(t, err, "tag not found, pk=777; tag not found, pk=888")
	})

	t.Run("duplicate tag", func(t *testing.T) {
		req := f.createRequest()
		req.Tags = []uint{f.dinner.ID, f.dinner.ID}
		_, err := f.service.CreateRecipe(ctx, req, authorID)
		assert.ErrorIs(t, err, domain.ErrDuplicateTag)
	})

	t.Run("cooking time below one", func(t *testing.T) {
		req := f.createRequest()
		req.CookingTime = 0
		_, err := f.service.CreateRecipe(ctx, req, authorID)
		assert.ErrorIs(t, err, domain.ErrInvalidCookingTime)
	})

	t.Run("missing image", func(t *testing.T) {
		req := f.createRequest()
		req.Image = ""
		_, err := f.service.CreateRecipe(ctx, req, authorID)
		assert.ErrorIs(t, err, domain.ErrImageRequired)
	})
}

func TestCreateRecipeNameTaken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	authorID := f.author.ID.String()

	_, err := f.service.CreateRecipe(ctx, f.createRequest(), authorID)
	require.NoError(t, err)

	_, err = f.service.CreateRecipe(ctx, f.createRequest(), authorID)
	assert.ErrorIs(t, err, domain.ErrRecipeNameTaken)
}

func updateFrom(req domain.CreateRecipeRequest) domain.UpdateRecipeRequest {
	return domain.UpdateRecipeRequest{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       req.Image,
		Ingredients: req.Ingredients,
		Tags:        req.Tags,
	}
}

func TestUpdateRecipeReplacesCollections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	authorID := f.author.ID.String()

	created, err := f.service.CreateRecipe(ctx, f.createRequest(), authorID)
	require.NoError(t, err)

	update := updateFrom(f.createRequest())
	update.Ingredients = []domain.RecipeIngredientInput{
		{ID: f.salt.ID, Amount: 5},
	}
	update.Tags = []uint{f.lunch.ID}

	res, err := f.service.UpdateRecipe(ctx, created.ID, update, authorID)
	require.NoError(t, err)

	require.Len(t, res.Ingredients, 1)
	assert.Equal(t, "соль", res.Ingredients[0].Name)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, "lunch", res.Tags[0].Slug)

	// the old rows are gone, not orphaned
	var count int64
	require.NoError(t, f.db.Model(&entities.RecipeIngredient{}).Where("recipe_id = ?", created.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateRecipeFailedValidationChangesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	authorID := f.author.ID.String()

	created, err := f.service.CreateRecipe(ctx, f.createRequest(), authorID)
	require.NoError(t, err)

	update := updateFrom(f.createRequest())
	update.Ingredients = []domain.RecipeIngredientInput{
		{ID: f.salt.ID, Amount: 5},
		{ID: 9999, Amount: 1},
	}
	_, err = f.service.UpdateRecipe(ctx, created.ID, update, authorID)
	require.ErrorIs(t, err, domain.ErrIngredientNotFound)

	res, err := f.service.GetRecipeDetail(ctx, created.ID, "")
	require.NoError(t, err)
	require.Len(t, res.Ingredients, 2)
	assert.Equal(t, "мука", res.Ingredients[0].Name)
	assert.Equal(t, "сахар", res.Ingredients[1].Name)
}

func TestUpdateRecipeKeepsImageWhenOmitted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	authorID := f.author.ID.String()

	created, err := f.service.CreateRecipe(ctx, f.createRequest(), authorID)
	require.NoError(t, err)

	update := updateFrom(f.createRequest())
	update.Image = ""
	res, err := f.service.UpdateRecipe(ctx, created.ID, update, authorID)
	require.NoError(t, err)
	assert.Equal(t, created.ImageURL, res.ImageURL)
}

func TestUpdateRecipeOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.service.CreateRecipe(ctx, f.createRequest(), f.author.ID.String())
	require.NoError(t, err)

	other := &entities.User{ID: uuid.New(), Email: "other@example.com", Username: "other", Role: domain.RoleUser}
	require.NoError(t, f.db.Create(other).Error)

	_, err = f.service.UpdateRecipe(ctx, created.ID, updateFrom(f.createRequest()), other.ID.String())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)

	err = f.service.DeleteRecipe(ctx, created.ID, other.ID.String())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)
}

func TestDeleteRecipeCascadesRelations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	authorID := f.author.ID.String()

	created, err := f.service.CreateRecipe(ctx, f.createRequest(), authorID)
	require.NoError(t, err)

	require.NoError(t, f.db.Create(&entities.Favorite{ID: uuid.New(), UserID: f.author.ID, RecipeID: created.ID}).Error)
	require.NoError(t, f.db.Create(&entities.CartItem{ID: uuid.New(), UserID: f.author.ID, RecipeID: created.ID}).Error)

	require.NoError(t, f.service.DeleteRecipe(ctx, created.ID, authorID))

	_, err = f.service.GetRecipeDetail(ctx, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	var favorites, cartItems, rows int64
	require.NoError(t, f.db.Model(&entities.Favorite{}).Where("recipe_id = ?", created.ID).Count(&favorites).Error)
	require.NoError(t, f.db.Model(&entities.CartItem{}).Where("recipe_id = ?", created.ID).Count(&cartItems).Error)
	require.NoError(t, f.db.Model(&entities.RecipeIngredient{}).Where("recipe_id = ?", created.ID).Count(&rows).Error)
	assert.Zero(t, favorites)
	assert.Zero(t, cartItems)
	assert.Zero(t, rows)
}

func TestGetRecipesFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	authorID := f.author.ID.String()

	first := f.createRequest()
	_, err := f.service.CreateRecipe(ctx, first, authorID)
	require.NoError(t, err)

	second := f.createRequest()
	second.Name = "суп"
	second.Tags = []uint{f.lunch.ID}
	_, err = f.service.CreateRecipe(ctx, second, authorID)
	require.NoError(t, err)

	byTag, count, err := f.service.GetRecipes(ctx, domain.RecipeListFilter{TagSlug: "lunch"}, 1, 10, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, byTag, 1)
	assert.Equal(t, "суп", byTag[0].Name)

	all, count, err := f.service.GetRecipes(ctx, domain.RecipeListFilter{AuthorID: authorID}, 1, 10, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	// newest first
	assert.Equal(t, "суп", all[0].Name)
	assert.Equal(t, "пирог", all[1].Name)
}
