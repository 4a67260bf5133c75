package recipe

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/catalog"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID uint, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error)
		GetRecipeDetail(ctx context.Context, recipeID uint, viewerID string) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, filter domain.RecipeListFilter, page, limit int, viewerID string) ([]domain.RecipeResponse, int64, error)
		DeleteRecipe(ctx context.Context, recipeID uint, userID string) error
	}

	recipeService struct {
		recipeRepository  RecipeRepository
		catalogRepository catalog.CatalogRepository
		s3                storage.AwsS3
	}
)

func NewRecipeService(recipeRepository RecipeRepository, catalogRepository catalog.CatalogRepository, s3 storage.AwsS3) RecipeService {
	return &recipeService{
		recipeRepository:  recipeRepository,
		catalogRepository: catalogRepository,
		s3:                s3,
	}
}

// validateIngredients checks the write-model list against the catalog and
// returns the join rows to insert. Nothing is written here, so a rejected
// update leaves the stored sets untouched.
func (s *recipeService) validateIngredients(ctx context.Context, inputs []domain.RecipeIngredientInput) ([]*entities.RecipeIngredient, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrIngredientsRequired
	}

	ids := make([]uint, 0, len(inputs))
	seen := make(map[uint]bool, len(inputs))
	for _, input := range inputs {
		if input.Amount <= 0 {
			return nil, domain.ErrInvalidAmount
		}
		if seen[input.ID] {
			return nil, domain.ErrDuplicateIngredient
		}
		seen[input.ID] = true
		ids = append(ids, input.ID)
	}

	found, err := s.catalogRepository.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, domain.ErrIngredientNotFound
	}

	rows := make([]*entities.RecipeIngredient, 0, len(inputs))
	for _, input := range inputs {
		rows = append(rows, &entities.RecipeIngredient{
			IngredientID: input.ID,
			Amount:       input.Amount,
		})
	}
	return rows, nil
}

// validateTags reports every unknown tag id at once, not just the first.
func (s *recipeService) validateTags(ctx context.Context, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return domain.ErrTagsRequired
	}

	seen := make(map[uint]bool, len(tagIDs))
	for _, id := range tagIDs {
		if seen[id] {
			return domain.ErrDuplicateTag
		}
		seen[id] = true
	}

	found, err := s.catalogRepository.GetTagsByIDs(ctx, tagIDs)
	if err != nil {
		return err
	}
	if len(found) != len(tagIDs) {
		foundIDs := make(map[uint]bool, len(found))
		for _, tag := range found {
			foundIDs[tag.ID] = true
		}
		missing := make([]uint, 0)
		for _, id := range tagIDs {
			if !foundIDs[id] {
				missing = append(missing, id)
			}
		}
		return &domain.TagsNotFoundError{Pks: missing}
	}
	return nil
}

// resolveImage uploads a base64 "data:image/..." payload to S3 and returns
// the public URL; anything else is passed through as an already-stored URL.
func (s *recipeService) resolveImage(image string) (string, error) {
	if !strings.HasPrefix(image, "data:image") {
		return image, nil
	}

	parts := strings.SplitN(image, ";base64,", 2)
	if len(parts) != 2 {
		return "", domain.ErrInvalidImageFormat
	}

	contentType := strings.TrimPrefix(parts[0], "data:")
	data, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", domain.ErrInvalidImageFormat
	}

	extension := contentType[strings.LastIndex(contentType, "/")+1:]
	name := fmt.Sprintf("recipe-%s.%s", uuid.New().String(), extension)
	objectKey, err := s.s3.UploadBytes(name, data, "recipes", contentType)
	if err != nil {
		return "", err
	}
	return s.s3.GetPublicLinkKey(objectKey), nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	authorUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	if req.CookingTime < 1 {
		return domain.RecipeResponse{}, domain.ErrInvalidCookingTime
	}
	if req.Image == "" {
		return domain.RecipeResponse{}, domain.ErrImageRequired
	}

	ingredientRows, err := s.validateIngredients(ctx, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if err := s.validateTags(ctx, req.Tags); err != nil {
		return domain.RecipeResponse{}, err
	}

	taken, err := s.recipeRepository.NameExists(ctx, req.Name, 0)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if taken {
		return domain.RecipeResponse{}, domain.ErrRecipeNameTaken
	}

	imageURL, err := s.resolveImage(req.Image)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		AuthorID:    authorUUID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageURL:    imageURL,
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe, ingredientRows, req.Tags); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeResponse{}, domain.ErrRecipeNameTaken
		}
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeDetail(ctx, recipe.ID, userID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID uint, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	stored, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	if stored.AuthorID.String() != userID {
		return domain.RecipeResponse{}, domain.ErrUnauthorizedRecipeAccess
	}

	if req.CookingTime < 1 {
		return domain.RecipeResponse{}, domain.ErrInvalidCookingTime
	}

	ingredientRows, err := s.validateIngredients(ctx, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if err := s.validateTags(ctx, req.Tags); err != nil {
		return domain.RecipeResponse{}, err
	}

	taken, err := s.recipeRepository.NameExists(ctx, req.Name, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if taken {
		return domain.RecipeResponse{}, domain.ErrRecipeNameTaken
	}

	// Image may be omitted on update; the stored one is kept.
	imageURL := stored.ImageURL
	if req.Image != "" {
		imageURL, err = s.resolveImage(req.Image)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	recipe := &entities.Recipe{
		ID:          recipeID,
		AuthorID:    stored.AuthorID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageURL:    imageURL,
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, ingredientRows, req.Tags); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeResponse{}, domain.ErrRecipeNameTaken
		}
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeDetail(ctx, recipeID, userID)
}

func (s *recipeService) buildResponse(ctx context.Context, recipe *entities.Recipe, viewerID string) (domain.RecipeResponse, error) {
	ingredients := make([]domain.RecipeIngredientDetail, 0, len(recipe.Ingredients))
	for _, row := range recipe.Ingredients {
		detail := domain.RecipeIngredientDetail{
			ID:     row.IngredientID,
			Amount: row.Amount,
		}
		if row.Ingredient != nil {
			detail.Name = row.Ingredient.Name
			detail.MeasurementUnit = row.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, detail)
	}

	tags := make([]domain.TagResponse, 0, len(recipe.Tags))
	for _, row := range recipe.Tags {
		if row.Tag == nil {
			continue
		}
		tags = append(tags, domain.TagResponse{
			ID:    row.Tag.ID,
			Name:  row.Tag.Name,
			Color: row.Tag.Color,
			Slug:  row.Tag.Slug,
		})
	}

	res := domain.RecipeResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		ImageURL:    recipe.ImageURL,
		Ingredients: ingredients,
		Tags:        tags,
	}

	if recipe.Author != nil {
		res.Author = domain.UserResponse{
			ID:        recipe.Author.ID.String(),
			Email:     recipe.Author.Email,
			Username:  recipe.Author.Username,
			FirstName: recipe.Author.FirstName,
			LastName:  recipe.Author.LastName,
		}
	}

	if viewerID != "" {
		viewerUUID, err := uuid.Parse(viewerID)
		if err != nil {
			return domain.RecipeResponse{}, domain.ErrParseUUID
		}
		favorited, err := s.recipeRepository.IsFavorited(ctx, viewerUUID, recipe.ID)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		inCart, err := s.recipeRepository.IsInCart(ctx, viewerUUID, recipe.ID)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		res.IsFavorited = favorited
		res.IsInShoppingCart = inCart
	}

	return res, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID uint, viewerID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}
	return s.buildResponse(ctx, recipe, viewerID)
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeListFilter, page, limit int, viewerID string) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		res, err := s.buildResponse(ctx, recipe, viewerID)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, res)
	}
	return result, count, nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID uint, userID string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if recipe.AuthorID.String() != userID {
		return domain.ErrUnauthorizedRecipeAccess
	}

	return s.recipeRepository.DeleteRecipe(ctx, recipeID)
}
