package relation

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RelationService interface {
		AddFavorite(ctx context.Context, userID string, recipeID uint) (domain.RecipeShortResponse, error)
		RemoveFavorite(ctx context.Context, userID string, recipeID uint) error
		AddCartItem(ctx context.Context, userID string, recipeID uint) (domain.RecipeShortResponse, error)
		RemoveCartItem(ctx context.Context, userID string, recipeID uint) error
		Subscribe(ctx context.Context, subscriberID, authorID string) (domain.SubscriptionAuthor, error)
		Unsubscribe(ctx context.Context, subscriberID, authorID string) error
	}

	relationService struct {
		relationRepository RelationRepository
	}
)

func NewRelationService(relationRepository RelationRepository) RelationService {
	return &relationService{relationRepository: relationRepository}
}

// recipeToggle validates the target before touching the relation, so an add
// or remove on a missing recipe is a not-found, never a conflict.
func (s *relationService) recipeToggle(ctx context.Context, userID string, recipeID uint, toggle func(uuid.UUID) error) (*entities.Recipe, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	recipe, err := s.relationRepository.GetRecipe(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}

	if err := toggle(userUUID); err != nil {
		return nil, err
	}
	return recipe, nil
}

func shortResponse(recipe *entities.Recipe) domain.RecipeShortResponse {
	return domain.RecipeShortResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		ImageURL:    recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}

func (s *relationService) AddFavorite(ctx context.Context, userID string, recipeID uint) (domain.RecipeShortResponse, error) {
	recipe, err := s.recipeToggle(ctx, userID, recipeID, func(u uuid.UUID) error {
		return s.relationRepository.AddFavorite(ctx, u, recipeID)
	})
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}
	return shortResponse(recipe), nil
}

func (s *relationService) RemoveFavorite(ctx context.Context, userID string, recipeID uint) error {
	_, err := s.recipeToggle(ctx, userID, recipeID, func(u uuid.UUID) error {
		return s.relationRepository.RemoveFavorite(ctx, u, recipeID)
	})
	return err
}

func (s *relationService) AddCartItem(ctx context.Context, userID string, recipeID uint) (domain.RecipeShortResponse, error) {
	recipe, err := s.recipeToggle(ctx, userID, recipeID, func(u uuid.UUID) error {
		return s.relationRepository.AddCartItem(ctx, u, recipeID)
	})
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}
	return shortResponse(recipe), nil
}

func (s *relationService) RemoveCartItem(ctx context.Context, userID string, recipeID uint) error {
	_, err := s.recipeToggle(ctx, userID, recipeID, func(u uuid.UUID) error {
		return s.relationRepository.RemoveCartItem(ctx, u, recipeID)
	})
	return err
}

func (s *relationService) parseSubscriptionPair(subscriberID, authorID string) (uuid.UUID, uuid.UUID, error) {
	subscriberUUID, err := uuid.Parse(subscriberID)
	if err != nil {
		return uuid.Nil, uuid.Nil, domain.ErrParseUUID
	}
	authorUUID, err := uuid.Parse(authorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, domain.ErrParseUUID
	}
	if subscriberUUID == authorUUID {
		return uuid.Nil, uuid.Nil, domain.ErrSelfSubscription
	}
	return subscriberUUID, authorUUID, nil
}

func (s *relationService) Subscribe(ctx context.Context, subscriberID, authorID string) (domain.SubscriptionAuthor, error) {
	subscriberUUID, authorUUID, err := s.parseSubscriptionPair(subscriberID, authorID)
	if err != nil {
		return domain.SubscriptionAuthor{}, err
	}

	author, err := s.relationRepository.GetUser(ctx, authorUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SubscriptionAuthor{}, domain.ErrUserNotFound
		}
		return domain.SubscriptionAuthor{}, err
	}

	if err := s.relationRepository.Subscribe(ctx, subscriberUUID, authorUUID); err != nil {
		return domain.SubscriptionAuthor{}, err
	}

	recipes, err := s.relationRepository.GetAuthorRecipes(ctx, authorUUID)
	if err != nil {
		return domain.SubscriptionAuthor{}, err
	}

	cards := make([]domain.RecipeShortResponse, 0, len(recipes))
	for _, recipe := range recipes {
		cards = append(cards, shortResponse(recipe))
	}

	return domain.SubscriptionAuthor{
		UserResponse: domain.UserResponse{
			ID:           author.ID.String(),
			Email:        author.Email,
			Username:     author.Username,
			FirstName:    author.FirstName,
			LastName:     author.LastName,
			IsSubscribed: true,
		},
		Recipes:      cards,
		RecipesCount: len(cards),
	}, nil
}

func (s *relationService) Unsubscribe(ctx context.Context, subscriberID, authorID string) error {
	subscriberUUID, authorUUID, err := s.parseSubscriptionPair(subscriberID, authorID)
	if err != nil {
		return err
	}

	exists, err := s.relationRepository.UserExists(ctx, authorUUID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrUserNotFound
	}

	return s.relationRepository.Unsubscribe(ctx, subscriberUUID, authorUUID)
}
