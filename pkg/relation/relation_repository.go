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
	RelationRepository interface {
		RecipeExists(ctx context.Context, recipeID uint) (bool, error)
		UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
		GetRecipe(ctx context.Context, recipeID uint) (*entities.Recipe, error)
		GetUser(ctx context.Context, userID uuid.UUID) (*entities.User, error)
		GetAuthorRecipes(ctx context.Context, authorID uuid.UUID) ([]*entities.Recipe, error)

		AddFavorite(ctx context.Context, userID uuid.UUID, recipeID uint) error
		RemoveFavorite(ctx context.Context, userID uuid.UUID, recipeID uint) error
		AddCartItem(ctx context.Context, userID uuid.UUID, recipeID uint) error
		RemoveCartItem(ctx context.Context, userID uuid.UUID, recipeID uint) error
		Subscribe(ctx context.Context, subscriberID, authorID uuid.UUID) error
		Unsubscribe(ctx context.Context, subscriberID, authorID uuid.UUID) error
	}

	relationRepository struct {
		db *gorm.DB
	}
)

func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

func (r *relationRepository) RecipeExists(ctx context.Context, recipeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Recipe{}).
		Where("id = ?", recipeID).
		Count(&count).Error
	return count > 0, err
}

func (r *relationRepository) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).
		Where("id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

func (r *relationRepository) GetRecipe(ctx context.Context, recipeID uint) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", recipeID).Take(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *relationRepository) GetUser(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *relationRepository) GetAuthorRecipes(ctx context.Context, authorID uuid.UUID) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("id desc").
		Find(&recipes).Error
	return recipes, err
}

// add runs the presence check and the insert in one transaction. The unique
// index backs the check up: a concurrent insert surfaces as
// gorm.ErrDuplicatedKey and maps to the same conflict error.
func (r *relationRepository) add(ctx context.Context, kind domain.RelationKind, record any, exists func(tx *gorm.DB) (bool, error)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		present, err := exists(tx)
		if err != nil {
			return err
		}
		if present {
			return kind.AlreadyExistsError()
		}
		if err := tx.Create(record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return kind.AlreadyExistsError()
			}
			return err
		}
		return nil
	})
}

// remove deletes by the relation's natural key; zero rows affected means the
// relation was absent and the remove fails instead of no-opping.
func (r *relationRepository) remove(ctx context.Context, kind domain.RelationKind, deleter func(tx *gorm.DB) *gorm.DB) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := deleter(tx)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return kind.NotExistsError()
		}
		return nil
	})
}

func (r *relationRepository) AddFavorite(ctx context.Context, userID uuid.UUID, recipeID uint) error {
	record := &entities.Favorite{ID: uuid.New(), UserID: userID, RecipeID: recipeID}
	return r.add(ctx, domain.RelationFavorite, record, func(tx *gorm.DB) (bool, error) {
		var count int64
		err := tx.Model(&entities.Favorite{}).
			Where("user_id = ? AND recipe_id = ?", userID, recipeID).
			Count(&count).Error
		return count > 0, err
	})
}

func (r *relationRepository) RemoveFavorite(ctx context.Context, userID uuid.UUID, recipeID uint) error {
	return r.remove(ctx, domain.RelationFavorite, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
			Delete(&entities.Favorite{})
	})
}

func (r *relationRepository) AddCartItem(ctx context.Context, userID uuid.UUID, recipeID uint) error {
	record := &entities.CartItem{ID: uuid.New(), UserID: userID, RecipeID: recipeID}
	return r.add(ctx, domain.RelationCart, record, func(tx *gorm.DB) (bool, error) {
		var count int64
		err := tx.Model(&entities.CartItem{}).
			Where("user_id = ? AND recipe_id = ?", userID, recipeID).
			Count(&count).Error
		return count > 0, err
	})
}

func (r *relationRepository) RemoveCartItem(ctx context.Context, userID uuid.UUID, recipeID uint) error {
	return r.remove(ctx, domain.RelationCart, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
			Delete(&entities.CartItem{})
	})
}

func (r *relationRepository) Subscribe(ctx context.Context, subscriberID, authorID uuid.UUID) error {
	record := &entities.Subscription{ID: uuid.New(), SubscriberID: subscriberID, SubscriptionToID: authorID}
	return r.add(ctx, domain.RelationSubscription, record, func(tx *gorm.DB) (bool, error) {
		var count int64
		err := tx.Model(&entities.Subscription{}).
			Where("subscriber_id = ? AND subscription_to_id = ?", subscriberID, authorID).
			Count(&count).Error
		return count > 0, err
	})
}

func (r *relationRepository) Unsubscribe(ctx context.Context, subscriberID, authorID uuid.UUID) error {
	return r.remove(ctx, domain.RelationSubscription, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("subscriber_id = ? AND subscription_to_id = ?", subscriberID, authorID).
			Delete(&entities.Subscription{})
	})
}
