package entities

import (
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_favorite_recipe" json:"user_id"`
	RecipeID  uint      `gorm:"uniqueIndex:idx_user_favorite_recipe" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
}

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_cart_recipe" json:"user_id"`
	RecipeID  uint      `gorm:"uniqueIndex:idx_user_cart_recipe" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
}

// Subscription is directional: the reverse subscription is an independent row.
type Subscription struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SubscriberID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_subscriber_author" json:"subscriber_id"`
	SubscriptionToID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_subscriber_author" json:"subscription_to_id"`
	CreatedAt        time.Time `gorm:"type:timestamp" json:"created_at"`

	Subscriber     *User `gorm:"foreignKey:SubscriberID" json:"subscriber,omitempty"`
	SubscriptionTo *User `gorm:"foreignKey:SubscriptionToID" json:"subscription_to,omitempty"`
}
