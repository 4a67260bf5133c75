package domain

import (
	"errors"
)

// RelationKind selects which unique (actor, target) relation a toggle
// operates on.
type RelationKind string

const (
	RelationFavorite     RelationKind = "favorite"
	RelationCart         RelationKind = "cart"
	RelationSubscription RelationKind = "subscription"
)

var (
	MessageSuccessAddFavorite    = "recipe added to favorites"
	MessageSuccessRemoveFavorite = "recipe removed from favorites"
	MessageSuccessAddCartItem    = "recipe added to shopping cart"
	MessageSuccessRemoveCartItem = "recipe removed from shopping cart"
	MessageSuccessSubscribe      = "subscribed successfully"
	MessageSuccessUnsubscribe    = "unsubscribed successfully"

	MessageFailedAddFavorite    = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite = "failed to remove recipe from favorites"
	MessageFailedAddCartItem    = "failed to add recipe to shopping cart"
	MessageFailedRemoveCartItem = "failed to remove recipe from shopping cart"
	MessageFailedSubscribe      = "failed to subscribe"
	MessageFailedUnsubscribe    = "failed to unsubscribe"

	ErrAlreadyFavorited  = errors.New("already favorited")
	ErrNotFavorited      = errors.New("not favorited")
	ErrAlreadyInCart     = errors.New("already in cart")
	ErrNotInCart         = errors.New("not in cart")
	ErrAlreadySubscribed = errors.New("already subscribed")
	ErrNotSubscribed     = errors.New("not subscribed")
	ErrSelfSubscription  = errors.New("cannot subscribe to self")
	ErrUnknownRelation   = errors.New("unknown relation kind")
)

// AlreadyExistsError returns the conflict error for an add on a present
// relation of the given kind; NotExistsError the one for a remove on an
// absent relation.
func (k RelationKind) AlreadyExistsError() error {
	switch k {
	case RelationFavorite:
		return ErrAlreadyFavorited
	case RelationCart:
		return ErrAlreadyInCart
	case RelationSubscription:
		return ErrAlreadySubscribed
	}
	return ErrUnknownRelation
}

func (k RelationKind) NotExistsError() error {
	switch k {
	case RelationFavorite:
		return ErrNotFavorited
	case RelationCart:
		return ErrNotInCart
	case RelationSubscription:
		return ErrNotSubscribed
	}
	return ErrUnknownRelation
}
