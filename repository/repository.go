package repository

import (
	"context"
	"errors"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrItemNotFound = errors.New("item not found in cart")
)

// CartRepository is the single way cart state is read and cleared. The
// cart for a user is the set of cartproduct rows keyed by user_id plus the
// id mirror on User.ShoppingCart; ClearCart owns both cleanup writes.
type CartRepository interface {
	AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error
	ItemsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CartItemDetails, error)
	UpdateQuantity(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID primitive.ObjectID) error
	ClearCart(ctx context.Context, userID primitive.ObjectID) error
}

// OrderRepository persists and lists order rows. Orders are insert-only:
// there is no update or delete operation.
type OrderRepository interface {
	InsertMany(ctx context.Context, orders []models.Order) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.OrderDetails, error)
}

// UserRepository is the read path used by checkout.
type UserRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}
