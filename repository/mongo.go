package repository

import (
	"context"
	"errors"
	"fmt"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoCartRepository struct {
	items *mongo.Collection
	users *mongo.Collection
}

// NewCartRepository creates a Mongo-backed CartRepository.
func NewCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{
		items: db.Collection("cartproducts"),
		users: db.Collection("users"),
	}
}

func (r *mongoCartRepository) AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error {
	filter := bson.M{"user_id": userID, "product_id": productID}
	update := bson.M{"$inc": bson.M{"quantity": quantity}}

	result, err := r.items.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	item := models.CartItem{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if _, err := r.items.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}

	_, err = r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$addToSet": bson.M{"shopping_cart": item.ID},
	})
	if err != nil {
		return fmt.Errorf("failed to update shopping cart reference: %w", err)
	}
	return nil
}

func (r *mongoCartRepository) ItemsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CartItemDetails, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "product_id",
			"foreignField": "_id",
			"as":           "product",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$product"}}},
	}

	cursor, err := r.items.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []models.CartItemDetails{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	return items, nil
}

func (r *mongoCartRepository) UpdateQuantity(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) error {
	result, err := r.items.UpdateOne(ctx,
		bson.M{"_id": itemID, "user_id": userID},
		bson.M{"$set": bson.M{"quantity": quantity}},
	)
	if err != nil {
		return fmt.Errorf("failed to update quantity: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *mongoCartRepository) RemoveItem(ctx context.Context, userID, itemID primitive.ObjectID) error {
	result, err := r.items.DeleteOne(ctx, bson.M{"_id": itemID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrItemNotFound
	}

	_, err = r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$pull": bson.M{"shopping_cart": itemID},
	})
	if err != nil {
		return fmt.Errorf("failed to update shopping cart reference: %w", err)
	}
	return nil
}

// ClearCart runs the two post-commit cleanup writes: delete the user's
// cartproduct rows and reset User.ShoppingCart. The writes are independent;
// both are attempted even if the first fails.
func (r *mongoCartRepository) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	var errs []error

	if _, err := r.items.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		errs = append(errs, fmt.Errorf("failed to remove cart items: %w", err))
	}

	_, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"shopping_cart": []primitive.ObjectID{}},
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to reset shopping cart: %w", err))
	}

	return errors.Join(errs...)
}

type mongoOrderRepository struct {
	orders *mongo.Collection
}

// NewOrderRepository creates a Mongo-backed OrderRepository.
func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{orders: db.Collection("orders")}
}

func (r *mongoOrderRepository) InsertMany(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(orders))
	for _, order := range orders {
		docs = append(docs, order)
	}

	if _, err := r.orders.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert orders: %w", err)
	}
	return nil
}

func (r *mongoOrderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.OrderDetails, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$sort", Value: bson.M{"created_at": -1}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "addresses",
			"localField":   "delivery_address",
			"foreignField": "_id",
			"as":           "address",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$address", "preserveNullAndEmptyArrays": true}}},
	}

	cursor, err := r.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.OrderDetails{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

type mongoUserRepository struct {
	users *mongo.Collection
}

// NewUserRepository creates a Mongo-backed UserRepository.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{users: db.Collection("users")}
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
