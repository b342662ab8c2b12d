package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go-storefront/repository"
	"go-storefront/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CartController handles cart-related requests
type CartController struct {
	Carts repository.CartRepository
}

// NewCartController creates a new CartController
func NewCartController(db *mongo.Database) *CartController {
	return &CartController{
		Carts: repository.NewCartRepository(db),
	}
}

// AddToCart adds a product to the user's cart, bumping the quantity if the
// product is already present.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		ProductID primitive.ObjectID `json:"product_id"`
		Quantity  int                `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.ProductID.IsZero() || body.Quantity <= 0 {
		utils.WriteError(w, http.StatusBadRequest, "Invalid product or quantity")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cc.Carts.AddItem(ctx, userID, body.ProductID, body.Quantity); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, "Item added to cart", nil)
}

// GetCart retrieves the user's cart rows with products expanded
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	items, err := cc.Carts.ItemsByUser(ctx, userID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, "cart items", items)
}

// UpdateCartItem changes the quantity on a cart row
func (cc *CartController) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	itemID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid cart item ID")
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Quantity <= 0 {
		utils.WriteError(w, http.StatusBadRequest, "Quantity must be positive")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cc.Carts.UpdateQuantity(ctx, userID, itemID, body.Quantity); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Cart item not found")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, "Cart updated", nil)
}

// RemoveFromCart removes a cart row
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	itemID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid cart item ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cc.Carts.RemoveItem(ctx, userID, itemID); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Cart item not found")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, "Item removed from cart", nil)
}
