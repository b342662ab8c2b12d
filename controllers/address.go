package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-storefront/models"
	"go-storefront/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AddressController handles delivery address CRUD. Addresses are soft
// disabled rather than deleted so order rows keep a resolvable reference.
type AddressController struct {
	Collection *mongo.Collection
	Users      *mongo.Collection
}

// NewAddressController creates a new AddressController
func NewAddressController(db *mongo.Database) *AddressController {
	return &AddressController{
		Collection: db.Collection("addresses"),
		Users:      db.Collection("users"),
	}
}

// CreateAddress adds a delivery address for the authenticated user
func (ac *AddressController) CreateAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var address models.Address
	if err := json.NewDecoder(r.Body).Decode(&address); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	address.ID = primitive.NewObjectID()
	address.UserID = userID
	address.Status = true

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := ac.Collection.InsertOne(ctx, address); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Mirror the reference on the user document
	_, err := ac.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$addToSet": bson.M{"address_details": address.ID},
	})
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusCreated, "Address created", address)
}

// GetAddresses lists the user's active addresses
func (ac *AddressController) GetAddresses(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := ac.Collection.Find(ctx, bson.M{"user_id": userID, "status": true})
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cursor.Close(ctx)

	addresses := []models.Address{}
	if err := cursor.All(ctx, &addresses); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, "address list", addresses)
}

// UpdateAddress modifies one of the user's addresses
func (ac *AddressController) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var address models.Address
	if err := json.NewDecoder(r.Body).Decode(&address); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if address.ID.IsZero() {
		utils.WriteError(w, http.StatusBadRequest, "Address ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"address_line": address.AddressLine,
		"city":         address.City,
		"state":        address.State,
		"pincode":      address.Pincode,
		"country":      address.Country,
		"mobile":       address.Mobile,
	}}
	result, err := ac.Collection.UpdateOne(ctx, bson.M{"_id": address.ID, "user_id": userID}, update)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result.MatchedCount == 0 {
		utils.WriteError(w, http.StatusNotFound, "Address not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, "Address updated", nil)
}

// DisableAddress soft-deletes an address by flipping its status
func (ac *AddressController) DisableAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		ID primitive.ObjectID `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := ac.Collection.UpdateOne(ctx,
		bson.M{"_id": body.ID, "user_id": userID},
		bson.M{"$set": bson.M{"status": false}},
	)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result.MatchedCount == 0 {
		utils.WriteError(w, http.StatusNotFound, "Address not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, "Address disabled", nil)
}
