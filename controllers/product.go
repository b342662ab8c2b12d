package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-storefront/models"
	"go-storefront/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProductController handles product-related requests
type ProductController struct {
	Collection *mongo.Collection
}

// NewProductController creates a new ProductController
func NewProductController(db *mongo.Database) *ProductController {
	return &ProductController{
		Collection: db.Collection("products"),
	}
}

// CreateProduct handles adding a new product (Admin only)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := pc.Collection.InsertOne(ctx, product)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusCreated, "Product created", result.InsertedID)
}

// GetProducts retrieves all published products, optionally filtered by
// category id (?category=<hex>).
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if category := r.URL.Query().Get("category"); category != "" {
		categoryID, err := primitive.ObjectIDFromHex(category)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "Invalid category ID")
			return
		}
		filter["category"] = categoryID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := pc.Collection.Find(ctx, filter)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, "product list", products)
}

// GetProductByID retrieves a single product by ID
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := pc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		utils.WriteError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, "product details", product)
}

// UpdateProduct handles updating a product (Admin only). Historical orders
// are unaffected: they carry their own frozen product snapshot.
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	product.ID = id

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := pc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": product})
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result.MatchedCount == 0 {
		utils.WriteError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, "Product updated", nil)
}

// DeleteProduct handles deleting a product (Admin only)
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := pc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result.DeletedCount == 0 {
		utils.WriteError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, "Product deleted", nil)
}
