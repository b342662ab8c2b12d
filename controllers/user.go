package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/utils"

	"github.com/dgrijalva/jwt-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// UserController handles user-related requests
type UserController struct {
	Collection   *mongo.Collection
	EmailService *utils.EmailService
}

// NewUserController creates a new UserController with EmailService
func NewUserController(db *mongo.Database, emailService *utils.EmailService) *UserController {
	return &UserController{
		Collection:   db.Collection("users"),
		EmailService: emailService,
	}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if user.Email == "" || user.Password == "" || user.Name == "" {
		utils.WriteError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	// Check if user already exists
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	count, err := uc.Collection.CountDocuments(ctx, bson.M{"email": user.Email})
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if count > 0 {
		utils.WriteError(w, http.StatusBadRequest, "User already exists")
		return
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error hashing password")
		return
	}
	user.ID = primitive.NewObjectID()
	user.Password = string(hashedPassword)
	user.Role = "user" // Default role
	user.IsVerified = false
	user.ShoppingCart = []primitive.ObjectID{}
	user.AddressDetails = []primitive.ObjectID{}

	// Generate verification token
	verificationToken, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error generating verification token")
		return
	}
	user.VerificationToken = verificationToken

	if _, err := uc.Collection.InsertOne(ctx, user); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Send verification email
	if err := uc.EmailService.SendVerificationEmail(user.Email, verificationToken); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error sending verification email")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, "User registered successfully. Please check your email to verify your account.", nil)
}

// VerifyEmail handles email verification
func (uc *UserController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		utils.WriteError(w, http.StatusBadRequest, "Verification token missing")
		return
	}

	claims := &utils.Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return utils.JwtKey, nil
	})
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid token")
		return
	}

	// Find the user with the verification token
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var user models.User
	err = uc.Collection.FindOne(ctx, bson.M{"verification_token": token}).Decode(&user)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "User not found or already verified")
		return
	}

	_, err = uc.Collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{
			"is_verified":        true,
			"verification_token": "",
		},
	})
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error updating user verification status")
		return
	}

	utils.WriteJSON(w, http.StatusOK, "Email verified successfully. You can now log in.", nil)
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var user models.User
	err := uc.Collection.FindOne(ctx, bson.M{"email": creds.Email}).Decode(&user)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "User not found")
		return
	}

	if !user.IsVerified {
		utils.WriteError(w, http.StatusUnauthorized, "Email not verified")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	utils.WriteJSON(w, http.StatusOK, "Login successful", map[string]string{"token": token})
}

// GetProfile retrieves the authenticated user's profile
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Could not parse user from context")
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid user ID in token")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var user models.User
	if err := uc.Collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		utils.WriteError(w, http.StatusNotFound, "User not found")
		return
	}

	user.Password = ""
	user.VerificationToken = ""
	utils.WriteJSON(w, http.StatusOK, "user profile", user)
}
