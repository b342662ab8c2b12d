// main.go
package main

import (
	"context"
	"fmt"
	"go-storefront/controllers"
	"go-storefront/payments"
	"go-storefront/routes"
	"go-storefront/utils"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Initialize the payment gateway
	gateway := payments.NewStripeGateway(
		os.Getenv("STRIPE_SECRET_KEY"),
		os.Getenv("STRIPE_WEBHOOK_SECRET"),
	)

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()
	db := client.Database("storefront")

	// Initialize controllers
	userController := controllers.NewUserController(db, emailService)
	productController := controllers.NewProductController(db)
	cartController := controllers.NewCartController(db)
	addressController := controllers.NewAddressController(db)
	orderController := controllers.NewOrderController(db, gateway, emailService)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, userController, productController, cartController, addressController, orderController)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
