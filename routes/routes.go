// routes/routes.go
package routes

import (
	"go-storefront/controllers"
	"go-storefront/middleware"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, userController *controllers.UserController, productController *controllers.ProductController, cartController *controllers.CartController, addressController *controllers.AddressController, orderController *controllers.OrderController) {
	api := router.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/user/register", userController.Register).Methods("POST")
	api.HandleFunc("/user/login", userController.Login).Methods("POST")
	api.HandleFunc("/user/verify-email", userController.VerifyEmail).Methods("GET")

	// Product browsing is public
	api.HandleFunc("/product", productController.GetProducts).Methods("GET")
	api.HandleFunc("/product/{id}", productController.GetProductByID).Methods("GET")

	// Webhook endpoint: authenticated by the provider's signature, not JWT
	api.HandleFunc("/order/webhook", orderController.StripeWebhook).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/user/profile", userController.GetProfile).Methods("GET")

	// Cart routes
	protected.HandleFunc("/cart", cartController.AddToCart).Methods("POST")
	protected.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	protected.HandleFunc("/cart/{id}", cartController.UpdateCartItem).Methods("PUT")
	protected.HandleFunc("/cart/{id}", cartController.RemoveFromCart).Methods("DELETE")

	// Address routes
	protected.HandleFunc("/address/create", addressController.CreateAddress).Methods("POST")
	protected.HandleFunc("/address/get", addressController.GetAddresses).Methods("GET")
	protected.HandleFunc("/address/update", addressController.UpdateAddress).Methods("PUT")
	protected.HandleFunc("/address/disable", addressController.DisableAddress).Methods("DELETE")

	// Order routes
	protected.HandleFunc("/order/cash-on-delivery", orderController.CashOnDeliveryOrder).Methods("POST")
	protected.HandleFunc("/order/checkout", orderController.CreateCheckoutSession).Methods("POST")
	protected.HandleFunc("/order/order-list", orderController.GetOrders).Methods("GET")

	// Admin routes
	admin := api.PathPrefix("/product").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("", productController.CreateProduct).Methods("POST")
	admin.HandleFunc("/{id}", productController.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/{id}", productController.DeleteProduct).Methods("DELETE")
}
