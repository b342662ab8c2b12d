// controllers/order.go
package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/payments"
	"go-storefront/repository"
	"go-storefront/utils"

	"github.com/stripe/stripe-go/v81"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// OrderController handles checkout and order reads. The batch order insert
// is the commit point of every checkout path: cart cleanup only runs after
// it succeeds, and cleanup failure never fails the response.
type OrderController struct {
	Orders       repository.OrderRepository
	Carts        repository.CartRepository
	Users        repository.UserRepository
	Gateway      payments.Gateway
	EmailService *utils.EmailService
}

// NewOrderController creates a new OrderController
func NewOrderController(db *mongo.Database, gateway payments.Gateway, emailService *utils.EmailService) *OrderController {
	return &OrderController{
		Orders:       repository.NewOrderRepository(db),
		Carts:        repository.NewCartRepository(db),
		Users:        repository.NewUserRepository(db),
		Gateway:      gateway,
		EmailService: emailService,
	}
}

func userIDFromRequest(r *http.Request) (primitive.ObjectID, bool) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return userID, true
}

// CashOnDeliveryOrder creates one order per cart line item synchronously.
func (oc *OrderController) CashOnDeliveryOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.ListItems) == 0 {
		utils.WriteError(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	orders := buildCODOrders(userID, req, time.Now())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Commit point. Nothing past this line runs unless all rows are in.
	if err := oc.Orders.InsertMany(ctx, orders); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Best-effort post-commit cleanup: the orders stand even if it fails.
	if err := oc.Carts.ClearCart(ctx, userID); err != nil {
		log.Printf("Failed to clear cart for user %s: %v", userID.Hex(), err)
	}

	if oc.EmailService != nil {
		go func() {
			user, err := oc.Users.FindByID(context.Background(), userID)
			if err != nil {
				log.Printf("Failed to look up user %s for confirmation email: %v", userID.Hex(), err)
				return
			}
			if err := oc.EmailService.SendOrderConfirmationEmail(user.Email, orders); err != nil {
				log.Printf("Failed to send confirmation email to %s: %v", user.Email, err)
			}
		}()
	}

	utils.WriteJSON(w, http.StatusOK, "Order successfully", orders)
}

// CreateCheckoutSession builds a hosted-checkout session with the payment
// provider and returns its descriptor verbatim. No orders are created
// here; they materialize when the provider's webhook arrives.
func (oc *OrderController) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.ListItems) == 0 {
		utils.WriteError(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := oc.Users.FindByID(ctx, userID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	params := &stripe.CheckoutSessionParams{
		SubmitType:         stripe.String(string(stripe.CheckoutSessionSubmitTypePay)),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(user.Email),
		LineItems:          buildSessionLineItems(req.ListItems),
		SuccessURL:         stripe.String(frontendURL + "/success"),
		CancelURL:          stripe.String(frontendURL + "/cancel"),
	}
	// The webhook reconstructs its context from this metadata alone.
	params.AddMetadata("userId", userID.Hex())
	params.AddMetadata("addressId", req.AddressID.Hex())

	session, err := oc.Gateway.CreateCheckoutSession(params)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session)
}

// StripeWebhook receives provider events. Everything after signature
// verification is acknowledged with 200 regardless of outcome, so the
// provider does not redeliver events whose failures are ours to resolve.
func (oc *OrderController) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	event, err := oc.Gateway.VerifyEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Webhook signature verification failed")
		return
	}

	decoded, err := payments.DecodeEvent(event)
	if err != nil {
		log.Printf("Failed to decode webhook event %s: %v", event.ID, err)
	} else {
		switch ev := decoded.(type) {
		case payments.CheckoutCompleted:
			// TODO: deduplicate by event.ID; a redelivered
			// checkout.session.completed currently inserts duplicate
			// order rows.
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := oc.reconcileCheckoutSession(ctx, ev.Session); err != nil {
				log.Printf("Failed to reconcile checkout session %s: %v", ev.Session.ID, err)
			}
			cancel()
		case payments.Unhandled:
			log.Printf("Unhandled event type %s", ev.Type)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"received": true})
}

// reconcileCheckoutSession materializes orders for a completed hosted
// checkout exactly as the cash-on-delivery path does, then runs the same
// cart cleanup keyed by the user id recovered from session metadata.
func (oc *OrderController) reconcileCheckoutSession(ctx context.Context, session stripe.CheckoutSession) error {
	userID, err := primitive.ObjectIDFromHex(session.Metadata["userId"])
	if err != nil {
		return fmt.Errorf("invalid userId metadata on session %s: %w", session.ID, err)
	}
	addressID, err := primitive.ObjectIDFromHex(session.Metadata["addressId"])
	if err != nil {
		return fmt.Errorf("invalid addressId metadata on session %s: %w", session.ID, err)
	}

	items, err := oc.Gateway.SessionLineItems(session.ID)
	if err != nil {
		return fmt.Errorf("failed to list session line items: %w", err)
	}

	paymentID := ""
	if session.PaymentIntent != nil {
		paymentID = session.PaymentIntent.ID
	}

	now := time.Now()
	orders := make([]models.Order, 0, len(items))
	for _, item := range items {
		if item.Price == nil || item.Price.Product == nil {
			continue
		}
		product, err := oc.Gateway.Product(item.Price.Product.ID)
		if err != nil {
			return fmt.Errorf("failed to retrieve provider product: %w", err)
		}
		order, err := orderFromProviderItem(userID, addressID, paymentID, string(session.PaymentStatus), item, product, now)
		if err != nil {
			return err
		}
		orders = append(orders, order)
	}

	if len(orders) == 0 {
		return nil
	}

	if err := oc.Orders.InsertMany(ctx, orders); err != nil {
		return err
	}

	if err := oc.Carts.ClearCart(ctx, userID); err != nil {
		log.Printf("Failed to clear cart for user %s after payment: %v", userID.Hex(), err)
	}
	return nil
}

// GetOrders retrieves the authenticated user's orders newest-first, with
// the delivery address expanded.
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orders, err := oc.Orders.ListByUser(ctx, userID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, "order list", orders)
}
