package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// mockOrderRepo implements repository.OrderRepository for testing
type mockOrderRepo struct {
	inserted  [][]models.Order
	insertErr error
	listed    []models.OrderDetails
	listErr   error
}

func (m *mockOrderRepo) InsertMany(_ context.Context, orders []models.Order) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, orders)
	return nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, _ primitive.ObjectID) ([]models.OrderDetails, error) {
	return m.listed, m.listErr
}

// mockCartRepo implements repository.CartRepository for testing
type mockCartRepo struct {
	cleared  []primitive.ObjectID
	clearErr error
}

func (m *mockCartRepo) AddItem(_ context.Context, _, _ primitive.ObjectID, _ int) error {
	return nil
}

func (m *mockCartRepo) ItemsByUser(_ context.Context, _ primitive.ObjectID) ([]models.CartItemDetails, error) {
	return nil, nil
}

func (m *mockCartRepo) UpdateQuantity(_ context.Context, _, _ primitive.ObjectID, _ int) error {
	return nil
}

func (m *mockCartRepo) RemoveItem(_ context.Context, _, _ primitive.ObjectID) error {
	return nil
}

func (m *mockCartRepo) ClearCart(_ context.Context, userID primitive.ObjectID) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = append(m.cleared, userID)
	return nil
}

// mockUserRepo implements repository.UserRepository for testing
type mockUserRepo struct {
	user models.User
	err  error
}

func (m *mockUserRepo) FindByID(_ context.Context, _ primitive.ObjectID) (models.User, error) {
	return m.user, m.err
}

// mockGateway implements payments.Gateway for testing
type mockGateway struct {
	session       *stripe.CheckoutSession
	sessionErr    error
	sessionParams *stripe.CheckoutSessionParams
	lineItems     []*stripe.LineItem
	lineItemsErr  error
	products      map[string]*stripe.Product
	event         stripe.Event
	verifyErr     error
}

func (g *mockGateway) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	g.sessionParams = params
	return g.session, g.sessionErr
}

func (g *mockGateway) SessionLineItems(_ string) ([]*stripe.LineItem, error) {
	return g.lineItems, g.lineItemsErr
}

func (g *mockGateway) Product(id string) (*stripe.Product, error) {
	product, ok := g.products[id]
	if !ok {
		return nil, errors.New("no such product")
	}
	return product, nil
}

func (g *mockGateway) VerifyEvent(_ []byte, _ string) (stripe.Event, error) {
	return g.event, g.verifyErr
}

func authedRequest(method, target string, body io.Reader, userID primitive.ObjectID) *http.Request {
	req := httptest.NewRequest(method, target, body)
	claims := &utils.Claims{UserID: userID.Hex()}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
}

func checkoutBody(t *testing.T, req CheckoutRequest) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestCashOnDeliveryCreatesOrderPerItem(t *testing.T) {
	orders := &mockOrderRepo{}
	carts := &mockCartRepo{}
	oc := &OrderController{Orders: orders, Carts: carts, Users: &mockUserRepo{}}

	userID := primitive.NewObjectID()
	req := authedRequest("POST", "/api/order/cash-on-delivery", checkoutBody(t, sampleCheckoutRequest(3)), userID)
	rec := httptest.NewRecorder()

	oc.CashOnDeliveryOrder(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, orders.inserted, 1)
	require.Len(t, orders.inserted[0], 3)

	seen := map[string]bool{}
	for _, order := range orders.inserted[0] {
		assert.False(t, seen[order.OrderID])
		seen[order.OrderID] = true
		assert.Equal(t, userID, order.UserID)
		assert.Equal(t, models.PaymentStatusCOD, order.PaymentStatus)
	}

	// Cleanup ran after the commit point
	require.Len(t, carts.cleared, 1)
	assert.Equal(t, userID, carts.cleared[0])

	var resp struct {
		Success bool           `json:"success"`
		Data    []models.Order `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 3)
}

func TestCashOnDeliveryInsertFailureSkipsCleanup(t *testing.T) {
	orders := &mockOrderRepo{insertErr: errors.New("write failed")}
	carts := &mockCartRepo{}
	oc := &OrderController{Orders: orders, Carts: carts, Users: &mockUserRepo{}}

	req := authedRequest("POST", "/api/order/cash-on-delivery", checkoutBody(t, sampleCheckoutRequest(2)), primitive.NewObjectID())
	rec := httptest.NewRecorder()

	oc.CashOnDeliveryOrder(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// The cart must be untouched when the batch insert fails
	assert.Empty(t, carts.cleared)
}

func TestCashOnDeliveryEmptyCart(t *testing.T) {
	oc := &OrderController{Orders: &mockOrderRepo{}, Carts: &mockCartRepo{}, Users: &mockUserRepo{}}

	req := authedRequest("POST", "/api/order/cash-on-delivery", checkoutBody(t, CheckoutRequest{}), primitive.NewObjectID())
	rec := httptest.NewRecorder()

	oc.CashOnDeliveryOrder(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCashOnDeliveryUnauthorized(t *testing.T) {
	oc := &OrderController{Orders: &mockOrderRepo{}, Carts: &mockCartRepo{}, Users: &mockUserRepo{}}

	req := httptest.NewRequest("POST", "/api/order/cash-on-delivery", checkoutBody(t, sampleCheckoutRequest(1)))
	rec := httptest.NewRecorder()

	oc.CashOnDeliveryOrder(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateCheckoutSession(t *testing.T) {
	t.Setenv("FRONTEND_URL", "https://shop.example")

	userID := primitive.NewObjectID()
	gateway := &mockGateway{
		session: &stripe.CheckoutSession{ID: "cs_1", URL: "https://checkout.example/cs_1"},
	}
	oc := &OrderController{
		Orders:  &mockOrderRepo{},
		Carts:   &mockCartRepo{},
		Users:   &mockUserRepo{user: models.User{ID: userID, Email: "buyer@example.com"}},
		Gateway: gateway,
	}

	checkout := sampleCheckoutRequest(2)
	req := authedRequest("POST", "/api/order/checkout", checkoutBody(t, checkout), userID)
	rec := httptest.NewRecorder()

	oc.CreateCheckoutSession(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	params := gateway.sessionParams
	require.NotNil(t, params)
	assert.Equal(t, "buyer@example.com", *params.CustomerEmail)
	assert.Equal(t, "payment", *params.Mode)
	assert.Equal(t, "https://shop.example/success", *params.SuccessURL)
	assert.Equal(t, "https://shop.example/cancel", *params.CancelURL)
	assert.Len(t, params.LineItems, 2)
	assert.Equal(t, userID.Hex(), params.Metadata["userId"])
	assert.Equal(t, checkout.AddressID.Hex(), params.Metadata["addressId"])

	var session map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&session))
	assert.Equal(t, "https://checkout.example/cs_1", session["url"])
}

func TestCreateCheckoutSessionProviderFailure(t *testing.T) {
	userID := primitive.NewObjectID()
	oc := &OrderController{
		Orders:  &mockOrderRepo{},
		Carts:   &mockCartRepo{},
		Users:   &mockUserRepo{user: models.User{ID: userID, Email: "buyer@example.com"}},
		Gateway: &mockGateway{sessionErr: errors.New("provider unavailable")},
	}

	req := authedRequest("POST", "/api/order/checkout", checkoutBody(t, sampleCheckoutRequest(1)), userID)
	rec := httptest.NewRecorder()

	oc.CreateCheckoutSession(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func completedSessionEvent(t *testing.T, userID, addressID primitive.ObjectID) stripe.Event {
	t.Helper()
	raw := fmt.Sprintf(`{
		"id": "cs_1",
		"payment_intent": "pi_123",
		"payment_status": "paid",
		"metadata": {"userId": %q, "addressId": %q}
	}`, userID.Hex(), addressID.Hex())
	return stripe.Event{
		ID:   "evt_1",
		Type: "checkout.session.completed",
		Data: &stripe.EventData{Raw: json.RawMessage(raw)},
	}
}

func TestWebhookCheckoutCompleted(t *testing.T) {
	userID := primitive.NewObjectID()
	addressID := primitive.NewObjectID()
	productA := primitive.NewObjectID()
	productB := primitive.NewObjectID()

	orders := &mockOrderRepo{}
	carts := &mockCartRepo{}
	gateway := &mockGateway{
		event: completedSessionEvent(t, userID, addressID),
		lineItems: []*stripe.LineItem{
			{AmountTotal: 10000, Price: &stripe.Price{Product: &stripe.Product{ID: "prod_a"}}},
			{AmountTotal: 24050, Price: &stripe.Price{Product: &stripe.Product{ID: "prod_b"}}},
		},
		products: map[string]*stripe.Product{
			"prod_a": {ID: "prod_a", Name: "first", Metadata: map[string]string{"productId": productA.Hex()}},
			"prod_b": {ID: "prod_b", Name: "second", Metadata: map[string]string{"productId": productB.Hex()}},
		},
	}
	oc := &OrderController{Orders: orders, Carts: carts, Users: &mockUserRepo{}, Gateway: gateway}

	req := httptest.NewRequest("POST", "/api/order/webhook", bytes.NewBufferString("{}"))
	rec := httptest.NewRecorder()

	oc.StripeWebhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, orders.inserted, 1)
	created := orders.inserted[0]
	require.Len(t, created, 2)

	assert.Equal(t, productA, created[0].ProductID)
	assert.Equal(t, productB, created[1].ProductID)
	for _, order := range created {
		assert.Equal(t, userID, order.UserID)
		assert.Equal(t, addressID, order.DeliveryAddress)
		assert.Equal(t, "pi_123", order.PaymentID)
		assert.Equal(t, "paid", order.PaymentStatus)
	}
	assert.Equal(t, 100.0, created[0].TotalAmt)
	assert.Equal(t, 240.50, created[1].TotalAmt)
	assert.Equal(t, created[0].SubTotalAmt, created[0].TotalAmt)

	require.Len(t, carts.cleared, 1)
	assert.Equal(t, userID, carts.cleared[0])

	var ack map[string]bool
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ack))
	assert.True(t, ack["received"])
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	orders := &mockOrderRepo{}
	carts := &mockCartRepo{}
	gateway := &mockGateway{
		event: stripe.Event{
			ID:   "evt_2",
			Type: "payment_intent.succeeded",
			Data: &stripe.EventData{Raw: json.RawMessage(`{}`)},
		},
	}
	oc := &OrderController{Orders: orders, Carts: carts, Users: &mockUserRepo{}, Gateway: gateway}

	req := httptest.NewRequest("POST", "/api/order/webhook", bytes.NewBufferString("{}"))
	rec := httptest.NewRecorder()

	oc.StripeWebhook(rec, req)

	// Still acknowledged, but nothing materialized
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, orders.inserted)
	assert.Empty(t, carts.cleared)
}

func TestWebhookInsertFailureStillAcknowledged(t *testing.T) {
	userID := primitive.NewObjectID()
	addressID := primitive.NewObjectID()
	productA := primitive.NewObjectID()

	orders := &mockOrderRepo{insertErr: errors.New("write failed")}
	carts := &mockCartRepo{}
	gateway := &mockGateway{
		event: completedSessionEvent(t, userID, addressID),
		lineItems: []*stripe.LineItem{
			{AmountTotal: 5000, Price: &stripe.Price{Product: &stripe.Product{ID: "prod_a"}}},
		},
		products: map[string]*stripe.Product{
			"prod_a": {ID: "prod_a", Name: "first", Metadata: map[string]string{"productId": productA.Hex()}},
		},
	}
	oc := &OrderController{Orders: orders, Carts: carts, Users: &mockUserRepo{}, Gateway: gateway}

	req := httptest.NewRequest("POST", "/api/order/webhook", bytes.NewBufferString("{}"))
	rec := httptest.NewRecorder()

	oc.StripeWebhook(rec, req)

	// Internal failure is swallowed; the provider must not redeliver
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, carts.cleared)
}

func TestWebhookBadSignature(t *testing.T) {
	orders := &mockOrderRepo{}
	gateway := &mockGateway{verifyErr: errors.New("signature mismatch")}
	oc := &OrderController{Orders: orders, Carts: &mockCartRepo{}, Users: &mockUserRepo{}, Gateway: gateway}

	req := httptest.NewRequest("POST", "/api/order/webhook", bytes.NewBufferString("{}"))
	rec := httptest.NewRecorder()

	oc.StripeWebhook(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, orders.inserted)
}

func TestGetOrders(t *testing.T) {
	userID := primitive.NewObjectID()
	address := models.Address{ID: primitive.NewObjectID(), City: "Pune", Status: true}
	listed := []models.OrderDetails{
		{Order: models.Order{OrderID: "ORD-2", UserID: userID}, Address: address},
		{Order: models.Order{OrderID: "ORD-1", UserID: userID}, Address: address},
	}
	oc := &OrderController{Orders: &mockOrderRepo{listed: listed}, Carts: &mockCartRepo{}, Users: &mockUserRepo{}}

	req := authedRequest("GET", "/api/order/order-list", nil, userID)
	rec := httptest.NewRecorder()

	oc.GetOrders(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool                  `json:"success"`
		Data    []models.OrderDetails `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "ORD-2", resp.Data[0].OrderID)
	assert.Equal(t, "Pune", resp.Data[0].Address.City)
}

func TestGetOrdersPersistenceFailure(t *testing.T) {
	oc := &OrderController{Orders: &mockOrderRepo{listErr: errors.New("find failed")}, Carts: &mockCartRepo{}, Users: &mockUserRepo{}}

	req := authedRequest("GET", "/api/order/order-list", nil, primitive.NewObjectID())
	rec := httptest.NewRecorder()

	oc.GetOrders(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
