package controllers

import (
	"fmt"
	"math"
	"time"

	"go-storefront/models"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CheckoutRequest is the client-submitted checkout payload, shared by the
// cash-on-delivery and hosted-checkout paths. Every created order row
// carries the whole-cart subtotal and total.
type CheckoutRequest struct {
	ListItems   []models.CartItemDetails `json:"list_items"`
	TotalAmt    float64                  `json:"totalAmt"`
	AddressID   primitive.ObjectID       `json:"addressId"`
	SubTotalAmt float64                  `json:"subTotalAmt"`
}

// PriceWithDiscount returns price minus ceil(price*discountPercent/100).
// A zero discount passes the price through unchanged.
func PriceWithDiscount(price, discountPercent float64) float64 {
	return price - math.Ceil(price*discountPercent/100)
}

// NewOrderID generates a fresh human-correlatable order identifier.
func NewOrderID() string {
	return "ORD-" + uuid.NewString()
}

// buildCODOrders fans a checkout request out into one order row per cart
// line item, stamped as cash on delivery.
func buildCODOrders(userID primitive.ObjectID, req CheckoutRequest, now time.Time) []models.Order {
	orders := make([]models.Order, 0, len(req.ListItems))
	for _, item := range req.ListItems {
		orders = append(orders, models.Order{
			OrderID:   NewOrderID(),
			UserID:    userID,
			ProductID: item.Product.ID,
			ProductDetails: models.ProductSnapshot{
				Name:  item.Product.Name,
				Image: item.Product.Image,
			},
			PaymentID:       "",
			PaymentStatus:   models.PaymentStatusCOD,
			DeliveryAddress: req.AddressID,
			SubTotalAmt:     req.SubTotalAmt,
			TotalAmt:        req.TotalAmt,
			CreatedAt:       now,
		})
	}
	return orders
}

// buildSessionLineItems converts cart line items into hosted-checkout
// price descriptors. Unit amounts are the discounted price in minor units;
// the catalog product id rides along as metadata so the webhook can
// correlate the provider product back to the store's catalog.
func buildSessionLineItems(items []models.CartItemDetails) []*stripe.CheckoutSessionLineItemParams {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		unitAmount := int64(PriceWithDiscount(item.Product.Price, item.Product.Discount) * 100)
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("inr"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:   stripe.String(item.Product.Name),
					Images: stripe.StringSlice(item.Product.Image),
					Metadata: map[string]string{
						"productId": item.Product.ID.Hex(),
					},
				},
				UnitAmount: stripe.Int64(unitAmount),
			},
			AdjustableQuantity: &stripe.CheckoutSessionLineItemAdjustableQuantityParams{
				Enabled: stripe.Bool(true),
				Minimum: stripe.Int64(1),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}
	return lineItems
}

// orderFromProviderItem builds one order row from a provider-reported line
// item and its retrieved product. Amounts come out of minor units.
func orderFromProviderItem(userID, addressID primitive.ObjectID, paymentID, paymentStatus string, item *stripe.LineItem, product *stripe.Product, now time.Time) (models.Order, error) {
	productID, err := primitive.ObjectIDFromHex(product.Metadata["productId"])
	if err != nil {
		return models.Order{}, fmt.Errorf("invalid productId metadata on provider product %s: %w", product.ID, err)
	}

	amount := float64(item.AmountTotal) / 100

	return models.Order{
		OrderID:   NewOrderID(),
		UserID:    userID,
		ProductID: productID,
		ProductDetails: models.ProductSnapshot{
			Name:  product.Name,
			Image: product.Images,
		},
		PaymentID:       paymentID,
		PaymentStatus:   paymentStatus,
		DeliveryAddress: addressID,
		SubTotalAmt:     amount,
		TotalAmt:        amount,
		CreatedAt:       now,
	}, nil
}
