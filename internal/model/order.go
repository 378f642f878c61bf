package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus mirrors the payment provider's intent lifecycle.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentSucceeded  PaymentStatus = "succeeded"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCanceled   PaymentStatus = "canceled"
)

// OrderStatus tracks fulfilment state.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCanceled   OrderStatus = "canceled"
)

// ValidOrderStatus reports whether s is one of the known fulfilment states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCanceled:
		return true
	}
	return false
}

// OrderItem represents a line item in an order.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
}

// ShippingAddress is embedded in the order as a JSON document.
type ShippingAddress struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Order represents a paid customer order. At most one order exists per
// payment intent; the unique constraint on payment_intent_id enforces it.
type Order struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	OrderNumber      string          `json:"orderNumber" db:"order_number"`
	UserID           *string         `json:"userId,omitempty" db:"user_id"`
	Email            string          `json:"email" db:"email"`
	Items            []OrderItem     `json:"items" db:"items"`
	ShippingAddress  ShippingAddress `json:"shippingAddress" db:"shipping_address"`
	Subtotal         float64         `json:"subtotal" db:"subtotal"`
	Discount         float64         `json:"discount" db:"discount"`
	PromoCode        *string         `json:"promoCode,omitempty" db:"promo_code"`
	Shipping         float64         `json:"shipping" db:"shipping"`
	Tax              float64         `json:"tax" db:"tax"`
	Total            float64         `json:"total" db:"total"`
	PaymentIntentID  string          `json:"paymentIntentId" db:"payment_intent_id"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus" db:"payment_status"`
	OrderStatus      OrderStatus     `json:"orderStatus" db:"order_status"`
	StripeCustomerID *string         `json:"stripeCustomerId,omitempty" db:"stripe_customer_id"`
	Notes            *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time       `json:"updatedAt" db:"updated_at"`
}

// CartPricing is the client-declared monetary breakdown of a cart. The server
// re-derives subtotal and discount; shipping and tax are taken as declared.
type CartPricing struct {
	Subtotal  float64 `json:"subtotal"`
	Discount  float64 `json:"discount"`
	PromoCode string  `json:"promoCode,omitempty"`
	Shipping  float64 `json:"shipping"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
}

// CreateIntentRequest is the payload for POST /api/payments/create-intent.
type CreateIntentRequest struct {
	Items           []OrderItem      `json:"items"`
	ShippingAddress *ShippingAddress `json:"shippingAddress"`
	CartPricing
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email"`
}

// CreateIntentResponse returns the provider authorization handle.
type CreateIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// CreateOrderRequest is the payload for POST /api/orders.
type CreateOrderRequest struct {
	PaymentIntentID string           `json:"paymentIntentId"`
	Items           []OrderItem      `json:"items"`
	ShippingAddress *ShippingAddress `json:"shippingAddress"`
	CartPricing
	UserID           string `json:"userId,omitempty"`
	Email            string `json:"email"`
	StripeCustomerID string `json:"stripeCustomerId,omitempty"`
}

// CreateOrderResponse wraps the persisted order; Message distinguishes a
// fresh creation from the idempotent short-circuit.
type CreateOrderResponse struct {
	Order   *Order `json:"order"`
	Message string `json:"message"`
}
