package service

import (
	"context"

	"jerseylab-api/internal/model"
	"jerseylab-api/internal/payment"

	"github.com/google/uuid"
)

// CheckoutService drives the payment flow: opening payment intents with
// server-side pricing, creating orders exactly once per payment intent, and
// reconciling provider webhook events.
type CheckoutService interface {
	// CreateIntent re-prices the cart from the catalogue, verifies the
	// client-declared total against it, and opens a payment intent.
	CreateIntent(ctx context.Context, req *model.CreateIntentRequest) (*model.CreateIntentResponse, error)

	// CreateOrder persists the order for a completed payment intent. It is
	// idempotent: a second call with the same payment intent returns the
	// existing order with created=false.
	CreateOrder(ctx context.Context, req *model.CreateOrderRequest) (order *model.Order, created bool, err error)

	// HandleWebhookEvent applies a verified provider event to the matching
	// order. Unknown event types are ignored.
	HandleWebhookEvent(ctx context.Context, event payment.Event) error

	// GetOrderByNumber returns an order by its human-facing number.
	GetOrderByNumber(ctx context.Context, orderNumber string) (*model.Order, error)

	// ListOrders returns a customer's orders by email or user ID.
	ListOrders(ctx context.Context, email, userID string) ([]model.Order, error)

	// ListAllOrders returns every order for the back office.
	ListAllOrders(ctx context.Context) ([]model.Order, error)

	// UpdateOrderStatus sets an order's fulfilment status.
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
}

// PromoService validates promo codes for shoppers and manages them for the
// back office.
type PromoService interface {
	// Validate evaluates a code against a subtotal. Invalid codes yield a
	// response with Valid=false, never an error.
	Validate(ctx context.Context, req *model.ValidatePromoRequest) (*model.ValidatePromoResponse, error)

	// List returns all promo codes, newest first.
	List(ctx context.Context) ([]model.PromoCode, error)

	// Create adds a new promo code.
	Create(ctx context.Context, pc *model.PromoCode) (*model.PromoCode, error)

	// Update overwrites the editable fields of a promo code.
	Update(ctx context.Context, id uuid.UUID, pc *model.PromoCode) (*model.PromoCode, error)

	// Delete removes a promo code.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CatalogService serves storefront categories and products, caching the
// read-mostly category list.
type CatalogService interface {
	// ListCategories returns all categories, served from cache when fresh.
	ListCategories(ctx context.Context) ([]model.Category, error)

	// GetCategoryByKey returns a single category by its key.
	GetCategoryByKey(ctx context.Context, key string) (*model.Category, error)

	// UpdateCategory applies an admin edit and invalidates the cache.
	UpdateCategory(ctx context.Context, id uuid.UUID, upd model.CategoryUpdate) (*model.Category, error)

	// ListProducts retrieves products with pagination support.
	ListProducts(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetProduct retrieves a single product by its ID.
	GetProduct(ctx context.Context, id string) (*model.Product, error)
}

// InquiryService handles teamwear inquiries.
type InquiryService interface {
	// Create validates and persists a new inquiry, then notifies admins.
	Create(ctx context.Context, inquiry *model.TeamwearInquiry) (*model.TeamwearInquiry, error)

	// List returns all inquiries, newest first.
	List(ctx context.Context) ([]model.TeamwearInquiry, error)

	// Update applies an admin edit to an inquiry.
	Update(ctx context.Context, id uuid.UUID, upd model.InquiryUpdate) (*model.TeamwearInquiry, error)
}

// AdminService manages back-office accounts and authentication.
type AdminService interface {
	// Login verifies credentials and issues a bearer token.
	Login(ctx context.Context, req *model.AdminLoginRequest) (*model.AdminLoginResponse, error)

	// ForgotPassword issues a reset token for the account, if it exists. It
	// never discloses whether the email is registered.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword consumes a reset token and sets a new password.
	ResetPassword(ctx context.Context, token, newPassword string) error

	// List returns all admin accounts.
	List(ctx context.Context) ([]model.Admin, error)

	// Create adds a new admin account.
	Create(ctx context.Context, req *model.CreateAdminRequest) (*model.Admin, error)

	// Delete removes an admin account.
	Delete(ctx context.Context, id uuid.UUID) error
}
