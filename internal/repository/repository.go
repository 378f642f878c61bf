package repository

import (
	"context"
	"errors"
	"time"

	"jerseylab-api/internal/model"

	"github.com/google/uuid"
)

// ErrOrderNumberConflict signals a unique-constraint collision on the
// generated order number. The caller retries with a fresh number.
var ErrOrderNumberConflict = errors.New("order number already exists")

// CatalogRepository defines data access for categories and products.
type CatalogRepository interface {
	// ListCategories returns all categories ordered by creation time.
	ListCategories(ctx context.Context) ([]model.Category, error)

	// GetCategoryByKey returns the category with the given key, or nil.
	GetCategoryByKey(ctx context.Context, key string) (*model.Category, error)

	// UpdateCategory applies upd and returns the updated row, or nil when
	// the id is unknown.
	UpdateCategory(ctx context.Context, id uuid.UUID, upd model.CategoryUpdate) (*model.Category, error)

	// ListProducts retrieves products with pagination support.
	ListProducts(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetProduct retrieves a single product by its ID, or nil.
	GetProduct(ctx context.Context, id string) (*model.Product, error)

	// GetProductPrices returns the current unit price for each of the given
	// product IDs. IDs absent from the result do not exist.
	GetProductPrices(ctx context.Context, ids []string) (map[string]float64, error)
}

// PromoRepository defines data access for promo codes.
type PromoRepository interface {
	// GetByCode returns the promo code with the given (normalized) code, or
	// nil when absent.
	GetByCode(ctx context.Context, code string) (*model.PromoCode, error)

	// List returns all promo codes, newest first.
	List(ctx context.Context) ([]model.PromoCode, error)

	// Create inserts a new promo code. Returns model.ErrPromoExists on a
	// duplicate code.
	Create(ctx context.Context, pc *model.PromoCode) error

	// Update overwrites the editable fields and returns the updated row, or
	// nil when the id is unknown.
	Update(ctx context.Context, id uuid.UUID, pc *model.PromoCode) (*model.PromoCode, error)

	// Delete removes a promo code, reporting whether a row was deleted.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// IncrementUsage atomically increments used_count, guarded by the usage
	// cap. Reports whether the increment was applied.
	IncrementUsage(ctx context.Context, code string) (bool, error)
}

// OrderRepository defines data access for orders.
type OrderRepository interface {
	// Insert persists the order unless one already exists for its payment
	// intent. Reports whether a row was actually inserted. Returns
	// ErrOrderNumberConflict when the generated order number collides.
	Insert(ctx context.Context, order *model.Order) (bool, error)

	// GetByPaymentIntentID returns the order for a payment intent, or nil.
	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*model.Order, error)

	// GetByOrderNumber returns the order with the given number, or nil.
	GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error)

	// ListByEmail returns a customer's orders, newest first.
	ListByEmail(ctx context.Context, email string) ([]model.Order, error)

	// ListByUserID returns a user's orders, newest first.
	ListByUserID(ctx context.Context, userID string) ([]model.Order, error)

	// ListAll returns every order, newest first (back office).
	ListAll(ctx context.Context) ([]model.Order, error)

	// MarkPaymentSucceeded transitions the order for a payment intent to
	// paymentStatus=succeeded, orderStatus=confirmed. It returns the updated
	// order (nil when no order exists yet) and whether the order was already
	// confirmed before this call.
	MarkPaymentSucceeded(ctx context.Context, paymentIntentID string) (*model.Order, bool, error)

	// MarkPaymentFailed sets paymentStatus=failed for the order of a payment
	// intent, if one exists.
	MarkPaymentFailed(ctx context.Context, paymentIntentID string) error

	// UpdateStatus sets the fulfilment status, returning the updated order
	// or nil when the id is unknown.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
}

// InquiryRepository defines data access for teamwear inquiries.
type InquiryRepository interface {
	// Create persists a new inquiry.
	Create(ctx context.Context, inquiry *model.TeamwearInquiry) error

	// List returns all inquiries, newest first.
	List(ctx context.Context) ([]model.TeamwearInquiry, error)

	// Update applies upd and returns the updated row, or nil when the id is
	// unknown.
	Update(ctx context.Context, id uuid.UUID, upd model.InquiryUpdate) (*model.TeamwearInquiry, error)
}

// AdminRepository defines data access for admin accounts.
type AdminRepository interface {
	// GetByEmail returns the admin with the given email, or nil.
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)

	// GetByResetToken returns the admin holding an unexpired reset token, or
	// nil.
	GetByResetToken(ctx context.Context, token string) (*model.Admin, error)

	// List returns all admins, newest first.
	List(ctx context.Context) ([]model.Admin, error)

	// ListAdminEmails returns every admin email address.
	ListAdminEmails(ctx context.Context) ([]string, error)

	// Create inserts a new admin. Returns model.ErrAdminExists on a
	// duplicate email.
	Create(ctx context.Context, admin *model.Admin) error

	// Delete removes an admin, reporting whether a row was deleted.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// SetResetToken stores a password reset token and its expiry.
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error

	// UpdatePassword replaces the password hash and clears any reset token.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}
