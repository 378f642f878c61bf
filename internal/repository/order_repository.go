package repository

import (
	"context"
	"errors"
	"fmt"

	"jerseylab-api/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const orderColumns = `id, order_number, user_id, email, items, shipping_address,
	subtotal, discount, promo_code, shipping, tax, total,
	payment_intent_id, payment_status, order_status, stripe_customer_id, notes,
	created_at, updated_at`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// Insert persists the order unless one already exists for its payment intent.
// The ON CONFLICT clause on the unique payment_intent_id constraint makes the
// check-then-insert atomic: when the client call and the webhook race, exactly
// one of them inserts a row.
func (r *orderRepository) Insert(ctx context.Context, order *model.Order) (bool, error) {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (payment_intent_id) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query,
		order.ID, order.OrderNumber, order.UserID, order.Email,
		order.Items, order.ShippingAddress,
		order.Subtotal, order.Discount, order.PromoCode, order.Shipping, order.Tax, order.Total,
		order.PaymentIntentID, order.PaymentStatus, order.OrderStatus,
		order.StripeCustomerID, order.Notes,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// The payment-intent conflict is absorbed by ON CONFLICT, so a
			// unique violation here can only be the order number.
			r.logger.Warn().
				Str("order_number", order.OrderNumber).
				Msg("order number collision")
			return false, ErrOrderNumberConflict
		}
		r.logger.Error().Err(err).Str("payment_intent_id", order.PaymentIntentID).Msg("failed to insert order")
		return false, fmt.Errorf("failed to insert order: %w", err)
	}

	created := tag.RowsAffected() == 1
	r.logger.Debug().
		Str("order_number", order.OrderNumber).
		Str("payment_intent_id", order.PaymentIntentID).
		Bool("created", created).
		Msg("order insert attempted")

	return created, nil
}

// GetByPaymentIntentID retrieves the order for a payment intent, or nil.
func (r *orderRepository) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE payment_intent_id = $1`
	return r.queryOne(ctx, query, paymentIntentID)
}

// GetByOrderNumber retrieves the order with the given number, or nil.
func (r *orderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`
	return r.queryOne(ctx, query, orderNumber)
}

// ListByEmail returns a customer's orders, newest first.
func (r *orderRepository) ListByEmail(ctx context.Context, email string) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE email = $1 ORDER BY created_at DESC`
	return r.queryMany(ctx, query, email)
}

// ListByUserID returns a user's orders, newest first.
func (r *orderRepository) ListByUserID(ctx context.Context, userID string) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryMany(ctx, query, userID)
}

// ListAll returns every order, newest first.
func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.queryMany(ctx, query)
}

// MarkPaymentSucceeded transitions the order to succeeded/confirmed in a
// single statement that also reports the previous fulfilment status, so the
// caller can tell whether this delivery was the first confirmation.
func (r *orderRepository) MarkPaymentSucceeded(ctx context.Context, paymentIntentID string) (*model.Order, bool, error) {
	query := `
		UPDATE orders o
		SET payment_status = $2, order_status = $3, updated_at = NOW()
		FROM (
			SELECT id, order_status AS prev_status
			FROM orders
			WHERE payment_intent_id = $1
			FOR UPDATE
		) prev
		WHERE o.id = prev.id
		RETURNING o.id, o.order_number, o.user_id, o.email, o.items, o.shipping_address,
			o.subtotal, o.discount, o.promo_code, o.shipping, o.tax, o.total,
			o.payment_intent_id, o.payment_status, o.order_status, o.stripe_customer_id, o.notes,
			o.created_at, o.updated_at, prev.prev_status
	`

	var order model.Order
	var prevStatus model.OrderStatus
	err := r.pool.QueryRow(ctx, query, paymentIntentID, model.PaymentSucceeded, model.OrderConfirmed).Scan(
		scanDest(&order, &prevStatus)...,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		r.logger.Error().Err(err).Str("payment_intent_id", paymentIntentID).Msg("failed to mark payment succeeded")
		return nil, false, fmt.Errorf("failed to mark payment succeeded: %w", err)
	}

	return &order, prevStatus == model.OrderConfirmed, nil
}

// MarkPaymentFailed records a failed payment for an existing order.
func (r *orderRepository) MarkPaymentFailed(ctx context.Context, paymentIntentID string) error {
	query := `UPDATE orders SET payment_status = $2, updated_at = NOW() WHERE payment_intent_id = $1`
	if _, err := r.pool.Exec(ctx, query, paymentIntentID, model.PaymentFailed); err != nil {
		r.logger.Error().Err(err).Str("payment_intent_id", paymentIntentID).Msg("failed to mark payment failed")
		return fmt.Errorf("failed to mark payment failed: %w", err)
	}
	return nil
}

// UpdateStatus sets the fulfilment status.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	query := `
		UPDATE orders SET order_status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + orderColumns
	return r.queryOne(ctx, query, id, status)
}

func (r *orderRepository) queryOne(ctx context.Context, query string, args ...any) (*model.Order, error) {
	var order model.Order
	err := r.pool.QueryRow(ctx, query, args...).Scan(scanDest(&order)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) queryMany(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var order model.Order
		if err := rows.Scan(scanDest(&order)...); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// scanDest returns the scan destinations for orderColumns, plus any extras.
func scanDest(order *model.Order, extra ...any) []any {
	dest := []any{
		&order.ID, &order.OrderNumber, &order.UserID, &order.Email,
		&order.Items, &order.ShippingAddress,
		&order.Subtotal, &order.Discount, &order.PromoCode, &order.Shipping, &order.Tax, &order.Total,
		&order.PaymentIntentID, &order.PaymentStatus, &order.OrderStatus,
		&order.StripeCustomerID, &order.Notes,
		&order.CreatedAt, &order.UpdatedAt,
	}
	return append(dest, extra...)
}
