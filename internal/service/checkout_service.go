package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"jerseylab-api/internal/model"
	"jerseylab-api/internal/notify"
	"jerseylab-api/internal/payment"
	"jerseylab-api/internal/promo"
	"jerseylab-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// totalTolerance is the largest difference, in dollars, allowed between the
// client-declared total and the server-derived one. It absorbs float rounding
// on the client without letting a tampered total through.
const totalTolerance = 0.01

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderRepo   repository.OrderRepository
	promoRepo   repository.PromoRepository
	catalogRepo repository.CatalogRepository
	provider    payment.Provider
	dispatcher  notify.Dispatcher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	promoRepo repository.PromoRepository,
	catalogRepo repository.CatalogRepository,
	provider payment.Provider,
	dispatcher notify.Dispatcher,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo:   orderRepo,
		promoRepo:   promoRepo,
		catalogRepo: catalogRepo,
		provider:    provider,
		dispatcher:  dispatcher,
		logger:      logger.With().Str("service", "checkout").Logger(),
		now:         time.Now,
	}
}

// cartTotals is the server-derived monetary breakdown of a cart.
type cartTotals struct {
	Subtotal float64
	Discount float64
	Total    float64
	Promo    *model.PromoCode
}

// CreateIntent re-prices the cart and opens a payment intent for the derived
// total. The client-declared total is only trusted after it matches.
func (s *checkoutService) CreateIntent(ctx context.Context, req *model.CreateIntentRequest) (*model.CreateIntentResponse, error) {
	if len(req.Items) == 0 {
		return nil, model.ErrEmptyCart
	}
	if req.ShippingAddress == nil {
		return nil, model.ErrMissingAddress
	}
	if req.Total <= 0 {
		return nil, model.ErrInvalidTotal
	}

	totals, err := s.priceCart(ctx, req.Items, req.PromoCode, req.Shipping, req.Tax)
	if err != nil {
		return nil, err
	}
	if err := s.checkDeclaredTotal(req.Total, totals.Total); err != nil {
		return nil, err
	}

	metadata := map[string]string{
		"email":     req.Email,
		"userId":    "guest",
		"itemCount": strconv.Itoa(len(req.Items)),
		"promoCode": "none",
	}
	if req.UserID != "" {
		metadata["userId"] = req.UserID
	}
	if totals.Promo != nil {
		metadata["promoCode"] = totals.Promo.Code
	}

	intent, err := s.provider.CreateIntent(ctx, payment.CreateParams{
		AmountCents: toCents(totals.Total),
		Currency:    "usd",
		Metadata:    metadata,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create payment intent")
		return nil, model.NewDomainError(model.ErrCodeUpstream, fmt.Sprintf("Failed to create payment intent: %v", err))
	}

	s.logger.Info().
		Str("payment_intent_id", intent.ID).
		Float64("total", totals.Total).
		Msg("payment intent created")

	return &model.CreateIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	}, nil
}

// CreateOrder persists the order for a completed payment intent. The unique
// constraint on payment_intent_id makes the operation idempotent under
// concurrent retries: exactly one caller observes created=true.
func (s *checkoutService) CreateOrder(ctx context.Context, req *model.CreateOrderRequest) (*model.Order, bool, error) {
	if req.PaymentIntentID == "" {
		return nil, false, model.ErrMissingPaymentIntent
	}
	if len(req.Items) == 0 {
		return nil, false, model.ErrEmptyCart
	}
	if req.ShippingAddress == nil {
		return nil, false, model.ErrMissingAddress
	}
	if req.Total <= 0 {
		return nil, false, model.ErrInvalidTotal
	}

	intent, err := s.provider.GetIntent(ctx, req.PaymentIntentID)
	if err != nil {
		s.logger.Error().Err(err).Str("payment_intent_id", req.PaymentIntentID).Msg("failed to retrieve payment intent")
		return nil, false, model.NewDomainError(model.ErrCodeUpstream, fmt.Sprintf("Failed to verify payment: %v", err))
	}
	if intent.Status != payment.StatusSucceeded {
		s.logger.Warn().
			Str("payment_intent_id", req.PaymentIntentID).
			Str("status", intent.Status).
			Msg("order rejected: payment not completed")
		return nil, false, model.ErrPaymentNotCompleted
	}

	// The amount the provider authorized was server-priced at intent creation,
	// so it is the tamper gate here. Promo or catalog state that drifted while
	// the customer paid must not strand the captured charge.
	if err := s.checkChargedTotal(req.Total, intent.AmountCents); err != nil {
		return nil, false, err
	}

	totals, err := s.priceOrder(ctx, req.Items, req.PromoCode, req.Shipping, req.Tax)
	if err != nil {
		return nil, false, err
	}
	totals.Total = fromCents(intent.AmountCents)

	order := s.buildOrder(req, totals)

	created, err := s.insertWithRetry(ctx, order)
	if err != nil {
		return nil, false, err
	}

	if !created {
		existing, err := s.orderRepo.GetByPaymentIntentID(ctx, req.PaymentIntentID)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, fmt.Errorf("order for payment intent %s vanished after conflict", req.PaymentIntentID)
		}
		s.logger.Info().
			Str("payment_intent_id", req.PaymentIntentID).
			Str("order_number", existing.OrderNumber).
			Msg("order already exists for payment intent")
		return existing, false, nil
	}

	if totals.Promo != nil {
		applied, err := s.promoRepo.IncrementUsage(ctx, totals.Promo.Code)
		if err != nil {
			s.logger.Error().Err(err).Str("promo_code", totals.Promo.Code).Msg("failed to increment promo usage")
		} else if !applied {
			s.logger.Warn().Str("promo_code", totals.Promo.Code).Msg("promo usage cap reached after order creation")
		}
	}

	s.logger.Info().
		Str("order_number", order.OrderNumber).
		Str("payment_intent_id", order.PaymentIntentID).
		Float64("total", order.Total).
		Msg("order created")

	s.dispatcher.OrderCreated(order)

	return order, true, nil
}

// HandleWebhookEvent reconciles a verified provider event with the order
// table. Events for unknown payment intents are logged and acknowledged; the
// provider retries deliveries, so failing them would only cause replays.
func (s *checkoutService) HandleWebhookEvent(ctx context.Context, event payment.Event) error {
	switch event.Type {
	case payment.EventPaymentSucceeded:
		order, wasConfirmed, err := s.orderRepo.MarkPaymentSucceeded(ctx, event.PaymentIntentID)
		if err != nil {
			return err
		}
		if order == nil {
			s.logger.Info().
				Str("payment_intent_id", event.PaymentIntentID).
				Msg("payment succeeded before order creation; nothing to update")
			return nil
		}
		if !wasConfirmed {
			s.logger.Info().
				Str("order_number", order.OrderNumber).
				Msg("order confirmed via webhook")
			s.dispatcher.OrderCreated(order)
		}
		return nil

	case payment.EventPaymentFailed:
		if err := s.orderRepo.MarkPaymentFailed(ctx, event.PaymentIntentID); err != nil {
			return err
		}
		s.logger.Info().
			Str("payment_intent_id", event.PaymentIntentID).
			Msg("payment failure recorded")
		return nil

	default:
		s.logger.Debug().Str("type", event.Type).Msg("ignoring webhook event")
		return nil
	}
}

// GetOrderByNumber returns an order by its human-facing number.
func (s *checkoutService) GetOrderByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	order, err := s.orderRepo.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// ListOrders returns a customer's orders by email or user ID.
func (s *checkoutService) ListOrders(ctx context.Context, email, userID string) ([]model.Order, error) {
	if userID != "" {
		return s.orderRepo.ListByUserID(ctx, userID)
	}
	if email != "" {
		return s.orderRepo.ListByEmail(ctx, email)
	}
	return nil, model.NewDomainError(model.ErrCodeValidation, "Email or user ID is required")
}

// ListAllOrders returns every order for the back office.
func (s *checkoutService) ListAllOrders(ctx context.Context) ([]model.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

// UpdateOrderStatus sets an order's fulfilment status.
func (s *checkoutService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Invalid order status")
	}

	order, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	s.logger.Info().
		Str("order_number", order.OrderNumber).
		Str("status", string(status)).
		Msg("order status updated")
	return order, nil
}

// itemsSubtotal derives the cart subtotal from catalogue prices, rounded to
// cents. Items must reference known products with positive quantities.
func (s *checkoutService) itemsSubtotal(ctx context.Context, items []model.OrderItem) (decimal.Decimal, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return decimal.Zero, model.NewDomainError(model.ErrCodeValidation, "Each item needs a product ID and a positive quantity")
		}
		ids = append(ids, item.ProductID)
	}

	prices, err := s.catalogRepo.GetProductPrices(ctx, ids)
	if err != nil {
		return decimal.Zero, err
	}

	subtotal := decimal.Zero
	for _, item := range items {
		price, ok := prices[item.ProductID]
		if !ok {
			s.logger.Warn().Str("product_id", item.ProductID).Msg("unknown product in cart")
			return decimal.Zero, model.ErrProductNotFound
		}
		line := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	return subtotal.Round(2), nil
}

// priceCart prices the cart before payment: the promo code must be usable
// right now, and an unusable one rejects the request. Shipping and tax are
// taken as declared.
func (s *checkoutService) priceCart(ctx context.Context, items []model.OrderItem, promoCode string, shipping, tax float64) (*cartTotals, error) {
	subtotal, err := s.itemsSubtotal(ctx, items)
	if err != nil {
		return nil, err
	}
	subtotalF, _ := subtotal.Float64()

	totals := &cartTotals{Subtotal: subtotalF}

	if promoCode != "" {
		pc, err := s.promoRepo.GetByCode(ctx, promoCode)
		if err != nil {
			return nil, err
		}
		result := promo.Evaluate(pc, subtotalF, s.now())
		if !result.Valid {
			s.logger.Warn().Str("promo_code", promoCode).Str("reason", result.Reason).Msg("promo code rejected at checkout")
			return nil, model.ErrInvalidPromoCode
		}
		totals.Discount = result.Discount
		totals.Promo = pc
	}

	total, _ := subtotal.
		Sub(decimal.NewFromFloat(totals.Discount)).
		Add(decimal.NewFromFloat(shipping)).
		Add(decimal.NewFromFloat(tax)).
		Round(2).
		Float64()
	totals.Total = total

	return totals, nil
}

// priceOrder derives the monetary breakdown for an already-paid cart. The
// charge has been captured, so the promo usability gate does not apply: a
// code that expired or hit its cap while the customer paid still contributes
// the discount it granted at intent time. The caller sets Total from the
// verified charge.
func (s *checkoutService) priceOrder(ctx context.Context, items []model.OrderItem, promoCode string, shipping, tax float64) (*cartTotals, error) {
	subtotal, err := s.itemsSubtotal(ctx, items)
	if err != nil {
		return nil, err
	}
	subtotalF, _ := subtotal.Float64()

	totals := &cartTotals{Subtotal: subtotalF}

	if promoCode != "" {
		pc, err := s.promoRepo.GetByCode(ctx, promoCode)
		if err != nil {
			return nil, err
		}
		if pc == nil {
			s.logger.Warn().Str("promo_code", promoCode).Msg("promo code gone after charge; recording order without it")
		} else {
			totals.Discount = promo.Discount(pc, subtotalF)
			totals.Promo = pc
		}
	}

	return totals, nil
}

// checkDeclaredTotal rejects a client total that strays from the derived one
// by more than the tolerance.
func (s *checkoutService) checkDeclaredTotal(declared, derived float64) error {
	if math.Abs(declared-derived) > totalTolerance {
		s.logger.Warn().
			Float64("declared", declared).
			Float64("derived", derived).
			Msg("declared total does not match server-side pricing")
		return model.ErrTotalMismatch
	}
	return nil
}

// checkChargedTotal rejects a declared total that strays more than a cent
// from what the provider actually charged.
func (s *checkoutService) checkChargedTotal(declared float64, chargedCents int64) error {
	if diff := toCents(declared) - chargedCents; diff < -1 || diff > 1 {
		s.logger.Warn().
			Float64("declared", declared).
			Int64("charged_cents", chargedCents).
			Msg("declared total does not match the captured charge")
		return model.ErrTotalMismatch
	}
	return nil
}

// buildOrder assembles the order row from the request and derived totals.
func (s *checkoutService) buildOrder(req *model.CreateOrderRequest, totals *cartTotals) *model.Order {
	if req.ShippingAddress.Country == "" {
		req.ShippingAddress.Country = "US"
	}
	now := s.now()
	order := &model.Order{
		ID:              uuid.New(),
		OrderNumber:     s.newOrderNumber(),
		Email:           req.Email,
		Items:           req.Items,
		ShippingAddress: *req.ShippingAddress,
		Subtotal:        totals.Subtotal,
		Discount:        totals.Discount,
		Shipping:        req.Shipping,
		Tax:             req.Tax,
		Total:           totals.Total,
		PaymentIntentID: req.PaymentIntentID,
		PaymentStatus:   model.PaymentSucceeded,
		OrderStatus:     model.OrderConfirmed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.UserID != "" {
		order.UserID = &req.UserID
	}
	if totals.Promo != nil {
		order.PromoCode = &totals.Promo.Code
	}
	if req.StripeCustomerID != "" {
		order.StripeCustomerID = &req.StripeCustomerID
	}
	return order
}

// insertWithRetry inserts the order, regenerating the order number once if
// the generated one collides. A payment-intent conflict is not an error; it
// reports created=false.
func (s *checkoutService) insertWithRetry(ctx context.Context, order *model.Order) (bool, error) {
	created, err := s.orderRepo.Insert(ctx, order)
	if err == repository.ErrOrderNumberConflict {
		s.logger.Warn().Str("order_number", order.OrderNumber).Msg("order number collision; regenerating")
		order.OrderNumber = s.newOrderNumber()
		created, err = s.orderRepo.Insert(ctx, order)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("payment_intent_id", order.PaymentIntentID).Msg("failed to insert order")
		return false, fmt.Errorf("failed to insert order: %w", err)
	}
	return created, nil
}

// newOrderNumber generates an order number like JL-MCK3QLZ2-7F4A: a millisecond
// timestamp plus a random suffix, both base36 uppercase.
func (s *checkoutService) newOrderNumber() string {
	ts := strings.ToUpper(strconv.FormatInt(s.now().UnixMilli(), 36))
	return "JL-" + ts + "-" + randomBase36(4)
}

const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func randomBase36(n int) string {
	buf := make([]byte, n)
	// rand.Read over crypto/rand never fails on supported platforms.
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}
	return string(buf)
}

// toCents converts a dollar amount to integer cents for the provider.
func toCents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// fromCents converts the provider's minor-currency amount back to dollars.
func fromCents(cents int64) float64 {
	out, _ := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).Float64()
	return out
}
