package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"jerseylab-api/internal/model"
	"jerseylab-api/internal/payment"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCheckoutService is a mock implementation of service.CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) CreateIntent(ctx context.Context, req *model.CreateIntentRequest) (*model.CreateIntentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreateIntentResponse), args.Error(1)
}

func (m *MockCheckoutService) CreateOrder(ctx context.Context, req *model.CreateOrderRequest) (*model.Order, bool, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Order), args.Bool(1), args.Error(2)
}

func (m *MockCheckoutService) HandleWebhookEvent(ctx context.Context, event payment.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockCheckoutService) GetOrderByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockCheckoutService) ListOrders(ctx context.Context, email, userID string) ([]model.Order, error) {
	args := m.Called(ctx, email, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockCheckoutService) ListAllOrders(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockCheckoutService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// MockPromoService is a mock implementation of service.PromoService.
type MockPromoService struct {
	mock.Mock
}

func (m *MockPromoService) Validate(ctx context.Context, req *model.ValidatePromoRequest) (*model.ValidatePromoResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ValidatePromoResponse), args.Error(1)
}

func (m *MockPromoService) List(ctx context.Context) ([]model.PromoCode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PromoCode), args.Error(1)
}

func (m *MockPromoService) Create(ctx context.Context, pc *model.PromoCode) (*model.PromoCode, error) {
	args := m.Called(ctx, pc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PromoCode), args.Error(1)
}

func (m *MockPromoService) Update(ctx context.Context, id uuid.UUID, pc *model.PromoCode) (*model.PromoCode, error) {
	args := m.Called(ctx, id, pc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PromoCode), args.Error(1)
}

func (m *MockPromoService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// stubVerifier is a canned payment.WebhookVerifier.
type stubVerifier struct {
	event payment.Event
	err   error
}

func (v *stubVerifier) Verify([]byte, string) (payment.Event, error) {
	return v.event, v.err
}

func postJSON(t *testing.T, target string, body any) *http.Request {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	return httptest.NewRequest(http.MethodPost, target, bytes.NewReader(buf))
}

func TestValidatePromo_InvalidCodeStillReturns200(t *testing.T) {
	svc := new(MockPromoService)
	svc.On("Validate", mock.Anything, mock.Anything).Return(&model.ValidatePromoResponse{
		Valid: false,
		Error: "Promo code is invalid or expired",
	}, nil)

	h := NewPromoHandler(svc, zerolog.Nop())
	rec := httptest.NewRecorder()

	h.Validate(rec, postJSON(t, "/api/promo-codes/validate", model.ValidatePromoRequest{Code: "GHOST", Subtotal: 100}))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp model.ValidatePromoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.Equal(t, "Promo code is invalid or expired", resp.Error)
}

func TestValidatePromo_MalformedBody(t *testing.T) {
	h := NewPromoHandler(new(MockPromoService), zerolog.Nop())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/promo-codes/validate", bytes.NewBufferString("{not json"))

	h.Validate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrder_NewOrderReturns201(t *testing.T) {
	svc := new(MockCheckoutService)
	order := &model.Order{OrderNumber: "JL-X-0001"}
	svc.On("CreateOrder", mock.Anything, mock.Anything).Return(order, true, nil)

	h := NewCheckoutHandler(svc, zerolog.Nop())
	rec := httptest.NewRecorder()

	h.CreateOrder(rec, postJSON(t, "/api/orders", model.CreateOrderRequest{PaymentIntentID: "pi_1"}))

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp model.CreateOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Order created successfully", resp.Message)
	assert.Equal(t, "JL-X-0001", resp.Order.OrderNumber)
}

func TestCreateOrder_DuplicateReturnsExistingOrder(t *testing.T) {
	svc := new(MockCheckoutService)
	order := &model.Order{OrderNumber: "JL-X-0001"}
	svc.On("CreateOrder", mock.Anything, mock.Anything).Return(order, false, nil)

	h := NewCheckoutHandler(svc, zerolog.Nop())
	rec := httptest.NewRecorder()

	h.CreateOrder(rec, postJSON(t, "/api/orders", model.CreateOrderRequest{PaymentIntentID: "pi_1"}))

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp model.CreateOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Order already exists", resp.Message)
}

func TestCreateOrder_DomainErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing payment intent", model.ErrMissingPaymentIntent, http.StatusBadRequest},
		{"payment not completed", model.ErrPaymentNotCompleted, http.StatusBadRequest},
		{"total mismatch", model.ErrTotalMismatch, http.StatusBadRequest},
		{"upstream failure", model.NewDomainError(model.ErrCodeUpstream, "Failed to verify payment"), http.StatusInternalServerError},
		{"unexpected error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCheckoutService)
			svc.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, false, tt.err)

			h := NewCheckoutHandler(svc, zerolog.Nop())
			rec := httptest.NewRecorder()

			h.CreateOrder(rec, postJSON(t, "/api/orders", model.CreateOrderRequest{}))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestWebhook_BadSignatureReturns400(t *testing.T) {
	svc := new(MockCheckoutService)
	verifier := &stubVerifier{err: errors.New("signature mismatch")}

	h := NewWebhookHandler(verifier, svc, zerolog.Nop())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewBufferString(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=bad")

	h.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Webhook Error: signature mismatch")
	svc.AssertNotCalled(t, "HandleWebhookEvent", mock.Anything, mock.Anything)
}

func TestWebhook_VerifiedEventAcknowledged(t *testing.T) {
	event := payment.Event{Type: payment.EventPaymentSucceeded, PaymentIntentID: "pi_1"}
	svc := new(MockCheckoutService)
	svc.On("HandleWebhookEvent", mock.Anything, event).Return(nil)

	h := NewWebhookHandler(&stubVerifier{event: event}, svc, zerolog.Nop())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewBufferString(`{}`))

	h.Handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received": true}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestWebhook_ProcessingFailureReturns500(t *testing.T) {
	event := payment.Event{Type: payment.EventPaymentSucceeded, PaymentIntentID: "pi_1"}
	svc := new(MockCheckoutService)
	svc.On("HandleWebhookEvent", mock.Anything, event).Return(errors.New("db down"))

	h := NewWebhookHandler(&stubVerifier{event: event}, svc, zerolog.Nop())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewBufferString(`{}`))

	h.Handle(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCreateIntent_Success(t *testing.T) {
	svc := new(MockCheckoutService)
	svc.On("CreateIntent", mock.Anything, mock.Anything).Return(&model.CreateIntentResponse{
		ClientSecret:    "pi_1_secret",
		PaymentIntentID: "pi_1",
	}, nil)

	h := NewCheckoutHandler(svc, zerolog.Nop())
	rec := httptest.NewRecorder()

	h.CreateIntent(rec, postJSON(t, "/api/payments/create-intent", model.CreateIntentRequest{}))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp model.CreateIntentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pi_1", resp.PaymentIntentID)
}

func TestListOrders_EmptyResultIsEmptyArray(t *testing.T) {
	svc := new(MockCheckoutService)
	svc.On("ListOrders", mock.Anything, "ada@example.com", "").Return(nil, nil)

	h := NewCheckoutHandler(svc, zerolog.Nop())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders?email=ada@example.com", nil)

	h.ListOrders(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
