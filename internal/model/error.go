package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodePaymentNotCompleted = "PAYMENT_NOT_COMPLETED"
	ErrCodeDuplicate           = "DUPLICATE"
	ErrCodeUpstream            = "UPSTREAM_ERROR"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrEmptyCart            = NewDomainError(ErrCodeValidation, "Cart items are required")
	ErrMissingAddress       = NewDomainError(ErrCodeValidation, "Shipping address is required")
	ErrInvalidTotal         = NewDomainError(ErrCodeValidation, "Total must be greater than 0")
	ErrTotalMismatch        = NewDomainError(ErrCodeValidation, "Order total does not match server-side pricing")
	ErrInvalidPromoCode     = NewDomainError(ErrCodeValidation, "Promo code is invalid or expired")
	ErrProductNotFound      = NewDomainError(ErrCodeValidation, "One or more products not found")
	ErrMissingPaymentIntent = NewDomainError(ErrCodeValidation, "Payment intent ID is required")
	ErrPaymentNotCompleted  = NewDomainError(ErrCodePaymentNotCompleted, "Payment has not been completed")
	ErrOrderNotFound        = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrPromoNotFound        = NewDomainError(ErrCodeNotFound, "Promo code not found")
	ErrCategoryNotFound     = NewDomainError(ErrCodeNotFound, "Category not found")
	ErrInquiryNotFound      = NewDomainError(ErrCodeNotFound, "Inquiry not found")
	ErrAdminNotFound        = NewDomainError(ErrCodeNotFound, "Admin not found")
	ErrPromoExists          = NewDomainError(ErrCodeDuplicate, "Promo code already exists")
	ErrAdminExists          = NewDomainError(ErrCodeDuplicate, "Admin already exists with that email")
	ErrInvalidCredentials   = NewDomainError(ErrCodeUnauthorised, "Invalid credentials")
	ErrInvalidResetToken    = NewDomainError(ErrCodeValidation, "Invalid or expired reset token")
	ErrPasswordTooShort     = NewDomainError(ErrCodeValidation, "Password must be at least 6 characters long")
)
