package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DiscountType distinguishes percentage from fixed-amount promo codes.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// PromoCode represents a discount token with an eligibility window and an
// optional usage cap. Codes are stored uppercase; NormalizeCode applies the
// same normalisation to lookups.
type PromoCode struct {
	ID                uuid.UUID    `json:"id" db:"id"`
	Code              string       `json:"code" db:"code"`
	Description       string       `json:"description" db:"description"`
	DiscountType      DiscountType `json:"discountType" db:"discount_type"`
	DiscountValue     float64      `json:"discountValue" db:"discount_value"`
	MinPurchaseAmount float64      `json:"minPurchaseAmount" db:"min_purchase_amount"`
	MaxDiscountAmount *float64     `json:"maxDiscountAmount,omitempty" db:"max_discount_amount"`
	StartDate         time.Time    `json:"startDate" db:"start_date"`
	EndDate           time.Time    `json:"endDate" db:"end_date"`
	UsageLimit        *int         `json:"usageLimit,omitempty" db:"usage_limit"`
	UsedCount         int          `json:"usedCount" db:"used_count"`
	IsActive          bool         `json:"isActive" db:"is_active"`
	CreatedAt         time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time    `json:"updatedAt" db:"updated_at"`
}

// IsUsable reports whether the code can be redeemed at the given instant:
// active, inside its validity window, and under its usage cap.
func (p *PromoCode) IsUsable(now time.Time) bool {
	return p.IsActive &&
		!now.Before(p.StartDate) &&
		!now.After(p.EndDate) &&
		(p.UsageLimit == nil || p.UsedCount < *p.UsageLimit)
}

// NormalizeCode uppercases and trims a promo code for storage and lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// PromoCodeSummary is the shape returned to shoppers on successful validation.
// It deliberately omits usage counters and limits.
type PromoCodeSummary struct {
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue float64      `json:"discountValue"`
}

// ValidatePromoRequest is the payload for POST /api/promo-codes/validate.
type ValidatePromoRequest struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
}

// ValidatePromoResponse always carries validity in the body; an invalid code
// is not an HTTP error.
type ValidatePromoResponse struct {
	Valid     bool              `json:"valid"`
	Discount  float64           `json:"discount,omitempty"`
	Error     string            `json:"error,omitempty"`
	PromoCode *PromoCodeSummary `json:"promoCode,omitempty"`
}
