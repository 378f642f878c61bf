// Package promo implements the promo code evaluator: validity checks and
// discount computation for a code against a cart subtotal. Evaluation is pure
// and never mutates usage counters, so it is safe to call repeatedly for live
// preview while the shopper types.
package promo

import (
	"fmt"
	"time"

	"jerseylab-api/internal/model"

	"github.com/shopspring/decimal"
)

// InvalidReason is the single reason reported for a code that cannot be
// redeemed, whether it never existed, expired, was deactivated, or hit its
// usage cap. Collapsing these avoids leaking which codes exist.
const InvalidReason = "Promo code is invalid or expired"

// Result is the outcome of evaluating a code against a subtotal.
type Result struct {
	Valid    bool
	Discount float64
	Reason   string
}

// Evaluate checks pc against subtotal at the given instant and computes the
// discount. A nil pc means the code was not found. Percentage discounts are
// clamped to the optional cap; fixed discounts never exceed the subtotal.
// The discount is rounded half away from zero at the cent boundary.
func Evaluate(pc *model.PromoCode, subtotal float64, now time.Time) Result {
	if pc == nil || !pc.IsUsable(now) {
		return Result{Reason: InvalidReason}
	}

	if subtotal < pc.MinPurchaseAmount {
		return Result{
			Reason: fmt.Sprintf("Minimum purchase amount of $%.2f required", pc.MinPurchaseAmount),
		}
	}

	return Result{
		Valid:    true,
		Discount: Discount(pc, subtotal),
	}
}

// Discount computes the discount amount for a usable code. Callers that need
// validity checks should use Evaluate.
func Discount(pc *model.PromoCode, subtotal float64) float64 {
	sub := decimal.NewFromFloat(subtotal)
	value := decimal.NewFromFloat(pc.DiscountValue)

	var d decimal.Decimal
	switch pc.DiscountType {
	case model.DiscountPercentage:
		d = sub.Mul(value).Div(decimal.NewFromInt(100))
		if pc.MaxDiscountAmount != nil {
			if limit := decimal.NewFromFloat(*pc.MaxDiscountAmount); d.GreaterThan(limit) {
				d = limit
			}
		}
	default: // fixed
		d = value
		if d.GreaterThan(sub) {
			d = sub
		}
	}

	out, _ := d.Round(2).Float64()
	return out
}
