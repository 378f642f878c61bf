package service

import (
	"context"
	"time"

	"jerseylab-api/internal/model"
	"jerseylab-api/internal/promo"
	"jerseylab-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// promoService implements PromoService.
type promoService struct {
	promoRepo repository.PromoRepository
	logger    zerolog.Logger
	now       func() time.Time
}

// NewPromoService creates a new promo code service.
func NewPromoService(promoRepo repository.PromoRepository, logger zerolog.Logger) PromoService {
	return &promoService{
		promoRepo: promoRepo,
		logger:    logger.With().Str("service", "promo").Logger(),
		now:       time.Now,
	}
}

// Validate evaluates a code against a subtotal for a live storefront preview.
// It never mutates usage counters; redemption is counted at order creation.
func (s *promoService) Validate(ctx context.Context, req *model.ValidatePromoRequest) (*model.ValidatePromoResponse, error) {
	if req.Code == "" {
		return &model.ValidatePromoResponse{Valid: false, Error: "Promo code is required"}, nil
	}

	pc, err := s.promoRepo.GetByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	result := promo.Evaluate(pc, req.Subtotal, s.now())
	if !result.Valid {
		s.logger.Debug().
			Str("code", model.NormalizeCode(req.Code)).
			Str("reason", result.Reason).
			Msg("promo code rejected")
		return &model.ValidatePromoResponse{Valid: false, Error: result.Reason}, nil
	}

	return &model.ValidatePromoResponse{
		Valid:    true,
		Discount: result.Discount,
		PromoCode: &model.PromoCodeSummary{
			Code:          pc.Code,
			DiscountType:  pc.DiscountType,
			DiscountValue: pc.DiscountValue,
		},
	}, nil
}

// List returns all promo codes, newest first.
func (s *promoService) List(ctx context.Context) ([]model.PromoCode, error) {
	return s.promoRepo.List(ctx)
}

// Create adds a new promo code after validating its shape.
func (s *promoService) Create(ctx context.Context, pc *model.PromoCode) (*model.PromoCode, error) {
	if err := validatePromo(pc); err != nil {
		return nil, err
	}

	pc.ID = uuid.New()
	pc.Code = model.NormalizeCode(pc.Code)
	pc.UsedCount = 0
	now := s.now()
	pc.CreatedAt = now
	pc.UpdatedAt = now

	if err := s.promoRepo.Create(ctx, pc); err != nil {
		return nil, err
	}

	s.logger.Info().Str("code", pc.Code).Msg("promo code created")
	return pc, nil
}

// Update overwrites the editable fields of a promo code.
func (s *promoService) Update(ctx context.Context, id uuid.UUID, pc *model.PromoCode) (*model.PromoCode, error) {
	if err := validatePromo(pc); err != nil {
		return nil, err
	}
	pc.Code = model.NormalizeCode(pc.Code)

	updated, err := s.promoRepo.Update(ctx, id, pc)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, model.ErrPromoNotFound
	}

	s.logger.Info().Str("code", updated.Code).Msg("promo code updated")
	return updated, nil
}

// Delete removes a promo code.
func (s *promoService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.promoRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return model.ErrPromoNotFound
	}

	s.logger.Info().Str("promo_id", id.String()).Msg("promo code deleted")
	return nil
}

func validatePromo(pc *model.PromoCode) error {
	if model.NormalizeCode(pc.Code) == "" {
		return model.NewDomainError(model.ErrCodeValidation, "Code is required")
	}
	if pc.DiscountType != model.DiscountPercentage && pc.DiscountType != model.DiscountFixed {
		return model.NewDomainError(model.ErrCodeValidation, "Discount type must be percentage or fixed")
	}
	if pc.DiscountValue <= 0 {
		return model.NewDomainError(model.ErrCodeValidation, "Discount value must be greater than 0")
	}
	if pc.DiscountType == model.DiscountPercentage && pc.DiscountValue > 100 {
		return model.NewDomainError(model.ErrCodeValidation, "Percentage discount cannot exceed 100")
	}
	if pc.MinPurchaseAmount < 0 {
		return model.NewDomainError(model.ErrCodeValidation, "Minimum purchase amount cannot be negative")
	}
	if pc.MaxDiscountAmount != nil && *pc.MaxDiscountAmount <= 0 {
		return model.NewDomainError(model.ErrCodeValidation, "Maximum discount amount must be greater than 0")
	}
	if pc.UsageLimit != nil && *pc.UsageLimit <= 0 {
		return model.NewDomainError(model.ErrCodeValidation, "Usage limit must be greater than 0")
	}
	if pc.EndDate.Before(pc.StartDate) {
		return model.NewDomainError(model.ErrCodeValidation, "End date must not be before start date")
	}
	return nil
}
