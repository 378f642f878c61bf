package service

import (
	"context"
	"testing"
	"time"

	"jerseylab-api/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func usablePromo(code string) *model.PromoCode {
	return &model.PromoCode{
		ID:            uuid.New(),
		Code:          code,
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 10,
		StartDate:     time.Now().Add(-time.Hour),
		EndDate:       time.Now().Add(time.Hour),
		IsActive:      true,
	}
}

func TestValidate_ValidCode(t *testing.T) {
	promoRepo := new(MockPromoRepository)
	promoRepo.On("GetByCode", mock.Anything, "SAVE10").Return(usablePromo("SAVE10"), nil)

	svc := NewPromoService(promoRepo, zerolog.Nop())

	resp, err := svc.Validate(context.Background(), &model.ValidatePromoRequest{
		Code:     "SAVE10",
		Subtotal: 49.99,
	})

	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Equal(t, 5.00, resp.Discount)
	require.NotNil(t, resp.PromoCode)
	assert.Equal(t, "SAVE10", resp.PromoCode.Code)
	assert.Equal(t, model.DiscountPercentage, resp.PromoCode.DiscountType)
	assert.Empty(t, resp.Error)
}

func TestValidate_UnknownCodeIsNotAnError(t *testing.T) {
	promoRepo := new(MockPromoRepository)
	promoRepo.On("GetByCode", mock.Anything, "GHOST").Return(nil, nil)

	svc := NewPromoService(promoRepo, zerolog.Nop())

	resp, err := svc.Validate(context.Background(), &model.ValidatePromoRequest{
		Code:     "GHOST",
		Subtotal: 100,
	})

	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Equal(t, "Promo code is invalid or expired", resp.Error)
	assert.Nil(t, resp.PromoCode)
}

func TestValidate_MinPurchaseDisclosesAmount(t *testing.T) {
	pc := usablePromo("BIG50")
	pc.MinPurchaseAmount = 150

	promoRepo := new(MockPromoRepository)
	promoRepo.On("GetByCode", mock.Anything, "BIG50").Return(pc, nil)

	svc := NewPromoService(promoRepo, zerolog.Nop())

	resp, err := svc.Validate(context.Background(), &model.ValidatePromoRequest{
		Code:     "BIG50",
		Subtotal: 100,
	})

	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Equal(t, "Minimum purchase amount of $150.00 required", resp.Error)
}

func TestValidate_EmptyCode(t *testing.T) {
	svc := NewPromoService(new(MockPromoRepository), zerolog.Nop())

	resp, err := svc.Validate(context.Background(), &model.ValidatePromoRequest{Subtotal: 100})

	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Equal(t, "Promo code is required", resp.Error)
}

func TestCreatePromo_NormalizesCode(t *testing.T) {
	promoRepo := new(MockPromoRepository)
	promoRepo.On("Create", mock.Anything, mock.MatchedBy(func(pc *model.PromoCode) bool {
		return pc.Code == "SUMMER25" && pc.UsedCount == 0 && pc.ID != uuid.Nil
	})).Return(nil)

	svc := NewPromoService(promoRepo, zerolog.Nop())

	created, err := svc.Create(context.Background(), &model.PromoCode{
		Code:          "  summer25 ",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 25,
		StartDate:     time.Now(),
		EndDate:       time.Now().Add(24 * time.Hour),
		IsActive:      true,
	})

	require.NoError(t, err)
	assert.Equal(t, "SUMMER25", created.Code)
	promoRepo.AssertExpectations(t)
}

func TestCreatePromo_Validation(t *testing.T) {
	svc := NewPromoService(new(MockPromoRepository), zerolog.Nop())

	base := func() *model.PromoCode {
		return &model.PromoCode{
			Code:          "OK",
			DiscountType:  model.DiscountPercentage,
			DiscountValue: 10,
			StartDate:     time.Now(),
			EndDate:       time.Now().Add(time.Hour),
		}
	}

	limit := 0

	tests := []struct {
		name   string
		modify func(pc *model.PromoCode)
	}{
		{"empty code", func(pc *model.PromoCode) { pc.Code = "  " }},
		{"bad discount type", func(pc *model.PromoCode) { pc.DiscountType = "bogo" }},
		{"zero discount value", func(pc *model.PromoCode) { pc.DiscountValue = 0 }},
		{"percentage over 100", func(pc *model.PromoCode) { pc.DiscountValue = 150 }},
		{"negative min purchase", func(pc *model.PromoCode) { pc.MinPurchaseAmount = -1 }},
		{"zero usage limit", func(pc *model.PromoCode) { pc.UsageLimit = &limit }},
		{"end before start", func(pc *model.PromoCode) { pc.EndDate = pc.StartDate.Add(-time.Hour) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := base()
			tt.modify(pc)

			_, err := svc.Create(context.Background(), pc)

			var domainErr *model.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, model.ErrCodeValidation, domainErr.Code)
		})
	}
}

func TestUpdatePromo_NotFound(t *testing.T) {
	id := uuid.New()
	promoRepo := new(MockPromoRepository)
	promoRepo.On("Update", mock.Anything, id, mock.Anything).Return(nil, nil)

	svc := NewPromoService(promoRepo, zerolog.Nop())

	_, err := svc.Update(context.Background(), id, usablePromo("SAVE10"))

	assert.ErrorIs(t, err, model.ErrPromoNotFound)
}

func TestDeletePromo_NotFound(t *testing.T) {
	id := uuid.New()
	promoRepo := new(MockPromoRepository)
	promoRepo.On("Delete", mock.Anything, id).Return(false, nil)

	svc := NewPromoService(promoRepo, zerolog.Nop())

	err := svc.Delete(context.Background(), id)

	assert.ErrorIs(t, err, model.ErrPromoNotFound)
}
