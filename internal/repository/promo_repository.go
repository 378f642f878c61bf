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

const promoColumns = `id, code, description, discount_type, discount_value,
	min_purchase_amount, max_discount_amount, start_date, end_date,
	usage_limit, used_count, is_active, created_at, updated_at`

// promoRepository implements the PromoRepository interface using PostgreSQL.
type promoRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPromoRepository creates a new PostgreSQL-backed promo code repository.
func NewPromoRepository(pool *pgxpool.Pool, logger zerolog.Logger) PromoRepository {
	return &promoRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "promo").Logger(),
	}
}

// GetByCode retrieves a promo code by its normalized code, or nil.
func (r *promoRepository) GetByCode(ctx context.Context, code string) (*model.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE code = $1`

	var pc model.PromoCode
	err := r.pool.QueryRow(ctx, query, model.NormalizeCode(code)).Scan(promoScanDest(&pc)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query promo code")
		return nil, fmt.Errorf("failed to query promo code: %w", err)
	}
	return &pc, nil
}

// List returns all promo codes, newest first.
func (r *promoRepository) List(ctx context.Context) ([]model.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query promo codes")
		return nil, fmt.Errorf("failed to query promo codes: %w", err)
	}
	defer rows.Close()

	var codes []model.PromoCode
	for rows.Next() {
		var pc model.PromoCode
		if err := rows.Scan(promoScanDest(&pc)...); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan promo code row")
			return nil, fmt.Errorf("failed to scan promo code: %w", err)
		}
		codes = append(codes, pc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating promo codes: %w", err)
	}

	return codes, nil
}

// Create inserts a new promo code.
func (r *promoRepository) Create(ctx context.Context, pc *model.PromoCode) error {
	query := `
		INSERT INTO promo_codes (id, code, description, discount_type, discount_value,
			min_purchase_amount, max_discount_amount, start_date, end_date,
			usage_limit, used_count, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		pc.ID, pc.Code, pc.Description, pc.DiscountType, pc.DiscountValue,
		pc.MinPurchaseAmount, pc.MaxDiscountAmount, pc.StartDate, pc.EndDate,
		pc.UsageLimit, pc.UsedCount, pc.IsActive, pc.CreatedAt, pc.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrPromoExists
		}
		r.logger.Error().Err(err).Str("code", pc.Code).Msg("failed to create promo code")
		return fmt.Errorf("failed to create promo code: %w", err)
	}

	r.logger.Debug().Str("code", pc.Code).Msg("promo code created")
	return nil
}

// Update overwrites the editable fields of a promo code.
func (r *promoRepository) Update(ctx context.Context, id uuid.UUID, pc *model.PromoCode) (*model.PromoCode, error) {
	query := `
		UPDATE promo_codes
		SET code = $2, description = $3, discount_type = $4, discount_value = $5,
			min_purchase_amount = $6, max_discount_amount = $7,
			start_date = $8, end_date = $9, usage_limit = $10, is_active = $11,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + promoColumns

	var updated model.PromoCode
	err := r.pool.QueryRow(ctx, query,
		id, pc.Code, pc.Description, pc.DiscountType, pc.DiscountValue,
		pc.MinPurchaseAmount, pc.MaxDiscountAmount,
		pc.StartDate, pc.EndDate, pc.UsageLimit, pc.IsActive,
	).Scan(promoScanDest(&updated)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("promo_id", id.String()).Msg("failed to update promo code")
		return nil, fmt.Errorf("failed to update promo code: %w", err)
	}
	return &updated, nil
}

// Delete removes a promo code.
func (r *promoRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM promo_codes WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("promo_id", id.String()).Msg("failed to delete promo code")
		return false, fmt.Errorf("failed to delete promo code: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// IncrementUsage increments used_count with the usage cap enforced in the
// same statement, so concurrent redemptions cannot push a limited code past
// its cap.
func (r *promoRepository) IncrementUsage(ctx context.Context, code string) (bool, error) {
	query := `
		UPDATE promo_codes
		SET used_count = used_count + 1, updated_at = NOW()
		WHERE code = $1
		  AND is_active
		  AND (usage_limit IS NULL OR used_count < usage_limit)
	`

	tag, err := r.pool.Exec(ctx, query, model.NormalizeCode(code))
	if err != nil {
		r.logger.Error().Err(err).Str("code", code).Msg("failed to increment promo usage")
		return false, fmt.Errorf("failed to increment promo usage: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// promoScanDest returns the scan destinations for promoColumns.
func promoScanDest(pc *model.PromoCode) []any {
	return []any{
		&pc.ID, &pc.Code, &pc.Description, &pc.DiscountType, &pc.DiscountValue,
		&pc.MinPurchaseAmount, &pc.MaxDiscountAmount, &pc.StartDate, &pc.EndDate,
		&pc.UsageLimit, &pc.UsedCount, &pc.IsActive, &pc.CreatedAt, &pc.UpdatedAt,
	}
}
