package repository

import (
	"context"
	"errors"
	"fmt"

	"jerseylab-api/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const inquiryColumns = `id, first_name, last_name, phone_number, email, description,
	design_files, status, notes, created_at, updated_at`

// inquiryRepository implements the InquiryRepository interface using PostgreSQL.
type inquiryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewInquiryRepository creates a new PostgreSQL-backed inquiry repository.
func NewInquiryRepository(pool *pgxpool.Pool, logger zerolog.Logger) InquiryRepository {
	return &inquiryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "inquiry").Logger(),
	}
}

// Create persists a new inquiry.
func (r *inquiryRepository) Create(ctx context.Context, inquiry *model.TeamwearInquiry) error {
	query := `
		INSERT INTO teamwear_inquiries (` + inquiryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		inquiry.ID, inquiry.FirstName, inquiry.LastName, inquiry.PhoneNumber,
		inquiry.Email, inquiry.Description, inquiry.DesignFiles,
		inquiry.Status, inquiry.Notes, inquiry.CreatedAt, inquiry.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to create inquiry")
		return fmt.Errorf("failed to create inquiry: %w", err)
	}

	r.logger.Debug().Str("inquiry_id", inquiry.ID.String()).Msg("inquiry created")
	return nil
}

// List returns all inquiries, newest first.
func (r *inquiryRepository) List(ctx context.Context) ([]model.TeamwearInquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM teamwear_inquiries ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query inquiries")
		return nil, fmt.Errorf("failed to query inquiries: %w", err)
	}
	defer rows.Close()

	var inquiries []model.TeamwearInquiry
	for rows.Next() {
		var iq model.TeamwearInquiry
		if err := rows.Scan(inquiryScanDest(&iq)...); err != nil {
			return nil, fmt.Errorf("failed to scan inquiry: %w", err)
		}
		inquiries = append(inquiries, iq)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inquiries: %w", err)
	}

	return inquiries, nil
}

// Update applies upd and returns the updated row, or nil.
func (r *inquiryRepository) Update(ctx context.Context, id uuid.UUID, upd model.InquiryUpdate) (*model.TeamwearInquiry, error) {
	query := `
		UPDATE teamwear_inquiries
		SET status = $2, notes = COALESCE($3, notes), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + inquiryColumns

	var iq model.TeamwearInquiry
	err := r.pool.QueryRow(ctx, query, id, upd.Status, upd.Notes).Scan(inquiryScanDest(&iq)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("inquiry_id", id.String()).Msg("failed to update inquiry")
		return nil, fmt.Errorf("failed to update inquiry: %w", err)
	}
	return &iq, nil
}

// inquiryScanDest returns the scan destinations for inquiryColumns.
func inquiryScanDest(iq *model.TeamwearInquiry) []any {
	return []any{
		&iq.ID, &iq.FirstName, &iq.LastName, &iq.PhoneNumber, &iq.Email,
		&iq.Description, &iq.DesignFiles, &iq.Status, &iq.Notes,
		&iq.CreatedAt, &iq.UpdatedAt,
	}
}
