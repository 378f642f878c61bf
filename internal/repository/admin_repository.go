package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jerseylab-api/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const adminColumns = `id, email, password_hash, name, role,
	reset_password_token, reset_password_expires, created_at, updated_at`

// adminRepository implements the AdminRepository interface using PostgreSQL.
type adminRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAdminRepository creates a new PostgreSQL-backed admin repository.
func NewAdminRepository(pool *pgxpool.Pool, logger zerolog.Logger) AdminRepository {
	return &adminRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "admin").Logger(),
	}
}

// GetByEmail returns the admin with the given email, or nil.
func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE email = $1`
	return r.queryOne(ctx, query, email)
}

// GetByResetToken returns the admin holding an unexpired reset token, or nil.
func (r *adminRepository) GetByResetToken(ctx context.Context, token string) (*model.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins
		WHERE reset_password_token = $1 AND reset_password_expires > NOW()`
	return r.queryOne(ctx, query, token)
}

// List returns all admins, newest first.
func (r *adminRepository) List(ctx context.Context) ([]model.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query admins")
		return nil, fmt.Errorf("failed to query admins: %w", err)
	}
	defer rows.Close()

	var admins []model.Admin
	for rows.Next() {
		var a model.Admin
		if err := rows.Scan(adminScanDest(&a)...); err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		admins = append(admins, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admins: %w", err)
	}

	return admins, nil
}

// ListAdminEmails returns every admin email address.
func (r *adminRepository) ListAdminEmails(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT email FROM admins`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query admin emails")
		return nil, fmt.Errorf("failed to query admin emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan admin email: %w", err)
		}
		emails = append(emails, email)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admin emails: %w", err)
	}

	return emails, nil
}

// Create inserts a new admin.
func (r *adminRepository) Create(ctx context.Context, admin *model.Admin) error {
	query := `
		INSERT INTO admins (id, email, password_hash, name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		admin.ID, admin.Email, admin.PasswordHash, admin.Name, admin.Role,
		admin.CreatedAt, admin.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrAdminExists
		}
		r.logger.Error().Err(err).Str("email", admin.Email).Msg("failed to create admin")
		return fmt.Errorf("failed to create admin: %w", err)
	}

	return nil
}

// Delete removes an admin.
func (r *adminRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("admin_id", id.String()).Msg("failed to delete admin")
		return false, fmt.Errorf("failed to delete admin: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetResetToken stores a password reset token and its expiry.
func (r *adminRepository) SetResetToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error {
	query := `
		UPDATE admins
		SET reset_password_token = $2, reset_password_expires = $3, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.pool.Exec(ctx, query, id, token, expires); err != nil {
		r.logger.Error().Err(err).Str("admin_id", id.String()).Msg("failed to set reset token")
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	return nil
}

// UpdatePassword replaces the password hash and clears any reset token.
func (r *adminRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `
		UPDATE admins
		SET password_hash = $2, reset_password_token = NULL, reset_password_expires = NULL, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.pool.Exec(ctx, query, id, passwordHash); err != nil {
		r.logger.Error().Err(err).Str("admin_id", id.String()).Msg("failed to update password")
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (r *adminRepository) queryOne(ctx context.Context, query string, args ...any) (*model.Admin, error) {
	var a model.Admin
	err := r.pool.QueryRow(ctx, query, args...).Scan(adminScanDest(&a)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query admin")
		return nil, fmt.Errorf("failed to query admin: %w", err)
	}
	return &a, nil
}

// adminScanDest returns the scan destinations for adminColumns.
func adminScanDest(a *model.Admin) []any {
	return []any{
		&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Role,
		&a.ResetPasswordToken, &a.ResetPasswordExpires, &a.CreatedAt, &a.UpdatedAt,
	}
}
