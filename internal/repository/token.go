package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/recipebox/api/internal/apperr"
)

// PostgresTokenRepository implements auth token persistence using a
// PostgreSQL database.
type PostgresTokenRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresTokenRepository creates a new PostgresTokenRepository with the
// given database connection.
func NewPostgresTokenRepository(db *sql.DB) *PostgresTokenRepository {
	return &PostgresTokenRepository{DB: db}
}

// SaveToken stores a freshly issued token for the user with the given
// expiry time.
func (s *PostgresTokenRepository) SaveToken(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := s.DB.ExecContext(
		ctx,
		`INSERT INTO auth_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		token, userID, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// UserIDByToken resolves a token to the owning user id. Unknown or
// expired tokens are reported as apperr.ErrNotFound.
func (s *PostgresTokenRepository) UserIDByToken(ctx context.Context, token string) (int64, error) {
	var userID int64
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT user_id FROM auth_tokens WHERE token = $1 AND expires_at > NOW()`,
		token,
	).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperr.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("user id by token: %w", err)
	}
	return userID, nil
}

// DeleteToken removes a token, logging the caller out.
func (s *PostgresTokenRepository) DeleteToken(ctx context.Context, token string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM auth_tokens WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
