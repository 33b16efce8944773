// Package repository provides persistence implementations backed by a
// PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/recipebox/api/internal/apperr"
	"github.com/recipebox/api/internal/models"
)

// uniqueViolation is the PostgreSQL error code for a unique-constraint
// violation.
const uniqueViolation = "23505"

// PostgresUserRepository implements user persistence using a PostgreSQL database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the
// given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// CreateUser inserts a new user record and returns it with the generated id.
// A unique violation on the email column is reported as
// apperr.ErrDuplicateEmail.
func (s *PostgresUserRepository) CreateUser(ctx context.Context, email string, passwordHash []byte, isStaff, isSuperuser bool) (*models.User, error) {
	user := &models.User{
		Email:        email,
		PasswordHash: passwordHash,
		IsStaff:      isStaff,
		IsSuperuser:  isSuperuser,
	}
	err := s.DB.QueryRowContext(
		ctx,
		`INSERT INTO users (email, password_hash, is_staff, is_superuser) VALUES ($1, $2, $3, $4) RETURNING id`,
		email, passwordHash, isStaff, isSuperuser,
	).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, apperr.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// GetUserByEmail fetches a user by email. Returns apperr.ErrNotFound when
// no such user exists.
func (s *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT id, email, password_hash, is_staff, is_superuser FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.IsStaff, &user.IsSuperuser)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

// GetUserByID fetches a user by id. Returns apperr.ErrNotFound when no
// such user exists.
func (s *PostgresUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT id, email, password_hash, is_staff, is_superuser FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.IsStaff, &user.IsSuperuser)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &user, nil
}

// UpdateUser stores a new email and password hash for the user.
// A unique violation on the email column is reported as
// apperr.ErrDuplicateEmail.
func (s *PostgresUserRepository) UpdateUser(ctx context.Context, id int64, email string, passwordHash []byte) error {
	res, err := s.DB.ExecContext(
		ctx,
		`UPDATE users SET email = $1, password_hash = $2 WHERE id = $3`,
		email, passwordHash, id,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return apperr.ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
