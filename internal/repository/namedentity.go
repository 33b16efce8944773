package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/recipebox/api/internal/apperr"
)

// NamedEntity is a user-owned record identified by a single name, the
// shared shape of tags and ingredients.
type NamedEntity struct {
	ID     int64
	UserID int64
	Name   string
}

// PostgresNamedEntityRepository implements owner-scoped CRUD over a table
// of named records (tags or ingredients). Every query filters on the
// owning user id.
type PostgresNamedEntityRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
	// table is the backing table name.
	table string
}

// NewPostgresTagRepository creates a repository over the tags table.
func NewPostgresTagRepository(db *sql.DB) *PostgresNamedEntityRepository {
	return &PostgresNamedEntityRepository{DB: db, table: "tags"}
}

// NewPostgresIngredientRepository creates a repository over the
// ingredients table.
func NewPostgresIngredientRepository(db *sql.DB) *PostgresNamedEntityRepository {
	return &PostgresNamedEntityRepository{DB: db, table: "ingredients"}
}

// Create inserts a record owned by userID and returns it with the
// generated id.
func (s *PostgresNamedEntityRepository) Create(ctx context.Context, userID int64, name string) (*NamedEntity, error) {
	entity := &NamedEntity{UserID: userID, Name: name}
	query := fmt.Sprintf(`INSERT INTO %s (user_id, name) VALUES ($1, $2) RETURNING id`, s.table)
	if err := s.DB.QueryRowContext(ctx, query, userID, name).Scan(&entity.ID); err != nil {
		return nil, fmt.Errorf("create %s: %w", s.table, err)
	}
	return entity, nil
}

// ListByUser fetches the caller's records ordered by name descending.
func (s *PostgresNamedEntityRepository) ListByUser(ctx context.Context, userID int64) ([]NamedEntity, error) {
	query := fmt.Sprintf(`SELECT id, user_id, name FROM %s WHERE user_id = $1 ORDER BY name DESC`, s.table)
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table, err)
	}
	defer rows.Close()

	var entities []NamedEntity
	for rows.Next() {
		var e NamedEntity
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table, err)
	}
	return entities, nil
}

// GetByID fetches a single record owned by userID. A record owned by a
// different user is indistinguishable from a missing one: both return
// apperr.ErrNotFound.
func (s *PostgresNamedEntityRepository) GetByID(ctx context.Context, userID, id int64) (*NamedEntity, error) {
	var e NamedEntity
	query := fmt.Sprintf(`SELECT id, user_id, name FROM %s WHERE user_id = $1 AND id = $2`, s.table)
	err := s.DB.QueryRowContext(ctx, query, userID, id).Scan(&e.ID, &e.UserID, &e.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.table, err)
	}
	return &e, nil
}

// Update renames a record owned by userID.
func (s *PostgresNamedEntityRepository) Update(ctx context.Context, userID, id int64, name string) error {
	query := fmt.Sprintf(`UPDATE %s SET name = $1 WHERE user_id = $2 AND id = $3`, s.table)
	res, err := s.DB.ExecContext(ctx, query, name, userID, id)
	if err != nil {
		return fmt.Errorf("update %s: %w", s.table, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes a record owned by userID.
func (s *PostgresNamedEntityRepository) Delete(ctx context.Context, userID, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND id = $2`, s.table)
	res, err := s.DB.ExecContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.table, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// CountOwned returns how many of the given ids exist in the table and
// belong to userID. Used to validate m2m references on recipe writes.
func (s *PostgresNamedEntityRepository) CountOwned(ctx context.Context, userID int64, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE user_id = $1 AND id = ANY($2)`, s.table)
	var count int
	if err := s.DB.QueryRowContext(ctx, query, userID, pq.Array(ids)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", s.table, err)
	}
	return count, nil
}

// GetManyByID fetches the caller's records among the given ids, ordered
// by name descending. Ids owned by other users are silently absent.
func (s *PostgresNamedEntityRepository) GetManyByID(ctx context.Context, userID int64, ids []int64) ([]NamedEntity, error) {
	if len(ids) == 0 {
		return []NamedEntity{}, nil
	}
	query := fmt.Sprintf(`SELECT id, user_id, name FROM %s WHERE user_id = $1 AND id = ANY($2) ORDER BY name DESC`, s.table)
	rows, err := s.DB.QueryContext(ctx, query, userID, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("get many %s: %w", s.table, err)
	}
	defer rows.Close()

	var entities []NamedEntity
	for rows.Next() {
		var e NamedEntity
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get many %s: %w", s.table, err)
	}
	return entities, nil
}
