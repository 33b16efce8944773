package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/recipebox/api/internal/apperr"
	"github.com/recipebox/api/internal/models"
)

// RecipeUpdate describes a partial or full update of a recipe. Nil
// fields are left untouched; relation slices are replaced when non-nil.
type RecipeUpdate struct {
	Title         *string
	TimeMinutes   *int
	Price         *decimal.Decimal
	TagIDs        []int64
	IngredientIDs []int64
	// ClearTags forces the tag set to be replaced even when TagIDs is
	// empty (full-update semantics). Same for ClearIngredients.
	ClearTags        bool
	ClearIngredients bool
}

// PostgresRecipeRepository implements recipe persistence, including the
// tag and ingredient link tables, against a PostgreSQL database.
type PostgresRecipeRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresRecipeRepository creates a new PostgresRecipeRepository using
// the provided *sql.DB.
func NewPostgresRecipeRepository(db *sql.DB) *PostgresRecipeRepository {
	return &PostgresRecipeRepository{DB: db}
}

// Create inserts a recipe with its tag and ingredient links inside a
// single transaction and returns the stored record.
func (s *PostgresRecipeRepository) Create(ctx context.Context, userID int64, title string, timeMinutes int, price decimal.Decimal, tagIDs, ingredientIDs []int64) (*models.Recipe, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	recipe := &models.Recipe{
		UserID:        userID,
		Title:         title,
		TimeMinutes:   timeMinutes,
		Price:         price,
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO recipes (user_id, title, time_minutes, price) VALUES ($1, $2, $3, $4) RETURNING id
	`, userID, title, timeMinutes, price).Scan(&recipe.ID)
	if err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	if err := linkAll(ctx, tx, "recipe_tags", "tag_id", recipe.ID, tagIDs); err != nil {
		return nil, err
	}
	if err := linkAll(ctx, tx, "recipe_ingredients", "ingredient_id", recipe.ID, ingredientIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	if recipe.TagIDs == nil {
		recipe.TagIDs = []int64{}
	}
	if recipe.IngredientIDs == nil {
		recipe.IngredientIDs = []int64{}
	}
	return recipe, nil
}

// ListByUser fetches the caller's recipes newest first, each with its
// linked tag and ingredient ids.
func (s *PostgresRecipeRepository) ListByUser(ctx context.Context, userID int64) ([]models.Recipe, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT r.id, r.user_id, r.title, r.time_minutes, r.price, r.image,
		       COALESCE((SELECT ARRAY_AGG(rt.tag_id ORDER BY rt.tag_id) FROM recipe_tags rt WHERE rt.recipe_id = r.id), '{}'),
		       COALESCE((SELECT ARRAY_AGG(ri.ingredient_id ORDER BY ri.ingredient_id) FROM recipe_ingredients ri WHERE ri.recipe_id = r.id), '{}')
		  FROM recipes r WHERE r.user_id = $1 ORDER BY r.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []models.Recipe
	for rows.Next() {
		var rec models.Recipe
		var tagIDs, ingredientIDs pq.Int64Array
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.TimeMinutes, &rec.Price, &rec.Image, &tagIDs, &ingredientIDs); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rec.TagIDs = []int64(tagIDs)
		rec.IngredientIDs = []int64(ingredientIDs)
		recipes = append(recipes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// GetByID fetches a single recipe owned by userID with its linked tag
// and ingredient ids. Missing and not-owned are both apperr.ErrNotFound.
func (s *PostgresRecipeRepository) GetByID(ctx context.Context, userID, id int64) (*models.Recipe, error) {
	var rec models.Recipe
	var tagIDs, ingredientIDs pq.Int64Array
	err := s.DB.QueryRowContext(ctx, `
		SELECT r.id, r.user_id, r.title, r.time_minutes, r.price, r.image,
		       COALESCE((SELECT ARRAY_AGG(rt.tag_id ORDER BY rt.tag_id) FROM recipe_tags rt WHERE rt.recipe_id = r.id), '{}'),
		       COALESCE((SELECT ARRAY_AGG(ri.ingredient_id ORDER BY ri.ingredient_id) FROM recipe_ingredients ri WHERE ri.recipe_id = r.id), '{}')
		  FROM recipes r WHERE r.user_id = $1 AND r.id = $2
	`, userID, id).Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.TimeMinutes, &rec.Price, &rec.Image, &tagIDs, &ingredientIDs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	rec.TagIDs = []int64(tagIDs)
	rec.IngredientIDs = []int64(ingredientIDs)
	return &rec, nil
}

// Update applies a RecipeUpdate to a recipe owned by userID inside a
// transaction. Relation sets are replaced only when the update names
// them (non-nil slice or a Clear flag).
func (s *PostgresRecipeRepository) Update(ctx context.Context, userID, id int64, upd RecipeUpdate) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE recipes
		   SET title = COALESCE($1, title),
		       time_minutes = COALESCE($2, time_minutes),
		       price = COALESCE($3, price)
		 WHERE user_id = $4 AND id = $5
	`, upd.Title, upd.TimeMinutes, upd.Price, userID, id)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperr.ErrNotFound
	}

	if upd.TagIDs != nil || upd.ClearTags {
		if err := relink(ctx, tx, "recipe_tags", "tag_id", id, upd.TagIDs); err != nil {
			return err
		}
	}
	if upd.IngredientIDs != nil || upd.ClearIngredients {
		if err := relink(ctx, tx, "recipe_ingredients", "ingredient_id", id, upd.IngredientIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Delete removes a recipe owned by userID and returns the stored image
// path so the caller can remove the file. Link rows go with the recipe
// via ON DELETE CASCADE.
func (s *PostgresRecipeRepository) Delete(ctx context.Context, userID, id int64) (string, error) {
	var image string
	err := s.DB.QueryRowContext(ctx, `
		DELETE FROM recipes WHERE user_id = $1 AND id = $2 RETURNING image
	`, userID, id).Scan(&image)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("delete recipe: %w", err)
	}
	return image, nil
}

// SetImage records a new image path on a recipe owned by userID and
// returns the previously stored path.
func (s *PostgresRecipeRepository) SetImage(ctx context.Context, userID, id int64, path string) (string, error) {
	var previous string
	err := s.DB.QueryRowContext(ctx, `
		UPDATE recipes r SET image = $1
		  FROM (SELECT image FROM recipes WHERE user_id = $2 AND id = $3) old
		 WHERE r.user_id = $2 AND r.id = $3
		 RETURNING old.image
	`, path, userID, id).Scan(&previous)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("set recipe image: %w", err)
	}
	return previous, nil
}

// linkAll inserts one link row per related id.
func linkAll(ctx context.Context, tx *sql.Tx, table, column string, recipeID int64, ids []int64) error {
	query := fmt.Sprintf(`INSERT INTO %s (recipe_id, %s) VALUES ($1, $2)`, table, column)
	for _, relatedID := range ids {
		if _, err := tx.ExecContext(ctx, query, recipeID, relatedID); err != nil {
			return fmt.Errorf("link %s: %w", table, err)
		}
	}
	return nil
}

// relink replaces the link rows of a recipe with the given set.
func relink(ctx context.Context, tx *sql.Tx, table, column string, recipeID int64, ids []int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE recipe_id = $1`, table)
	if _, err := tx.ExecContext(ctx, query, recipeID); err != nil {
		return fmt.Errorf("unlink %s: %w", table, err)
	}
	return linkAll(ctx, tx, table, column, recipeID, ids)
}
