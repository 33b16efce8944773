package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"path"
	"strings"

	// Register decoders for upload validation.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/recipebox/api/internal/apperr"
	"github.com/recipebox/api/internal/models"
	"github.com/recipebox/api/internal/repository"
)

// imageNamespace is the directory under the media root where recipe
// images are stored.
const imageNamespace = "recipe"

// RecipeRepository defines the persistence operations required by the
// recipe service.
type RecipeRepository interface {
	Create(ctx context.Context, userID int64, title string, timeMinutes int, price decimal.Decimal, tagIDs, ingredientIDs []int64) (*models.Recipe, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Recipe, error)
	GetByID(ctx context.Context, userID, id int64) (*models.Recipe, error)
	Update(ctx context.Context, userID, id int64, upd repository.RecipeUpdate) error
	Delete(ctx context.Context, userID, id int64) (string, error)
	SetImage(ctx context.Context, userID, id int64, path string) (string, error)
}

// RelationRepository validates that m2m references belong to the caller.
type RelationRepository interface {
	CountOwned(ctx context.Context, userID int64, ids []int64) (int, error)
	GetManyByID(ctx context.Context, userID int64, ids []int64) ([]repository.NamedEntity, error)
}

// FileStore persists uploaded media files.
type FileStore interface {
	Save(path string, r io.Reader) error
	Remove(path string) error
}

// RecipeInput carries the fields of a recipe create request.
type RecipeInput struct {
	Title         string
	TimeMinutes   int
	Price         decimal.Decimal
	TagIDs        []int64
	IngredientIDs []int64
}

// RecipeService implements recipe operations including image upload.
type RecipeService struct {
	recipes     RecipeRepository
	tags        RelationRepository
	ingredients RelationRepository
	files       FileStore
	// newID generates image identifiers. Injected so tests can pin it.
	newID func() string
}

// NewRecipeService constructs a RecipeService. The image identifier
// generator defaults to random UUIDs.
func NewRecipeService(recipes RecipeRepository, tags, ingredients RelationRepository, files FileStore) *RecipeService {
	return &RecipeService{
		recipes:     recipes,
		tags:        tags,
		ingredients: ingredients,
		files:       files,
		newID:       uuid.NewString,
	}
}

// WithIDGenerator replaces the image identifier generator.
func (s *RecipeService) WithIDGenerator(gen func() string) *RecipeService {
	s.newID = gen
	return s
}

// Create persists a recipe owned by userID. Tag and ingredient sets
// default to empty; every referenced id must belong to the caller.
func (s *RecipeService) Create(ctx context.Context, userID int64, in RecipeInput) (*models.Recipe, error) {
	if err := validateRecipeFields(in.Title, in.TimeMinutes, in.Price); err != nil {
		return nil, err
	}
	if err := s.checkOwnedRelations(ctx, userID, in.TagIDs, in.IngredientIDs); err != nil {
		return nil, err
	}
	return s.recipes.Create(ctx, userID, in.Title, in.TimeMinutes, in.Price, in.TagIDs, in.IngredientIDs)
}

// List returns the caller's recipes, newest first.
func (s *RecipeService) List(ctx context.Context, userID int64) ([]models.Recipe, error) {
	return s.recipes.ListByUser(ctx, userID)
}

// Get returns a single recipe owned by userID.
func (s *RecipeService) Get(ctx context.Context, userID, id int64) (*models.Recipe, error) {
	return s.recipes.GetByID(ctx, userID, id)
}

// Tags loads the caller's tag records linked to a recipe, for the
// expanded detail representation.
func (s *RecipeService) Tags(ctx context.Context, userID int64, ids []int64) ([]repository.NamedEntity, error) {
	return s.tags.GetManyByID(ctx, userID, ids)
}

// Ingredients loads the caller's ingredient records linked to a recipe.
func (s *RecipeService) Ingredients(ctx context.Context, userID int64, ids []int64) ([]repository.NamedEntity, error) {
	return s.ingredients.GetManyByID(ctx, userID, ids)
}

// UpdatePartial applies only the supplied fields; relation sets not
// named in the payload are left untouched.
func (s *RecipeService) UpdatePartial(ctx context.Context, userID, id int64, upd repository.RecipeUpdate) (*models.Recipe, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, apperr.Validation("title is required")
	}
	if upd.TimeMinutes != nil && *upd.TimeMinutes < 0 {
		return nil, apperr.Validation("time_minutes must not be negative")
	}
	if upd.Price != nil && upd.Price.IsNegative() {
		return nil, apperr.Validation("price must not be negative")
	}
	if err := s.checkOwnedRelations(ctx, userID, upd.TagIDs, upd.IngredientIDs); err != nil {
		return nil, err
	}
	upd.ClearTags = false
	upd.ClearIngredients = false
	if err := s.recipes.Update(ctx, userID, id, upd); err != nil {
		return nil, err
	}
	return s.recipes.GetByID(ctx, userID, id)
}

// UpdateFull replaces every mutable field; relation sets missing from
// the payload are cleared.
func (s *RecipeService) UpdateFull(ctx context.Context, userID, id int64, in RecipeInput) (*models.Recipe, error) {
	if err := validateRecipeFields(in.Title, in.TimeMinutes, in.Price); err != nil {
		return nil, err
	}
	if err := s.checkOwnedRelations(ctx, userID, in.TagIDs, in.IngredientIDs); err != nil {
		return nil, err
	}
	upd := repository.RecipeUpdate{
		Title:            &in.Title,
		TimeMinutes:      &in.TimeMinutes,
		Price:            &in.Price,
		TagIDs:           in.TagIDs,
		IngredientIDs:    in.IngredientIDs,
		ClearTags:        true,
		ClearIngredients: true,
	}
	if err := s.recipes.Update(ctx, userID, id, upd); err != nil {
		return nil, err
	}
	return s.recipes.GetByID(ctx, userID, id)
}

// Delete removes a recipe owned by userID together with its stored
// image file, if any.
func (s *RecipeService) Delete(ctx context.Context, userID, id int64) error {
	imagePath, err := s.recipes.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if imagePath != "" {
		if err := s.files.Remove(imagePath); err != nil {
			return err
		}
	}
	return nil
}

// AttachImage validates the payload decodes as an image, stores it under
// a fresh identifier with the original extension, records the path on
// the recipe and removes any previously stored file. The original
// filename body never reaches the stored path.
func (s *RecipeService) AttachImage(ctx context.Context, userID, recipeID int64, filename string, payload []byte) (string, error) {
	// Ownership check before touching any file.
	if _, err := s.recipes.GetByID(ctx, userID, recipeID); err != nil {
		return "", err
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(payload)); err != nil {
		return "", apperr.Validation("upload is not a valid image")
	}

	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		return "", apperr.Validation("filename has no extension")
	}
	storedPath := fmt.Sprintf("%s/%s.%s", imageNamespace, s.newID(), ext)

	if err := s.files.Save(storedPath, bytes.NewReader(payload)); err != nil {
		return "", err
	}
	previous, err := s.recipes.SetImage(ctx, userID, recipeID, storedPath)
	if err != nil {
		return "", err
	}
	if previous != "" {
		if err := s.files.Remove(previous); err != nil {
			return "", err
		}
	}
	return storedPath, nil
}

func validateRecipeFields(title string, timeMinutes int, price decimal.Decimal) error {
	if strings.TrimSpace(title) == "" {
		return apperr.Validation("title is required")
	}
	if timeMinutes < 0 {
		return apperr.Validation("time_minutes must not be negative")
	}
	if price.IsNegative() {
		return apperr.Validation("price must not be negative")
	}
	return nil
}

// checkOwnedRelations rejects tag or ingredient references that do not
// belong to the caller. Existence must not leak across users, so a
// foreign id reads as a plain validation failure.
func (s *RecipeService) checkOwnedRelations(ctx context.Context, userID int64, tagIDs, ingredientIDs []int64) error {
	if len(tagIDs) > 0 {
		count, err := s.tags.CountOwned(ctx, userID, tagIDs)
		if err != nil {
			return err
		}
		if count != len(tagIDs) {
			return apperr.Validation("unknown tag id")
		}
	}
	if len(ingredientIDs) > 0 {
		count, err := s.ingredients.CountOwned(ctx, userID, ingredientIDs)
		if err != nil {
			return err
		}
		if count != len(ingredientIDs) {
			return apperr.Validation("unknown ingredient id")
		}
	}
	return nil
}
