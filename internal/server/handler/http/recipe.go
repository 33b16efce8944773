package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/recipebox/api/internal/apperr"
	"github.com/recipebox/api/internal/middleware"
	"github.com/recipebox/api/internal/models"
	"github.com/recipebox/api/internal/repository"
	"github.com/recipebox/api/internal/service"
)

// maxUploadBytes caps the in-memory size of an image upload.
const maxUploadBytes = 32 << 20

// RecipeService defines the recipe operations required by the HTTP
// handlers.
type RecipeService interface {
	Create(ctx context.Context, userID int64, in service.RecipeInput) (*models.Recipe, error)
	List(ctx context.Context, userID int64) ([]models.Recipe, error)
	Get(ctx context.Context, userID, id int64) (*models.Recipe, error)
	Tags(ctx context.Context, userID int64, ids []int64) ([]repository.NamedEntity, error)
	Ingredients(ctx context.Context, userID int64, ids []int64) ([]repository.NamedEntity, error)
	UpdatePartial(ctx context.Context, userID, id int64, upd repository.RecipeUpdate) (*models.Recipe, error)
	UpdateFull(ctx context.Context, userID, id int64, in service.RecipeInput) (*models.Recipe, error)
	Delete(ctx context.Context, userID, id int64) error
	AttachImage(ctx context.Context, userID, recipeID int64, filename string, payload []byte) (string, error)
}

// RecipeHandler handles HTTP requests for recipes, including image
// upload.
type RecipeHandler struct {
	// RecipeService performs the underlying recipe operations.
	RecipeService RecipeService
}

// recipeResponse is the list wire representation: tag and ingredient
// links appear as bare ids.
type recipeResponse struct {
	ID          int64           `json:"id"`
	User        int64           `json:"user"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Tags        []int64         `json:"tags"`
	Ingredients []int64         `json:"ingredients"`
}

// recipeDetailResponse is the detail wire representation: tag and
// ingredient links are expanded to nested objects.
type recipeDetailResponse struct {
	ID          int64            `json:"id"`
	User        int64            `json:"user"`
	Title       string           `json:"title"`
	TimeMinutes int              `json:"time_minutes"`
	Price       decimal.Decimal  `json:"price"`
	Image       string           `json:"image,omitempty"`
	Tags        []entityResponse `json:"tags"`
	Ingredients []entityResponse `json:"ingredients"`
}

// recipeCreateRequest represents the JSON payload for create and full
// update. Title, time and price must all be present; tag and ingredient
// sets default to empty when omitted.
type recipeCreateRequest struct {
	Title       *string          `json:"title"`
	TimeMinutes *int             `json:"time_minutes"`
	Price       *decimal.Decimal `json:"price"`
	Tags        []int64          `json:"tags"`
	Ingredients []int64          `json:"ingredients"`
}

// toInput rejects payloads with an absent required field, so that an
// omitted value is not silently stored as zero.
func (req *recipeCreateRequest) toInput() (service.RecipeInput, error) {
	switch {
	case req.Title == nil:
		return service.RecipeInput{}, apperr.Validation("title is required")
	case req.TimeMinutes == nil:
		return service.RecipeInput{}, apperr.Validation("time_minutes is required")
	case req.Price == nil:
		return service.RecipeInput{}, apperr.Validation("price is required")
	}
	return service.RecipeInput{
		Title:         *req.Title,
		TimeMinutes:   *req.TimeMinutes,
		Price:         *req.Price,
		TagIDs:        req.Tags,
		IngredientIDs: req.Ingredients,
	}, nil
}

// recipePatchRequest represents the JSON payload for partial update.
// Nil fields, including nil relation sets, are left untouched.
type recipePatchRequest struct {
	Title       *string          `json:"title"`
	TimeMinutes *int             `json:"time_minutes"`
	Price       *decimal.Decimal `json:"price"`
	Tags        []int64          `json:"tags"`
	Ingredients []int64          `json:"ingredients"`
}

func toRecipeResponse(rec *models.Recipe) recipeResponse {
	return recipeResponse{
		ID:          rec.ID,
		User:        rec.UserID,
		Title:       rec.Title,
		TimeMinutes: rec.TimeMinutes,
		Price:       rec.Price,
		Image:       rec.Image,
		Tags:        orEmpty(rec.TagIDs),
		Ingredients: orEmpty(rec.IngredientIDs),
	}
}

func orEmpty(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

// List handles GET /recipes, newest first, ids-only relation shape.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	recipes, err := h.RecipeService.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]recipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, toRecipeResponse(&recipes[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /recipes and responds with the created record and
// status 201.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req recipeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	recipe, err := h.RecipeService.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecipeResponse(recipe))
}

// Get handles GET /recipes/{id} with the expanded detail shape.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	recipe, err := h.RecipeService.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeDetail(w, r, userID, recipe)
}

// Patch handles PATCH /recipes/{id}: only supplied fields change and
// omitted relation sets stay untouched.
func (h *RecipeHandler) Patch(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	var req recipePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	recipe, err := h.RecipeService.UpdatePartial(r.Context(), userID, id, repository.RecipeUpdate{
		Title:         req.Title,
		TimeMinutes:   req.TimeMinutes,
		Price:         req.Price,
		TagIDs:        req.Tags,
		IngredientIDs: req.Ingredients,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeDetail(w, r, userID, recipe)
}

// Put handles PUT /recipes/{id}: every mutable field must be restated
// and omitted relation sets are cleared.
func (h *RecipeHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	var req recipeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	recipe, err := h.RecipeService.UpdateFull(r.Context(), userID, id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeDetail(w, r, userID, recipe)
}

// Delete handles DELETE /recipes/{id} and responds with 204. The stored
// image file, if any, is removed with the record.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	if err := h.RecipeService.Delete(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage handles POST /recipes/{id}/upload-image. It expects a
// multipart form with an "image" file field and responds with the
// stored path. A payload that does not decode as an image is a 400 and
// leaves any prior image unchanged.
func (h *RecipeHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	path, err := h.RecipeService.AttachImage(r.Context(), userID, id, header.Filename, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "image": path})
}

// writeDetail expands the recipe's relation ids into nested objects and
// writes the detail representation.
func (h *RecipeHandler) writeDetail(w http.ResponseWriter, r *http.Request, userID int64, recipe *models.Recipe) {
	tags, err := h.RecipeService.Tags(r.Context(), userID, recipe.TagIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	ingredients, err := h.RecipeService.Ingredients(r.Context(), userID, recipe.IngredientIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	out := recipeDetailResponse{
		ID:          recipe.ID,
		User:        recipe.UserID,
		Title:       recipe.Title,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price,
		Image:       recipe.Image,
		Tags:        make([]entityResponse, 0, len(tags)),
		Ingredients: make([]entityResponse, 0, len(ingredients)),
	}
	for i := range tags {
		out.Tags = append(out.Tags, toEntityResponse(&tags[i]))
	}
	for i := range ingredients {
		out.Ingredients = append(out.Ingredients, toEntityResponse(&ingredients[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
