package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/recipebox/api/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// recipe API. It applies request logging globally and bearer-token
// authentication to every route except registration and token issuance.
//
// Routes:
//
//	POST /users/create                       → userHandler.Register
//	POST /users/token                        → userHandler.Token
//	GET/PATCH /users/me                      → userHandler.Me / UpdateMe
//	GET/POST /tags, /ingredients, /recipes   → collection handlers
//	GET/PATCH/PUT/DELETE on /{id}            → item handlers
//	POST /recipes/{id}/upload-image          → recipeHandler.UploadImage
//
// JSON routes additionally enforce Content-Type: application/json; the
// image upload route accepts multipart form data instead.
func NewRouter(
	userHandler *UserHandler,
	tagHandler *EntityHandler,
	ingredientHandler *EntityHandler,
	recipeHandler *RecipeHandler,
	tokens middleware.TokenValidator,
	logger *zap.Logger,
) http.Handler {
	jsonOnly := chiMiddleware.AllowContentType("application/json")

	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Public endpoints
	r.With(jsonOnly).Post("/users/create", userHandler.Register)
	r.With(jsonOnly).Post("/users/token", userHandler.Token)

	// Protected group: requires a valid bearer token
	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(tokens))

		r.With(jsonOnly).Get("/users/me", userHandler.Me)
		r.With(jsonOnly).Patch("/users/me", userHandler.UpdateMe)

		mountEntity(r, "/tags", tagHandler, jsonOnly)
		mountEntity(r, "/ingredients", ingredientHandler, jsonOnly)

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", recipeHandler.List)
			r.With(jsonOnly).Post("/", recipeHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", recipeHandler.Get)
				r.With(jsonOnly).Patch("/", recipeHandler.Patch)
				r.With(jsonOnly).Put("/", recipeHandler.Put)
				r.Delete("/", recipeHandler.Delete)

				// Multipart upload, outside the JSON content-type guard
				r.Post("/upload-image", recipeHandler.UploadImage)
			})
		})
	})

	return r
}

// mountEntity registers the standard collection and item routes for a
// tag or ingredient handler.
func mountEntity(r chi.Router, pattern string, h *EntityHandler, jsonOnly func(http.Handler) http.Handler) {
	r.Route(pattern, func(r chi.Router) {
		r.Get("/", h.List)
		r.With(jsonOnly).Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.With(jsonOnly).Patch("/", h.Update)
			r.With(jsonOnly).Put("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})
}
