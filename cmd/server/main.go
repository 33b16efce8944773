// Package main initializes and starts the recipe API server, setting up
// configuration, logging, the database connection, repositories,
// services and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/recipebox/api/internal/config"
	"github.com/recipebox/api/internal/db"
	"github.com/recipebox/api/internal/logger"
	"github.com/recipebox/api/internal/repository"
	"github.com/recipebox/api/internal/server/handler/http"
	"github.com/recipebox/api/internal/service"
	"github.com/recipebox/api/internal/storage"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Purge expired auth tokens in the background.
	db.StartExpiredTokenCleaner(context.Background(), postgresDB,
		time.Hour, // interval
		zapLogger,
	)

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	tokenRepo := repository.NewPostgresTokenRepository(postgresDB)
	tagRepo := repository.NewPostgresTagRepository(postgresDB)
	ingredientRepo := repository.NewPostgresIngredientRepository(postgresDB)
	recipeRepo := repository.NewPostgresRecipeRepository(postgresDB)

	// Media file storage for uploaded recipe images.
	files := storage.NewDiskStore(options.MediaDir)

	// Initialize business-logic services.
	tokenTTL := time.Duration(options.TokenTTLHours) * time.Hour
	userService := service.NewUserService(userRepo, tokenRepo, tokenTTL)
	tagService := service.NewTagService(tagRepo)
	ingredientService := service.NewIngredientService(ingredientRepo)
	recipeService := service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, files)

	// Create HTTP handlers.
	userHandler := &http.UserHandler{UserService: userService}
	tagHandler := &http.EntityHandler{EntityService: tagService}
	ingredientHandler := &http.EntityHandler{EntityService: ingredientService}
	recipeHandler := &http.RecipeHandler{RecipeService: recipeService}

	// Build the router with middleware and routes.
	router := http.NewRouter(userHandler, tagHandler, ingredientHandler, recipeHandler, userService, zapLogger)

	// Create and start the HTTP server.
	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
