package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resto-catalog/internal/auth"
	"resto-catalog/internal/config"
	"resto-catalog/internal/database"
	"resto-catalog/internal/docstore"
	"resto-catalog/internal/docstore/jsonbin"
	"resto-catalog/internal/docstore/memstore"
	"resto-catalog/internal/docstore/postgres"
	"resto-catalog/internal/handler"
	"resto-catalog/internal/imagehost"
	"resto-catalog/internal/repository"
	"resto-catalog/internal/router"
	"resto-catalog/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().
		Str("env", cfg.Env).
		Str("store", cfg.Store.Backend).
		Str("images", cfg.Image.Backend).
		Msg("starting resto-catalog API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize document store
	store, closeStore, err := newStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize document store: %w", err)
	}
	defer closeStore()

	if cfg.Store.MenuDocID == "" {
		logger.Warn().Msg("menu document id is not set; menu reads return empty results and writes fail")
	}

	// Initialize repositories
	menuRepo := repository.NewMenuRepository(store, cfg.Store.MenuDocID, logger)
	photoRepo := repository.NewPhotoRepository(store, cfg.Store.MenuDocID, logger)
	categoryRepo := repository.NewCategoryRepository(store, cfg.Store.CategoriesDocID, cfg.IsDevelopment(), logger)
	userRepo := repository.NewUserRepository(store, cfg.Store.UsersDocID, logger)

	// Initialize image hosting
	uploader, err := newUploader(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize image uploader: %w", err)
	}

	authority := auth.NewAuthority(cfg.Auth.Secret, cfg.Auth.SessionTTL)

	// Initialize services
	menuService := service.NewMenuService(menuRepo, logger)
	categoryService := service.NewCategoryService(categoryRepo, menuRepo, logger)
	galleryService := service.NewGalleryService(photoRepo, uploader, logger)
	userService := service.NewUserService(userRepo, cfg.Auth.HashPasswords, logger)
	authService := service.NewAuthService(userRepo, authority, logger)
	catalogService := service.NewCatalogService(menuRepo, categoryRepo, photoRepo, userRepo, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Menu:     handler.NewMenuHandler(menuService, logger),
		Category: handler.NewCategoryHandler(categoryService, logger),
		Gallery:  handler.NewGalleryHandler(galleryService, logger),
		User:     handler.NewUserHandler(userService, logger),
		Auth:     handler.NewAuthHandler(authService, authority, cfg.Auth.CookieSecure, logger),
		Catalog:  handler.NewCatalogHandler(catalogService, logger),
		Image:    handler.NewImageHandler(uploader, logger),
	}

	// Initialize router
	mux := router.New(handlers, router.Options{
		Authority:     authority,
		AllowedOrigin: cfg.CORS.AllowedOrigin,
	}, logger)

	// Create HTTP server. Uploads retry with backoff, so writes get more room.
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newStore builds the configured document store. The returned func releases
// whatever the store holds open.
func newStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (docstore.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		store := postgres.New(pool, logger)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil

	case config.StoreMemory:
		// Nothing outlives the process, so fixed ids are as good as any.
		if cfg.Store.MenuDocID == "" {
			cfg.Store.MenuDocID = "menu"
		}
		if cfg.Store.CategoriesDocID == "" {
			cfg.Store.CategoriesDocID = "categories"
		}
		if cfg.Store.UsersDocID == "" {
			cfg.Store.UsersDocID = cfg.Store.MenuDocID
		}
		logger.Warn().Msg("using in-memory document store; data is lost on restart")
		return memstore.New(), func() {}, nil

	default:
		if cfg.Store.AccessKey == "" && cfg.Store.MasterKey == "" {
			logger.Warn().Msg("no document store key is set; reads return empty results and writes fail")
		}
		client := jsonbin.New(jsonbin.Config{
			BaseURL:    cfg.Store.BaseURL,
			AccessKey:  cfg.Store.AccessKey,
			MasterKey:  cfg.Store.MasterKey,
			Attempts:   cfg.Store.RetryAttempts,
			RetryDelay: cfg.Store.RetryDelay,
			Timeout:    cfg.Store.HTTPTimeout,
		}, logger)
		return client, func() {}, nil
	}
}

// newUploader builds the configured image uploader, optionally backed by the
// other backend when the primary one fails.
func newUploader(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (imagehost.Uploader, error) {
	imgbb := imagehost.NewImgbbUploader(imagehost.ImgbbConfig{
		APIKey:      cfg.Image.Imgbb.APIKey,
		UploadURL:   cfg.Image.Imgbb.UploadURL,
		Timeout:     30 * time.Second,
		Development: cfg.IsDevelopment(),
	}, logger)

	var s3 imagehost.Uploader
	if cfg.Image.S3.Configured() {
		s3Uploader, err := imagehost.NewS3Uploader(ctx, imagehost.S3Config{
			Bucket:        cfg.Image.S3.Bucket,
			Region:        cfg.Image.S3.Region,
			Prefix:        cfg.Image.S3.Prefix,
			PublicBaseURL: cfg.Image.S3.PublicBaseURL,
			Endpoint:      cfg.Image.S3.Endpoint,
		}, logger)
		if err != nil {
			if cfg.Image.Backend == config.ImageS3 {
				return nil, err
			}
			logger.Warn().Err(err).Msg("failed to initialise S3 uploader, continuing with imgbb only")
		} else {
			s3 = s3Uploader
		}
	}

	if cfg.Image.Backend == config.ImageS3 {
		if cfg.Image.FallbackEnabled {
			return imagehost.NewFallbackUploader(s3, imgbb, logger), nil
		}
		return s3, nil
	}

	if cfg.Image.FallbackEnabled && s3 != nil {
		return imagehost.NewFallbackUploader(imgbb, s3, logger), nil
	}
	return imgbb, nil
}
