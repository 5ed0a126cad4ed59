package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"resto-catalog/internal/auth"
	"resto-catalog/internal/config"
	"resto-catalog/internal/database"
	"resto-catalog/internal/docstore"
	pgstore "resto-catalog/internal/docstore/postgres"
	"resto-catalog/internal/handler"
	"resto-catalog/internal/imagehost"
	"resto-catalog/internal/repository"
	"resto-catalog/internal/router"
	"resto-catalog/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Document ids used by every integration test.
const (
	MenuDocID       = "menu-doc"
	CategoriesDocID = "categories-doc"
	UsersDocID      = "users-doc"

	testSecret = "integration-secret"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	Store     *pgstore.Store
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, a connection pool and the
// documents table.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()
	pool, err := database.NewPool(ctx, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	store := pgstore.New(pool, logger)
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		Store:     store,
		ConnStr:   connStr,
	}
}

// SeedDocument writes a raw JSON record straight into the documents table.
func SeedDocument(t *testing.T, pool *pgxpool.Pool, docID, record string) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO documents (id, record) VALUES ($1, $2::jsonb)
		ON CONFLICT (id) DO UPDATE
		SET record = EXCLUDED.record, revision = documents.revision + 1, updated_at = NOW()`,
		docID, record,
	)
	if err != nil {
		t.Fatalf("failed to seed document %s: %v", docID, err)
	}
}

// ReadDocument returns the stored record of a document decoded into fields.
func ReadDocument(t *testing.T, pool *pgxpool.Pool, docID string) map[string]json.RawMessage {
	t.Helper()

	var raw []byte
	err := pool.QueryRow(context.Background(), `SELECT record FROM documents WHERE id = $1`, docID).Scan(&raw)
	if err != nil {
		t.Fatalf("failed to read document %s: %v", docID, err)
	}

	var record map[string]json.RawMessage
	if err := json.Unmarshal(raw, &record); err != nil {
		t.Fatalf("failed to decode document %s: %v", docID, err)
	}
	return record
}

// CleanupDB removes every stored document.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), "DELETE FROM documents"); err != nil {
		t.Logf("failed to clean documents: %v", err)
	}
}

// stubUploader reports every upload as hosted at a fixed URL.
type stubUploader struct{}

func (stubUploader) Upload(_ context.Context, img imagehost.Image) imagehost.UploadResult {
	return imagehost.UploadResult{
		Success: true,
		URL:     "https://images.example.com/" + img.Filename,
		Thumb:   "https://images.example.com/thumb/" + img.Filename,
	}
}

// setupTestServer wires the full HTTP stack over the given document store.
func setupTestServer(t *testing.T, store docstore.Store) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	menuRepo := repository.NewMenuRepository(store, MenuDocID, logger)
	photoRepo := repository.NewPhotoRepository(store, MenuDocID, logger)
	categoryRepo := repository.NewCategoryRepository(store, CategoriesDocID, false, logger)
	userRepo := repository.NewUserRepository(store, UsersDocID, logger)

	authority := auth.NewAuthority(testSecret, time.Hour)
	uploader := stubUploader{}

	menuService := service.NewMenuService(menuRepo, logger)
	categoryService := service.NewCategoryService(categoryRepo, menuRepo, logger)
	galleryService := service.NewGalleryService(photoRepo, uploader, logger)
	userService := service.NewUserService(userRepo, true, logger)
	authService := service.NewAuthService(userRepo, authority, logger)
	catalogService := service.NewCatalogService(menuRepo, categoryRepo, photoRepo, userRepo, logger)

	return router.New(router.Handlers{
		Menu:     handler.NewMenuHandler(menuService, logger),
		Category: handler.NewCategoryHandler(categoryService, logger),
		Gallery:  handler.NewGalleryHandler(galleryService, logger),
		User:     handler.NewUserHandler(userService, logger),
		Auth:     handler.NewAuthHandler(authService, authority, false, logger),
		Catalog:  handler.NewCatalogHandler(catalogService, logger),
		Image:    handler.NewImageHandler(uploader, logger),
	}, router.Options{Authority: authority}, logger)
}
