package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"resto-catalog/internal/config"
	"resto-catalog/internal/database"
	"resto-catalog/internal/docstore"
	"resto-catalog/internal/docstore/jsonbin"
	"resto-catalog/internal/docstore/postgres"
	"resto-catalog/internal/model"
	"resto-catalog/internal/repository"
	"resto-catalog/internal/service"
)

// seed_admin prepares a fresh deployment: it creates the first admin account
// in the users document and writes the default categories when the
// categories document has none.
//
//	go run scripts/seed_admin.go -username admin -password secret
func main() {
	username := flag.String("username", "", "admin username")
	password := flag.String("password", "", "admin password")
	name := flag.String("name", "", "display name (defaults to username)")
	email := flag.String("email", "", "email address")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: seed_admin -username <name> -password <secret>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var store docstore.Store
	switch cfg.Store.Backend {
	case config.StorePostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()

		pg := postgres.New(pool, logger)
		if err := pg.EnsureSchema(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create schema: %v\n", err)
			os.Exit(1)
		}
		store = pg
	case config.StoreJSONBin:
		store = jsonbin.New(jsonbin.Config{
			BaseURL:    cfg.Store.BaseURL,
			AccessKey:  cfg.Store.AccessKey,
			MasterKey:  cfg.Store.MasterKey,
			Attempts:   cfg.Store.RetryAttempts,
			RetryDelay: cfg.Store.RetryDelay,
			Timeout:    cfg.Store.HTTPTimeout,
		}, logger)
	default:
		fmt.Fprintf(os.Stderr, "store backend %q keeps nothing between runs; nothing to seed\n", cfg.Store.Backend)
		os.Exit(1)
	}

	users := service.NewUserService(
		repository.NewUserRepository(store, cfg.Store.UsersDocID, logger),
		cfg.Auth.HashPasswords,
		logger,
	)

	user, err := users.Create(ctx, model.AdminUserInput{
		Name:     *name,
		Username: *username,
		Email:    *email,
		Password: *password,
	})
	var domainErr *model.DomainError
	switch {
	case errors.As(err, &domainErr) && domainErr.Code == model.ErrCodeUsernameTaken:
		fmt.Printf("User %s already exists, leaving it unchanged\n", *username)
	case err != nil:
		fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", err)
		os.Exit(1)
	default:
		fmt.Printf("Created admin user %s (%s)\n", user.Username, user.ID)
	}

	if cfg.Store.CategoriesDocID == "" {
		fmt.Println("CATEGORIES_BIN_ID is not set, skipping categories")
		return
	}

	categories := repository.NewCategoryRepository(store, cfg.Store.CategoriesDocID, false, logger)
	existing, err := categories.List(ctx)
	if err == nil && len(existing) > 0 {
		fmt.Printf("Categories document already holds %d categories\n", len(existing))
		return
	}

	for _, c := range model.SortedCategories(repository.DefaultCategories) {
		if err := categories.Add(ctx, c.Key, c.Name); err != nil && !errors.Is(err, model.ErrCategoryExists) {
			fmt.Fprintf(os.Stderr, "failed to add category %s: %v\n", c.Key, err)
			os.Exit(1)
		}
		fmt.Printf("Added category %s: %s\n", c.Key, c.Name)
	}
}
