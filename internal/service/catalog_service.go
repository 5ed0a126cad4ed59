package service

import (
	"context"
	"fmt"

	"resto-catalog/internal/model"
	"resto-catalog/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type catalogService struct {
	menuRepo     repository.MenuRepository
	categoryRepo repository.CategoryRepository
	photoRepo    repository.PhotoRepository
	userRepo     repository.UserRepository
	logger       zerolog.Logger
}

// NewCatalogService creates a service that reads several collections concurrently.
func NewCatalogService(
	menuRepo repository.MenuRepository,
	categoryRepo repository.CategoryRepository,
	photoRepo repository.PhotoRepository,
	userRepo repository.UserRepository,
	logger zerolog.Logger,
) CatalogService {
	return &catalogService{
		menuRepo:     menuRepo,
		categoryRepo: categoryRepo,
		photoRepo:    photoRepo,
		userRepo:     userRepo,
		logger:       logger.With().Str("service", "catalog").Logger(),
	}
}

// Catalog fetches the menu and the categories together.
func (s *catalogService) Catalog(ctx context.Context, filter model.MenuFilter) (*model.Catalog, error) {
	var (
		items      []model.MenuItem
		categories map[string]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.menuRepo.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.categoryRepo.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to load catalog")
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	catalog := &model.Catalog{
		Items:      make([]model.MenuItemView, 0, len(items)),
		Categories: model.SortedCategories(categories),
	}
	for _, item := range items {
		if filter.Matches(item) {
			catalog.Items = append(catalog.Items, model.NewMenuItemView(item))
		}
	}
	return catalog, nil
}

// Dashboard counts every collection.
func (s *catalogService) Dashboard(ctx context.Context) (*model.DashboardSummary, error) {
	var (
		items      []model.MenuItem
		categories map[string]string
		photos     []model.Photo
		users      []model.AdminUser
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = s.menuRepo.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		categories, err = s.categoryRepo.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		photos, err = s.photoRepo.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.userRepo.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to load dashboard")
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	summary := &model.DashboardSummary{
		MenuItems:  len(items),
		Categories: len(categories),
		Photos:     len(photos),
		Users:      len(users),
	}
	for _, p := range photos {
		if p.IsActive {
			summary.ActivePhotos++
		}
	}
	return summary, nil
}
