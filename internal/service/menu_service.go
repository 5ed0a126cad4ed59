package service

import (
	"context"
	"fmt"
	"strings"

	"resto-catalog/internal/model"
	"resto-catalog/internal/repository"

	"github.com/rs/zerolog"
)

// menuService implements MenuService.
type menuService struct {
	menuRepo repository.MenuRepository
	logger   zerolog.Logger
}

// NewMenuService creates a new menu service.
func NewMenuService(menuRepo repository.MenuRepository, logger zerolog.Logger) MenuService {
	return &menuService{
		menuRepo: menuRepo,
		logger:   logger.With().Str("service", "menu").Logger(),
	}
}

// List returns the filtered menu.
func (s *menuService) List(ctx context.Context, filter model.MenuFilter) ([]model.MenuItemView, error) {
	items, err := s.menuRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list menu items")
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}

	views := make([]model.MenuItemView, 0, len(items))
	for _, item := range items {
		if filter.Matches(item) {
			views = append(views, model.NewMenuItemView(item))
		}
	}

	s.logger.Debug().
		Int("total", len(items)).
		Int("matched", len(views)).
		Str("category", filter.Category).
		Msg("listed menu items")

	return views, nil
}

// Get returns a single menu item.
func (s *menuService) Get(ctx context.Context, id string) (*model.MenuItemView, error) {
	if id == "" {
		return nil, model.ErrMenuItemNotFound
	}

	item, err := s.menuRepo.Get(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("menu_id", id).Msg("failed to get menu item")
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	if item == nil {
		return nil, model.ErrMenuItemNotFound
	}

	view := model.NewMenuItemView(*item)
	return &view, nil
}

// Create validates and stores a new menu item.
func (s *menuService) Create(ctx context.Context, input model.MenuItemInput) (*model.MenuItemView, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Category = strings.TrimSpace(input.Category)
	input.Price = model.Price(strings.TrimSpace(string(input.Price)))

	switch {
	case input.Title == "":
		return nil, model.RequiredField("title")
	case input.Price == "":
		return nil, model.RequiredField("price")
	case input.Category == "":
		return nil, model.RequiredField("category")
	}

	item, err := s.menuRepo.Create(ctx, input)
	if err != nil {
		s.logger.Error().Err(err).Str("title", input.Title).Msg("failed to create menu item")
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	view := model.NewMenuItemView(*item)
	return &view, nil
}

// Update merges a patch into an existing item.
func (s *menuService) Update(ctx context.Context, id string, patch model.MenuItemPatch) (bool, error) {
	if patch.IsEmpty() {
		return false, model.ErrNothingToUpdate
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return false, model.RequiredField("title")
	}

	found, err := s.menuRepo.Update(ctx, id, patch)
	if err != nil {
		s.logger.Error().Err(err).Str("menu_id", id).Msg("failed to update menu item")
		return false, fmt.Errorf("failed to update menu item: %w", err)
	}
	return found, nil
}

// Delete removes an item.
func (s *menuService) Delete(ctx context.Context, id string) (bool, error) {
	found, err := s.menuRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("menu_id", id).Msg("failed to delete menu item")
		return false, fmt.Errorf("failed to delete menu item: %w", err)
	}
	return found, nil
}
