package service

import (
	"context"
	"fmt"
	"strings"

	"resto-catalog/internal/model"
	"resto-catalog/internal/repository"

	"github.com/rs/zerolog"
)

type categoryService struct {
	categoryRepo repository.CategoryRepository
	menuRepo     repository.MenuRepository
	logger       zerolog.Logger
}

// NewCategoryService creates a new category service. The menu repository is
// only read, to report items left pointing at a deleted key.
func NewCategoryService(categoryRepo repository.CategoryRepository, menuRepo repository.MenuRepository, logger zerolog.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		menuRepo:     menuRepo,
		logger:       logger.With().Str("service", "category").Logger(),
	}
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	mapping, err := s.categoryRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list categories")
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return model.SortedCategories(mapping), nil
}

func (s *categoryService) Create(ctx context.Context, req model.CategoryRequest) (*model.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, model.RequiredField("name")
	}

	key := model.CategoryKey(req.Key)
	if key == "" {
		key = model.CategoryKey(name)
	}

	if err := s.categoryRepo.Add(ctx, key, name); err != nil {
		if model.HasCode(err, model.ErrCodeCategoryExists) {
			s.logger.Warn().Str("category", key).Msg("category key already exists")
			return nil, err
		}
		s.logger.Error().Err(err).Str("category", key).Msg("failed to add category")
		return nil, fmt.Errorf("failed to add category: %w", err)
	}

	return &model.Category{Key: key, Name: name}, nil
}

func (s *categoryService) Rename(ctx context.Context, key, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, model.RequiredField("name")
	}

	found, err := s.categoryRepo.Rename(ctx, key, name)
	if err != nil {
		s.logger.Error().Err(err).Str("category", key).Msg("failed to rename category")
		return false, fmt.Errorf("failed to rename category: %w", err)
	}
	return found, nil
}

func (s *categoryService) Delete(ctx context.Context, key string) (*model.CategoryDeletion, error) {
	if _, err := s.categoryRepo.Delete(ctx, key); err != nil {
		s.logger.Error().Err(err).Str("category", key).Msg("failed to delete category")
		return nil, fmt.Errorf("failed to delete category: %w", err)
	}

	result := &model.CategoryDeletion{Key: key}

	items, err := s.menuRepo.List(ctx)
	if err != nil {
		// The delete already happened; the count is informational.
		s.logger.Warn().Err(err).Str("category", key).Msg("could not count orphaned menu items")
		return result, nil
	}
	for _, item := range items {
		if item.Category == key {
			result.OrphanedItems++
		}
	}
	if result.OrphanedItems > 0 {
		s.logger.Warn().
			Str("category", key).
			Int("orphaned_items", result.OrphanedItems).
			Msg("deleted category is still referenced by menu items")
	}
	return result, nil
}
