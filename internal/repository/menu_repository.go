package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"resto-catalog/internal/docstore"
	"resto-catalog/internal/model"

	"github.com/rs/zerolog"
)

// ItemsField is the menu document field holding menu items.
const ItemsField = "items"

// menuRepository implements MenuRepository over a stored document.
type menuRepository struct {
	items  collection
	logger zerolog.Logger
}

// NewMenuRepository creates a menu repository for the given document.
func NewMenuRepository(store docstore.Store, docID string, logger zerolog.Logger) MenuRepository {
	logger = logger.With().Str("repository", "menu").Logger()
	return &menuRepository{
		items:  collection{store: store, docID: docID, field: ItemsField, logger: logger},
		logger: logger,
	}
}

// List returns every menu item.
func (r *menuRepository) List(ctx context.Context) ([]model.MenuItem, error) {
	raw, err := r.items.read(ctx)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.MenuItem](raw, r.logger), nil
}

// Get returns a single menu item by id.
func (r *menuRepository) Get(ctx context.Context, id string) (*model.MenuItem, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	r.logger.Debug().Str("menu_id", id).Msg("menu item not found")
	return nil, nil
}

// Create appends a new menu item.
func (r *menuRepository) Create(ctx context.Context, input model.MenuItemInput) (*model.MenuItem, error) {
	now := timeNow()
	item := model.MenuItem{
		ID:           model.NewMenuItemID(now),
		Title:        input.Title,
		Description:  input.Description,
		Price:        input.Price,
		Category:     input.Category,
		ImageURL:     input.ImageURL,
		IsBestSeller: input.IsBestSeller,
		CreatedAt:    model.NewTimestamp(now),
	}

	raw, err := docstore.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("failed to encode menu item: %w", err)
	}

	_, err = r.items.mutate(ctx, func(items []json.RawMessage) ([]json.RawMessage, bool, error) {
		return append(items, raw), true, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info().Str("menu_id", item.ID).Msg("menu item created")
	return &item, nil
}

// Update merges patch into an existing item.
func (r *menuRepository) Update(ctx context.Context, id string, patch model.MenuItemPatch) (bool, error) {
	found, err := r.items.mutate(ctx, func(items []json.RawMessage) ([]json.RawMessage, bool, error) {
		return updateID(items, id, patch, true)
	})
	if err != nil {
		return false, err
	}
	if !found {
		r.logger.Debug().Str("menu_id", id).Msg("menu item not found, nothing to update")
	}
	return found, nil
}

// Delete removes an item.
func (r *menuRepository) Delete(ctx context.Context, id string) (bool, error) {
	found, err := r.items.mutate(ctx, func(items []json.RawMessage) ([]json.RawMessage, bool, error) {
		next, removed := removeID(items, id)
		return next, removed, nil
	})
	if err != nil {
		return false, err
	}
	if !found {
		r.logger.Debug().Str("menu_id", id).Msg("menu item not found, nothing to delete")
	}
	return found, nil
}
