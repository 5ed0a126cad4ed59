package repository

import (
	"context"

	"resto-catalog/internal/model"
)

// MenuRepository defines access to the items array of the menu document.
type MenuRepository interface {
	// List returns every menu item in stored order.
	List(ctx context.Context) ([]model.MenuItem, error)

	// Get returns the item with the given id, or nil when absent.
	Get(ctx context.Context, id string) (*model.MenuItem, error)

	// Create appends a new item with a generated id and creation time.
	Create(ctx context.Context, input model.MenuItemInput) (*model.MenuItem, error)

	// Update merges patch into the item. Reports false when the id is absent.
	Update(ctx context.Context, id string, patch model.MenuItemPatch) (bool, error)

	// Delete removes the item. Reports false when the id is absent.
	Delete(ctx context.Context, id string) (bool, error)
}

// PhotoRepository defines access to the photos array of the menu document.
type PhotoRepository interface {
	List(ctx context.Context) ([]model.Photo, error)
	Create(ctx context.Context, input model.PhotoInput) (*model.Photo, error)
	Update(ctx context.Context, id string, patch model.PhotoPatch) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)

	// Reset empties the gallery, leaving the rest of the document intact.
	Reset(ctx context.Context) error
}

// UserRepository defines access to the users array of the users document.
type UserRepository interface {
	List(ctx context.Context) ([]model.AdminUser, error)

	// Create appends a user. Usernames are unique.
	Create(ctx context.Context, input model.AdminUserInput) (*model.AdminUser, error)

	Update(ctx context.Context, id string, patch model.AdminUserPatch) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CategoryRepository defines access to the key -> name mapping of the
// categories document.
type CategoryRepository interface {
	// List returns the mapping.
	List(ctx context.Context) (map[string]string, error)

	// Add inserts a new key. Existing keys are rejected.
	Add(ctx context.Context, key, name string) error

	// Rename changes the display name and keeps the key. Reports false when
	// the key is absent.
	Rename(ctx context.Context, key, name string) (bool, error)

	// Delete removes the key. Reports false when the key is absent.
	Delete(ctx context.Context, key string) (bool, error)
}
