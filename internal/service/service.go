package service

import (
	"context"

	"resto-catalog/internal/imagehost"
	"resto-catalog/internal/model"
)

// MenuService defines operations for menu management.
type MenuService interface {
	// List returns the menu items that pass the filter.
	List(ctx context.Context, filter model.MenuFilter) ([]model.MenuItemView, error)

	// Get returns a single menu item or model.ErrMenuItemNotFound.
	Get(ctx context.Context, id string) (*model.MenuItemView, error)

	// Create validates and stores a new menu item.
	Create(ctx context.Context, input model.MenuItemInput) (*model.MenuItemView, error)

	// Update merges the patch. Reports false when the id does not exist.
	Update(ctx context.Context, id string, patch model.MenuItemPatch) (bool, error)

	// Delete removes the item. Reports false when the id does not exist.
	Delete(ctx context.Context, id string) (bool, error)
}

// CategoryService defines operations for category management.
type CategoryService interface {
	// List returns all categories ordered by key.
	List(ctx context.Context) ([]model.Category, error)

	// Create derives the key from the name unless one is given.
	Create(ctx context.Context, req model.CategoryRequest) (*model.Category, error)

	// Rename changes the display name and keeps the key.
	Rename(ctx context.Context, key, name string) (bool, error)

	// Delete removes the category and reports how many menu items still use it.
	Delete(ctx context.Context, key string) (*model.CategoryDeletion, error)
}

// GalleryService defines operations for the photo gallery.
type GalleryService interface {
	List(ctx context.Context, activeOnly bool) ([]model.Photo, error)
	Add(ctx context.Context, input model.PhotoInput) (*model.Photo, error)
	Update(ctx context.Context, id string, patch model.PhotoPatch) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)

	// Upload stores the image with the image host, then adds it to the gallery.
	Upload(ctx context.Context, img imagehost.Image, alt string, isActive bool) (*model.Photo, error)

	// Reset removes every photo.
	Reset(ctx context.Context) error
}

// UserService defines operations for admin account management.
type UserService interface {
	List(ctx context.Context) ([]model.AdminUserView, error)
	Create(ctx context.Context, input model.AdminUserInput) (*model.AdminUserView, error)
	Update(ctx context.Context, id string, patch model.AdminUserPatch) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// AuthService checks admin credentials.
type AuthService interface {
	// Login matches the credentials against the stored admin users and
	// issues a session token.
	Login(ctx context.Context, username, password string) (*model.LoginResult, error)
}

// CatalogService aggregates several collections in one call.
type CatalogService interface {
	// Catalog returns the filtered menu together with all categories.
	Catalog(ctx context.Context, filter model.MenuFilter) (*model.Catalog, error)

	// Dashboard returns collection counts for the admin landing page.
	Dashboard(ctx context.Context) (*model.DashboardSummary, error)
}
