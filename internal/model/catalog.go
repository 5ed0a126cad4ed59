package model

import (
	"regexp"
	"sort"
	"strings"
)

// Category is one entry of the key -> display name mapping.
type Category struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// CategoryRequest is the payload for creating or renaming a category.
type CategoryRequest struct {
	Key  string `json:"key,omitempty"`
	Name string `json:"name"`
}

// CategoryDeletion reports how many menu items still point at a removed key.
type CategoryDeletion struct {
	Key           string `json:"key"`
	OrphanedItems int    `json:"orphanedItems"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// CategoryKey derives the stable key for a display name: upper-cased with
// whitespace runs replaced by underscores.
func CategoryKey(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToUpper(strings.TrimSpace(name)), "_")
}

// SortedCategories flattens a mapping into a slice ordered by key.
func SortedCategories(m map[string]string) []Category {
	out := make([]Category, 0, len(m))
	for k, v := range m {
		out = append(out, Category{Key: k, Name: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Photo is a gallery picture.
type Photo struct {
	ID        string    `json:"id"`
	Src       string    `json:"src"`
	Alt       string    `json:"alt"`
	IsActive  bool      `json:"isActive"`
	CreatedAt Timestamp `json:"createdAt,omitzero"`
	UpdatedAt Timestamp `json:"updatedAt,omitzero"`
}

// PhotoInput is the payload for adding a gallery picture.
type PhotoInput struct {
	Src      string `json:"src"`
	Alt      string `json:"alt"`
	IsActive bool   `json:"isActive"`
}

// PhotoPatch carries the fields to merge into an existing photo.
type PhotoPatch struct {
	Src      *string `json:"src,omitempty"`
	Alt      *string `json:"alt,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *PhotoPatch) IsEmpty() bool {
	return p.Src == nil && p.Alt == nil && p.IsActive == nil
}

// Catalog is the public menu page payload.
type Catalog struct {
	Items      []MenuItemView `json:"items"`
	Categories []Category     `json:"categories"`
}

// DashboardSummary backs the admin landing page.
type DashboardSummary struct {
	MenuItems    int `json:"menuItems"`
	Categories   int `json:"categories"`
	Photos       int `json:"photos"`
	ActivePhotos int `json:"activePhotos"`
	Users        int `json:"users"`
}
