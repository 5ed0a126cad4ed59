package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"resto-catalog/internal/docstore"
	"resto-catalog/internal/model"

	"github.com/rs/zerolog"
)

// CategoriesField is the canonical field holding the category mapping.
const CategoriesField = "categories"

// DefaultCategories is served when the development fallback is enabled and
// the stored mapping cannot be read.
var DefaultCategories = map[string]string{
	"KOPI":     "Kopi",
	"NON_KOPI": "Non-Kopi",
	"MAKANAN":  "Makanan",
}

type categoryShape int

const (
	shapeInvalid categoryShape = iota
	// shapeNested keeps the mapping under record.categories.
	shapeNested
	// shapeFlat keeps the mapping as string fields of the record itself.
	shapeFlat
)

func (s categoryShape) String() string {
	switch s {
	case shapeNested:
		return "nested"
	case shapeFlat:
		return "flat"
	default:
		return "invalid"
	}
}

// categoryMapping is a category document resolved at the boundary.
type categoryMapping struct {
	shape   categoryShape
	entries map[string]string
	// flatKeys are the root fields that make up a flat mapping.
	flatKeys []string
}

// resolveCategories probes the record for a nested mapping first and falls
// back to string-valued root fields.
func resolveCategories(record map[string]json.RawMessage) categoryMapping {
	if raw, ok := record[CategoriesField]; ok {
		trimmed := bytes.TrimSpace(raw)
		var nested map[string]json.RawMessage
		if len(trimmed) > 0 && trimmed[0] == '{' && json.Unmarshal(trimmed, &nested) == nil {
			entries := make(map[string]string, len(nested))
			for key, value := range nested {
				name, ok := jsonString(value)
				if !ok {
					name = key
				}
				entries[key] = name
			}
			return categoryMapping{shape: shapeNested, entries: entries}
		}
	}

	entries := make(map[string]string)
	var flatKeys []string
	for key, value := range record {
		if name, ok := jsonString(value); ok {
			entries[key] = name
			flatKeys = append(flatKeys, key)
		}
	}
	if len(entries) > 0 {
		return categoryMapping{shape: shapeFlat, entries: entries, flatKeys: flatKeys}
	}
	return categoryMapping{shape: shapeInvalid, entries: map[string]string{}}
}

// jsonString decodes raw when it is a JSON string. null and every other
// kind report false.
func jsonString(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}

// write stores the mapping in the nested shape. Flat string fields move
// under the categories field; other siblings stay.
func (m categoryMapping) write(doc *docstore.Document) error {
	raw, err := docstore.Marshal(m.entries)
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}
	if doc.Record == nil {
		doc.Record = make(map[string]json.RawMessage)
	}
	for _, key := range m.flatKeys {
		delete(doc.Record, key)
	}
	doc.Record[CategoriesField] = raw
	return nil
}

type categoryRepository struct {
	store    docstore.Store
	docID    string
	fallback bool
	logger   zerolog.Logger
}

// NewCategoryRepository creates a category repository. With fallback set,
// reads that cannot produce a mapping return DefaultCategories.
func NewCategoryRepository(store docstore.Store, docID string, fallback bool, logger zerolog.Logger) CategoryRepository {
	return &categoryRepository{
		store:    store,
		docID:    docID,
		fallback: fallback,
		logger:   logger.With().Str("repository", "category").Logger(),
	}
}

func (r *categoryRepository) defaults(reason error) (map[string]string, error) {
	if !r.fallback {
		return nil, reason
	}
	r.logger.Warn().Err(reason).Msg("using default categories")
	out := make(map[string]string, len(DefaultCategories))
	for k, v := range DefaultCategories {
		out[k] = v
	}
	return out, nil
}

// List returns the category mapping.
func (r *categoryRepository) List(ctx context.Context) (map[string]string, error) {
	if r.docID == "" {
		return r.defaults(docstore.ErrNotConfigured)
	}

	doc, err := r.store.Get(ctx, r.docID)
	if errors.Is(err, docstore.ErrNotConfigured) {
		return r.defaults(docstore.ErrNotConfigured)
	}
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to fetch categories")
		return r.defaults(fmt.Errorf("failed to fetch categories: %w", err))
	}

	mapping := resolveCategories(doc.Record)
	if mapping.shape == shapeInvalid {
		r.logger.Error().Msg("categories document has no category mapping")
		return r.defaults(fmt.Errorf("categories: %w", ErrInvalidDocument))
	}
	r.logger.Debug().Stringer("shape", mapping.shape).Int("count", len(mapping.entries)).Msg("categories loaded")
	return mapping.entries, nil
}

// mutate runs a read-modify-write cycle on the mapping.
func (r *categoryRepository) mutate(ctx context.Context, fn func(entries map[string]string) (bool, error)) (bool, error) {
	if r.docID == "" {
		return false, docstore.ErrNotConfigured
	}

	for attempt := 1; ; attempt++ {
		doc, err := r.store.Get(ctx, r.docID)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to fetch categories for write")
			return false, fmt.Errorf("failed to fetch categories: %w", err)
		}

		mapping := resolveCategories(doc.Record)
		changed, err := fn(mapping.entries)
		if err != nil || !changed {
			return false, err
		}
		if err := mapping.write(doc); err != nil {
			return false, err
		}

		err = r.store.Put(ctx, r.docID, doc)
		if errors.Is(err, docstore.ErrRevisionConflict) && attempt < maxConflictRetries {
			r.logger.Warn().Int("attempt", attempt).Msg("categories changed during write, retrying")
			continue
		}
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to write categories")
			return false, fmt.Errorf("failed to write categories: %w", err)
		}
		return true, nil
	}
}

// Add inserts a category.
func (r *categoryRepository) Add(ctx context.Context, key, name string) error {
	_, err := r.mutate(ctx, func(entries map[string]string) (bool, error) {
		if _, exists := entries[key]; exists {
			return false, model.ErrCategoryExists
		}
		entries[key] = name
		return true, nil
	})
	if err != nil {
		return err
	}
	r.logger.Info().Str("category", key).Msg("category added")
	return nil
}

// Rename changes the display name of an existing key.
func (r *categoryRepository) Rename(ctx context.Context, key, name string) (bool, error) {
	return r.mutate(ctx, func(entries map[string]string) (bool, error) {
		if _, exists := entries[key]; !exists {
			return false, nil
		}
		entries[key] = name
		return true, nil
	})
}

// Delete removes a key. Menu items that reference it are left as they are.
func (r *categoryRepository) Delete(ctx context.Context, key string) (bool, error) {
	return r.mutate(ctx, func(entries map[string]string) (bool, error) {
		if _, exists := entries[key]; !exists {
			return false, nil
		}
		delete(entries, key)
		return true, nil
	})
}
