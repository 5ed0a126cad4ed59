package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"resto-catalog/internal/docstore"
	"resto-catalog/internal/model"

	"github.com/rs/zerolog"
)

// photoRepository implements PhotoRepository over the photos field of the
// menu document.
type photoRepository struct {
	photos collection
	logger zerolog.Logger
}

// NewPhotoRepository creates a gallery repository for the given document.
func NewPhotoRepository(store docstore.Store, docID string, logger zerolog.Logger) PhotoRepository {
	logger = logger.With().Str("repository", "photo").Logger()
	return &photoRepository{
		photos: collection{store: store, docID: docID, field: docstore.SeedField, logger: logger},
		logger: logger,
	}
}

// List returns every photo. A document without a photos array is repaired
// by writing an empty one back.
func (r *photoRepository) List(ctx context.Context) ([]model.Photo, error) {
	if r.photos.docID == "" {
		return []model.Photo{}, nil
	}

	doc, items, ok, err := r.photos.load(ctx)
	if errors.Is(err, docstore.ErrNotConfigured) {
		return []model.Photo{}, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to fetch gallery")
		return nil, fmt.Errorf("failed to fetch photos: %w", err)
	}
	if !ok {
		r.repair(ctx, doc)
		return []model.Photo{}, nil
	}
	return decodeAll[model.Photo](items, r.logger), nil
}

func (r *photoRepository) repair(ctx context.Context, doc *docstore.Document) {
	if doc.Record == nil {
		r.logger.Warn().Msg("gallery document is not an object, skipping repair")
		return
	}
	if err := writeArray(doc, r.photos.field, nil); err != nil {
		r.logger.Error().Err(err).Msg("failed to prepare gallery repair")
		return
	}
	if err := r.photos.store.Put(ctx, r.photos.docID, doc); err != nil {
		r.logger.Error().Err(err).Msg("failed to repair gallery field")
		return
	}
	r.logger.Info().Msg("gallery field was missing, initialised to empty")
}

// Create appends a photo.
func (r *photoRepository) Create(ctx context.Context, input model.PhotoInput) (*model.Photo, error) {
	now := timeNow()
	photo := model.Photo{
		ID:        model.NewPhotoID(now),
		Src:       input.Src,
		Alt:       input.Alt,
		IsActive:  input.IsActive,
		CreatedAt: model.NewTimestamp(now),
	}

	raw, err := docstore.Marshal(photo)
	if err != nil {
		return nil, fmt.Errorf("failed to encode photo: %w", err)
	}

	_, err = r.photos.mutate(ctx, func(items []json.RawMessage) ([]json.RawMessage, bool, error) {
		return append(items, raw), true, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info().Str("photo_id", photo.ID).Msg("photo added")
	return &photo, nil
}

// Update merges patch into an existing photo.
func (r *photoRepository) Update(ctx context.Context, id string, patch model.PhotoPatch) (bool, error) {
	return r.photos.mutate(ctx, func(items []json.RawMessage) ([]json.RawMessage, bool, error) {
		return updateID(items, id, patch, true)
	})
}

// Delete removes a photo.
func (r *photoRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.photos.mutate(ctx, func(items []json.RawMessage) ([]json.RawMessage, bool, error) {
		next, removed := removeID(items, id)
		return next, removed, nil
	})
}

// Reset replaces the gallery with an empty list.
func (r *photoRepository) Reset(ctx context.Context) error {
	_, err := r.photos.mutate(ctx, func(items []json.RawMessage) ([]json.RawMessage, bool, error) {
		return []json.RawMessage{}, true, nil
	})
	if err != nil {
		return err
	}
	r.logger.Warn().Msg("gallery reset")
	return nil
}
