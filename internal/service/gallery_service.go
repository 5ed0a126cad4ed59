package service

import (
	"context"
	"fmt"
	"strings"

	"resto-catalog/internal/imagehost"
	"resto-catalog/internal/model"
	"resto-catalog/internal/repository"

	"github.com/rs/zerolog"
)

type galleryService struct {
	photoRepo repository.PhotoRepository
	uploader  imagehost.Uploader
	logger    zerolog.Logger
}

// NewGalleryService creates a new gallery service.
func NewGalleryService(photoRepo repository.PhotoRepository, uploader imagehost.Uploader, logger zerolog.Logger) GalleryService {
	return &galleryService{
		photoRepo: photoRepo,
		uploader:  uploader,
		logger:    logger.With().Str("service", "gallery").Logger(),
	}
}

func (s *galleryService) List(ctx context.Context, activeOnly bool) ([]model.Photo, error) {
	photos, err := s.photoRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list photos")
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	if !activeOnly {
		return photos, nil
	}

	active := make([]model.Photo, 0, len(photos))
	for _, p := range photos {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

func (s *galleryService) Add(ctx context.Context, input model.PhotoInput) (*model.Photo, error) {
	input.Src = strings.TrimSpace(input.Src)
	if input.Src == "" {
		return nil, model.ErrPhotoSourceRequired
	}

	photo, err := s.photoRepo.Create(ctx, input)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to add photo")
		return nil, fmt.Errorf("failed to add photo: %w", err)
	}
	return photo, nil
}

func (s *galleryService) Update(ctx context.Context, id string, patch model.PhotoPatch) (bool, error) {
	if patch.IsEmpty() {
		return false, model.ErrNothingToUpdate
	}
	if patch.Src != nil && strings.TrimSpace(*patch.Src) == "" {
		return false, model.ErrPhotoSourceRequired
	}

	found, err := s.photoRepo.Update(ctx, id, patch)
	if err != nil {
		s.logger.Error().Err(err).Str("photo_id", id).Msg("failed to update photo")
		return false, fmt.Errorf("failed to update photo: %w", err)
	}
	return found, nil
}

func (s *galleryService) Delete(ctx context.Context, id string) (bool, error) {
	found, err := s.photoRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("photo_id", id).Msg("failed to delete photo")
		return false, fmt.Errorf("failed to delete photo: %w", err)
	}
	return found, nil
}

// Upload sends the image to the image host and records it. The two steps are
// not atomic: when the record cannot be written the uploaded image stays on
// the host unreferenced.
func (s *galleryService) Upload(ctx context.Context, img imagehost.Image, alt string, isActive bool) (*model.Photo, error) {
	if len(img.Data) == 0 {
		return nil, model.ErrEmptyImage
	}

	result := s.uploader.Upload(ctx, img)
	if !result.Success {
		s.logger.Error().Str("filename", img.Filename).Str("error", result.Error).Msg("image upload failed")
		return nil, model.NewDomainError(model.ErrCodeUploadFailed, "Image upload failed: "+result.Error)
	}

	photo, err := s.photoRepo.Create(ctx, model.PhotoInput{Src: result.URL, Alt: alt, IsActive: isActive})
	if err != nil {
		s.logger.Error().Err(err).
			Str("orphaned_url", result.URL).
			Msg("image uploaded but gallery record could not be written")
		return nil, fmt.Errorf("failed to add uploaded photo: %w", err)
	}
	return photo, nil
}

func (s *galleryService) Reset(ctx context.Context) error {
	if err := s.photoRepo.Reset(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to reset gallery")
		return fmt.Errorf("failed to reset gallery: %w", err)
	}
	return nil
}
