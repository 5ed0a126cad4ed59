package imagehost

import (
	"context"

	"github.com/rs/zerolog"
)

// fallbackUploader tries the primary uploader first, then the secondary.
type fallbackUploader struct {
	primary   Uploader
	secondary Uploader
	logger    zerolog.Logger
}

// NewFallbackUploader creates an uploader that falls back to secondary when
// primary reports a failure. A nil secondary returns primary unchanged.
func NewFallbackUploader(primary, secondary Uploader, logger zerolog.Logger) Uploader {
	if secondary == nil {
		return primary
	}
	return &fallbackUploader{
		primary:   primary,
		secondary: secondary,
		logger:    logger.With().Str("component", "fallback-uploader").Logger(),
	}
}

// Upload attempts the primary host, then the secondary.
func (u *fallbackUploader) Upload(ctx context.Context, img Image) UploadResult {
	result := u.primary.Upload(ctx, img)
	if result.Success {
		return result
	}

	u.logger.Warn().
		Str("filename", img.Filename).
		Str("error", result.Error).
		Msg("primary image host failed, trying secondary")

	second := u.secondary.Upload(ctx, img)
	if !second.Success {
		u.logger.Error().Str("error", second.Error).Msg("secondary image host failed")
		second.Error = result.Error + "; " + second.Error
	}
	return second
}
