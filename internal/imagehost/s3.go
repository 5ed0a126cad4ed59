package imagehost

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// s3API is the subset of the S3 client used for uploads.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures the S3 uploader.
type S3Config struct {
	Bucket string
	Region string
	Prefix string
	// PublicBaseURL is prepended to object keys. Defaults to the bucket's
	// virtual-hosted URL.
	PublicBaseURL string
	// Endpoint overrides the S3 endpoint, e.g. for MinIO. Path-style
	// addressing is used when set.
	Endpoint string
}

// S3Uploader stores images as public S3 objects.
type S3Uploader struct {
	client  s3API
	bucket  string
	prefix  string
	baseURL string
	logger  zerolog.Logger
}

// NewS3Uploader creates an S3 uploader using the default AWS credential chain.
func NewS3Uploader(ctx context.Context, cfg S3Config, logger zerolog.Logger) (*S3Uploader, error) {
	logger = logger.With().Str("component", "s3-uploader").Logger()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	logger.Info().
		Str("bucket", cfg.Bucket).
		Str("region", cfg.Region).
		Msg("S3 uploader initialised")

	return newS3Uploader(client, cfg.Bucket, cfg.Prefix, baseURL, logger), nil
}

func newS3Uploader(client s3API, bucket, prefix, baseURL string, logger zerolog.Logger) *S3Uploader {
	return &S3Uploader{
		client:  client,
		bucket:  bucket,
		prefix:  strings.Trim(prefix, "/"),
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// objectKey builds "<prefix>/<yyyy>/<mm>/<dd>/<uuid><ext>".
func (u *S3Uploader) objectKey(img Image, now time.Time) string {
	key := fmt.Sprintf("%04d/%02d/%02d/%s%s", now.Year(), now.Month(), now.Day(), uuid.NewString(), img.extension())
	if u.prefix == "" {
		return key
	}
	return u.prefix + "/" + key
}

// Upload puts the image under a fresh key.
func (u *S3Uploader) Upload(ctx context.Context, img Image) UploadResult {
	if len(img.Data) == 0 {
		return failed("image is empty")
	}
	if len(img.Data) > MaxImageSize {
		u.logger.Warn().
			Str("filename", img.Filename).
			Int("size", len(img.Data)).
			Msg("image exceeds size limit, uploading anyway")
	}

	key := u.objectKey(img, time.Now().UTC())
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.contentType()),
	})
	if err != nil {
		u.logger.Error().Err(err).Str("bucket", u.bucket).Str("key", key).Msg("failed to put image object")
		return failed(fmt.Sprintf("failed to store image: %v", err))
	}

	url := u.baseURL + "/" + key
	u.logger.Info().Str("key", key).Msg("image stored in S3")
	return succeeded(url, url)
}
