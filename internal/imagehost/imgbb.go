package imagehost

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// DefaultImgbbURL is the public upload endpoint.
const DefaultImgbbURL = "https://api.imgbb.com/1/upload"

// ImgbbConfig configures the imgbb uploader.
type ImgbbConfig struct {
	APIKey    string
	UploadURL string
	// Attempts is the total number of tries. Defaults to 3.
	Attempts int
	// InitialDelay is the first wait; each following wait doubles. Defaults to 1s.
	InitialDelay time.Duration
	Timeout      time.Duration
	// Development substitutes a placeholder image when the key is missing or
	// the upload fails.
	Development bool
}

// ImgbbUploader posts base64 images as a URL-encoded form.
type ImgbbUploader struct {
	apiKey       string
	uploadURL    string
	attempts     int
	initialDelay time.Duration
	development  bool
	httpClient   *http.Client
	logger       zerolog.Logger
}

// NewImgbbUploader creates an imgbb uploader.
func NewImgbbUploader(cfg ImgbbConfig, logger zerolog.Logger) *ImgbbUploader {
	uploadURL := cfg.UploadURL
	if uploadURL == "" {
		uploadURL = DefaultImgbbURL
	}
	attempts := cfg.Attempts
	if attempts < 1 {
		attempts = 3
	}
	delay := cfg.InitialDelay
	if delay <= 0 {
		delay = time.Second
	}

	return &ImgbbUploader{
		apiKey:       cfg.APIKey,
		uploadURL:    uploadURL,
		attempts:     attempts,
		initialDelay: delay,
		development:  cfg.Development,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		logger:       logger.With().Str("component", "imgbb").Logger(),
	}
}

type imgbbResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL   string `json:"url"`
		Thumb struct {
			URL string `json:"url"`
		} `json:"thumb"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the image, retrying failed attempts with doubling delays.
func (u *ImgbbUploader) Upload(ctx context.Context, img Image) UploadResult {
	if len(img.Data) == 0 {
		return failed("image is empty")
	}
	if len(img.Data) > MaxImageSize {
		u.logger.Warn().
			Str("filename", img.Filename).
			Int("size", len(img.Data)).
			Int("limit", MaxImageSize).
			Msg("image exceeds size limit, uploading anyway")
	}

	if u.apiKey == "" {
		u.logger.Error().Msg("image host API key is not configured")
		if u.development {
			return MockResult(img.Filename)
		}
		return failed("image host API key is not configured")
	}

	form := url.Values{}
	form.Set("key", u.apiKey)
	form.Set("image", base64.StdEncoding.EncodeToString(img.Data))
	if name := img.baseName(); name != "" {
		form.Set("name", name)
	}
	body := form.Encode()

	var result UploadResult
	attempt := 0
	operation := func() error {
		attempt++
		var err error
		result, err = u.post(ctx, body)
		return err
	}

	notify := func(err error, wait time.Duration) {
		u.logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", wait).Msg("image upload failed, retrying")
	}

	err := backoff.RetryNotify(operation,
		backoff.WithContext(u.retryPolicy(), ctx),
		notify)
	if err != nil {
		u.logger.Error().Err(err).Int("attempts", attempt).Str("filename", img.Filename).Msg("image upload failed")
		if u.development {
			return MockResult(img.Filename)
		}
		return failed(err.Error())
	}

	u.logger.Info().Str("filename", img.Filename).Str("url", result.URL).Msg("image uploaded")
	return result
}

// retryPolicy waits initialDelay after the first failure and doubles the
// wait after each further one, allowing attempts tries in total.
func (u *ImgbbUploader) retryPolicy() backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = u.initialDelay
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxInterval = u.initialDelay << u.attempts
	policy.MaxElapsedTime = 0
	policy.Reset()
	return backoff.WithMaxRetries(policy, uint64(u.attempts-1))
}

var errRejected = errors.New("image host rejected the upload")

func (u *ImgbbUploader) post(ctx context.Context, body string) (UploadResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, strings.NewReader(body))
	if err != nil {
		return UploadResult{}, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return UploadResult{}, backoff.Permanent(ctx.Err())
		}
		return UploadResult{}, fmt.Errorf("failed to send upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return UploadResult{}, fmt.Errorf("image host returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))
	}

	var parsed imgbbResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return UploadResult{}, backoff.Permanent(fmt.Errorf("failed to decode upload response: %w", err))
	}
	if !parsed.Success || parsed.Data.URL == "" {
		msg := parsed.Error.Message
		if msg == "" {
			msg = "upload failed"
		}
		return UploadResult{}, backoff.Permanent(fmt.Errorf("%w: %s", errRejected, msg))
	}

	return succeeded(parsed.Data.URL, parsed.Data.Thumb.URL), nil
}

// MockResult is the placeholder returned in development when no real upload
// is possible.
func MockResult(filename string) UploadResult {
	mock := "https://loremflickr.com/640/480/food?filename=" + url.QueryEscape(filename)
	return succeeded(mock, mock)
}
