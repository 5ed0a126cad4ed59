package imagehost

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func newTestImgbb(t *testing.T, handler http.HandlerFunc, mutate ...func(*ImgbbConfig)) *ImgbbUploader {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := ImgbbConfig{
		APIKey:       "imgbb-key",
		UploadURL:    server.URL,
		Attempts:     3,
		InitialDelay: time.Millisecond,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	return NewImgbbUploader(cfg, zerolog.Nop())
}

func TestImgbbUploader_Success(t *testing.T) {
	uploader := newTestImgbb(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "imgbb-key", r.PostForm.Get("key"))
		assert.Equal(t, base64.StdEncoding.EncodeToString(pngHeader), r.PostForm.Get("image"))
		assert.Equal(t, "kopi", r.PostForm.Get("name"))
		_, _ = w.Write([]byte(`{"success":true,"data":{"url":"https://i.ibb.co/x/kopi.png","thumb":{"url":"https://i.ibb.co/x/kopi-t.png"}}}`))
	})

	result := uploader.Upload(context.Background(), Image{Filename: "kopi.png", Data: pngHeader})

	assert.Equal(t, UploadResult{Success: true, URL: "https://i.ibb.co/x/kopi.png", Thumb: "https://i.ibb.co/x/kopi-t.png"}, result)
}

func TestImgbbUploader_ThumbFallsBackToURL(t *testing.T) {
	uploader := newTestImgbb(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"url":"https://i.ibb.co/x/a.png"}}`))
	})

	result := uploader.Upload(context.Background(), Image{Filename: "a.png", Data: pngHeader})

	assert.True(t, result.Success)
	assert.Equal(t, "https://i.ibb.co/x/a.png", result.Thumb)
}

func TestImgbbUploader_Retries(t *testing.T) {
	tests := []struct {
		name         string
		failures     int32
		wantSuccess  bool
		wantAttempts int32
	}{
		{name: "succeeds on third attempt", failures: 2, wantSuccess: true, wantAttempts: 3},
		{name: "gives up after three attempts", failures: 10, wantSuccess: false, wantAttempts: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			uploader := newTestImgbb(t, func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) <= tt.failures {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				_, _ = w.Write([]byte(`{"success":true,"data":{"url":"https://i.ibb.co/x/a.png"}}`))
			})

			result := uploader.Upload(context.Background(), Image{Filename: "a.png", Data: pngHeader})

			assert.Equal(t, tt.wantSuccess, result.Success)
			assert.Equal(t, tt.wantAttempts, calls.Load())
			if !tt.wantSuccess {
				assert.Contains(t, result.Error, "status 503")
			}
		})
	}
}

func TestImgbbUploader_RetryWaitsDouble(t *testing.T) {
	tests := []struct {
		name      string
		attempts  int
		delay     time.Duration
		wantWaits []time.Duration
	}{
		{name: "default three attempts", wantWaits: []time.Duration{time.Second, 2 * time.Second}},
		{name: "five attempts", attempts: 5, delay: 100 * time.Millisecond, wantWaits: []time.Duration{
			100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond, 800 * time.Millisecond,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uploader := NewImgbbUploader(ImgbbConfig{
				APIKey:       "imgbb-key",
				Attempts:     tt.attempts,
				InitialDelay: tt.delay,
			}, zerolog.Nop())

			policy := uploader.retryPolicy()
			var waits []time.Duration
			for {
				wait := policy.NextBackOff()
				if wait == backoff.Stop {
					break
				}
				waits = append(waits, wait)
			}

			assert.Equal(t, tt.wantWaits, waits)
		})
	}
}

func TestImgbbUploader_RejectedIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	uploader := newTestImgbb(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"success":false,"error":{"message":"Invalid image"}}`))
	})

	result := uploader.Upload(context.Background(), Image{Filename: "a.png", Data: pngHeader})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Invalid image")
	assert.Equal(t, int32(1), calls.Load())
}

func TestImgbbUploader_MissingKey(t *testing.T) {
	production := NewImgbbUploader(ImgbbConfig{}, zerolog.Nop())
	result := production.Upload(context.Background(), Image{Filename: "a.png", Data: pngHeader})
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)

	development := NewImgbbUploader(ImgbbConfig{Development: true}, zerolog.Nop())
	result = development.Upload(context.Background(), Image{Filename: "nasi goreng.jpg", Data: pngHeader})
	assert.True(t, result.Success)
	assert.Equal(t, "https://loremflickr.com/640/480/food?filename=nasi+goreng.jpg", result.URL)
	assert.Equal(t, result.URL, result.Thumb)
}

func TestImgbbUploader_OversizedIsStillSent(t *testing.T) {
	var calls atomic.Int32
	uploader := newTestImgbb(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"success":true,"data":{"url":"https://i.ibb.co/x/big.jpg"}}`))
	})

	result := uploader.Upload(context.Background(), Image{Filename: "big.jpg", Data: make([]byte, MaxImageSize+1)})

	assert.True(t, result.Success)
	assert.Equal(t, int32(1), calls.Load())
}

func TestImgbbUploader_EmptyImage(t *testing.T) {
	uploader := newTestImgbb(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	result := uploader.Upload(context.Background(), Image{Filename: "a.png"})

	assert.False(t, result.Success)
}
