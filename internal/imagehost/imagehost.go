// Package imagehost uploads images to a remote host and returns their public
// URLs. Uploaders never return errors: failures are reported in the result.
package imagehost

import (
	"context"
	"net/http"
	"path"
	"strings"
)

// MaxImageSize is the soft size ceiling. Larger images are logged, not rejected.
const MaxImageSize = 2 << 20

// Image is one image payload.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadResult is the outcome of an upload.
type UploadResult struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Thumb   string `json:"thumb,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Uploader stores images.
type Uploader interface {
	Upload(ctx context.Context, img Image) UploadResult
}

func failed(msg string) UploadResult {
	return UploadResult{Success: false, Error: msg}
}

func succeeded(url, thumb string) UploadResult {
	if thumb == "" {
		thumb = url
	}
	return UploadResult{Success: true, URL: url, Thumb: thumb}
}

// contentType returns the declared type or sniffs it from the data.
func (img Image) contentType() string {
	if img.ContentType != "" && img.ContentType != "application/octet-stream" {
		return img.ContentType
	}
	return http.DetectContentType(img.Data)
}

// baseName returns the filename without directory or extension.
func (img Image) baseName() string {
	name := path.Base(strings.ReplaceAll(img.Filename, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return strings.TrimSuffix(name, path.Ext(name))
}

// extension returns the file extension including the dot, derived from the
// filename or the content type.
func (img Image) extension() string {
	if ext := strings.ToLower(path.Ext(img.Filename)); ext != "" {
		return ext
	}
	switch img.contentType() {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
