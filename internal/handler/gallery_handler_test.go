package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"resto-catalog/internal/imagehost"
	"resto-catalog/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGalleryHandler_List(t *testing.T) {
	mockService := new(MockGalleryService)
	mockService.On("List", mock.Anything, true).Return([]model.Photo{{ID: "photo_1", IsActive: true}}, nil)
	mockService.On("List", mock.Anything, false).Return([]model.Photo{{ID: "photo_1"}, {ID: "photo_2"}}, nil)
	handler := NewGalleryHandler(mockService, zerolog.Nop())

	w := httptest.NewRecorder()
	handler.ListActive(w, httptest.NewRequest(http.MethodGet, "/api/gallery", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "photo_2")

	w = httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/api/admin/gallery", nil))
	assert.Contains(t, w.Body.String(), "photo_2")
}

func TestGalleryHandler_Create(t *testing.T) {
	mockService := new(MockGalleryService)
	mockService.On("Add", mock.Anything, model.PhotoInput{Alt: "x"}).Return(nil, model.ErrPhotoSourceRequired)
	mockService.On("Add", mock.Anything, model.PhotoInput{Src: "https://i.ibb.co/a.jpg", IsActive: true}).
		Return(&model.Photo{ID: "photo_1", Src: "https://i.ibb.co/a.jpg", IsActive: true}, nil)
	handler := NewGalleryHandler(mockService, zerolog.Nop())

	w := httptest.NewRecorder()
	handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/admin/gallery", bytes.NewBufferString(`{"alt":"x"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/admin/gallery",
		bytes.NewBufferString(`{"src":"https://i.ibb.co/a.jpg","isActive":true}`)))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestGalleryHandler_Upload(t *testing.T) {
	data := []byte{0xff, 0xd8, 0xff, 0xe0}

	tests := []struct {
		name           string
		fields         map[string]string
		expectActive   bool
		mockError      error
		expectedStatus int
	}{
		{
			name:           "Active by default",
			fields:         map[string]string{"alt": "Latte"},
			expectActive:   true,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Inactive flag",
			fields:         map[string]string{"alt": "Latte", "isActive": "false"},
			expectActive:   false,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Upload failure",
			fields:         map[string]string{"alt": "Latte"},
			expectActive:   true,
			mockError:      model.NewDomainError(model.ErrCodeUploadFailed, "Image upload failed: HTTP 500"),
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockGalleryService)
			matchImage := mock.MatchedBy(func(img imagehost.Image) bool {
				return img.Filename == "latte.jpg" && bytes.Equal(img.Data, data)
			})
			if tt.mockError != nil {
				mockService.On("Upload", mock.Anything, matchImage, "Latte", tt.expectActive).Return(nil, tt.mockError)
			} else {
				mockService.On("Upload", mock.Anything, matchImage, "Latte", tt.expectActive).
					Return(&model.Photo{ID: "photo_1", IsActive: tt.expectActive}, nil)
			}

			body, contentType := multipartImage(t, "latte.jpg", data, tt.fields)
			req := httptest.NewRequest(http.MethodPost, "/api/admin/gallery/upload", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			NewGalleryHandler(mockService, zerolog.Nop()).Upload(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestGalleryHandler_Reset(t *testing.T) {
	mockService := new(MockGalleryService)
	mockService.On("Reset", mock.Anything).Return(nil)

	w := httptest.NewRecorder()
	NewGalleryHandler(mockService, zerolog.Nop()).Reset(w, httptest.NewRequest(http.MethodPost, "/api/admin/gallery/reset", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestImageHandler_Upload(t *testing.T) {
	data := []byte("GIF89a")

	tests := []struct {
		name           string
		result         imagehost.UploadResult
		expectedStatus int
	}{
		{
			name:           "Success",
			result:         imagehost.UploadResult{Success: true, URL: "https://i.ibb.co/x.gif"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Failure is passed through",
			result:         imagehost.UploadResult{Success: false, Error: "Network error"},
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uploader := new(MockUploader)
			uploader.On("Upload", mock.Anything, mock.AnythingOfType("imagehost.Image")).Return(tt.result)

			body, contentType := multipartImage(t, "x.gif", data, nil)
			req := httptest.NewRequest(http.MethodPost, "/api/admin/images", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			NewImageHandler(uploader, zerolog.Nop()).Upload(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"success":`+map[bool]string{true: "true", false: "false"}[tt.result.Success])
		})
	}
}
