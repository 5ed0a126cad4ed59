package service

import (
	"context"
	"errors"
	"testing"

	"resto-catalog/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testMenuItems() []model.MenuItem {
	return []model.MenuItem{
		{ID: "menu_1", Title: "Kopi Susu", Price: "18000", Category: "KOPI", IsBestSeller: true},
		{ID: "menu_2", Title: "Teh Tarik", Description: "Sweet milk tea", Price: "15000", Category: "NON_KOPI"},
		{ID: "menu_3", Title: "Nasi Goreng", Price: "25000", Category: "MAKANAN", IsBestSeller: true},
	}
}

func TestMenuService_List(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	tests := []struct {
		name        string
		filter      model.MenuFilter
		mockReturn  []model.MenuItem
		mockError   error
		expectIDs   []string
		expectError bool
	}{
		{
			name:       "All categories",
			filter:     model.MenuFilter{Category: "ALL"},
			mockReturn: testMenuItems(),
			expectIDs:  []string{"menu_1", "menu_2", "menu_3"},
		},
		{
			name:       "Single category",
			filter:     model.MenuFilter{Category: "KOPI"},
			mockReturn: testMenuItems(),
			expectIDs:  []string{"menu_1"},
		},
		{
			name:       "Best sellers only",
			filter:     model.MenuFilter{BestSellerOnly: true},
			mockReturn: testMenuItems(),
			expectIDs:  []string{"menu_1", "menu_3"},
		},
		{
			name:       "Query matches description",
			filter:     model.MenuFilter{Query: "milk"},
			mockReturn: testMenuItems(),
			expectIDs:  []string{"menu_2"},
		},
		{
			name:       "Empty menu",
			filter:     model.MenuFilter{},
			mockReturn: []model.MenuItem{},
			expectIDs:  []string{},
		},
		{
			name:        "Repository error",
			mockError:   errors.New("store down"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockMenuRepository)
			svc := NewMenuService(mockRepo, logger)

			if tt.mockError != nil {
				mockRepo.On("List", ctx).Return(nil, tt.mockError)
			} else {
				mockRepo.On("List", ctx).Return(tt.mockReturn, nil)
			}

			views, err := svc.List(ctx, tt.filter)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to list menu items")
				return
			}

			require.NoError(t, err)
			ids := make([]string, len(views))
			for i, v := range views {
				ids[i] = v.ID
			}
			assert.Equal(t, tt.expectIDs, ids)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestMenuService_ListFormatsPrice(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockMenuRepository)
	mockRepo.On("List", ctx).Return(testMenuItems()[:1], nil)

	views, err := NewMenuService(mockRepo, zerolog.Nop()).List(ctx, model.MenuFilter{})

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Rp 18.000", views[0].PriceFormatted)
}

func TestMenuService_Get(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mockRepo := new(MockMenuRepository)
		item := testMenuItems()[0]
		mockRepo.On("Get", ctx, "menu_1").Return(&item, nil)

		view, err := NewMenuService(mockRepo, logger).Get(ctx, "menu_1")

		require.NoError(t, err)
		assert.Equal(t, "Kopi Susu", view.Title)
		assert.Equal(t, "Rp 18.000", view.PriceFormatted)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo := new(MockMenuRepository)
		mockRepo.On("Get", ctx, "missing").Return(nil, nil)

		view, err := NewMenuService(mockRepo, logger).Get(ctx, "missing")

		assert.Nil(t, view)
		assert.ErrorIs(t, err, model.ErrMenuItemNotFound)
	})

	t.Run("Empty id", func(t *testing.T) {
		mockRepo := new(MockMenuRepository)

		_, err := NewMenuService(mockRepo, logger).Get(ctx, "")

		assert.ErrorIs(t, err, model.ErrMenuItemNotFound)
		mockRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("Repository error", func(t *testing.T) {
		mockRepo := new(MockMenuRepository)
		mockRepo.On("Get", ctx, "menu_1").Return(nil, errors.New("timeout"))

		_, err := NewMenuService(mockRepo, logger).Get(ctx, "menu_1")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "timeout")
	})
}

func TestMenuService_Create(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	tests := []struct {
		name         string
		input        model.MenuItemInput
		expectField  string
		expectCalled bool
	}{
		{
			name:         "Valid input",
			input:        model.MenuItemInput{Title: " Es Kopi ", Price: "20000", Category: "KOPI"},
			expectCalled: true,
		},
		{
			name:        "Missing title",
			input:       model.MenuItemInput{Title: "  ", Price: "20000", Category: "KOPI"},
			expectField: "title",
		},
		{
			name:        "Missing price",
			input:       model.MenuItemInput{Title: "Es Kopi", Category: "KOPI"},
			expectField: "price",
		},
		{
			name:        "Missing category",
			input:       model.MenuItemInput{Title: "Es Kopi", Price: "20000"},
			expectField: "category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockMenuRepository)
			svc := NewMenuService(mockRepo, logger)

			if tt.expectCalled {
				mockRepo.On("Create", ctx, mock.MatchedBy(func(in model.MenuItemInput) bool {
					return in.Title == "Es Kopi"
				})).Return(&model.MenuItem{ID: "menu_new", Title: "Es Kopi", Price: "20000", Category: "KOPI"}, nil)
			}

			view, err := svc.Create(ctx, tt.input)

			if tt.expectField != "" {
				require.Error(t, err)
				assert.True(t, model.HasCode(err, model.ErrCodeMissingField))
				assert.Contains(t, err.Error(), tt.expectField)
				mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "menu_new", view.ID)
			assert.Equal(t, "Rp 20.000", view.PriceFormatted)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestMenuService_Update(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	title := "Kopi Hitam"

	t.Run("Empty patch", func(t *testing.T) {
		mockRepo := new(MockMenuRepository)

		_, err := NewMenuService(mockRepo, logger).Update(ctx, "menu_1", model.MenuItemPatch{})

		assert.ErrorIs(t, err, model.ErrNothingToUpdate)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Blank title", func(t *testing.T) {
		mockRepo := new(MockMenuRepository)
		blank := " "

		_, err := NewMenuService(mockRepo, logger).Update(ctx, "menu_1", model.MenuItemPatch{Title: &blank})

		assert.True(t, model.HasCode(err, model.ErrCodeMissingField))
	})

	t.Run("Missing id is not an error", func(t *testing.T) {
		mockRepo := new(MockMenuRepository)
		patch := model.MenuItemPatch{Title: &title}
		mockRepo.On("Update", ctx, "missing", patch).Return(false, nil)

		found, err := NewMenuService(mockRepo, logger).Update(ctx, "missing", patch)

		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Updated", func(t *testing.T) {
		mockRepo := new(MockMenuRepository)
		patch := model.MenuItemPatch{Title: &title}
		mockRepo.On("Update", ctx, "menu_1", patch).Return(true, nil)

		found, err := NewMenuService(mockRepo, logger).Update(ctx, "menu_1", patch)

		require.NoError(t, err)
		assert.True(t, found)
	})
}

func TestMenuService_Delete(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockMenuRepository)
	mockRepo.On("Delete", ctx, "menu_1").Return(true, nil)
	mockRepo.On("Delete", ctx, "menu_2").Return(false, errors.New("conflict"))

	svc := NewMenuService(mockRepo, zerolog.Nop())

	found, err := svc.Delete(ctx, "menu_1")
	require.NoError(t, err)
	assert.True(t, found)

	_, err = svc.Delete(ctx, "menu_2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete menu item")
}
