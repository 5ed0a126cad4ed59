package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"resto-catalog/internal/docstore"
	"resto-catalog/internal/model"
	"resto-catalog/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	ctx := context.Background()

	t.Run("Get provisions a missing document", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		doc, err := testDB.Store.Get(ctx, "fresh")
		require.NoError(t, err)
		assert.True(t, doc.Provisioned)
		assert.JSONEq(t, `[]`, string(doc.Record[docstore.SeedField]))

		stored := ReadDocument(t, testDB.Pool, "fresh")
		assert.JSONEq(t, `[]`, string(stored[docstore.SeedField]))
	})

	t.Run("Put with a stale revision conflicts", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedDocument(t, testDB.Pool, "doc", `{"items":[]}`)

		first, err := testDB.Store.Get(ctx, "doc")
		require.NoError(t, err)
		second, err := testDB.Store.Get(ctx, "doc")
		require.NoError(t, err)

		first.Record["items"] = json.RawMessage(`[1]`)
		require.NoError(t, testDB.Store.Put(ctx, "doc", first))
		assert.Greater(t, first.Revision, second.Revision)

		second.Record["items"] = json.RawMessage(`[2]`)
		err = testDB.Store.Put(ctx, "doc", second)
		assert.ErrorIs(t, err, docstore.ErrRevisionConflict)

		stored := ReadDocument(t, testDB.Pool, "doc")
		assert.JSONEq(t, `[1]`, string(stored["items"]))
	})

	t.Run("empty document id is not configured", func(t *testing.T) {
		_, err := testDB.Store.Get(ctx, "")
		assert.ErrorIs(t, err, docstore.ErrNotConfigured)
	})
}

func TestMenuRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewMenuRepository(testDB.Store, MenuDocID, logger)

	ctx := context.Background()

	t.Run("concurrent creates all land", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedDocument(t, testDB.Pool, MenuDocID, seedMenu)

		const writers = 3
		var wg sync.WaitGroup
		errs := make([]error, writers)
		for i := range writers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = repo.Create(ctx, model.MenuItemInput{
					Title:    fmt.Sprintf("Dish %d", i),
					Price:    "10000",
					Category: "MAIN_COURSE",
				})
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			assert.NoError(t, err)
		}

		items, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, items, writers)

		stored := ReadDocument(t, testDB.Pool, MenuDocID)
		assert.JSONEq(t, `{"theme":"dark"}`, string(stored["settings"]))
	})

	t.Run("update merges fields and stamps updatedAt", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedDocument(t, testDB.Pool, MenuDocID, seedMenu)

		item, err := repo.Create(ctx, model.MenuItemInput{Title: "Es Teh", Price: "5000", Category: "DRINKS"})
		require.NoError(t, err)

		title := "Es Teh Manis"
		found, err := repo.Update(ctx, item.ID, model.MenuItemPatch{Title: &title})
		require.NoError(t, err)
		assert.True(t, found)

		got, err := repo.Get(ctx, item.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Es Teh Manis", got.Title)
		assert.Equal(t, model.Price("5000"), got.Price)
		assert.False(t, got.UpdatedAt.IsZero())
	})

	t.Run("delete of missing id changes nothing", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedDocument(t, testDB.Pool, MenuDocID, seedMenu)

		found, err := repo.Delete(ctx, "menu_missing")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestCategoryRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewCategoryRepository(testDB.Store, CategoriesDocID, false, logger)

	ctx := context.Background()

	t.Run("flat mapping is read and rewritten nested", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedDocument(t, testDB.Pool, CategoriesDocID, `{"DRINKS":"Drinks","version":2}`)

		categories, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Drinks", categories["DRINKS"])

		require.NoError(t, repo.Add(ctx, "DESSERT", "Dessert"))

		stored := ReadDocument(t, testDB.Pool, CategoriesDocID)
		assert.JSONEq(t, `{"DESSERT":"Dessert","DRINKS":"Drinks"}`, string(stored[repository.CategoriesField]))
		assert.JSONEq(t, `2`, string(stored["version"]))
	})
}
