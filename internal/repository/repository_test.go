package repository

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/Lixing-Zhang/catalog-manager/internal/config"
	"github.com/Lixing-Zhang/catalog-manager/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSQLiteStores(t *testing.T) *Stores {
	t.Helper()

	db, err := OpenGorm(sqlite.Open("file::memory:"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)

	stores, err := NewGormStores(db, BackendSQLite)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stores.Close(context.Background()) })
	return stores
}

var backends = map[string]func(t *testing.T) *Stores{
	"memory": func(*testing.T) *Stores { return NewMemoryStores() },
	"sqlite": newSQLiteStores,
}

func seedProducts(t *testing.T, repo Repository[models.Product]) []models.Product {
	t.Helper()

	seed := []models.Product{
		{Name: "ABC Widget", Price: 12.5, Description: "a widget", Category: "Tools"},
		{Name: "xyz", Price: 3, Description: "letters", Category: "Misc"},
		{Name: "Dune", Price: 19.99, Description: "novel", Category: "Books"},
		{Name: "100%_pure", Price: 7, Description: "wildcards", Category: "Misc"},
	}
	for i := range seed {
		require.NoError(t, repo.Create(context.Background(), &seed[i]))
	}
	return seed
}

func names(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestRepository_CreateAndGet(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			repo := open(t).Products
			ctx := context.Background()

			p := models.Product{Name: "Dune", Price: 19.99, Description: "novel", Category: "Books"}
			require.NoError(t, repo.Create(ctx, &p))

			assert.NotEmpty(t, p.ID)
			assert.False(t, p.CreatedAt.IsZero())
			assert.True(t, p.CreatedAt.Equal(p.UpdatedAt))

			got, err := repo.GetByID(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, p.ID, got.ID)
			assert.Equal(t, p.Name, got.Name)
			assert.Equal(t, p.Price, got.Price)
			assert.Equal(t, p.Description, got.Description)
			assert.Equal(t, p.Category, got.Category)
			assert.True(t, p.CreatedAt.Equal(got.CreatedAt))

			other := models.Product{Name: "Other", Price: 1, Description: "d", Category: "c"}
			require.NoError(t, repo.Create(ctx, &other))
			assert.NotEqual(t, p.ID, other.ID)
		})
	}
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			repo := open(t).Categories
			ctx := context.Background()

			for _, id := range []string{"", "not-an-id", "4c1f8e8a-9d5b-4b8e-9a53-0e8f5f6a7b8c"} {
				_, err := repo.GetByID(ctx, id)
				assert.ErrorIs(t, err, ErrNotFound, "id %q", id)
			}
		})
	}
}

func TestRepository_ListSearch(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			repo := open(t).Products
			seedProducts(t, repo)
			ctx := context.Background()

			got, err := repo.List(ctx, Query{Search: "abc", SortField: "name"})
			require.NoError(t, err)
			assert.Equal(t, []string{"ABC Widget"}, names(got))

			got, err = repo.List(ctx, Query{Search: "DUNE", SortField: "name"})
			require.NoError(t, err)
			assert.Equal(t, []string{"Dune"}, names(got))

			got, err = repo.List(ctx, Query{Search: "%_", SortField: "name"})
			require.NoError(t, err)
			assert.Equal(t, []string{"100%_pure"}, names(got), "wildcards match literally")

			got, err = repo.List(ctx, Query{Search: " ", SortField: "name"})
			require.NoError(t, err)
			assert.Equal(t, []string{"ABC Widget"}, names(got), "whitespace is matched, not trimmed")

			got, err = repo.List(ctx, Query{Search: "nothing matches"})
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestRepository_ListSort(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			repo := open(t).Products
			seedProducts(t, repo)
			ctx := context.Background()

			got, err := repo.List(ctx, Query{SortField: "price"})
			require.NoError(t, err)
			assert.Equal(t, []string{"xyz", "100%_pure", "ABC Widget", "Dune"}, names(got))

			got, err = repo.List(ctx, Query{SortField: "price", Descending: true})
			require.NoError(t, err)
			assert.Equal(t, []string{"Dune", "ABC Widget", "100%_pure", "xyz"}, names(got))

			got, err = repo.List(ctx, Query{SortField: "category"})
			require.NoError(t, err)
			assert.Equal(t, "Books", got[0].Category)
			assert.Equal(t, "Tools", got[len(got)-1].Category)
		})
	}
}

func TestRepository_UpdateReplacesFields(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			repo := open(t).Categories
			ctx := context.Background()

			c := models.Category{Name: "Books", Description: "paper"}
			require.NoError(t, repo.Create(ctx, &c))
			time.Sleep(2 * time.Millisecond)

			updated, err := repo.Update(ctx, c.ID, &models.Category{Name: "Novels"})
			require.NoError(t, err)
			assert.Equal(t, c.ID, updated.ID)
			assert.Equal(t, "Novels", updated.Name)
			assert.Empty(t, updated.Description, "omitted fields are not merged")
			assert.True(t, c.CreatedAt.Equal(updated.CreatedAt))
			assert.True(t, updated.UpdatedAt.After(c.UpdatedAt))

			got, err := repo.GetByID(ctx, c.ID)
			require.NoError(t, err)
			assert.Equal(t, "Novels", got.Name)
			assert.Empty(t, got.Description)
		})
	}
}

func TestRepository_UpdateMissing(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			repo := open(t).Categories
			ctx := context.Background()

			c := models.Category{Name: "Books"}
			require.NoError(t, repo.Create(ctx, &c))

			_, err := repo.Update(ctx, "4c1f8e8a-9d5b-4b8e-9a53-0e8f5f6a7b8c", &models.Category{Name: "X"})
			assert.ErrorIs(t, err, ErrNotFound)

			all, err := repo.List(ctx, Query{})
			require.NoError(t, err)
			require.Len(t, all, 1)
			assert.Equal(t, "Books", all[0].Name)
		})
	}
}

func TestGormRepository_UpdateAfterConcurrentDelete(t *testing.T) {
	repo, ok := newSQLiteStores(t).Categories.(*GormRepository[models.Category, *models.Category])
	require.True(t, ok)
	ctx := context.Background()

	c := models.Category{Name: "Books"}
	require.NoError(t, repo.Create(ctx, &c))

	// Remove the row inside the update call, after any existence check.
	err := repo.db.Callback().Update().Before("gorm:update").Register("test:concurrent_delete", func(tx *gorm.DB) {
		tx.Session(&gorm.Session{NewDB: true}).Exec("DELETE FROM categories WHERE id = ?", c.ID)
	})
	require.NoError(t, err)

	_, err = repo.Update(ctx, c.ID, &models.Category{Name: "Novels"})
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := repo.List(ctx, Query{})
	require.NoError(t, err)
	assert.Empty(t, all, "a deleted row is not written back")
}

func TestRepository_Delete(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			repo := open(t).Products
			seed := seedProducts(t, repo)
			ctx := context.Background()

			deleted, err := repo.Delete(ctx, seed[0].ID)
			require.NoError(t, err)
			assert.Equal(t, seed[0].Name, deleted.Name)

			_, err = repo.GetByID(ctx, seed[0].ID)
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = repo.Delete(ctx, seed[0].ID)
			assert.ErrorIs(t, err, ErrNotFound)

			rest, err := repo.List(ctx, Query{})
			require.NoError(t, err)
			assert.Len(t, rest, len(seed)-1)
		})
	}
}

func TestInMemoryRepository_DefaultOrderNewestFirst(t *testing.T) {
	repo := NewInMemoryRepository[models.Category]()
	ctx := context.Background()

	for _, n := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, &models.Category{Name: n}))
	}

	got, err := repo.List(ctx, Query{SortField: "createdAt", Descending: true})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "third", got[0].Name)
	assert.Equal(t, "second", got[1].Name)
	assert.Equal(t, "first", got[2].Name)
}

func TestInMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewInMemoryRepository[models.Category]()
	ctx := context.Background()

	c := models.Category{Name: "Books"}
	require.NoError(t, repo.Create(ctx, &c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Books", again.Name)
}

func TestOpen_Memory(t *testing.T) {
	stores, err := Open(context.Background(), config.StoreConfig{URL: "memory://", ConnectTimeout: 1}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, stores.Backend)
	assert.NoError(t, stores.Ping(context.Background()))
	assert.NoError(t, stores.Close(context.Background()))
}

func TestOpen_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	stores, err := Open(context.Background(), config.StoreConfig{URL: "sqlite://" + path, ConnectTimeout: 1}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = stores.Close(context.Background()) })

	assert.Equal(t, BackendSQLite, stores.Backend)
	assert.NoError(t, stores.Ping(context.Background()))
}

func TestOpen_Unsupported(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{URL: "redis://localhost", ConnectTimeout: 1}, slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%\_pure\\`, escapeLike(`100%_pure\`))
}
