package importer

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/Lixing-Zhang/catalog-manager/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productsNDJSON = `{"name":"Dune","price":19.99,"description":"Herbert","category":"Books"}

{"name":"Lamp","price":"30","description":"Desk lamp","category":"Home"}
`

func gzipped(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	plain := writeFile(t, "products.ndjson", []byte(productsNDJSON))

	more := gzipped(t, `{"name":"Emma","price":5,"description":"Austen","category":"Books"}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/more.ndjson.gz" {
			http.NotFound(w, r)
			return
		}
		w.Write(more)
	}))
	defer srv.Close()

	t.Run("files and urls in source order", func(t *testing.T) {
		records, err := NewLoader[models.ProductInput](nil).Load(context.Background(),
			[]string{plain, srv.URL + "/more.ndjson.gz"})
		require.NoError(t, err)
		require.Len(t, records, 3)

		assert.Equal(t, "Dune", records[0].Input.Name)
		assert.Equal(t, 1, records[0].Line)
		assert.Equal(t, "Lamp", records[1].Input.Name)
		assert.Equal(t, 3, records[1].Line, "blank lines still count")
		assert.Equal(t, "30", records[1].Input.Price.Raw())
		assert.Equal(t, "Emma", records[2].Input.Name)
		assert.Equal(t, srv.URL+"/more.ndjson.gz", records[2].Source)
	})

	t.Run("gzip file", func(t *testing.T) {
		gz := writeFile(t, "products.ndjson.gz", gzipped(t, productsNDJSON))
		records, err := NewLoader[models.ProductInput](nil).Load(context.Background(), []string{gz})
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("empty sources", func(t *testing.T) {
		_, err := NewLoader[models.ProductInput](nil).Load(context.Background(), nil)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoader[models.ProductInput](nil).Load(context.Background(), []string{"/non/existent/file"})
		assert.Error(t, err)
	})

	t.Run("http error status", func(t *testing.T) {
		_, err := NewLoader[models.ProductInput](nil).Load(context.Background(), []string{srv.URL + "/missing"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status code: 404")
	})

	t.Run("malformed line", func(t *testing.T) {
		bad := writeFile(t, "bad.ndjson", []byte("{\"name\":\"ok\"}\nnot json\n"))
		_, err := NewLoader[models.CategoryInput](nil).Load(context.Background(), []string{bad})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("empty file", func(t *testing.T) {
		empty := writeFile(t, "empty.ndjson", nil)
		records, err := NewLoader[models.CategoryInput](nil).Load(context.Background(), []string{empty})
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestSubmit(t *testing.T) {
	records := []Record[models.CategoryInput]{
		{Source: "a", Line: 1, Input: models.CategoryInput{Name: "Books"}},
		{Source: "a", Line: 2, Input: models.CategoryInput{Name: ""}},
		{Source: "b", Line: 1, Input: models.CategoryInput{Name: "Games"}},
		{Source: "b", Line: 2, Input: models.CategoryInput{Name: ""}},
	}

	var inFlight, peak atomic.Int32
	submit := func(_ context.Context, in models.CategoryInput) (*models.Category, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		if in.Name == "" {
			return nil, errors.New("name is required")
		}
		return &models.Category{Name: in.Name}, nil
	}

	report, err := Submit(context.Background(), records, 2, submit)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Created)
	require.Len(t, report.Failures, 2)
	assert.Equal(t, "a:2: name is required", report.Failures[0].String())
	assert.Equal(t, "b:2: name is required", report.Failures[1].String())
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestSubmit_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := []Record[models.CategoryInput]{{Input: models.CategoryInput{Name: "Books"}}}
	_, err := Submit(ctx, records, 1, func(context.Context, models.CategoryInput) (*models.Category, error) {
		return &models.Category{}, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
