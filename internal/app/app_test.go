package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"print-pricing/internal/config"
)

func TestNewUsesBuiltinCatalog(t *testing.T) {
	cfg := config.Default()
	a, err := New(cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, "business_cards", a.Catalog.Product)
	assert.NotNil(t, a.Cache)
	assert.NotNil(t, a.Metrics)

	rec := httptest.NewRecorder()
	a.Server("test").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestNewFailsOnMissingCatalog(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "nope.hcl")
	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestNewLoadsCatalogFile(t *testing.T) {
	data, err := os.ReadFile("../../core/catalog/testdata/postcards.json")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "postcards.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg := config.Default()
	cfg.Catalog.Path = path
	a, err := New(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "postcards", a.Catalog.Product)
}

func TestNewCache(t *testing.T) {
	p := config.Default().Pricing
	p.CacheEnabled = false
	assert.Nil(t, NewCache(p, nil))

	p.CacheEnabled = true
	p.CacheMaxEntries = 3
	c := NewCache(p, nil)
	require.NotNil(t, c)
	assert.Equal(t, 0, c.Len())
}
