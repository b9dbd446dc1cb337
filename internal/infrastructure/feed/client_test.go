package feed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/menu-engine/internal/domain/menu"
	"github.com/jhoicas/menu-engine/internal/infrastructure/feed"
	"github.com/jhoicas/menu-engine/pkg/config"
)

const sampleFeed = `{
  "restaurant": {"name": "Casa Kiami", "logo": "https://cdn/logo.png"},
  "categories": [{"id": "c1", "name": "Bebidas", "sort_order": 2}],
  "dishes": [
    {"id": "d1", "name": "Sumo", "price": 1500.50, "categoryId": "c1", "disponivel": true},
    {"id": "d2", "name": "Água", "price": 300, "categoryId": "c1"}
  ],
  "updatedAt": "2026-01-10T12:00:00Z"
}`

func TestFetchFeed_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/"+feed.FileName {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := feed.NewClient(config.FeedConfig{BaseURL: srv.URL + "/", Timeout: time.Second}, nil)
	m, err := c.FetchFeed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Casa Kiami", m.Settings.Name)
	assert.Equal(t, "https://cdn/logo.png", m.Settings.Logo)
	require.Len(t, m.Categories, 1)
	require.Len(t, m.Dishes, 2)

	// El feed usa la forma camelCase del cliente; el normalizador la entiende.
	d := menu.NormalizeDish(m.Dishes[0])
	assert.Equal(t, "c1", d.CategoryID)
	assert.Equal(t, "1500.5", d.Price.String())
}

func TestFetchFeed_Errores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := feed.NewClient(config.FeedConfig{BaseURL: srv.URL, Timeout: time.Second}, nil).FetchFeed(context.Background())
	assert.ErrorContains(t, err, "HTTP 503")

	_, err = feed.NewClient(config.FeedConfig{}, nil).FetchFeed(context.Background())
	assert.ErrorIs(t, err, feed.ErrNotConfigured)

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1,2`))
	}))
	defer bad.Close()
	_, err = feed.NewClient(config.FeedConfig{BaseURL: bad.URL, Timeout: time.Second}, nil).FetchFeed(context.Background())
	assert.ErrorContains(t, err, "json inválido")
}

func TestFetchFeed_DocumentoDemasiadoGrande(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	limit := int64(len(sampleFeed))
	_, err := feed.NewClient(config.FeedConfig{BaseURL: srv.URL, Timeout: time.Second, MaxBytes: limit - 1}, nil).FetchFeed(context.Background())
	assert.ErrorIs(t, err, feed.ErrTooLarge)

	m, err := feed.NewClient(config.FeedConfig{BaseURL: srv.URL, Timeout: time.Second, MaxBytes: limit}, nil).FetchFeed(context.Background())
	require.NoError(t, err)
	assert.Len(t, m.Dishes, 2)
}
