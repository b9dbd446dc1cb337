package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/menu-engine/internal/domain"
	"github.com/jhoicas/menu-engine/internal/infrastructure/remote"
	"github.com/jhoicas/menu-engine/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const testAPIKey = "anon-key"

type route struct {
	status int
	body   any
}

// fakeBackend servidor PostgREST mínimo: responde por "tabla?query" y registra las rutas pedidas.
type fakeBackend struct {
	mu     sync.Mutex
	routes map[string]route
	calls  []string
	keys   []string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.keys = append(f.keys, r.Header.Get("apikey"))
	rt, ok := f.routes[key]
	f.mu.Unlock()
	if !ok {
		rt = route{status: http.StatusNotFound, body: map[string]string{"code": "42P01", "message": "relation does not exist"}}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rt.status)
	_ = json.NewEncoder(w).Encode(rt.body)
}

func newClient(t *testing.T, routes map[string]route) (*remote.Client, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{routes: routes}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)
	c := remote.NewClient(config.RemoteConfig{
		Enabled: true,
		BaseURL: srv.URL,
		APIKey:  testAPIKey,
		Timeout: 2 * time.Second,
	}, nil)
	return c, fb
}

func ok(body any) route { return route{status: http.StatusOK, body: body} }

func sourceKind(t *testing.T, err error) domain.SourceErrorKind {
	t.Helper()
	var se *domain.SourceError
	require.True(t, errors.As(err, &se), "se esperaba *domain.SourceError, got %T", err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	return se.Kind
}

// ──────────────────────────────────────────────────────────────────────────────
// FetchMenu
// ──────────────────────────────────────────────────────────────────────────────

func TestFetchMenu_CaminoPrincipal(t *testing.T) {
	c, fb := newClient(t, map[string]route{
		"/rest/v1/categories?select=*&order=name": ok([]map[string]any{
			{"id": "c1", "name": "Bebidas", "sort_order": 1},
		}),
		"/rest/v1/menu_items?select=*&available=eq.true": ok([]map[string]any{
			{"id": "d1", "name": "Sumo", "price": 1500, "category_id": "c1"},
		}),
		"/rest/v1/restaurant_settings?select=*&limit=1": ok([]map[string]any{
			{"name": "Casa Kiami", "logo_url": "https://cdn/logo.png"},
		}),
	})

	m, err := c.FetchMenu(context.Background())
	require.NoError(t, err)
	require.Len(t, m.Categories, 1)
	require.Len(t, m.Dishes, 1)
	assert.Equal(t, "Bebidas", m.Categories[0]["name"])
	assert.Equal(t, "Casa Kiami", m.Settings.Name)
	assert.Equal(t, "https://cdn/logo.png", m.Settings.Logo)
	for _, k := range fb.keys {
		assert.Equal(t, testAPIKey, k)
	}
}

func TestFetchMenu_Fallbacks(t *testing.T) {
	c, fb := newClient(t, map[string]route{
		// Orden y filtro rechazados; la tabla menu_items tampoco existe.
		"/rest/v1/categories?select=*&order=name": {status: http.StatusBadRequest, body: map[string]string{"code": "42703", "message": "column name does not exist"}},
		"/rest/v1/categories?select=*":            ok([]map[string]any{{"id": "c1", "nome": "Pratos"}}),
		"/rest/v1/menu?select=*":                  ok([]map[string]any{{"id": "d1", "nome": "Muamba"}}),
	})

	m, err := c.FetchMenu(context.Background())
	require.NoError(t, err)
	assert.Len(t, m.Categories, 1)
	assert.Len(t, m.Dishes, 1)
	assert.Empty(t, m.Settings.Name)
	assert.Contains(t, fb.calls, "/rest/v1/menu_items?select=*")
}

func TestFetchMenu_CategoriasInaccesiblesNoEsFatal(t *testing.T) {
	c, _ := newClient(t, map[string]route{
		"/rest/v1/menu_items?select=*&available=eq.true": ok([]map[string]any{{"id": "d1", "name": "Sumo"}}),
	})

	m, err := c.FetchMenu(context.Background())
	require.NoError(t, err)
	assert.Empty(t, m.Categories)
	assert.Len(t, m.Dishes, 1)
}

func TestFetchMenu_SinConfiguracion(t *testing.T) {
	c := remote.NewClient(config.RemoteConfig{Enabled: true, BaseURL: "http://example.invalid"}, nil)
	_, err := c.FetchMenu(context.Background())
	assert.Equal(t, domain.SourceConfigMissing, sourceKind(t, err))
}

func TestFetchMenu_ClasificacionDeErrores(t *testing.T) {
	denied := route{status: http.StatusUnauthorized, body: map[string]string{"message": "Invalid API key"}}
	forbidden := route{status: http.StatusForbidden, body: map[string]string{"code": "42501", "message": "permission denied for table"}}
	teapot := route{status: http.StatusInternalServerError, body: map[string]string{"message": "boom"}}

	all := func(r route) map[string]route {
		return map[string]route{
			"/rest/v1/categories?select=*&order=name":        r,
			"/rest/v1/categories?select=*":                   r,
			"/rest/v1/menu_items?select=*&available=eq.true": r,
			"/rest/v1/menu_items?select=*":                   r,
			"/rest/v1/menu?select=*":                         r,
		}
	}

	tests := []struct {
		name   string
		routes map[string]route
		want   domain.SourceErrorKind
	}{
		{"401 es acceso denegado", all(denied), domain.SourceAccessDenied},
		{"42501 es acceso denegado", all(forbidden), domain.SourceAccessDenied},
		{"tablas ausentes es esquema", map[string]route{}, domain.SourceSchemaMismatch},
		{"500 es desconocido", all(teapot), domain.SourceUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newClient(t, tt.routes)
			_, err := c.FetchMenu(context.Background())
			assert.Equal(t, tt.want, sourceKind(t, err))
		})
	}
}

func TestFetchMenu_FalloDeRed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := remote.NewClient(config.RemoteConfig{Enabled: true, BaseURL: base, APIKey: testAPIKey, Timeout: time.Second}, nil)
	_, err := c.FetchMenu(context.Background())
	assert.Equal(t, domain.SourceNetwork, sourceKind(t, err))
}
