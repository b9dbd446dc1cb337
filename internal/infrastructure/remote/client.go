package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/jhoicas/menu-engine/internal/application/ports"
	"github.com/jhoicas/menu-engine/internal/domain"
	"github.com/jhoicas/menu-engine/pkg/config"
	"github.com/jhoicas/menu-engine/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa RemoteMenuSource.
var _ ports.RemoteMenuSource = (*Client)(nil)

// Tablas del backend remoto.
const (
	tableCategories = "categories"
	tableMenuItems  = "menu_items"
	tableMenuLegacy = "menu"
	tableSettings   = "restaurant_settings"
)

// Client adaptador REST del backend remoto (API estilo PostgREST bajo /rest/v1).
// Usa net/http de la librería estándar; las credenciales viajan en los headers apikey y Authorization.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el adaptador. Con URL o clave vacías FetchMenu devuelve config_missing sin tocar la red.
func NewClient(cfg config.RemoteConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.Component("remote"),
	}
}

// apiError cuerpo de error de PostgREST.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// statusError respuesta no 2xx del backend.
type statusError struct {
	Status int
	Body   apiError
}

func (e *statusError) Error() string {
	if e.Body.Message != "" {
		return fmt.Sprintf("HTTP %d (%s): %s", e.Status, e.Body.Code, e.Body.Message)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// FetchMenu lee categorías, platos y ajustes del restaurante.
// Una tabla inaccesible degrada a lista vacía; solo si no se pudo leer ninguna tabla de
// catálogo se devuelve el error clasificado.
func (c *Client) FetchMenu(ctx context.Context) (ports.RawMenu, error) {
	if c.baseURL == "" || c.apiKey == "" {
		return ports.RawMenu{}, &domain.SourceError{Kind: domain.SourceConfigMissing}
	}

	categories, catErr := c.fetchCategories(ctx)
	if catErr != nil && isNetwork(catErr) {
		return ports.RawMenu{}, classify(catErr)
	}
	dishes, dishErr := c.fetchDishes(ctx)
	if catErr != nil && dishErr != nil {
		return ports.RawMenu{}, classify(dishErr)
	}

	out := ports.RawMenu{Categories: categories, Dishes: dishes}
	if s, err := c.fetchSettings(ctx); err != nil {
		c.log.Warn().Err(err).Msg("ajustes del restaurante no accesibles; se continúa sin cabecera")
	} else {
		out.Settings = s
	}
	return out, nil
}

func (c *Client) fetchCategories(ctx context.Context) ([]map[string]any, error) {
	rows, err := c.getRows(ctx, tableCategories, "select=*&order=name")
	if err == nil {
		return rows, nil
	}
	if isNetwork(err) {
		return nil, err
	}
	rows, err2 := c.getRows(ctx, tableCategories, "select=*")
	if err2 == nil {
		c.log.Warn().Err(err).Msg("categorías: ordenación falló; se usa la consulta sin orden")
		return rows, nil
	}
	c.log.Warn().Err(err2).Msg("categorías no accesibles; se continúa sin categorías")
	return nil, err2
}

func (c *Client) fetchDishes(ctx context.Context) ([]map[string]any, error) {
	rows, err := c.getRows(ctx, tableMenuItems, "select=*&available=eq.true")
	if err == nil {
		return rows, nil
	}
	if isNetwork(err) {
		return nil, err
	}
	if rows, err2 := c.getRows(ctx, tableMenuItems, "select=*"); err2 == nil {
		c.log.Warn().Err(err).Msg("menu_items: filtro available falló; se usa la consulta sin filtro")
		return rows, nil
	}
	rows, err3 := c.getRows(ctx, tableMenuLegacy, "select=*")
	if err3 == nil {
		c.log.Warn().Err(err).Msg("menu_items no accesible; se usa la tabla menu")
		return rows, nil
	}
	c.log.Warn().Err(err).Msg("platos no accesibles; se continúa sin platos")
	// El error de la tabla principal es el que mejor describe la causa.
	return nil, err
}

func (c *Client) fetchSettings(ctx context.Context) (ports.RestaurantSettings, error) {
	rows, err := c.getRows(ctx, tableSettings, "select=*&limit=1")
	if err != nil {
		return ports.RestaurantSettings{}, err
	}
	if len(rows) == 0 {
		return ports.RestaurantSettings{}, nil
	}
	row := rows[0]
	return ports.RestaurantSettings{
		Name: firstString(row, "name", "restaurant_name"),
		Logo: firstString(row, "logo_url", "logo"),
	}, nil
}

func (c *Client) getRows(ctx context.Context, table, query string) ([]map[string]any, error) {
	url := c.baseURL + "/rest/v1/" + table
	if query != "" {
		url += "?" + query
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("remote: crear request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: GET %s: %w", table, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("remote: leer respuesta de %s: %w", table, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &statusError{Status: resp.StatusCode}
		_ = json.Unmarshal(body, &se.Body)
		return nil, se
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, &statusError{
			Status: resp.StatusCode,
			Body:   apiError{Code: "PGRST_DECODE", Message: "respuesta no es una lista JSON: " + err.Error()},
		}
	}
	return rows, nil
}

// classify traduce un fallo de transporte o de PostgREST a la categoría visible para el usuario.
func classify(err error) *domain.SourceError {
	var se *domain.SourceError
	if errors.As(err, &se) {
		return se
	}
	if isNetwork(err) {
		return &domain.SourceError{Kind: domain.SourceNetwork, Err: err}
	}
	var st *statusError
	if errors.As(err, &st) {
		msg := strings.ToLower(st.Body.Message)
		switch {
		case st.Status == http.StatusUnauthorized || st.Status == http.StatusForbidden,
			st.Body.Code == "42501", strings.Contains(msg, "permission denied"):
			return &domain.SourceError{Kind: domain.SourceAccessDenied, Err: err}
		case st.Status == http.StatusNotFound, st.Body.Code == "42P01", st.Body.Code == "42703",
			strings.HasPrefix(st.Body.Code, "PGRST2"), strings.Contains(msg, "does not exist"),
			strings.Contains(msg, "schema cache"):
			return &domain.SourceError{Kind: domain.SourceSchemaMismatch, Err: err}
		}
	}
	return &domain.SourceError{Kind: domain.SourceUnknown, Err: err}
}

// isNetwork indica fallos de transporte (DNS, conexión rechazada, timeout) frente a respuestas HTTP.
func isNetwork(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	var oe *net.OpError
	return errors.As(err, &oe)
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
