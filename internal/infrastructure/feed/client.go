package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jhoicas/menu-engine/internal/application/ports"
	"github.com/jhoicas/menu-engine/pkg/config"
	"github.com/jhoicas/menu-engine/pkg/logger"
)

var _ ports.FeedSource = (*Client)(nil)

// FileName nombre del feed publicado junto al menú QR.
const FileName = "menu_feed.json"

// DefaultMaxBytes tamaño máximo aceptado del feed cuando la configuración no fija otro.
const DefaultMaxBytes int64 = 8 << 20

var (
	// ErrNotConfigured el feed de respaldo no tiene URL base.
	ErrNotConfigured = errors.New("feed: url base no configurada")
	// ErrTooLarge el feed supera el tamaño máximo configurado.
	ErrTooLarge = errors.New("feed: documento demasiado grande")
)

// document forma del menu_feed.json publicado.
type document struct {
	Restaurant struct {
		Name string `json:"name"`
		Logo string `json:"logo"`
	} `json:"restaurant"`
	Categories []map[string]any `json:"categories"`
	Dishes     []map[string]any `json:"dishes"`
	UpdatedAt  string           `json:"updatedAt"`
}

// Client lector HTTP del feed estático.
type Client struct {
	baseURL    string
	maxBytes   int64
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el lector. Con BaseURL vacía FetchFeed devuelve ErrNotConfigured.
func NewClient(cfg config.FeedConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		maxBytes:   maxBytes,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.Component("feed"),
	}
}

// FetchFeed descarga <base>/menu_feed.json.
func (c *Client) FetchFeed(ctx context.Context) (ports.RawMenu, error) {
	if c.baseURL == "" {
		return ports.RawMenu{}, ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+FileName, nil)
	if err != nil {
		return ports.RawMenu{}, fmt.Errorf("feed: crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.RawMenu{}, fmt.Errorf("feed: GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Str("url", req.URL.String()).Msg("feed respondió con error")
		return ports.RawMenu{}, fmt.Errorf("feed: HTTP %d", resp.StatusCode)
	}
	// Un byte de más permite distinguir un documento truncado de uno que cabe justo.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return ports.RawMenu{}, fmt.Errorf("feed: leer respuesta: %w", err)
	}
	if int64(len(body)) > c.maxBytes {
		c.log.Warn().Int64("max_bytes", c.maxBytes).Msg("feed descartado por tamaño")
		return ports.RawMenu{}, ErrTooLarge
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return ports.RawMenu{}, fmt.Errorf("feed: json inválido: %w", err)
	}
	c.log.Debug().Int("categories", len(doc.Categories)).Int("dishes", len(doc.Dishes)).
		Str("updated_at", doc.UpdatedAt).Msg("feed descargado")
	return ports.RawMenu{
		Categories: doc.Categories,
		Dishes:     doc.Dishes,
		Settings: ports.RestaurantSettings{
			Name: strings.TrimSpace(doc.Restaurant.Name),
			Logo: strings.TrimSpace(doc.Restaurant.Logo),
		},
	}, nil
}
