package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/jhoicas/menu-engine/internal/application/ports"
	"github.com/jhoicas/menu-engine/internal/domain"
	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/pkg/config"
	"github.com/jhoicas/menu-engine/pkg/logger"
)

var _ ports.DeltaSubscriber = (*Subscriber)(nil)

// changeMessage frame del canal en vivo: un cambio de fila en una tabla del catálogo.
type changeMessage struct {
	Table     string         `json:"table"`
	Type      string         `json:"type"`
	Record    map[string]any `json:"record"`
	OldRecord map[string]any `json:"old_record"`
}

// Subscriber cliente websocket del canal de cambios del backend remoto.
type Subscriber struct {
	url    string
	apiKey string
	dialer *websocket.Dialer
	log    *logger.Logger
}

// NewSubscriber construye el cliente; RealtimeURL vacío deja el canal deshabilitado.
func NewSubscriber(cfg config.RemoteConfig, log *logger.Logger) *Subscriber {
	if log == nil {
		log = logger.Nop()
	}
	return &Subscriber{
		url:    cfg.RealtimeURL,
		apiKey: cfg.APIKey,
		dialer: &websocket.Dialer{HandshakeTimeout: cfg.Timeout},
		log:    log.Component("realtime"),
	}
}

// Subscribe conecta y entrega cada frame como un lote de deltas, en orden de llegada.
// Devuelve nil si ctx se cancela y error si la conexión falla o se cierra.
func (s *Subscriber) Subscribe(ctx context.Context, handle func([]entity.Delta)) error {
	if s.url == "" {
		return &domain.SourceError{Kind: domain.SourceConfigMissing, Err: errors.New("realtime url vacía")}
	}
	header := http.Header{}
	if s.apiKey != "" {
		header.Set("apikey", s.apiKey)
		header.Set("Authorization", "Bearer "+s.apiKey)
	}

	conn, _, err := s.dialer.DialContext(ctx, s.url, header)
	if err != nil {
		return fmt.Errorf("realtime: conectar: %w", err)
	}
	s.log.Info().Str("url", s.url).Msg("suscrito al canal de cambios")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("realtime: leer: %w", err)
		}
		batch, err := DecodeDeltas(data)
		if err != nil {
			s.log.Warn().Err(err).Msg("frame de cambios ignorado")
			continue
		}
		if len(batch) > 0 {
			handle(batch)
		}
	}
}

// DecodeDeltas interpreta un frame (objeto único o lista) y descarta las tablas ajenas al catálogo.
func DecodeDeltas(data []byte) ([]entity.Delta, error) {
	data = bytes.TrimSpace(data)
	var msgs []changeMessage
	if len(data) > 0 && data[0] == '[' {
		if err := decodeFrame(data, &msgs); err != nil {
			return nil, err
		}
	} else {
		var m changeMessage
		if err := decodeFrame(data, &m); err != nil {
			return nil, err
		}
		msgs = []changeMessage{m}
	}

	out := make([]entity.Delta, 0, len(msgs))
	for _, m := range msgs {
		var kind string
		switch m.Table {
		case tableMenuItems, tableMenuLegacy:
			kind = entity.DeltaEntityDish
		case tableCategories:
			kind = entity.DeltaEntityCategory
		default:
			continue
		}
		d := entity.Delta{
			EntityType: kind,
			EventType:  strings.ToUpper(strings.TrimSpace(m.Type)),
			Record:     m.Record,
		}
		if m.OldRecord != nil {
			d.OldID = firstString(m.OldRecord, "id", "uuid")
			if d.OldID == "" {
				if v, ok := m.OldRecord["id"]; ok && v != nil {
					d.OldID = fmt.Sprint(v)
				}
			}
		}
		out = append(out, d)
	}
	return out, nil
}

// decodeFrame conserva los números como json.Number, igual que el cliente REST y el feed.
func decodeFrame(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("frame inválido: %w", err)
	}
	return nil
}
