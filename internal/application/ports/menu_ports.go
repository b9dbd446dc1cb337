package ports

import (
	"context"

	"github.com/jhoicas/menu-engine/internal/domain/entity"
)

// RestaurantSettings datos de presentación del restaurante publicados junto al menú.
type RestaurantSettings struct {
	Name string
	Logo string
}

// RawMenu menú tal como llega de una fuente externa, antes de normalizar.
// Los registros conservan los nombres de campo del origen; solo el normalizador los interpreta.
type RawMenu struct {
	Categories []map[string]any
	Dishes     []map[string]any
	Settings   RestaurantSettings
}

// Empty indica si la fuente no devolvió platos ni categorías.
func (m RawMenu) Empty() bool {
	return len(m.Categories) == 0 && len(m.Dishes) == 0
}

// RemoteMenuSource puerto de salida hacia el backend remoto (réplica secundaria del catálogo).
// Los errores deben ser *domain.SourceError para que el motor pueda informar la categoría al usuario.
type RemoteMenuSource interface {
	FetchMenu(ctx context.Context) (RawMenu, error)
}

// FeedSource puerto del feed estático de respaldo (menu_feed.json).
type FeedSource interface {
	FetchFeed(ctx context.Context) (RawMenu, error)
}

// DeltaSubscriber canal de cambios en vivo del backend remoto.
// Subscribe bloquea hasta que ctx se cancela o la conexión se pierde; cada lote recibido se
// entrega a handle en orden de llegada.
type DeltaSubscriber interface {
	Subscribe(ctx context.Context, handle func([]entity.Delta)) error
}
