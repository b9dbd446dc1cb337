package repository

import (
	"context"

	"github.com/jhoicas/menu-engine/internal/domain/entity"
)

// OrderRepository puerto de persistencia de pedidos y sus ítems.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// MarkCancelled pasa el pedido a CANCELLED solo si aún no lo estaba. false = inexistente o ya cancelado.
	MarkCancelled(ctx context.Context, id string) (bool, error)
	UpdateItemStatus(ctx context.Context, orderID, itemID, status string) error
	// ClearItems elimina las líneas del pedido (cancelación).
	ClearItems(ctx context.Context, orderID string) error
}
