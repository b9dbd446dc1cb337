package repository

import (
	"context"

	"github.com/jhoicas/menu-engine/internal/domain/entity"
)

// StockRepository puerto del libro de stock externo.
// Usado dentro de transacciones para garantizar consistencia pedido/stock.
type StockRepository interface {
	// Get devuelve la entrada o (nil, nil) si no existe.
	Get(ctx context.Context, stockItemID string) (*entity.StockItem, error)
	// GetForUpdate igual que Get pero bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, stockItemID string) (*entity.StockItem, error)
	// Adjust suma delta a la cantidad (positivo al restaurar).
	Adjust(ctx context.Context, stockItemID string, delta int) error
	// TryDeduct descuenta quantity solo si hay suficiente (compare-and-decrement).
	// Devuelve false sin modificar nada si el stock no alcanza.
	TryDeduct(ctx context.Context, stockItemID string, quantity int) (bool, error)
}

// StockMovementRepository rastro append-only de ajustes del libro de stock.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByOrder(ctx context.Context, orderID string) ([]*entity.StockMovement, error)
}
