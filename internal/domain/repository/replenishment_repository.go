package repository

import (
	"context"
	"time"

	"github.com/jhoicas/menu-engine/internal/domain/entity"
)

// StockConsumption unidades consumidas por pedidos para una entrada del libro en un período.
// Units descuenta las devoluciones por cancelación.
type StockConsumption struct {
	StockItemID string
	Units       int
	Orders      int
}

// ReplenishmentRepository consultas de solo lectura para la lista de reposición.
type ReplenishmentRepository interface {
	// ListBelowThreshold entradas con quantity <= min_threshold.
	ListBelowThreshold(ctx context.Context) ([]entity.StockItem, error)
	// ConsumptionSince consumo neto por entrada desde since.
	ConsumptionSince(ctx context.Context, since time.Time) ([]StockConsumption, error)
}
