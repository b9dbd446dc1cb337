package order

import (
	"context"

	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/internal/domain/repository"
)

// MenuReader lectura del menú publicado. Lo implementa el motor de reconciliación.
type MenuReader interface {
	Dish(id string) (entity.Dish, bool)
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Pedido, descuentos de stock y movimientos se confirman o se revierten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
