package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/internal/domain/repository"
)

var _ repository.ReplenishmentRepository = (*ReplenishmentRepo)(nil)

// ReplenishmentRepo consultas de solo lectura sobre stock_items y stock_movements.
type ReplenishmentRepo struct {
	q Querier
}

// NewReplenishmentRepository construye el adaptador. Acepta pool o tx (Querier).
func NewReplenishmentRepository(q Querier) *ReplenishmentRepo {
	return &ReplenishmentRepo{q: q}
}

// ListBelowThreshold entradas en o bajo su umbral, las más vacías primero.
func (r *ReplenishmentRepo) ListBelowThreshold(ctx context.Context) ([]entity.StockItem, error) {
	const query = `
	SELECT id, name, quantity, min_threshold, updated_at
	FROM stock_items
	WHERE quantity <= min_threshold
	ORDER BY quantity - min_threshold ASC, name ASC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("replenishment.ListBelowThreshold: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.StockItem, error) {
		var s entity.StockItem
		err := row.Scan(&s.ID, &s.Name, &s.Quantity, &s.MinThreshold, &s.UpdatedAt)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("replenishment.ListBelowThreshold scan: %w", err)
	}
	return items, nil
}

// ConsumptionSince agrega los movimientos del período. Los OUT se guardan negativos y los
// RESTORE positivos, así que el consumo neto es el opuesto de la suma.
func (r *ReplenishmentRepo) ConsumptionSince(ctx context.Context, since time.Time) ([]repository.StockConsumption, error) {
	const query = `
	SELECT
	    stock_item_id,
	    COALESCE(-SUM(quantity), 0)                                  AS units,
	    COUNT(DISTINCT order_id) FILTER (WHERE type = 'OUT')         AS orders
	FROM stock_movements
	WHERE created_at >= $1
	GROUP BY stock_item_id`

	rows, err := r.q.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("replenishment.ConsumptionSince: %w", err)
	}
	defer rows.Close()

	var results []repository.StockConsumption
	for rows.Next() {
		var c repository.StockConsumption
		if err := rows.Scan(&c.StockItemID, &c.Units, &c.Orders); err != nil {
			return nil, fmt.Errorf("replenishment.ConsumptionSince scan: %w", err)
		}
		results = append(results, c)
	}
	return results, rows.Err()
}
