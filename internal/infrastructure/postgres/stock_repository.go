package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo libro de stock sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene la entrada del libro; (nil, nil) si no existe.
func (r *StockRepo) Get(ctx context.Context, stockItemID string) (*entity.StockItem, error) {
	query := `SELECT id, name, quantity, min_threshold, updated_at FROM stock_items WHERE id = $1`
	return r.scanOne(ctx, query, stockItemID, "get stock")
}

// GetForUpdate obtiene la entrada y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, stockItemID string) (*entity.StockItem, error) {
	query := `SELECT id, name, quantity, min_threshold, updated_at FROM stock_items WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, stockItemID, "get stock for update")
}

func (r *StockRepo) scanOne(ctx context.Context, query, id, op string) (*entity.StockItem, error) {
	var s entity.StockItem
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Quantity, &s.MinThreshold, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}

// Adjust suma delta a la cantidad (positivo al restaurar una cancelación).
func (r *StockRepo) Adjust(ctx context.Context, stockItemID string, delta int) error {
	query := `UPDATE stock_items SET quantity = quantity + $2, updated_at = now() WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, stockItemID, delta); err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	return nil
}

// TryDeduct descuenta solo si alcanza; el WHERE hace de compare-and-decrement atómico.
func (r *StockRepo) TryDeduct(ctx context.Context, stockItemID string, quantity int) (bool, error) {
	query := `
		UPDATE stock_items SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2`
	tag, err := r.q.Exec(ctx, query, stockItemID, quantity)
	if err != nil {
		return false, fmt.Errorf("deduct stock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
