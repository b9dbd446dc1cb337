package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/menu-engine/internal/domain"
	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos y sus líneas sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta cabecera y líneas en un solo batch.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO orders (id, table_id, customer_name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.TableID, nullable(o.CustomerName), o.Status, o.CreatedAt, o.UpdatedAt)
	for i, it := range o.Items {
		batch.Queue(`
			INSERT INTO order_items (id, order_id, dish_id, dish_name, stock_item_id, quantity, notes, status, unit_price, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			it.ID, o.ID, it.DishID, it.DishName, nullable(it.StockItemID), it.Quantity,
			nullable(it.Notes), it.Status, it.UnitPrice, i)
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("pedido %s: %w", o.ID, domain.ErrConflict)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene el pedido con sus líneas; (nil, nil) si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var o entity.Order
	var customer *string
	err := r.q.QueryRow(ctx, `
		SELECT id, table_id, customer_name, status, created_at, updated_at
		FROM orders WHERE id = $1`, id).Scan(
		&o.ID, &o.TableID, &customer, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.CustomerName = deref(customer)

	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, dish_id, dish_name, stock_item_id, quantity, notes, status, unit_price
		FROM order_items WHERE order_id = $1
		ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	o.Items, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.OrderItem, error) {
		var it entity.OrderItem
		var stockItemID, notes *string
		err := row.Scan(&it.ID, &it.OrderID, &it.DishID, &it.DishName, &stockItemID,
			&it.Quantity, &notes, &it.Status, &it.UnitPrice)
		it.StockItemID = deref(stockItemID)
		it.Notes = deref(notes)
		return it, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan order items: %w", err)
	}
	return &o, nil
}

// UpdateStatus cambia el estado del pedido.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// MarkCancelled UPDATE condicional: bajo READ COMMITTED una segunda transacción espera el lock de
// la fila y, tras el commit de la primera, re-evalúa el WHERE y no afecta filas.
func (r *OrderRepo) MarkCancelled(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1 AND status <> $2`,
		id, entity.OrderStatusCancelled)
	if err != nil {
		return false, fmt.Errorf("mark order cancelled: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateItemStatus cambia el estado de una línea.
func (r *OrderRepo) UpdateItemStatus(ctx context.Context, orderID, itemID, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE order_items SET status = $3 WHERE order_id = $1 AND id = $2`, orderID, itemID, status)
	if err != nil {
		return fmt.Errorf("update order item status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ClearItems elimina las líneas del pedido.
func (r *OrderRepo) ClearItems(ctx context.Context, orderID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("clear order items: %w", err)
	}
	return nil
}
