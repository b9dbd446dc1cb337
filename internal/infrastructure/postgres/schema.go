package postgres

import (
	"context"
	"fmt"
)

// schema tablas propias del servicio. Idempotente: se ejecuta en cada arranque.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS menu_categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		parent_id TEXT,
		sort_order INTEGER NOT NULL DEFAULT 0,
		icon TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		is_visible_on_digital_menu BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS stock_items (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 0,
		min_threshold INTEGER NOT NULL DEFAULT 5,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS menu_dishes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		price NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
		category_id TEXT,
		category_name TEXT,
		image_url TEXT,
		available BOOLEAN NOT NULL DEFAULT TRUE,
		stock_item_id TEXT,
		tax_code TEXT NOT NULL DEFAULT 'NOR',
		tax_percentage NUMERIC(5,2) NOT NULL DEFAULT 14,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		table_id TEXT NOT NULL,
		customer_name TEXT,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		dish_id TEXT NOT NULL,
		dish_name TEXT NOT NULL,
		stock_item_id TEXT,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		notes TEXT,
		status TEXT NOT NULL,
		unit_price NUMERIC(14,2) NOT NULL DEFAULT 0,
		position INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		id TEXT PRIMARY KEY,
		stock_item_id TEXT NOT NULL,
		order_id TEXT,
		type TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movements_order ON stock_movements(order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movements_created ON stock_movements(created_at)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		details TEXT,
		metadata JSONB,
		user_id TEXT,
		created_at TIMESTAMPTZ NOT NULL
	)`,
}

// Migrate crea las tablas que falten.
func Migrate(ctx context.Context, q Querier) error {
	for _, stmt := range schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
