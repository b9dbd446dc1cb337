package entity

import "time"

// Tipos de movimiento del libro de stock originados por pedidos.
const (
	StockMovementOut     = "OUT"     // descuento al crear el pedido
	StockMovementRestore = "RESTORE" // devolución al cancelar
)

// StockMovement rastro de cada ajuste aplicado al libro de stock.
type StockMovement struct {
	ID          string
	StockItemID string
	OrderID     string
	Type        string
	Quantity    int // negativo en OUT, positivo en RESTORE
	CreatedAt   time.Time
}
