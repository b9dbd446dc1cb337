package entity

import "time"

// Acciones de auditoría emitidas por el ciclo de vida de pedidos.
const (
	AuditOrderCreated    = "ORDER_CREATED"
	AuditOrderCancelled  = "ORDER_CANCELLED"
	AuditOrderItemStatus = "ORDER_ITEM_STATUS"
)

// AuditEntry registro de auditoría (append-only).
type AuditEntry struct {
	ID        string
	Action    string
	Details   string
	Metadata  map[string]any
	UserID    string
	CreatedAt time.Time
}
