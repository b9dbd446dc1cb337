package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del pedido: PENDING → CREATED → FIRED_TO_KITCHEN → {PRONTO | CANCELLED}.
const (
	OrderStatusPending        = "PENDING"
	OrderStatusCreated        = "CREATED"
	OrderStatusFiredToKitchen = "FIRED_TO_KITCHEN"
	OrderStatusReady          = "PRONTO"
	OrderStatusCancelled      = "CANCELLED"
)

// Estados de cada ítem en cocina; avanzan solo hacia delante.
const (
	ItemStatusPending   = "PENDENTE"
	ItemStatusPreparing = "PREPARANDO"
	ItemStatusReady     = "PRONTO"
	ItemStatusDelivered = "ENTREGUE"
)

var itemStatusRank = map[string]int{
	ItemStatusPending:   0,
	ItemStatusPreparing: 1,
	ItemStatusReady:     2,
	ItemStatusDelivered: 3,
}

// ValidItemStatus indica si s es un estado de ítem conocido.
func ValidItemStatus(s string) bool {
	_, ok := itemStatusRank[s]
	return ok
}

// CanAdvanceItem indica si un ítem puede pasar de from a to (igual o posterior).
func CanAdvanceItem(from, to string) bool {
	f, okFrom := itemStatusRank[from]
	t, okTo := itemStatusRank[to]
	return okFrom && okTo && t >= f
}

// OrderItem línea de un pedido. StockItemID se congela al crear para restaurar el stock al cancelar
// aunque el plato cambie después en el catálogo.
type OrderItem struct {
	ID          string
	OrderID     string
	DishID      string
	DishName    string
	StockItemID string
	Quantity    int
	Notes       string
	Status      string
	UnitPrice   decimal.Decimal
}

// Order pedido de una mesa.
type Order struct {
	ID           string
	TableID      string
	CustomerName string
	Items        []OrderItem
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// KitchenStatus estado agregado de cocina; se deriva siempre, nunca se guarda.
// PRONTO si todos los ítems están PRONTO o ENTREGUE; PREPARANDO si alguno está PREPARANDO; si no PENDENTE.
func (o *Order) KitchenStatus() string {
	allReady := true
	anyPreparing := false
	for _, it := range o.Items {
		if it.Status != ItemStatusReady && it.Status != ItemStatusDelivered {
			allReady = false
		}
		if it.Status == ItemStatusPreparing {
			anyPreparing = true
		}
	}
	switch {
	case allReady:
		return ItemStatusReady
	case anyPreparing:
		return ItemStatusPreparing
	default:
		return ItemStatusPending
	}
}

// Total suma precio unitario por cantidad de todas las líneas.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// IsCancelled indica si el pedido ya fue cancelado.
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}
