package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea pedida por la mesa.
type OrderItemRequest struct {
	DishID   string `json:"dish_id"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

// ValidateStockRequest body para POST /api/orders/validate.
type ValidateStockRequest struct {
	Items []OrderItemRequest `json:"items"`
}

// ValidateStockResponse resultado de la validación de stock.
// MissingItems sigue el formato "<nombre> (Disponível: <cantidad>)".
type ValidateStockResponse struct {
	Success      bool     `json:"success"`
	MissingItems []string `json:"missing_items,omitempty"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	TableID      string             `json:"table_id"`
	CustomerName string             `json:"customer_name,omitempty"`
	Items        []OrderItemRequest `json:"items"`
}

// OrderItemResponse línea de un pedido.
type OrderItemResponse struct {
	ID        string          `json:"id"`
	DishID    string          `json:"dish_id"`
	DishName  string          `json:"dish_name"`
	Quantity  int             `json:"quantity"`
	Notes     string          `json:"notes,omitempty"`
	Status    string          `json:"status"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderResponse pedido creado.
type OrderResponse struct {
	ID           string              `json:"id"`
	TableID      string              `json:"table_id"`
	CustomerName string              `json:"customer_name,omitempty"`
	Status       string              `json:"status"`
	Total        decimal.Decimal     `json:"total"`
	Items        []OrderItemResponse `json:"items"`
	CreatedAt    time.Time           `json:"created_at"`
}

// OrderStatusResponse estado agregado de cocina (GET /api/orders/:id/status).
type OrderStatusResponse struct {
	OrderID       string              `json:"order_id"`
	Status        string              `json:"status"`
	KitchenStatus string              `json:"kitchen_status"` // PENDENTE, PREPARANDO, PRONTO
	Items         []OrderItemResponse `json:"items"`
}

// UpdateItemStatusRequest body para PATCH /api/orders/:id/items/:itemId.
type UpdateItemStatusRequest struct {
	Status string `json:"status"`
}

// StockErrorResponse rechazo de un pedido por falta de stock.
type StockErrorResponse struct {
	Code         string   `json:"code"`
	Message      string   `json:"message"`
	MissingItems []string `json:"missing_items"`
}
