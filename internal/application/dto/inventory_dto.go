package dto

// ReplenishmentSuggestionDTO sugerencia de reposición para una entrada del libro de stock
// que está en o bajo su umbral mínimo.
type ReplenishmentSuggestionDTO struct {
	StockItemID    string   `json:"stock_item_id"`
	Name           string   `json:"name"`
	CurrentStock   int      `json:"current_stock"`
	MinThreshold   int      `json:"min_threshold"`
	IdealStock     int      `json:"ideal_stock"`      // MinThreshold * 1.5, redondeado hacia arriba
	SuggestedQty   int      `json:"suggested_qty"`    // IdealStock - CurrentStock
	UnitsConsumed  int      `json:"units_consumed"`   // consumo neto en la ventana
	OrdersInWindow int      `json:"orders_in_window"` // pedidos que tocaron la entrada
	Dishes         []string `json:"dishes,omitempty"` // platos del menú enlazados
	WindowDays     int      `json:"window_days"`
	Priority       int      `json:"priority"` // 1 = más urgente
}

// ReplenishmentListResponse respuesta de GET /api/stock/replenishment.
type ReplenishmentListResponse struct {
	Items []ReplenishmentSuggestionDTO `json:"items"`
	Total int                          `json:"total"`
}
