package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuSummaryResponse resumen del snapshot publicado (GET /api/menu).
type MenuSummaryResponse struct {
	Version         uint64         `json:"version"`
	Source          string         `json:"source"` // remote, feed, local
	RestaurantName  string         `json:"restaurant_name,omitempty"`
	RestaurantLogo  string         `json:"restaurant_logo,omitempty"`
	TotalDishes     int            `json:"total_dishes"`
	TotalCategories int            `json:"total_categories"`
	Counts          map[string]int `json:"counts"` // incluye TODOS
	Unmatched       int            `json:"unmatched"`
	BuiltAt         time.Time      `json:"built_at"`
}

// CategoryResponse categoría saneada con su conteo directo.
type CategoryResponse struct {
	ID         string `json:"id"`
	OriginalID string `json:"original_id,omitempty"`
	Name       string `json:"name"`
	ParentID   string `json:"parent_id,omitempty"`
	Icon       string `json:"icon,omitempty"`
	SortOrder  int    `json:"sort_order"`
	Modified   bool   `json:"modified,omitempty"`
	Synthetic  bool   `json:"synthetic,omitempty"`
	Count      int    `json:"count"`
}

// CategoryListResponse respuesta de GET /api/menu/categories.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
	All   int                `json:"all"` // conteo de TODOS
}

// CategoryNodeResponse nodo del árbol de categorías.
type CategoryNodeResponse struct {
	CategoryResponse
	AggregateCount int                    `json:"aggregate_count"`
	ShallowTotal   int                    `json:"shallow_total"`
	Children       []CategoryNodeResponse `json:"children"`
}

// DishResponse plato en la vista pública.
type DishResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description,omitempty"`
	Price              decimal.Decimal `json:"price"`
	CategoryID         string          `json:"category_id,omitempty"`
	ResolvedCategoryID string          `json:"resolved_category_id,omitempty"`
	Image              string          `json:"image,omitempty"`
	Available          bool            `json:"available"`
	TaxCode            string          `json:"tax_code"`
	TaxPercentage      decimal.Decimal `json:"tax_percentage"`
}

// DishListResponse respuesta de GET /api/menu/dishes.
type DishListResponse struct {
	Category string         `json:"category"`
	Search   string         `json:"search,omitempty"`
	Items    []DishResponse `json:"items"`
	Total    int            `json:"total"`
	Page     *PageResponse  `json:"page,omitempty"`
}

// SyncStatusResponse estado de la sincronización con el backend remoto (GET /api/menu/status).
type SyncStatusResponse struct {
	State         string     `json:"state"` // idle, retrying, failed, ok
	Retries       int        `json:"retries"`
	Source        string     `json:"source,omitempty"`
	Version       uint64     `json:"version"`
	LastError     string     `json:"last_error,omitempty"`
	LastErrorKind string     `json:"last_error_kind,omitempty"`
	LastSuccessAt *time.Time `json:"last_success_at,omitempty"`
	LastErrorAt   *time.Time `json:"last_error_at,omitempty"`
}
