package entity

import "github.com/shopspring/decimal"

// Dish plato del menú en forma canónica.
// CategoryID es texto libre en el origen: puede ser un id, un slug o incluso el nombre de la categoría.
type Dish struct {
	ID            string
	Name          string
	Description   string
	Price         decimal.Decimal // nunca negativo
	CategoryID    string
	CategoryName  string // etiqueta explícita opcional
	Image         string
	Available     bool
	StockItemID   string // vacío = sin vínculo con el stock (ilimitado)
	TaxCode       string
	TaxPercentage decimal.Decimal
}

// HasStockLink indica si el plato descuenta de una entrada del stock.
func (d Dish) HasStockLink() bool {
	return d.StockItemID != ""
}
