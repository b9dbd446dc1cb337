package entity

import "time"

// DefaultMinThreshold umbral mínimo cuando la entrada no define uno.
const DefaultMinThreshold = 5

// StockItem entrada del libro de stock enlazada opcionalmente desde un plato.
// Quantity puede quedar negativa solo de forma transitoria; la cancelación la corrige.
type StockItem struct {
	ID           string
	Name         string
	Quantity     int
	MinThreshold int
	UpdatedAt    time.Time
}

// BelowThreshold indica si la entrada necesita reposición.
func (s *StockItem) BelowThreshold() bool {
	return s.Quantity <= s.MinThreshold
}
