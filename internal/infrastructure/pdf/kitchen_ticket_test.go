package pdf_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/internal/infrastructure/pdf"
)

func TestRenderTicket_GeneraPDF(t *testing.T) {
	order := &entity.Order{
		ID:           "9f1c2d3e-0000-0000-0000-000000000001",
		TableID:      "12",
		CustomerName: "Ana",
		Status:       entity.OrderStatusCreated,
		CreatedAt:    time.Date(2026, 3, 1, 20, 15, 0, 0, time.UTC),
		Items: []entity.OrderItem{
			{DishName: "Muamba de Galinha", Quantity: 2, Status: entity.ItemStatusPending, UnitPrice: decimal.NewFromInt(3500), Notes: "sem picante"},
			{DishName: "Sumo de Múcua", Quantity: 1, Status: entity.ItemStatusPreparing, UnitPrice: decimal.NewFromInt(100)},
		},
	}

	out, err := pdf.NewKitchenTicketRenderer().RenderTicket(order, "Casa Kiami")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida debe ser un PDF")
}

func TestRenderTicket_PedidoNulo(t *testing.T) {
	_, err := pdf.NewKitchenTicketRenderer().RenderTicket(nil, "")
	assert.Error(t, err)
}
