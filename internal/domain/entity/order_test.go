package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/menu-engine/internal/domain/entity"
)

func TestOrder_KitchenStatus(t *testing.T) {
	cases := []struct {
		name   string
		states []string
		want   string
	}{
		{"todos listos", []string{entity.ItemStatusReady, entity.ItemStatusDelivered}, entity.ItemStatusReady},
		{"alguno preparando", []string{entity.ItemStatusReady, entity.ItemStatusPreparing}, entity.ItemStatusPreparing},
		{"pendientes", []string{entity.ItemStatusPending, entity.ItemStatusReady}, entity.ItemStatusPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := &entity.Order{}
			for _, s := range tc.states {
				o.Items = append(o.Items, entity.OrderItem{Status: s})
			}
			assert.Equal(t, tc.want, o.KitchenStatus())
		})
	}
}

func TestCanAdvanceItem(t *testing.T) {
	assert.True(t, entity.CanAdvanceItem(entity.ItemStatusPending, entity.ItemStatusPreparing))
	assert.True(t, entity.CanAdvanceItem(entity.ItemStatusPreparing, entity.ItemStatusPreparing))
	assert.False(t, entity.CanAdvanceItem(entity.ItemStatusReady, entity.ItemStatusPending))
	assert.False(t, entity.CanAdvanceItem(entity.ItemStatusPending, "COZIDO"))
	assert.False(t, entity.ValidItemStatus("COZIDO"))
}

func TestOrder_Total(t *testing.T) {
	o := &entity.Order{Items: []entity.OrderItem{
		{Quantity: 2, UnitPrice: decimal.NewFromInt(500)},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("99.90")},
	}}
	assert.True(t, o.Total().Equal(decimal.RequireFromString("1099.90")))
	assert.False(t, o.IsCancelled())
}
