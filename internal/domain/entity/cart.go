package entity

import "github.com/shopspring/decimal"

// CartEntry línea del carrito. Nunca existe con Quantity 0: se elimina.
type CartEntry struct {
	Quantity int
	Notes    string
}

// Cart carrito de una mesa indexado por DishID.
type Cart struct {
	entries map[string]CartEntry
	order   []string // orden de inserción para construir el pedido de forma estable
}

// NewCart crea un carrito vacío.
func NewCart() *Cart {
	return &Cart{entries: make(map[string]CartEntry)}
}

// Add suma delta (positivo o negativo) a la cantidad del plato; a 0 o menos la línea desaparece.
func (c *Cart) Add(dishID string, delta int) {
	current := c.entries[dishID]
	qty := current.Quantity + delta
	if qty <= 0 {
		c.remove(dishID)
		return
	}
	if _, exists := c.entries[dishID]; !exists {
		c.order = append(c.order, dishID)
	}
	current.Quantity = qty
	c.entries[dishID] = current
}

// SetNotes actualiza las notas de una línea existente; no crea líneas.
func (c *Cart) SetNotes(dishID, notes string) {
	entry, ok := c.entries[dishID]
	if !ok {
		return
	}
	entry.Notes = notes
	c.entries[dishID] = entry
}

// Get devuelve la línea del plato.
func (c *Cart) Get(dishID string) (CartEntry, bool) {
	e, ok := c.entries[dishID]
	return e, ok
}

// Lines devuelve los DishID en orden de inserción.
func (c *Cart) Lines() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Count total de unidades en el carrito.
func (c *Cart) Count() int {
	n := 0
	for _, e := range c.entries {
		n += e.Quantity
	}
	return n
}

// Total suma precio*cantidad con los precios de lookup; platos desconocidos valen 0.
func (c *Cart) Total(lookup func(dishID string) (Dish, bool)) decimal.Decimal {
	total := decimal.Zero
	for id, e := range c.entries {
		if d, ok := lookup(id); ok {
			total = total.Add(d.Price.Mul(decimal.NewFromInt(int64(e.Quantity))))
		}
	}
	return total
}

// Clear vacía el carrito tras enviar el pedido.
func (c *Cart) Clear() {
	c.entries = make(map[string]CartEntry)
	c.order = nil
}

func (c *Cart) remove(dishID string) {
	if _, ok := c.entries[dishID]; !ok {
		return
	}
	delete(c.entries, dishID)
	for i, id := range c.order {
		if id == dishID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
