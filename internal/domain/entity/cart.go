package entity

import "github.com/shopspring/decimal"

// CartItem línea del carrito. Quantity es la cantidad confirmada por el servidor;
// PendingQuantity es el valor optimista que se muestra mientras la edición no se confirma.
type CartItem struct {
	ID              int64
	Product         Product
	Quantity        int
	PendingQuantity *int
	Updating        bool
	Deleting        bool
}

// DisplayQuantity cantidad visible: la optimista si existe, si no la confirmada.
func (i CartItem) DisplayQuantity() int {
	if i.PendingQuantity != nil {
		return *i.PendingQuantity
	}
	return i.Quantity
}

// Subtotal precio unitario × cantidad confirmada.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart carrito del usuario. El orden de Items lo define el servidor y se preserva.
type Cart struct {
	ID     int64
	UserID string
	Items  []CartItem
	Total  decimal.Decimal
}

// ComputeTotal suma precio × cantidad sobre los ítems.
func ComputeTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Recalculate recalcula Total desde los ítems y lo devuelve.
func (c *Cart) Recalculate() decimal.Decimal {
	c.Total = ComputeTotal(c.Items)
	return c.Total
}

// IndexOf posición del ítem con ese ID, o -1.
func (c *Cart) IndexOf(itemID int64) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// Count número de unidades del carrito (cantidad confirmada).
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Clone copia profunda: los view models nunca comparten la misma lista.
func (c Cart) Clone() Cart {
	out := c
	out.Items = make([]CartItem, len(c.Items))
	for i, it := range c.Items {
		if it.PendingQuantity != nil {
			q := *it.PendingQuantity
			it.PendingQuantity = &q
		}
		out.Items[i] = it
	}
	return out
}

// ClampQuantity acota la cantidad pedida a [1, stock]. Con stock desconocido solo aplica el mínimo;
// con stock 0 el resultado es 1 (la validación de checkout se encarga de retirarlo).
func ClampQuantity(requested, stock int) int {
	q := requested
	if stock != UnknownStock && q > stock {
		q = stock
	}
	if q < 1 {
		q = 1
	}
	return q
}
