package cart

import (
	"github.com/shopspring/decimal"

	"github.com/minaato/minaato-backend/internal/orders"
)

// Cart is an ordered list of selected product lines, one per product id.
// It belongs to a single shopper session; there is no server-side cart.
type Cart struct {
	lines []orders.CartLine
}

// New returns a cart seeded with the given lines.
func New(lines ...orders.CartLine) *Cart {
	c := &Cart{}
	for _, l := range lines {
		c.lines = append(c.lines, l)
	}
	return c
}

// Add puts one unit of the product in the cart, merging with an existing
// line for the same id.
func (c *Cart) Add(id, name string, price float64) {
	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines[i].Qty++
			return
		}
	}
	c.lines = append(c.lines, orders.CartLine{ID: id, Name: name, Price: price, Qty: 1})
}

// ChangeQty adjusts a line's quantity by delta, removing the line when the
// quantity drops to zero or below. Unknown ids are ignored.
func (c *Cart) ChangeQty(id string, delta int) {
	for i := range c.lines {
		if c.lines[i].ID != id {
			continue
		}
		c.lines[i].Qty += delta
		if c.lines[i].Qty <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return
	}
}

// Remove drops the line for the given product id.
func (c *Cart) Remove(id string) {
	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the cart's lines in insertion order.
func (c *Cart) Lines() []orders.CartLine {
	out := make([]orders.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Count is the total quantity across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Qty
	}
	return n
}

// Total sums price x qty over all lines.
func (c *Cart) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Qty))))
	}
	return sum
}

// Draft builds the checkout draft for the current cart contents.
func (c *Cart) Draft(name, phone, address, deliveryOption string) orders.OrderDraft {
	return orders.OrderDraft{
		Name:           name,
		Phone:          phone,
		Address:        address,
		DeliveryOption: deliveryOption,
		Items:          c.Lines(),
	}
}
