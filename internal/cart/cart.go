package cart

import (
	"github.com/shopspring/decimal"
)

// Line is one cart entry. Lines are keyed by product name: adding the same
// name again accumulates the quantity instead of appending a second line.
type Line struct {
	Name     string  `json:"nome"`
	Price    float64 `json:"preco"`
	Image    string  `json:"imagem"`
	Quantity int     `json:"quantidade"`
}

// Subtotal is price * quantity for the line.
func (l Line) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the transient order state for one storefront session. It is not
// persisted and has a single writer (the session's request handlers), so it
// carries no locking of its own.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// AddWithQuantity merges qty into an existing line with the same name, or
// appends a new line.
func (c *Cart) AddWithQuantity(name string, price float64, image string, qty int) {
	if qty < 1 {
		qty = 1
	}
	for i := range c.lines {
		if c.lines[i].Name == name {
			c.lines[i].Quantity += qty
			return
		}
	}
	c.lines = append(c.lines, Line{Name: name, Price: price, Image: image, Quantity: qty})
}

// ChangeQuantity adds delta to the line's quantity and removes the line when
// the result drops to zero or below. Returns false for an out-of-range index.
func (c *Cart) ChangeQuantity(index, delta int) bool {
	if index < 0 || index >= len(c.lines) {
		return false
	}
	c.lines[index].Quantity += delta
	if c.lines[index].Quantity <= 0 {
		c.lines = append(c.lines[:index], c.lines[index+1:]...)
	}
	return true
}

// RemoveLine deletes the line at index. Confirmation is the caller's job;
// the UI asks before invoking this.
func (c *Cart) RemoveLine(index int) (Line, bool) {
	if index < 0 || index >= len(c.lines) {
		return Line{}, false
	}
	removed := c.lines[index]
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return removed, true
}

// RemoveByName deletes the first line matching name.
func (c *Cart) RemoveByName(name string) bool {
	for i := range c.lines {
		if c.lines[i].Name == name {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAllByName deletes every line matching name and reports how many went.
func (c *Cart) RemoveAllByName(name string) int {
	kept := c.lines[:0]
	removed := 0
	for _, l := range c.lines {
		if l.Name == name {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	c.lines = kept
	return removed
}

// Lines returns a copy of the cart contents in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Count is the badge number: the sum of quantities over all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Total is the sum of price*quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	t := decimal.Zero
	for _, l := range c.lines {
		t = t.Add(l.Subtotal())
	}
	return t
}
