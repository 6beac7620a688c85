package cart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyCart blocks checkout when there is nothing to order.
var ErrEmptyCart = errors.New("cart: carrinho vazio")

// FormatPrice renders a value the way the storefront shows money.
func FormatPrice(v float64) string {
	return "R$ " + decimal.NewFromFloat(v).StringFixed(2)
}

// OrderMessage builds the multi-line WhatsApp order summary: one block per
// line (quantity, name, unit price, subtotal) plus the grand total.
func (c *Cart) OrderMessage() (string, error) {
	if c.Empty() {
		return "", ErrEmptyCart
	}
	var b strings.Builder
	b.WriteString("🛍️ *Olá! Gostaria de fazer o seguinte pedido:*\n\n")
	total := decimal.Zero
	for _, l := range c.lines {
		subtotal := l.Subtotal()
		fmt.Fprintf(&b, "• %dx %s\n  💰 R$ %s cada\n  Subtotal: R$ %s\n\n",
			l.Quantity, l.Name,
			decimal.NewFromFloat(l.Price).StringFixed(2),
			subtotal.StringFixed(2))
		total = total.Add(subtotal)
	}
	fmt.Fprintf(&b, "*Total: R$ %s*", total.StringFixed(2))
	return b.String(), nil
}
