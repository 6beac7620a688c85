package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddWithQuantityAccumulates(t *testing.T) {
	c := New()
	c.AddWithQuantity("Touca", 35, "img-a", 2)
	c.AddWithQuantity("Touca", 35, "img-a", 3)

	lines := c.Lines()
	require.Len(t, lines, 1, "same name must merge into one line")
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, 5, c.Count())
	assert.Equal(t, "175.00", c.Total().StringFixed(2))
}

func TestAddWithQuantityDistinctNames(t *testing.T) {
	c := New()
	c.AddWithQuantity("Touca", 35, "a", 1)
	c.AddWithQuantity("Bolsa", 80, "b", 1)
	assert.Len(t, c.Lines(), 2)
	assert.Equal(t, "115.00", c.Total().StringFixed(2))
}

func TestChangeQuantityRemovesAtZero(t *testing.T) {
	c := New()
	c.AddWithQuantity("Touca", 35, "a", 2)

	assert.True(t, c.ChangeQuantity(0, -1))
	assert.Equal(t, 1, c.Lines()[0].Quantity)

	assert.True(t, c.ChangeQuantity(0, -1))
	assert.Empty(t, c.Lines(), "line must go when quantity reaches zero")

	assert.False(t, c.ChangeQuantity(0, 1), "index out of range after removal")
}

func TestChangeQuantityRemovesBelowZero(t *testing.T) {
	c := New()
	c.AddWithQuantity("Touca", 35, "a", 2)
	assert.True(t, c.ChangeQuantity(0, -5))
	assert.Empty(t, c.Lines())
}

func TestRemoveLine(t *testing.T) {
	c := New()
	c.AddWithQuantity("Touca", 35, "a", 1)
	c.AddWithQuantity("Bolsa", 80, "b", 1)

	removed, ok := c.RemoveLine(0)
	require.True(t, ok)
	assert.Equal(t, "Touca", removed.Name)
	require.Len(t, c.Lines(), 1)
	assert.Equal(t, "Bolsa", c.Lines()[0].Name)

	_, ok = c.RemoveLine(5)
	assert.False(t, ok)
}

func TestRemoveByName(t *testing.T) {
	c := New()
	c.AddWithQuantity("Touca", 35, "a", 1)
	c.AddWithQuantity("Bolsa", 80, "b", 1)

	assert.True(t, c.RemoveByName("Touca"))
	assert.False(t, c.RemoveByName("Touca"))
	assert.Len(t, c.Lines(), 1)

	assert.Equal(t, 1, c.RemoveAllByName("Bolsa"))
	assert.True(t, c.Empty())
	assert.Equal(t, "0.00", c.Total().StringFixed(2))
}

func TestTotalTracksEveryMutation(t *testing.T) {
	c := New()
	c.AddWithQuantity("Touca", 19.9, "a", 3)
	c.AddWithQuantity("Bolsa", 0.1, "b", 1)
	assert.Equal(t, "59.80", c.Total().StringFixed(2))

	c.ChangeQuantity(0, -1)
	assert.Equal(t, "39.90", c.Total().StringFixed(2))
}

func TestOrderMessage(t *testing.T) {
	c := New()
	c.AddWithQuantity("Touca de Lã", 10.00, "a", 2)

	msg, err := c.OrderMessage()
	require.NoError(t, err)
	assert.Contains(t, msg, "2x Touca de Lã")
	assert.Contains(t, msg, "R$ 10.00 cada")
	assert.Contains(t, msg, "Subtotal: R$ 20.00")
	assert.Contains(t, msg, "*Total: R$ 20.00*")
}

func TestOrderMessageEmptyCart(t *testing.T) {
	_, err := New().OrderMessage()
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "R$ 35.00", FormatPrice(35))
	assert.Equal(t, "R$ 19.90", FormatPrice(19.9))
}
