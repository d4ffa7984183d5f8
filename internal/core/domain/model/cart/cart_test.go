package cart_test

import (
	"testing"

	"marketplace/internal/core/domain/model/cart"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(t *testing.T, name string, qty int, provider kernel.UUID) order.Item {
	t.Helper()
	it, err := order.NewItem(name, qty, decimal.NewFromInt(4), provider)
	require.NoError(t, err)
	return it
}

func TestCart_AddItem(t *testing.T) {
	p1, p2 := kernel.NewUUID(), kernel.NewUUID()
	c, err := cart.NewCart(kernel.NewUUID())
	require.NoError(t, err)
	require.True(t, c.IsEmpty())

	require.NoError(t, c.AddItem(item(t, "Cetirizine", 1, p1)))
	require.NoError(t, c.AddItem(item(t, "Saline Spray", 1, p2)))
	require.NoError(t, c.AddItem(item(t, "cetirizine ", 2, p1)))
	require.NoError(t, c.AddItem(item(t, "Cetirizine", 1, p2)))

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "Cetirizine", items[0].ProductName())
	assert.Equal(t, 3, items[0].Quantity())
	assert.True(t, items[0].ProviderID().IsEqual(p1))
	assert.True(t, items[2].ProviderID().IsEqual(p2))

	require.Error(t, c.AddItem(order.Item{}))
}

func TestCart_Consume(t *testing.T) {
	c, err := cart.RestoreCart(kernel.NewUUID(), []order.Item{item(t, "Zinc", 1, kernel.NewUUID())})
	require.NoError(t, err)

	consumed := c.Consume()

	assert.Len(t, consumed, 1)
	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.Consume())
}

func TestRestoreCart_Validation(t *testing.T) {
	_, err := cart.RestoreCart(kernel.UUID{}, nil)
	require.Error(t, err)

	_, err = cart.RestoreCart(kernel.NewUUID(), []order.Item{{}})
	require.Error(t, err)

	var c *cart.Cart
	require.ErrorIs(t, c.Validate(), cart.ErrCartIsNotConstructed)
}
