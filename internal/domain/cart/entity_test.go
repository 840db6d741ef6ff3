// internal/domain/cart/entity_test.go
package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLine(productID uint, name string, unitPrice float64) CartItem {
	return CartItem{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Currency:  "EGP",
	}
}

func TestAddItemAppendsNewLine(t *testing.T) {
	c := &Cart{}

	added := c.AddItem(newLine(1, "Rug", 10.00), 2)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, added.Quantity)
	assert.Equal(t, 20.00, added.TotalPrice)
	assert.Equal(t, 20.00, c.TotalAmount)
}

func TestAddItemMergesDuplicateProduct(t *testing.T) {
	c := &Cart{}
	c.AddItem(newLine(1, "Rug", 10.00), 2)

	// The second add carries a different catalog price; the stored unit
	// price must win.
	added := c.AddItem(newLine(1, "Rug", 99.99), 3)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, added.Quantity)
	assert.Equal(t, 10.00, added.UnitPrice)
	assert.Equal(t, 50.00, added.TotalPrice)
	assert.Equal(t, 50.00, c.TotalAmount)
}

func TestAddItemKeepsDistinctProductsSeparate(t *testing.T) {
	c := &Cart{}
	c.AddItem(newLine(1, "Rug", 10.00), 1)
	c.AddItem(newLine(2, "Bag", 5.50), 2)

	require.Len(t, c.Items, 2)
	assert.Equal(t, 21.00, c.TotalAmount)
}

func TestIncreaseItem(t *testing.T) {
	c := &Cart{}
	c.AddItem(newLine(1, "Rug", 10.00), 1)

	require.NoError(t, c.IncreaseItem(1))

	item := c.FindItem(1)
	require.NotNil(t, item)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 20.00, item.TotalPrice)
	assert.Equal(t, 20.00, c.TotalAmount)
}

func TestIncreaseItemUnknownProduct(t *testing.T) {
	c := &Cart{}
	c.AddItem(newLine(1, "Rug", 10.00), 1)

	err := c.IncreaseItem(42)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestDecreaseItemAboveOne(t *testing.T) {
	c := &Cart{}
	c.AddItem(newLine(1, "Rug", 10.00), 3)

	removed, err := c.DecreaseItem(1)
	require.NoError(t, err)
	assert.False(t, removed)

	item := c.FindItem(1)
	require.NotNil(t, item)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 20.00, c.TotalAmount)
}

func TestDecreaseItemAtOneRemovesLine(t *testing.T) {
	c := &Cart{}
	c.AddItem(newLine(1, "Rug", 10.00), 1)
	c.AddItem(newLine(2, "Bag", 5.00), 1)

	removed, err := c.DecreaseItem(1)
	require.NoError(t, err)
	assert.True(t, removed)

	assert.Nil(t, c.FindItem(1))
	require.Len(t, c.Items, 1)
	assert.Equal(t, 5.00, c.TotalAmount)
}

func TestDecreaseItemUnknownProduct(t *testing.T) {
	c := &Cart{}

	_, err := c.DecreaseItem(1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	c := &Cart{}
	c.AddItem(newLine(1, "Rug", 10.00), 2)
	c.AddItem(newLine(2, "Bag", 5.00), 1)

	require.NoError(t, c.RemoveItem(1))

	assert.Nil(t, c.FindItem(1))
	assert.Equal(t, 5.00, c.TotalAmount)

	assert.ErrorIs(t, c.RemoveItem(1), ErrItemNotFound)
}

func TestClearEmptiesCart(t *testing.T) {
	c := &Cart{}
	c.AddItem(newLine(1, "Rug", 10.00), 2)
	c.AddItem(newLine(2, "Bag", 5.00), 1)

	c.Clear()

	assert.Empty(t, c.Items)
	assert.Equal(t, 0.0, c.TotalAmount)

	// Clearing an already empty cart is a no-op
	c.Clear()
	assert.Empty(t, c.Items)
	assert.Equal(t, 0.0, c.TotalAmount)
}

func TestTotalTracksLinesThroughMutationSequence(t *testing.T) {
	c := &Cart{}

	c.AddItem(newLine(1, "Rug", 10.00), 1)
	assert.Equal(t, 10.00, c.TotalAmount)

	c.AddItem(newLine(1, "Rug", 10.00), 2)
	assert.Equal(t, 30.00, c.TotalAmount)

	require.NoError(t, c.IncreaseItem(1))
	assert.Equal(t, 40.00, c.TotalAmount)

	removed, err := c.DecreaseItem(1)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 30.00, c.TotalAmount)

	require.NoError(t, c.RemoveItem(1))
	assert.Equal(t, 0.0, c.TotalAmount)
	assert.Empty(t, c.Items)
}
