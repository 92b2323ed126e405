package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-kasir/internal/catalog"
	"github.com/noah-isme/backend-kasir/internal/ledger"
)

func product(id string, sellPrice int64) catalog.Product {
	return catalog.Product{ID: id, Name: "Product " + id, SellPrice: sellPrice, CostPrice: sellPrice / 2}
}

func TestAddOrMergeIncrementsExistingLine(t *testing.T) {
	l := ledger.New()
	require.NoError(t, l.AddOrMerge(product("p1", 5000), 2))
	require.NoError(t, l.AddOrMerge(product("p1", 5000), 3))

	line, ok := l.Line("p1")
	require.True(t, ok)
	require.Equal(t, 5, line.Qty)
	require.Equal(t, int64(5000), line.UnitPrice)
	require.Equal(t, 1, l.Len())
}

func TestAddOrMergeRejectsNonPositiveQty(t *testing.T) {
	l := ledger.New()
	require.ErrorIs(t, l.AddOrMerge(product("p1", 5000), 0), ledger.ErrInvalidQuantity)
	require.ErrorIs(t, l.AddOrMerge(product("p1", 5000), -3), ledger.ErrInvalidQuantity)
	require.Equal(t, 0, l.Len())
}

func TestMergeKeepsFirstEffectivePrice(t *testing.T) {
	l := ledger.New()
	require.NoError(t, l.AddOrMergeAt(product("p1", 5000), 1, 4500))
	require.NoError(t, l.AddOrMergeAt(product("p1", 5000), 1, 9999))

	line, _ := l.Line("p1")
	require.Equal(t, 2, line.Qty)
	require.Equal(t, int64(4500), line.UnitPrice)
}

func TestSetQuantity(t *testing.T) {
	l := ledger.New()
	require.NoError(t, l.AddOrMerge(product("p1", 5000), 2))
	require.NoError(t, l.AddOrMerge(product("p2", 3000), 1))

	l.SetQuantity("p1", 7)
	line, _ := l.Line("p1")
	require.Equal(t, 7, line.Qty)

	// position preserved
	items := l.Items()
	require.Equal(t, "p1", items[0].Product.ID)

	// zero removes
	l.SetQuantity("p1", 0)
	_, ok := l.Line("p1")
	require.False(t, ok)
	require.Equal(t, 1, l.Len())

	// absent line is a no-op
	l.SetQuantity("ghost", 3)
	require.Equal(t, 1, l.Len())
}

func TestRemoveReindexes(t *testing.T) {
	l := ledger.New()
	require.NoError(t, l.AddOrMerge(product("p1", 1000), 1))
	require.NoError(t, l.AddOrMerge(product("p2", 2000), 1))
	require.NoError(t, l.AddOrMerge(product("p3", 3000), 1))

	l.Remove("p2")
	l.Remove("p2") // idempotent

	items := l.Items()
	require.Len(t, items, 2)
	require.Equal(t, "p1", items[0].Product.ID)
	require.Equal(t, "p3", items[1].Product.ID)

	// later lines still addressable after reindex
	l.SetQuantity("p3", 9)
	line, ok := l.Line("p3")
	require.True(t, ok)
	require.Equal(t, 9, line.Qty)
}

func TestItemsAreDetachedCopies(t *testing.T) {
	l := ledger.New()
	require.NoError(t, l.AddOrMerge(product("p1", 1000), 1))

	items := l.Items()
	items[0].Qty = 99

	line, _ := l.Line("p1")
	require.Equal(t, 1, line.Qty)
}

func TestClear(t *testing.T) {
	l := ledger.New()
	require.NoError(t, l.AddOrMerge(product("p1", 1000), 1))
	l.Clear()
	require.Equal(t, 0, l.Len())
	require.NoError(t, l.AddOrMerge(product("p1", 1000), 2))
	require.Equal(t, 1, l.Len())
}

func TestLineSubtotal(t *testing.T) {
	line := ledger.Line{Product: product("p1", 5000), Qty: 3, UnitPrice: 4500}
	require.Equal(t, int64(13500), line.Subtotal())
}
