// Package ledger holds the in-progress cart for a single invoice session.
// A ledger lives in memory only: it is created empty when a session opens and
// discarded once a transaction is finalized or the session is abandoned.
package ledger

import (
	"errors"

	"github.com/noah-isme/backend-kasir/internal/catalog"
)

// ErrInvalidQuantity is returned when an add is attempted with a non-positive
// quantity.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// Line is one cart entry. UnitPrice is the effective per-unit price snapshot
// taken when the line was first added; it may diverge from the catalog sell
// price and is never updated by later merges.
type Line struct {
	Product   catalog.Product `json:"product"`
	Qty       int             `json:"qty"`
	UnitPrice int64           `json:"unitPrice"`
}

// Subtotal returns the line amount at the effective price.
func (l Line) Subtotal() int64 {
	return int64(l.Qty) * l.UnitPrice
}

// Ledger is an insertion-ordered collection of lines keyed by product id,
// with at most one line per product. It performs no I/O and expects a single
// mutating caller; the session layer serialises access.
type Ledger struct {
	lines []Line
	index map[string]int
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{index: make(map[string]int)}
}

// AddOrMerge adds qty units of the product at its catalog sell price. If a
// line for the product already exists its quantity is incremented and the
// effective price is left untouched: the first add wins.
func (g *Ledger) AddOrMerge(product catalog.Product, qty int) error {
	return g.AddOrMergeAt(product, qty, product.SellPrice)
}

// AddOrMergeAt behaves like AddOrMerge but lets the caller override the
// effective unit price for a newly created line. The override is ignored on
// merge into an existing line.
func (g *Ledger) AddOrMergeAt(product catalog.Product, qty int, unitPrice int64) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if pos, ok := g.index[product.ID]; ok {
		g.lines[pos].Qty += qty
		return nil
	}
	g.index[product.ID] = len(g.lines)
	g.lines = append(g.lines, Line{Product: product, Qty: qty, UnitPrice: unitPrice})
	return nil
}

// SetQuantity overwrites the quantity of the line for productID, preserving
// its position. A quantity of zero or less removes the line; setting the
// quantity of an absent line is a no-op.
func (g *Ledger) SetQuantity(productID string, qty int) {
	pos, ok := g.index[productID]
	if !ok {
		return
	}
	if qty <= 0 {
		g.removeAt(pos)
		return
	}
	g.lines[pos].Qty = qty
}

// Remove deletes the line for productID. Removing an absent line is a no-op.
func (g *Ledger) Remove(productID string) {
	if pos, ok := g.index[productID]; ok {
		g.removeAt(pos)
	}
}

// Clear empties the ledger. Used after a transaction is finalized and acked.
func (g *Ledger) Clear() {
	g.lines = nil
	g.index = make(map[string]int)
}

// Items returns detached copies of the lines in insertion order. Mutating the
// result does not affect the ledger.
func (g *Ledger) Items() []Line {
	out := make([]Line, len(g.lines))
	copy(out, g.lines)
	return out
}

// Line returns the line for productID, if present.
func (g *Ledger) Line(productID string) (Line, bool) {
	pos, ok := g.index[productID]
	if !ok {
		return Line{}, false
	}
	return g.lines[pos], true
}

// Len reports the number of lines.
func (g *Ledger) Len() int {
	return len(g.lines)
}

func (g *Ledger) removeAt(pos int) {
	removed := g.lines[pos]
	g.lines = append(g.lines[:pos], g.lines[pos+1:]...)
	delete(g.index, removed.Product.ID)
	for i := pos; i < len(g.lines); i++ {
		g.index[g.lines[i].Product.ID] = i
	}
}
