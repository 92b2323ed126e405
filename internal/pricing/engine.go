package pricing

import "github.com/noah-isme/backend-kasir/internal/ledger"

// Money represents a monetary value stored in minor units.
type Money = int64

// Item describes a line item used for pricing calculation. UnitPrice is the
// effective price charged; SellPrice and CostPrice are the catalog prices
// profit is always accounted against.
type Item struct {
	Qty       int
	UnitPrice Money
	SellPrice Money
	CostPrice Money
}

// Summary aggregates computed pricing components for one invoice session.
type Summary struct {
	Subtotal Money `json:"subtotal"`
	Discount Money `json:"discount"`
	Total    Money `json:"total"`
	Profit   Money `json:"profit"`
}

// Compute calculates session totals given the provided inputs. The discount
// applies to the subtotal as a whole and is deliberately not clamped: a
// discount larger than the subtotal yields a negative total, which is
// passed through unchanged.
func Compute(items []Item, discount Money) Summary {
	var subtotal, profit Money
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		subtotal += Money(it.Qty) * it.UnitPrice
		profit += Money(it.Qty) * (it.SellPrice - it.CostPrice)
	}
	return Summary{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal - discount,
		Profit:   profit,
	}
}

// ItemsFromLines converts ledger lines into pricing items.
func ItemsFromLines(lines []ledger.Line) []Item {
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, Item{
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			SellPrice: line.Product.SellPrice,
			CostPrice: line.Product.CostPrice,
		})
	}
	return items
}
