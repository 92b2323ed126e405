// Package checkout finalizes an invoice session into an immutable, persisted
// transaction.
package checkout

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-kasir/internal/ledger"
)

// ErrPersistence indicates the transaction could not be stored. The session
// ledger must be retained so the operator can retry.
var ErrPersistence = errors.New("transaction persistence failed")

// ErrDuplicateID indicates the reserved invoice identifier already exists, a
// symptom of concurrent generation against a stale id snapshot.
var ErrDuplicateID = errors.New("duplicate invoice id")

// ErrEmptyLedger rejects finalizing a session with no lines.
var ErrEmptyLedger = errors.New("ledger is empty")

// Item is one immutable transaction line, detached from the catalog at
// finalize time.
type Item struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	UnitPrice int64  `json:"unitPrice"`
	CostPrice int64  `json:"costPrice"`
	Subtotal  int64  `json:"subtotal"`
}

// Transaction is the finalized, persisted form of a session. Amounts are the
// pricing summary at the moment of finalize; they never change afterwards.
type Transaction struct {
	ID             uuid.UUID `json:"id"`
	InvoiceID      string    `json:"invoiceId"`
	Items          []Item    `json:"items"`
	Subtotal       int64     `json:"subtotal"`
	Discount       int64     `json:"discount"`
	Total          int64     `json:"total"`
	Profit         int64     `json:"profit"`
	PaymentMethod  string    `json:"paymentMethod"`
	PaymentPayload string    `json:"paymentPayload,omitempty"`
	Manual         bool      `json:"manual"`
	CreatedAt      time.Time `json:"createdAt"`
}

func itemsFromLines(lines []ledger.Line) []Item {
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, Item{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			CostPrice: line.Product.CostPrice,
			Subtotal:  line.Subtotal(),
		})
	}
	return items
}
