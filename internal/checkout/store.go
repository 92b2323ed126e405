package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionStore persists finalized transactions and answers identifier
// queries for the per-day counter and sales reports.
type TransactionStore interface {
	Append(ctx context.Context, tx Transaction) error
	InvoiceIDs(ctx context.Context, prefix string, day time.Time) ([]string, error)
	ListByDay(ctx context.Context, prefix string, day time.Time) ([]Transaction, error)
}

// PGStore is the Postgres-backed TransactionStore.
type PGStore struct {
	Pool *pgxpool.Pool
}

const uniqueViolation = "23505"

// Append stores the transaction and its items in one database transaction.
// A unique violation on the invoice id surfaces as ErrDuplicateID; every
// other failure as ErrPersistence.
func (s PGStore) Append(ctx context.Context, t Transaction) error {
	if s.Pool == nil {
		return fmt.Errorf("checkout: pool not configured: %w", ErrPersistence)
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin: %v: %w", err, ErrPersistence)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions
			(id, invoice_id, subtotal, discount, total, profit, payment_method, payment_payload, manual, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.InvoiceID, t.Subtotal, t.Discount, t.Total, t.Profit,
		t.PaymentMethod, t.PaymentPayload, t.Manual, t.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("invoice id %s: %w: %w", t.InvoiceID, ErrDuplicateID, ErrPersistence)
		}
		return fmt.Errorf("insert transaction: %v: %w", err, ErrPersistence)
	}

	for _, item := range t.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO transaction_items
				(transaction_id, product_id, name, qty, unit_price, cost_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			t.ID, item.ProductID, item.Name, item.Qty, item.UnitPrice, item.CostPrice, item.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("insert transaction item: %v: %w", err, ErrPersistence)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %v: %w", err, ErrPersistence)
	}
	return nil
}

// InvoiceIDs returns the identifiers issued for the prefix on the given day,
// oldest first. This is the authoritative input for the counting generator.
func (s PGStore) InvoiceIDs(ctx context.Context, prefix string, day time.Time) ([]string, error) {
	if s.Pool == nil {
		return nil, errors.New("checkout: pool not configured")
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT invoice_id FROM transactions
		WHERE invoice_id LIKE $1 || '-%'
		  AND created_at >= $2 AND created_at < $2 + INTERVAL '1 day'
		ORDER BY created_at`,
		prefix, startOfDay(day),
	)
	if err != nil {
		return nil, fmt.Errorf("query invoice ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan invoice id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListByDay returns the transactions for the prefix on the given day without
// their items, newest first. An empty prefix matches all transactions.
func (s PGStore) ListByDay(ctx context.Context, prefix string, day time.Time) ([]Transaction, error) {
	if s.Pool == nil {
		return nil, errors.New("checkout: pool not configured")
	}
	pattern := "%"
	if prefix != "" {
		pattern = prefix + "-%"
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, invoice_id, subtotal, discount, total, profit, payment_method, payment_payload, manual, created_at
		FROM transactions
		WHERE invoice_id LIKE $1
		  AND created_at >= $2 AND created_at < $2 + INTERVAL '1 day'
		ORDER BY created_at DESC`,
		pattern, startOfDay(day),
	)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		err := rows.Scan(&t.ID, &t.InvoiceID, &t.Subtotal, &t.Discount, &t.Total,
			&t.Profit, &t.PaymentMethod, &t.PaymentPayload, &t.Manual, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
