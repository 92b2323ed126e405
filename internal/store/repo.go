package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the store row does not exist.
var ErrNotFound = errors.New("store not found")

// Repo reads store settings from Postgres.
type Repo struct {
	Pool *pgxpool.Pool
}

// NewRepo constructs a Repo.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

// PaymentConfig loads the current payment settings snapshot for the store.
// Callers re-resolve available channels from a fresh snapshot; payload cache
// keys embed the source field value, so a changed number misses the cache
// without explicit invalidation.
func (r *Repo) PaymentConfig(ctx context.Context, storeID string) (PaymentConfig, error) {
	if r == nil || r.Pool == nil {
		return PaymentConfig{}, errors.New("store: repo not configured")
	}
	var cfg PaymentConfig
	err := r.Pool.QueryRow(ctx, `
		SELECT coalesce(bank_name, ''),
		       coalesce(bank_account_number, ''),
		       coalesce(bank_account_holder, ''),
		       coalesce(gopay_number, ''),
		       coalesce(ovo_number, ''),
		       coalesce(dana_number, ''),
		       coalesce(shopeepay_number, '')
		FROM stores
		WHERE id = $1`, storeID).Scan(
		&cfg.BankName,
		&cfg.BankAccountNumber,
		&cfg.BankAccountHolder,
		&cfg.GopayNumber,
		&cfg.OvoNumber,
		&cfg.DanaNumber,
		&cfg.ShopeepayNumber,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PaymentConfig{}, ErrNotFound
		}
		return PaymentConfig{}, fmt.Errorf("store: load payment config: %w", err)
	}
	return cfg, nil
}
