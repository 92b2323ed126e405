package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id, name, coalesce(code, ''), coalesce(barcode, ''), sell_price, cost_price, stock`

// Repo reads products from Postgres.
type Repo struct {
	Pool *pgxpool.Pool
}

// NewRepo constructs a Repo.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

// Search returns products whose name, code, or barcode contains the query,
// case-insensitively, ordered by name.
func (r *Repo) Search(ctx context.Context, query string, limit int) ([]Product, error) {
	if r == nil || r.Pool == nil {
		return nil, errors.New("catalog: repo not configured")
	}
	pattern := "%" + escapeLike(query) + "%"
	rows, err := r.Pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE name ILIKE $1 OR code ILIKE $1 OR barcode ILIKE $1
		ORDER BY name
		LIMIT $2`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: search products: %w", err)
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.Barcode, &p.SellPrice, &p.CostPrice, &p.Stock); err != nil {
			return nil, fmt.Errorf("catalog: scan product: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// FindByCodeOrBarcode resolves a scanned or typed code to a single product.
func (r *Repo) FindByCodeOrBarcode(ctx context.Context, text string) (Product, error) {
	if r == nil || r.Pool == nil {
		return Product{}, errors.New("catalog: repo not configured")
	}
	var p Product
	err := r.Pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE code = $1 OR barcode = $1
		LIMIT 1`, text).Scan(&p.ID, &p.Name, &p.Code, &p.Barcode, &p.SellPrice, &p.CostPrice, &p.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("catalog: find product by code: %w", err)
	}
	return p, nil
}

// Get loads a product by id.
func (r *Repo) Get(ctx context.Context, id string) (Product, error) {
	if r == nil || r.Pool == nil {
		return Product{}, errors.New("catalog: repo not configured")
	}
	var p Product
	err := r.Pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1`, id).Scan(&p.ID, &p.Name, &p.Code, &p.Barcode, &p.SellPrice, &p.CostPrice, &p.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("catalog: get product: %w", err)
	}
	return p, nil
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
