package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates no product matched the provided code, barcode, or id.
// A miss is recoverable: the cashier is told the item is unknown and keeps
// the session.
var ErrNotFound = errors.New("product not found")

// Source abstracts product retrieval so handlers and the settlement engine
// depend on the lookup contract only.
type Source interface {
	Search(ctx context.Context, query string, limit int) ([]Product, error)
	FindByCodeOrBarcode(ctx context.Context, text string) (Product, error)
	Get(ctx context.Context, id string) (Product, error)
}

// Service orchestrates product lookups with an optional Redis cache in front
// of the repository.
type Service struct {
	source       Source
	cache        *Cache
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Source       Source
	Cache        *Cache
	DefaultLimit int
	MaxLimit     int
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Source == nil {
		return nil, errors.New("catalog: source is required")
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 10
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 50
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Service{
		source:       cfg.Source,
		cache:        cfg.Cache,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// Search performs a case-insensitive substring match over name, code, and
// barcode. Empty queries return no results rather than the whole catalog.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Product, error) {
	if s == nil || s.source == nil {
		return nil, errors.New("catalog: service not configured")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit < 1 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	key := SearchKey(query, limit)
	if cached, ok, err := s.cache.GetProducts(ctx, key); err == nil && ok {
		return cached, nil
	}
	products, err := s.source.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetProducts(ctx, key, products)
	return products, nil
}

// Resolve turns an opaque scanned or typed code into a product. The scanner
// delivers plain text; anything it produced is treated as a candidate code.
func (s *Service) Resolve(ctx context.Context, text string) (Product, error) {
	if s == nil || s.source == nil {
		return Product{}, errors.New("catalog: service not configured")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Product{}, ErrNotFound
	}
	product, err := s.source.FindByCodeOrBarcode(ctx, text)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("catalog: resolve %q: %w", text, err)
	}
	return product, nil
}

// Get loads a product by id.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	if s == nil || s.source == nil {
		return Product{}, errors.New("catalog: service not configured")
	}
	return s.source.Get(ctx, id)
}
