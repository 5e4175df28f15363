// Package catalog resolves SKU codes to product records. The catalog is an
// external, read-only collaborator: products are fetched on demand and
// embedded by value into looks once used.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/raushankrgupta/look-builder/models"
)

// ErrNotFound is returned when no source knows the SKU code.
var ErrNotFound = errors.New("catalog: sku not found")

// Catalog looks up a single product by SKU code. Implementations must be
// safe to call concurrently for distinct codes.
type Catalog interface {
	FetchProduct(ctx context.Context, sku string) (*models.ProductRef, error)
}

// Multi tries each source in order and returns the first hit, mirroring the
// scraper-selection chain this grew out of. A source error other than
// ErrNotFound stops the chain.
type Multi []Catalog

func (m Multi) FetchProduct(ctx context.Context, sku string) (*models.ProductRef, error) {
	for _, src := range m {
		p, err := src.FetchProduct(ctx, sku)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("sku %q: %w", sku, ErrNotFound)
}
