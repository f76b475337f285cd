package repository

import (
	"context"

	"productlist/internal/model"
	"productlist/internal/query"
)

// ProductRepository defines the interface for product data access operations.
// Store failures are returned as *model.RepositoryError.
type ProductRepository interface {
	// List returns the products matching the descriptor, honouring its sort and window.
	List(ctx context.Context, d query.Descriptor) ([]model.Product, error)

	// Count returns how many products match the descriptor's filter, ignoring its window.
	Count(ctx context.Context, d query.Descriptor) (int64, error)

	// GetByID retrieves a single product by its ID. It returns nil, nil when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create assigns an ID and creation time to p and persists it.
	Create(ctx context.Context, p *model.Product) error

	// Delete removes the product and returns it. It returns nil, nil when absent.
	Delete(ctx context.Context, id string) (*model.Product, error)
}
