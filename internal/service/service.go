package service

import (
	"context"

	"productlist/internal/model"
)

// ProductService defines operations for product catalogue management.
// Failures are *model.DomainError values or wrap a *model.RepositoryError.
type ProductService interface {
	// List returns one page of products matching the listing parameters.
	// An empty page is reported as model.ErrProductNotFound.
	List(ctx context.Context, params model.ListParams) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create validates, normalises and persists a new product.
	Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)

	// Delete removes a product and returns a confirmation naming it.
	Delete(ctx context.Context, id string) (*model.DeleteConfirmation, error)
}
