package service

import (
	"context"
	"fmt"

	"productlist/internal/model"
	"productlist/internal/query"
	"productlist/internal/repository"
	"productlist/internal/validation"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves one page of products.
func (s *productService) List(ctx context.Context, params model.ListParams) ([]model.Product, error) {
	window, err := query.ComputeWindow(params.Page)
	if err != nil {
		s.logger.Debug().Str("page", params.Page).Msg("invalid page parameter")
		return nil, err
	}

	d := query.Build(query.Filters{
		Category:  params.Category,
		PriceSort: params.PriceSort,
	}).Paginate(window)

	products, err := s.productRepo.List(ctx, d)
	if err != nil {
		s.logger.Error().Err(err).
			Int64("page", window.Page).
			Str("sort", d.Sort().String()).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if len(products) == 0 {
		s.logger.Debug().Int64("page", window.Page).Msg("no products matched")
		return nil, model.ErrProductNotFound
	}

	s.logMatchCount(ctx, d, window, len(products))

	return products, nil
}

// logMatchCount reports the total number of matching products. It only runs
// at debug level and never affects the listing result.
func (s *productService) logMatchCount(ctx context.Context, d query.Descriptor, window query.Window, returned int) {
	if !s.logger.Debug().Enabled() {
		return
	}

	total, err := s.productRepo.Count(ctx, d)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to count matching products")
		return
	}

	s.logger.Debug().
		Int64("page", window.Page).
		Int("returned", returned).
		Int64("total", total).
		Msg("retrieved products")
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	canonical, err := validation.ParseIdentifier(id)
	if err != nil {
		s.logger.Debug().Str("product_id", id).Msg("invalid product identifier")
		return nil, err
	}
	id = canonical

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Create validates the request and persists the resulting product.
func (s *productService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	product, err := validation.NormalizeCreateRequest(req)
	if err != nil {
		s.logger.Debug().Err(err).Msg("invalid create product request")
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("name", product.Name).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID).
		Str("category", product.Category).
		Str("price", product.Price.String()).
		Msg("product created")

	return product, nil
}

// Delete removes a product by ID.
func (s *productService) Delete(ctx context.Context, id string) (*model.DeleteConfirmation, error) {
	canonical, err := validation.ParseIdentifier(id)
	if err != nil {
		s.logger.Debug().Str("product_id", id).Msg("invalid product identifier")
		return nil, err
	}
	id = canonical

	product, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product to delete not found")
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", product.ID).Msg("product deleted")

	return &model.DeleteConfirmation{
		ID:      product.ID,
		Name:    product.Name,
		Message: fmt.Sprintf("%s, %s has been successfully removed.", product.ID, product.Name),
	}, nil
}
