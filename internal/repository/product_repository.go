package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"productlist/internal/model"
	"productlist/internal/query"
	"productlist/internal/validation"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const productColumns = "id, category, name, price, image, created_at"

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Str("store", "postgres").Logger(),
	}
}

// List retrieves the products selected by the descriptor.
func (r *productRepository) List(ctx context.Context, d query.Descriptor) ([]model.Product, error) {
	sql, args := listSQL(d)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		r.logger.Error().Err(err).
			Str("sort", d.Sort().String()).
			Int64("skip", d.Skip()).
			Int64("limit", d.Limit()).
			Msg("failed to query products")
		return nil, model.NewRepositoryError("list", fmt.Errorf("failed to query products: %w", err))
	}
	defer rows.Close()

	products := make([]model.Product, 0, d.Limit())
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, model.NewRepositoryError("list", fmt.Errorf("failed to scan product: %w", err))
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, model.NewRepositoryError("list", fmt.Errorf("error iterating products: %w", err))
	}

	return products, nil
}

// Count returns the number of products matching the descriptor's category.
func (r *productRepository) Count(ctx context.Context, d query.Descriptor) (int64, error) {
	sql, args := countSQL(d)

	var count int64
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, model.NewRepositoryError("count", fmt.Errorf("failed to count products: %w", err))
	}

	return count, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	sql := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, model.NewRepositoryError("get", fmt.Errorf("failed to query product: %w", err))
	}

	return p, nil
}

// Create inserts a new product, assigning its ID and creation time.
func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	sql := `
		INSERT INTO products (id, category, name, price, image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	id := validation.NewIdentifier()
	err := r.pool.QueryRow(ctx, sql, id, p.Category, p.Name, toNumeric(p.Price.Decimal), p.Image).Scan(&p.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("name", p.Name).Msg("failed to insert product")
		return model.NewRepositoryError("create", fmt.Errorf("failed to insert product: %w", err))
	}
	p.ID = id

	r.logger.Debug().Str("product_id", id).Msg("product created")

	return nil
}

// Delete removes a product in a single statement and returns the removed row.
func (r *productRepository) Delete(ctx context.Context, id string) (*model.Product, error) {
	sql := `DELETE FROM products WHERE id = $1 RETURNING ` + productColumns

	p, err := scanProduct(r.pool.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product to delete not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return nil, model.NewRepositoryError("delete", fmt.Errorf("failed to delete product: %w", err))
	}

	return p, nil
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var (
		p     model.Product
		price pgtype.Numeric
	)
	if err := row.Scan(&p.ID, &p.Category, &p.Name, &price, &p.Image, &p.CreatedAt); err != nil {
		return nil, err
	}
	d, err := fromNumeric(price)
	if err != nil {
		return nil, err
	}
	p.Price = model.NewPrice(d)
	return &p, nil
}

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func fromNumeric(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite {
		return decimal.Decimal{}, fmt.Errorf("price is not a finite number")
	}
	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}

// listSQL renders a descriptor as a parameterised SELECT.
func listSQL(d query.Descriptor) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + productColumns + ` FROM products`)

	where, args := whereSQL(d)
	sb.WriteString(where)

	switch d.Sort() {
	case query.SortPriceDesc:
		sb.WriteString(" ORDER BY price DESC, id ASC")
	case query.SortPriceAsc:
		sb.WriteString(" ORDER BY price ASC, id ASC")
	default:
		// ObjectIDs grow with insertion time, matching a document store's natural order.
		sb.WriteString(" ORDER BY id ASC")
	}

	if d.Limit() > 0 {
		args = append(args, d.Limit())
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if d.Skip() > 0 {
		args = append(args, d.Skip())
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	return sb.String(), args
}

// countSQL renders the descriptor's filter as a COUNT(*) query.
func countSQL(d query.Descriptor) (string, []any) {
	where, args := whereSQL(d)
	return `SELECT COUNT(*) FROM products` + where, args
}

func whereSQL(d query.Descriptor) (string, []any) {
	category, ok := d.Category()
	if !ok {
		return "", nil
	}
	return ` WHERE category ILIKE '%' || $1 || '%'`, []any{escapeLike(category)}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
