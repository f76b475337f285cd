package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"productlist/internal/database"
	"productlist/internal/model"
	"productlist/internal/query"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// productDocument is the stored shape of a product in MongoDB.
type productDocument struct {
	ID        primitive.ObjectID   `bson:"_id"`
	Category  string               `bson:"category"`
	Name      string               `bson:"name"`
	Price     primitive.Decimal128 `bson:"price"`
	Image     string               `bson:"image"`
	CreatedAt time.Time            `bson:"createdAt"`
}

// mongoProductRepository implements the ProductRepository interface using MongoDB.
type mongoProductRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewMongoProductRepository creates a new MongoDB-backed product repository.
func NewMongoProductRepository(db *mongo.Database, logger zerolog.Logger) ProductRepository {
	return &mongoProductRepository{
		collection: db.Collection(database.ProductsCollection),
		logger:     logger.With().Str("repository", "product").Str("store", "mongo").Logger(),
	}
}

// List retrieves the products selected by the descriptor.
func (r *mongoProductRepository) List(ctx context.Context, d query.Descriptor) ([]model.Product, error) {
	cursor, err := r.collection.Find(ctx, mongoFilter(d), mongoFindOptions(d))
	if err != nil {
		r.logger.Error().Err(err).
			Str("sort", d.Sort().String()).
			Int64("skip", d.Skip()).
			Int64("limit", d.Limit()).
			Msg("failed to query products")
		return nil, model.NewRepositoryError("list", fmt.Errorf("failed to query products: %w", err))
	}
	defer cursor.Close(ctx)

	products := make([]model.Product, 0, d.Limit())
	for cursor.Next(ctx) {
		var doc productDocument
		if err := cursor.Decode(&doc); err != nil {
			r.logger.Error().Err(err).Msg("failed to decode product document")
			return nil, model.NewRepositoryError("list", fmt.Errorf("failed to decode product: %w", err))
		}
		p, err := doc.toModel()
		if err != nil {
			return nil, model.NewRepositoryError("list", err)
		}
		products = append(products, *p)
	}

	if err := cursor.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product documents")
		return nil, model.NewRepositoryError("list", fmt.Errorf("error iterating products: %w", err))
	}

	return products, nil
}

// Count returns the number of products matching the descriptor's category.
func (r *mongoProductRepository) Count(ctx context.Context, d query.Descriptor) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, mongoFilter(d))
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, model.NewRepositoryError("count", fmt.Errorf("failed to count products: %w", err))
	}
	return count, nil
}

// GetByID retrieves a single product by its ID.
func (r *mongoProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc productDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, model.NewRepositoryError("get", fmt.Errorf("failed to query product: %w", err))
	}

	p, err := doc.toModel()
	if err != nil {
		return nil, model.NewRepositoryError("get", err)
	}
	return p, nil
}

// Create inserts a new product document, assigning its ID and creation time.
func (r *mongoProductRepository) Create(ctx context.Context, p *model.Product) error {
	price, err := primitive.ParseDecimal128(p.Price.String())
	if err != nil {
		return model.NewRepositoryError("create", fmt.Errorf("failed to encode price: %w", err))
	}

	doc := productDocument{
		ID:        primitive.NewObjectID(),
		Category:  p.Category,
		Name:      p.Name,
		Price:     price,
		Image:     p.Image,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error().Err(err).Str("name", p.Name).Msg("failed to insert product")
		return model.NewRepositoryError("create", fmt.Errorf("failed to insert product: %w", err))
	}

	p.ID = doc.ID.Hex()
	p.CreatedAt = doc.CreatedAt

	r.logger.Debug().Str("product_id", p.ID).Msg("product created")

	return nil
}

// Delete removes a product in a single round trip and returns the removed document.
func (r *mongoProductRepository) Delete(ctx context.Context, id string) (*model.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc productDocument
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Debug().Str("product_id", id).Msg("product to delete not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return nil, model.NewRepositoryError("delete", fmt.Errorf("failed to delete product: %w", err))
	}

	p, err := doc.toModel()
	if err != nil {
		return nil, model.NewRepositoryError("delete", err)
	}
	return p, nil
}

func (doc productDocument) toModel() (*model.Product, error) {
	price, err := decimal.NewFromString(doc.Price.String())
	if err != nil {
		return nil, fmt.Errorf("failed to decode price of product %s: %w", doc.ID.Hex(), err)
	}
	return &model.Product{
		ID:        doc.ID.Hex(),
		Category:  doc.Category,
		Name:      doc.Name,
		Price:     model.NewPrice(price),
		Image:     doc.Image,
		CreatedAt: doc.CreatedAt,
	}, nil
}

// mongoFilter renders the descriptor's category constraint. The category is
// quoted so it matches literally, case-insensitively, anywhere in the field.
func mongoFilter(d query.Descriptor) bson.M {
	category, ok := d.Category()
	if !ok {
		return bson.M{}
	}
	return bson.M{"category": primitive.Regex{Pattern: regexp.QuoteMeta(category), Options: "i"}}
}

func mongoFindOptions(d query.Descriptor) *options.FindOptions {
	opts := options.Find()

	switch d.Sort() {
	case query.SortPriceDesc:
		opts.SetSort(bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}})
	case query.SortPriceAsc:
		opts.SetSort(bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}})
	}

	if d.Skip() > 0 {
		opts.SetSkip(d.Skip())
	}
	if d.Limit() > 0 {
		opts.SetLimit(d.Limit())
	}

	return opts
}
