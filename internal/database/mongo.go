package database

import (
	"context"
	"fmt"
	"time"

	"productlist/internal/config"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ProductsCollection is the MongoDB collection holding product documents.
const ProductsCollection = "products"

// NewMongoDatabase connects to MongoDB, verifies the connection and returns
// the configured database. Callers disconnect through db.Client().
func NewMongoDatabase(ctx context.Context, cfg config.MongoConfig, logger zerolog.Logger) (*mongo.Database, error) {
	timeout := time.Duration(cfg.ConnectTimeout) * time.Second

	logger.Info().
		Str("database", cfg.Database).
		Dur("connect_timeout", timeout).
		Msg("connecting to MongoDB")

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.Database)
	if err := EnsureMongoIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info().Msg("MongoDB connection established successfully")

	return db, nil
}

// EnsureMongoIndexes creates the indexes backing the product listing sorts.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(ProductsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}},
		Options: options.Index().SetName("price_id"),
	})
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	return nil
}
