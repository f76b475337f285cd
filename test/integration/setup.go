package integration

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"productlist/internal/config"
	"productlist/internal/database"
	"productlist/internal/handler"
	"productlist/internal/repository"
	"productlist/internal/router"
	"productlist/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const testAPIKey = "test-api-key"

// TestStore is a product store running in a test container.
type TestStore struct {
	Name  string
	Repo  repository.ProductRepository
	Reset func(t *testing.T)
}

// SetupPostgresStore starts PostgreSQL, applies the embedded migrations and
// returns a repository over it.
func SetupPostgresStore(t *testing.T) *TestStore {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	if err := database.Migrate("pgx5"+strings.TrimPrefix(connStr, "postgres"), zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	pool, err := database.NewPoolFromURL(ctx, connStr, config.DatabaseConfig{MaxConnections: 10, MinConnections: 2}, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return &TestStore{
		Name:  config.DriverPostgres,
		Repo:  repository.NewProductRepository(pool, zerolog.Nop()),
		Reset: func(t *testing.T) { cleanupPostgres(t, pool) },
	}
}

// SetupMongoStore starts MongoDB and returns a repository over it.
func SetupMongoStore(t *testing.T) *TestStore {
	t.Helper()

	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("failed to start mongo container: %v", err)
	}
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := database.NewMongoDatabase(ctx, config.MongoConfig{URI: uri, Database: "testdb", ConnectTimeout: 10}, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Client().Disconnect(ctx) })

	return &TestStore{
		Name:  config.DriverMongo,
		Repo:  repository.NewMongoProductRepository(db, zerolog.Nop()),
		Reset: func(t *testing.T) { cleanupMongo(t, db) },
	}
}

// NewTestServer wires the full HTTP stack over store.
func NewTestServer(store *TestStore) http.Handler {
	logger := zerolog.Nop()

	productService := service.NewProductService(store.Repo, logger)

	return router.New(
		handler.NewProductHandler(productService, logger),
		handler.NewHealthHandler(nil, logger),
		testAPIKey,
		logger,
	)
}

func cleanupPostgres(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), "DELETE FROM products"); err != nil {
		t.Fatalf("failed to clean products table: %v", err)
	}
}

func cleanupMongo(t *testing.T, db *mongo.Database) {
	t.Helper()

	if _, err := db.Collection(database.ProductsCollection).DeleteMany(context.Background(), bson.M{}); err != nil {
		t.Fatalf("failed to clean products collection: %v", err)
	}
}
