package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	CollectionTables     = "tables"
	CollectionProducts   = "products"
	CollectionDoughTypes = "dough_types"
	CollectionExtras     = "extras"
	CollectionOrders     = "orders"
	CollectionOrderItems = "order_items"
)

type Storage struct {
	client   *mongo.Client
	database *mongo.Database
	config   Config
}

type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

func New(ctx context.Context, cfg Config) (*Storage, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(50).
		SetMinPoolSize(2)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Storage{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Storage) Database() *mongo.Database {
	return s.database
}

// CreateIndexes makes the string "id" field unique in every collection and
// indexes the lookups the handlers run.
func (s *Storage) CreateIndexes(ctx context.Context) error {
	uniqueID := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	indexes := map[string][]mongo.IndexModel{
		CollectionTables: {
			uniqueID,
			{Keys: bson.D{{Key: "number", Value: 1}}},
		},
		CollectionProducts: {
			uniqueID,
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		CollectionDoughTypes: {
			uniqueID,
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
		CollectionExtras: {uniqueID},
		CollectionOrders: {
			uniqueID,
			{Keys: bson.D{{Key: "table_id", Value: 1}, {Key: "is_closed", Value: 1}}},
		},
		CollectionOrderItems: {
			uniqueID,
			{Keys: bson.D{{Key: "order_id", Value: 1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := s.database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", collection, err)
		}
	}

	return nil
}
