package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ristorante/internal/domain"
	"ristorante/internal/errors"
	mongostore "ristorante/internal/infrastructure/mongo"
)

type MongoTableRepository struct {
	tables *mongo.Collection
	orders *mongo.Collection
}

func NewMongoTableRepository(db *mongo.Database) *MongoTableRepository {
	return &MongoTableRepository{
		tables: db.Collection(mongostore.CollectionTables),
		orders: db.Collection(mongostore.CollectionOrders),
	}
}

func (r *MongoTableRepository) FindAll(ctx context.Context) ([]domain.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}})
	cursor, err := r.tables.Find(ctx, bson.M{"is_closed": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find tables: %w", err)
	}
	defer cursor.Close(ctx)

	tables := []domain.Table{}
	if err := cursor.All(ctx, &tables); err != nil {
		return nil, fmt.Errorf("failed to decode tables: %w", err)
	}

	return tables, nil
}

func (r *MongoTableRepository) FindByID(ctx context.Context, id string) (*domain.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var table domain.Table
	err := r.tables.FindOne(ctx, bson.M{"id": id}).Decode(&table)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NewNotFoundError("Table not found")
		}
		return nil, fmt.Errorf("failed to get table: %w", err)
	}

	return &table, nil
}

func (r *MongoTableRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.tables.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count tables: %w", err)
	}
	return count, nil
}

func (r *MongoTableRepository) InsertMany(ctx context.Context, tables []domain.Table) error {
	if len(tables) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	docs := make([]interface{}, len(tables))
	for i := range tables {
		docs[i] = tables[i]
	}

	if _, err := r.tables.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert tables: %w", err)
	}
	return nil
}

// Open inserts the order and then marks the table occupied. The order is
// removed again if the table update fails.
func (r *MongoTableRepository) Open(ctx context.Context, tableID string, covers int, order domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	active, err := r.orders.CountDocuments(ctx, bson.M{"table_id": tableID, "is_closed": false})
	if err != nil {
		return fmt.Errorf("failed to count active orders: %w", err)
	}
	if active > 0 {
		return errors.NewConflictError("Table already has an active order")
	}

	exists, err := r.tables.CountDocuments(ctx, bson.M{"id": tableID})
	if err != nil {
		return fmt.Errorf("failed to get table: %w", err)
	}
	if exists == 0 {
		return errors.NewNotFoundError("Table not found")
	}

	if _, err := r.orders.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	update := bson.M{
		"$set": bson.M{"status": domain.TableStatusOccupied, "covers": covers},
		"$inc": bson.M{"use_count": 1},
	}
	result, err := r.tables.UpdateOne(ctx, bson.M{"id": tableID}, update)
	if err == nil && result.MatchedCount == 0 {
		err = errors.NewNotFoundError("Table not found")
	}
	if err != nil {
		cleanupCtx, cancelCleanup := cleanupContext()
		_, delErr := r.orders.DeleteOne(cleanupCtx, bson.M{"id": order.ID})
		cancelCleanup()
		if delErr != nil {
			return fmt.Errorf("failed to open table: %w (order cleanup: %v)", err, delErr)
		}
		if _, ok := errors.IsNotFoundError(err); ok {
			return err
		}
		return fmt.Errorf("failed to open table: %w", err)
	}

	return nil
}

// Close closes the open orders before freeing the table, so a failure part
// way leaves the table occupied and the close can be retried.
func (r *MongoTableRepository) Close(ctx context.Context, tableID string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := r.tables.CountDocuments(ctx, bson.M{"id": tableID})
	if err != nil {
		return fmt.Errorf("failed to get table: %w", err)
	}
	if exists == 0 {
		return errors.NewNotFoundError("Table not found")
	}

	_, err = r.orders.UpdateMany(ctx,
		bson.M{"table_id": tableID, "is_closed": false},
		bson.M{"$set": bson.M{"is_closed": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to close orders: %w", err)
	}

	_, err = r.tables.UpdateOne(ctx,
		bson.M{"id": tableID},
		bson.M{"$set": bson.M{"status": domain.TableStatusFree, "covers": 0}},
	)
	if err != nil {
		return fmt.Errorf("failed to free table: %w", err)
	}

	return nil
}

const cleanupTimeout = 5 * time.Second

// cleanupContext bounds the compensating writes. It is detached from the
// request so a cancelled request still removes its orphaned order.
func cleanupContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cleanupTimeout)
}
