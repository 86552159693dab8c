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

type MongoOrderRepository struct {
	orders *mongo.Collection
	items  *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{
		orders: db.Collection(mongostore.CollectionOrders),
		items:  db.Collection(mongostore.CollectionOrderItems),
	}
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var order domain.Order
	err := r.orders.FindOne(ctx, bson.M{"id": id}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NewNotFoundError("Order not found")
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

func (r *MongoOrderRepository) FindActiveByTable(ctx context.Context, tableID string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var order domain.Order
	err := r.orders.FindOne(ctx, bson.M{"table_id": tableID, "is_closed": false}, opts).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NewNotFoundError("No active order found for this table")
		}
		return nil, fmt.Errorf("failed to get active order: %w", err)
	}

	return &order, nil
}

func (r *MongoOrderRepository) FindOpen(ctx context.Context) ([]domain.Order, error) {
	return r.findOrders(ctx, bson.M{"is_closed": false}, 1)
}

func (r *MongoOrderRepository) FindClosed(ctx context.Context) ([]domain.Order, error) {
	return r.findOrders(ctx, bson.M{"is_closed": true}, -1)
}

// MarkSent sets is_sent only on an unsent order and reports whether it did.
func (r *MongoOrderRepository) MarkSent(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.orders.UpdateOne(ctx,
		bson.M{"id": id, "is_sent": false},
		bson.M{"$set": bson.M{"is_sent": true}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark order sent: %w", err)
	}

	if result.MatchedCount == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}

	return true, nil
}

func (r *MongoOrderRepository) InsertItem(ctx context.Context, item domain.OrderItem) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if item.Extras == nil {
		item.Extras = []domain.ItemExtra{}
	}

	if _, err := r.items.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to insert order item: %w", err)
	}
	return nil
}

func (r *MongoOrderRepository) DeleteItem(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.items.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete order item: %w", err)
	}

	if result.DeletedCount == 0 {
		return errors.NewNotFoundError("Item not found")
	}

	return nil
}

func (r *MongoOrderRepository) FindItemsByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	return r.findItems(ctx, bson.M{"order_id": orderID})
}

func (r *MongoOrderRepository) FindItemsByOrderIDs(ctx context.Context, orderIDs []string) ([]domain.OrderItem, error) {
	if len(orderIDs) == 0 {
		return []domain.OrderItem{}, nil
	}
	return r.findItems(ctx, bson.M{"order_id": bson.M{"$in": orderIDs}})
}

func (r *MongoOrderRepository) findOrders(ctx context.Context, filter bson.M, createdAtOrder int) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: createdAtOrder}})
	cursor, err := r.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []domain.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	return orders, nil
}

func (r *MongoOrderRepository) findItems(ctx context.Context, filter bson.M) ([]domain.OrderItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.items.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find order items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []domain.OrderItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}

	for i := range items {
		if items[i].Extras == nil {
			items[i].Extras = []domain.ItemExtra{}
		}
	}

	return items, nil
}
