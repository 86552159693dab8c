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

type MongoCatalogRepository struct {
	products   *mongo.Collection
	doughTypes *mongo.Collection
	extras     *mongo.Collection
}

func NewMongoCatalogRepository(db *mongo.Database) *MongoCatalogRepository {
	return &MongoCatalogRepository{
		products:   db.Collection(mongostore.CollectionProducts),
		doughTypes: db.Collection(mongostore.CollectionDoughTypes),
		extras:     db.Collection(mongostore.CollectionExtras),
	}
}

func (r *MongoCatalogRepository) FindProducts(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	cursor, err := r.products.Find(ctx, filter, insertionOrder())
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

func (r *MongoCatalogRepository) FindCategories(ctx context.Context) ([]domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	values, err := r.products.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find categories: %w", err)
	}

	categories := make([]domain.Category, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, domain.Category(s))
		}
	}

	return categories, nil
}

func (r *MongoCatalogRepository) FindProductByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var product domain.Product
	err := r.products.FindOne(ctx, bson.M{"id": id}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NewNotFoundError("Product not found")
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

func (r *MongoCatalogRepository) FindDoughTypes(ctx context.Context) ([]domain.DoughType, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.doughTypes.Find(ctx, bson.M{}, insertionOrder())
	if err != nil {
		return nil, fmt.Errorf("failed to find dough types: %w", err)
	}
	defer cursor.Close(ctx)

	doughTypes := []domain.DoughType{}
	if err := cursor.All(ctx, &doughTypes); err != nil {
		return nil, fmt.Errorf("failed to decode dough types: %w", err)
	}

	return doughTypes, nil
}

func (r *MongoCatalogRepository) FindDoughTypeByName(ctx context.Context, name string) (*domain.DoughType, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var dough domain.DoughType
	err := r.doughTypes.FindOne(ctx, bson.M{"name": name}).Decode(&dough)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NewNotFoundError(fmt.Sprintf("Dough type %q not found", name))
		}
		return nil, fmt.Errorf("failed to get dough type: %w", err)
	}

	return &dough, nil
}

func (r *MongoCatalogRepository) FindExtras(ctx context.Context) ([]domain.Extra, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.extras.Find(ctx, bson.M{}, insertionOrder())
	if err != nil {
		return nil, fmt.Errorf("failed to find extras: %w", err)
	}
	defer cursor.Close(ctx)

	extras := []domain.Extra{}
	if err := cursor.All(ctx, &extras); err != nil {
		return nil, fmt.Errorf("failed to decode extras: %w", err)
	}

	return extras, nil
}

func (r *MongoCatalogRepository) FindExtraByID(ctx context.Context, id string) (*domain.Extra, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var extra domain.Extra
	err := r.extras.FindOne(ctx, bson.M{"id": id}).Decode(&extra)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NewNotFoundError(fmt.Sprintf("Extra %s not found", id))
		}
		return nil, fmt.Errorf("failed to get extra: %w", err)
	}

	return &extra, nil
}

func (r *MongoCatalogRepository) InsertCatalog(ctx context.Context, products []domain.Product, doughTypes []domain.DoughType, extras []domain.Extra) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := insertMany(ctx, r.products, products); err != nil {
		return fmt.Errorf("failed to insert products: %w", err)
	}
	if err := insertMany(ctx, r.doughTypes, doughTypes); err != nil {
		return fmt.Errorf("failed to insert dough types: %w", err)
	}
	if err := insertMany(ctx, r.extras, extras); err != nil {
		return fmt.Errorf("failed to insert extras: %w", err)
	}

	return nil
}

func insertMany[T any](ctx context.Context, collection *mongo.Collection, docs []T) error {
	if len(docs) == 0 {
		return nil
	}
	batch := make([]interface{}, len(docs))
	for i := range docs {
		batch[i] = docs[i]
	}
	_, err := collection.InsertMany(ctx, batch)
	return err
}

// insertionOrder sorts by the generated _id, which follows insert order.
func insertionOrder() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
}
