package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ristorante/internal/domain"
)

type TableRepository interface {
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, tables []domain.Table) error
}

type CatalogRepository interface {
	FindProducts(ctx context.Context, category domain.Category) ([]domain.Product, error)
	InsertCatalog(ctx context.Context, products []domain.Product, doughTypes []domain.DoughType, extras []domain.Extra) error
}

type Initializer struct {
	tables  TableRepository
	catalog CatalogRepository
	logger  *zap.Logger
}

func NewInitializer(tables TableRepository, catalog CatalogRepository, logger *zap.Logger) *Initializer {
	return &Initializer{
		tables:  tables,
		catalog: catalog,
		logger:  logger,
	}
}

// Run installs the tables and the menu when the store has no tables yet.
// Existing data is never touched.
func (i *Initializer) Run(ctx context.Context) error {
	count, err := i.tables.Count(ctx)
	if err != nil {
		return fmt.Errorf("checking existing tables: %w", err)
	}
	if count > 0 {
		i.logger.Info("seed skipped, store already initialized", zap.Int64("tables", count))
		return nil
	}

	// Tables go in last: their count marks a seeded store. A catalog left by
	// an earlier failed run is kept as is.
	catalogSize, err := i.seedCatalog(ctx)
	if err != nil {
		return err
	}

	tables := make([]domain.Table, 0, tableCount)
	for n := 1; n <= tableCount; n++ {
		tables = append(tables, domain.NewTable(uuid.NewString(), n))
	}
	if err := i.tables.InsertMany(ctx, tables); err != nil {
		return fmt.Errorf("seeding tables: %w", err)
	}

	i.logger.Info("seed data installed",
		zap.Int("tables", len(tables)),
		zap.Int("products", catalogSize),
	)
	return nil
}

// seedCatalog installs the menu unless products already exist and returns the
// number of products in the store.
func (i *Initializer) seedCatalog(ctx context.Context) (int, error) {
	existing, err := i.catalog.FindProducts(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("checking existing products: %w", err)
	}
	if len(existing) > 0 {
		i.logger.Info("catalog already present, keeping it", zap.Int("products", len(existing)))
		return len(existing), nil
	}

	products := make([]domain.Product, 0, len(menu))
	for _, p := range menu {
		products = append(products, newProduct(uuid.NewString(), p))
	}

	doughs := make([]domain.DoughType, 0, len(doughTypes))
	for _, d := range doughTypes {
		doughs = append(doughs, domain.DoughType{ID: uuid.NewString(), Name: d.name, AdditionalPrice: d.additionalPrice})
	}

	extraList := make([]domain.Extra, 0, len(extras))
	for _, e := range extras {
		extraList = append(extraList, domain.Extra{ID: uuid.NewString(), Name: e.name, Price: e.price})
	}

	if err := i.catalog.InsertCatalog(ctx, products, doughs, extraList); err != nil {
		return 0, fmt.Errorf("seeding catalog: %w", err)
	}
	return len(products), nil
}
