package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ristorante/internal/config"
	"ristorante/internal/domain"
	"ristorante/internal/infrastructure/mongo"
	"ristorante/internal/infrastructure/mysql"
	orderrepo "ristorante/internal/order/repository"
	productrepo "ristorante/internal/product/repository"
	"ristorante/internal/storage/memory"
	tablerepo "ristorante/internal/table/repository"
)

type TableRepository interface {
	FindAll(ctx context.Context) ([]domain.Table, error)
	FindByID(ctx context.Context, id string) (*domain.Table, error)
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, tables []domain.Table) error
	Open(ctx context.Context, tableID string, covers int, order domain.Order) error
	Close(ctx context.Context, tableID string) error
}

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindActiveByTable(ctx context.Context, tableID string) (*domain.Order, error)
	FindOpen(ctx context.Context) ([]domain.Order, error)
	FindClosed(ctx context.Context) ([]domain.Order, error)
	MarkSent(ctx context.Context, id string) (bool, error)
	InsertItem(ctx context.Context, item domain.OrderItem) error
	DeleteItem(ctx context.Context, id string) error
	FindItemsByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	FindItemsByOrderIDs(ctx context.Context, orderIDs []string) ([]domain.OrderItem, error)
}

type CatalogRepository interface {
	FindProducts(ctx context.Context, category domain.Category) ([]domain.Product, error)
	FindCategories(ctx context.Context) ([]domain.Category, error)
	FindProductByID(ctx context.Context, id string) (*domain.Product, error)
	FindDoughTypes(ctx context.Context) ([]domain.DoughType, error)
	FindDoughTypeByName(ctx context.Context, name string) (*domain.DoughType, error)
	FindExtras(ctx context.Context) ([]domain.Extra, error)
	FindExtraByID(ctx context.Context, id string) (*domain.Extra, error)
	InsertCatalog(ctx context.Context, products []domain.Product, doughTypes []domain.DoughType, extras []domain.Extra) error
}

// Repositories is the persistence handle shared by every module.
type Repositories struct {
	Driver  string
	Tables  TableRepository
	Orders  OrderRepository
	Catalog CatalogRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func (r *Repositories) Ping(ctx context.Context) error {
	if r.ping == nil {
		return nil
	}
	return r.ping(ctx)
}

func (r *Repositories) Close(ctx context.Context) error {
	if r.close == nil {
		return nil
	}
	return r.close(ctx)
}

// Open connects to the backend selected by cfg.Storage.Driver and prepares
// its schema or indexes.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Repositories, error) {
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		return openMongo(ctx, cfg, logger)
	case config.DriverMySQL:
		return openMySQL(ctx, cfg, logger)
	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

func NewMemory() *Repositories {
	store := memory.NewStore()
	return &Repositories{
		Driver:  config.DriverMemory,
		Tables:  store.Tables(),
		Orders:  store.Orders(),
		Catalog: store.Catalog(),
	}
}

func openMongo(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Repositories, error) {
	store, err := mongo.New(ctx, mongo.Config{
		URI:      cfg.Mongo.URL,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return nil, err
	}

	if err := store.CreateIndexes(ctx); err != nil {
		_ = store.Close(context.Background())
		return nil, err
	}
	logger.Info("mongodb connected", zap.String("database", cfg.Mongo.Database))

	db := store.Database()
	return &Repositories{
		Driver:  config.DriverMongo,
		Tables:  tablerepo.NewMongoTableRepository(db),
		Orders:  orderrepo.NewMongoOrderRepository(db),
		Catalog: productrepo.NewMongoCatalogRepository(db),
		ping:    store.Ping,
		close:   store.Close,
	}, nil
}

func openMySQL(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Repositories, error) {
	db, err := mysql.NewConnection(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := mysql.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("mysql connected", zap.String("database", cfg.Database.Name))

	tx := mysql.NewTxRunner(db, cfg.Database.MaxRetryAttempts, cfg.Database.TxTimeout)
	return &Repositories{
		Driver:  config.DriverMySQL,
		Tables:  tablerepo.NewMySQLTableRepository(db, tx),
		Orders:  orderrepo.NewMySQLOrderRepository(db),
		Catalog: productrepo.NewMySQLCatalogRepository(db),
		ping:    db.PingContext,
		close: func(context.Context) error {
			return db.Close()
		},
	}, nil
}
