// Package memory keeps every collection in process memory. It backs local
// runs with DB_DRIVER=memory and the HTTP tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ristorante/internal/domain"
	"ristorante/internal/errors"
)

type Store struct {
	mu sync.RWMutex

	tables     []domain.Table
	products   []domain.Product
	doughTypes []domain.DoughType
	extras     []domain.Extra
	orders     []domain.Order
	items      []domain.OrderItem
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Tables() *TableRepository {
	return &TableRepository{store: s}
}

func (s *Store) Orders() *OrderRepository {
	return &OrderRepository{store: s}
}

func (s *Store) Catalog() *CatalogRepository {
	return &CatalogRepository{store: s}
}

func (s *Store) tableIndex(id string) int {
	for i := range s.tables {
		if s.tables[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) hasActiveOrder(tableID string) bool {
	for _, o := range s.orders {
		if o.TableID == tableID && !o.IsClosed {
			return true
		}
	}
	return false
}

type TableRepository struct {
	store *Store
}

func (r *TableRepository) FindAll(ctx context.Context) ([]domain.Table, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	tables := []domain.Table{}
	for _, t := range r.store.tables {
		if !t.IsClosed {
			tables = append(tables, t)
		}
	}
	sort.SliceStable(tables, func(i, j int) bool { return tables[i].Number < tables[j].Number })
	return tables, nil
}

func (r *TableRepository) FindByID(ctx context.Context, id string) (*domain.Table, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	i := r.store.tableIndex(id)
	if i < 0 {
		return nil, errors.NewNotFoundError("Table not found")
	}
	t := r.store.tables[i]
	return &t, nil
}

func (r *TableRepository) Count(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.tables)), nil
}

func (r *TableRepository) InsertMany(ctx context.Context, tables []domain.Table) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, t := range tables {
		if r.store.tableIndex(t.ID) >= 0 {
			return fmt.Errorf("duplicate table id %s", t.ID)
		}
	}
	r.store.tables = append(r.store.tables, tables...)
	return nil
}

func (r *TableRepository) Open(ctx context.Context, tableID string, covers int, order domain.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i := r.store.tableIndex(tableID)
	if i < 0 {
		return errors.NewNotFoundError("Table not found")
	}
	if r.store.hasActiveOrder(tableID) {
		return errors.NewConflictError("Table already has an active order")
	}

	r.store.tables[i].Open(covers)
	r.store.orders = append(r.store.orders, order)
	return nil
}

func (r *TableRepository) Close(ctx context.Context, tableID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i := r.store.tableIndex(tableID)
	if i < 0 {
		return errors.NewNotFoundError("Table not found")
	}

	for j := range r.store.orders {
		if r.store.orders[j].TableID == tableID {
			r.store.orders[j].IsClosed = true
		}
	}
	r.store.tables[i].Free()
	return nil
}

type OrderRepository struct {
	store *Store
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, o := range r.store.orders {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, errors.NewNotFoundError("Order not found")
}

func (r *OrderRepository) FindActiveByTable(ctx context.Context, tableID string) (*domain.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var active *domain.Order
	for _, o := range r.store.orders {
		if o.TableID != tableID || o.IsClosed {
			continue
		}
		if active == nil || o.CreatedAt.After(active.CreatedAt) {
			order := o
			active = &order
		}
	}
	if active == nil {
		return nil, errors.NewNotFoundError("No active order found for this table")
	}
	return active, nil
}

func (r *OrderRepository) FindOpen(ctx context.Context) ([]domain.Order, error) {
	return r.filterOrders(false), nil
}

func (r *OrderRepository) FindClosed(ctx context.Context) ([]domain.Order, error) {
	orders := r.filterOrders(true)
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (r *OrderRepository) filterOrders(closed bool) []domain.Order {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	orders := []domain.Order{}
	for _, o := range r.store.orders {
		if o.IsClosed == closed {
			orders = append(orders, o)
		}
	}
	return orders
}

func (r *OrderRepository) MarkSent(ctx context.Context, id string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.orders {
		if r.store.orders[i].ID != id {
			continue
		}
		if r.store.orders[i].IsSent {
			return false, nil
		}
		r.store.orders[i].IsSent = true
		return true, nil
	}
	return false, errors.NewNotFoundError("Order not found")
}

func (r *OrderRepository) InsertItem(ctx context.Context, item domain.OrderItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item.Extras = append([]domain.ItemExtra{}, item.Extras...)
	r.store.items = append(r.store.items, item)
	return nil
}

func (r *OrderRepository) DeleteItem(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.items {
		if r.store.items[i].ID == id {
			r.store.items = append(r.store.items[:i], r.store.items[i+1:]...)
			return nil
		}
	}
	return errors.NewNotFoundError("Item not found")
}

func (r *OrderRepository) FindItemsByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	return r.FindItemsByOrderIDs(ctx, []string{orderID})
}

func (r *OrderRepository) FindItemsByOrderIDs(ctx context.Context, orderIDs []string) ([]domain.OrderItem, error) {
	wanted := make(map[string]struct{}, len(orderIDs))
	for _, id := range orderIDs {
		wanted[id] = struct{}{}
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	items := []domain.OrderItem{}
	for _, item := range r.store.items {
		if _, ok := wanted[item.OrderID]; ok {
			item.Extras = append([]domain.ItemExtra{}, item.Extras...)
			items = append(items, item)
		}
	}
	return items, nil
}

type CatalogRepository struct {
	store *Store
}

func (r *CatalogRepository) FindProducts(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	products := []domain.Product{}
	for _, p := range r.store.products {
		if category == "" || p.Category == category {
			products = append(products, p)
		}
	}
	return products, nil
}

func (r *CatalogRepository) FindCategories(ctx context.Context) ([]domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	seen := map[domain.Category]struct{}{}
	categories := []domain.Category{}
	for _, p := range r.store.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories, nil
}

func (r *CatalogRepository) FindProductByID(ctx context.Context, id string) (*domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, p := range r.store.products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, errors.NewNotFoundError("Product not found")
}

func (r *CatalogRepository) FindDoughTypes(ctx context.Context) ([]domain.DoughType, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return append([]domain.DoughType{}, r.store.doughTypes...), nil
}

func (r *CatalogRepository) FindDoughTypeByName(ctx context.Context, name string) (*domain.DoughType, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, d := range r.store.doughTypes {
		if d.Name == name {
			dough := d
			return &dough, nil
		}
	}
	return nil, errors.NewNotFoundError(fmt.Sprintf("Dough type %q not found", name))
}

func (r *CatalogRepository) FindExtras(ctx context.Context) ([]domain.Extra, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return append([]domain.Extra{}, r.store.extras...), nil
}

func (r *CatalogRepository) FindExtraByID(ctx context.Context, id string) (*domain.Extra, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, e := range r.store.extras {
		if e.ID == id {
			extra := e
			return &extra, nil
		}
	}
	return nil, errors.NewNotFoundError(fmt.Sprintf("Extra %s not found", id))
}

func (r *CatalogRepository) InsertCatalog(ctx context.Context, products []domain.Product, doughTypes []domain.DoughType, extras []domain.Extra) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.products = append(r.store.products, products...)
	r.store.doughTypes = append(r.store.doughTypes, doughTypes...)
	r.store.extras = append(r.store.extras, extras...)
	return nil
}
