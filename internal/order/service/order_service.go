package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ristorante/internal/domain"
	"ristorante/internal/dto"
	apperrors "ristorante/internal/errors"
	"ristorante/internal/infrastructure/rabbitmq"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindActiveByTable(ctx context.Context, tableID string) (*domain.Order, error)
	FindClosed(ctx context.Context) ([]domain.Order, error)
	MarkSent(ctx context.Context, id string) (bool, error)
	InsertItem(ctx context.Context, item domain.OrderItem) error
	DeleteItem(ctx context.Context, id string) error
	FindItemsByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	FindItemsByOrderIDs(ctx context.Context, orderIDs []string) ([]domain.OrderItem, error)
}

type CatalogRepository interface {
	FindProductByID(ctx context.Context, id string) (*domain.Product, error)
	FindDoughTypeByName(ctx context.Context, name string) (*domain.DoughType, error)
	FindExtraByID(ctx context.Context, id string) (*domain.Extra, error)
}

type TableRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Table, error)
}

type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

type Locker interface {
	Lock(key string) (unlock func())
}

type OrderService struct {
	orders    OrderRepository
	catalog   CatalogRepository
	tables    TableRepository
	publisher Publisher
	locker    Locker
	logger    *zap.Logger
	now       func() time.Time
}

func NewOrderService(
	orders OrderRepository,
	catalog CatalogRepository,
	tables TableRepository,
	publisher Publisher,
	locker Locker,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		catalog:   catalog,
		tables:    tables,
		publisher: publisher,
		locker:    locker,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// AddItem adds a product to the table's active order. The table lock is held
// from the order lookup to the insert so a concurrent close cannot slip in.
func (s *OrderService) AddItem(ctx context.Context, req dto.AddItemRequest) (*dto.Item, error) {
	unlock := s.locker.Lock(req.TableID)
	defer unlock()

	// 1. Active order of the table
	order, err := s.orders.FindActiveByTable(ctx, req.TableID)
	if err != nil {
		return nil, err
	}

	// 2. Resolve catalog references
	product, err := s.catalog.FindProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	var dough *domain.DoughType
	if req.DoughType != nil && strings.TrimSpace(*req.DoughType) != "" {
		dough, err = s.catalog.FindDoughTypeByName(ctx, *req.DoughType)
		if err != nil {
			return nil, err
		}
	}

	extras := make([]domain.ItemExtra, 0, len(req.ExtraIDs))
	for _, extraID := range req.ExtraIDs {
		extra, err := s.catalog.FindExtraByID(ctx, extraID)
		if err != nil {
			return nil, err
		}
		extras = append(extras, domain.ItemExtra{
			ID:    uuid.NewString(),
			Name:  extra.Name,
			Price: extra.Price,
		})
	}

	// 3. Price and persist the snapshot
	item := domain.NewOrderItem(uuid.NewString(), order.ID, *product, dough, extras, s.now())
	if err := s.orders.InsertItem(ctx, item); err != nil {
		return nil, apperrors.NewInternalError("failed to add item", err)
	}

	s.logger.Info("item added",
		zap.String("orderId", order.ID),
		zap.String("itemId", item.ID),
		zap.String("product", item.Name),
		zap.Float64("totalPrice", item.TotalPrice),
	)

	result := dto.NewItem(item)
	return &result, nil
}

func (s *OrderService) RemoveItem(ctx context.Context, itemID string) error {
	if err := s.orders.DeleteItem(ctx, itemID); err != nil {
		return apperrors.WrapInternal("failed to remove item", err)
	}
	s.logger.Info("item removed", zap.String("itemId", itemID))
	return nil
}

func (s *OrderService) GetActiveOrder(ctx context.Context, tableID string) (*dto.ActiveOrder, error) {
	order, err := s.orders.FindActiveByTable(ctx, tableID)
	if err != nil {
		return nil, err
	}

	items, err := s.orders.FindItemsByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	return &dto.ActiveOrder{
		Order: *order,
		Items: dto.NewItems(items),
		Total: domain.ItemsTotal(items),
	}, nil
}

// SendOrder marks the order as sent. Tickets go out only on the first send;
// sending again is a no-op.
func (s *OrderService) SendOrder(ctx context.Context, orderID string) error {
	sent, err := s.orders.MarkSent(ctx, orderID)
	if err != nil {
		return apperrors.WrapInternal("failed to send order", err)
	}
	if !sent {
		s.logger.Debug("order already sent", zap.String("orderId", orderID))
		return nil
	}

	s.logger.Info("order sent", zap.String("orderId", orderID))
	s.publishTickets(ctx, orderID)
	return nil
}

// publishTickets sends one ticket per station. Failures are logged only, the
// order stays sent.
func (s *OrderService) publishTickets(ctx context.Context, orderID string) {
	logger := s.logger.With(zap.String("orderId", orderID))

	items, err := s.orders.FindItemsByOrderID(ctx, orderID)
	if err != nil {
		logger.Warn("failed to load items for tickets", zap.Error(err))
		return
	}

	tableNumber := 0
	if order, err := s.orders.FindByID(ctx, orderID); err == nil {
		if table, err := s.tables.FindByID(ctx, order.TableID); err == nil {
			tableNumber = table.Number
		}
	}

	groups := domain.GroupItems(items)
	stations := []struct {
		name  string
		queue string
		items []domain.OrderItem
	}{
		{string(domain.ProductTypeKitchen), rabbitmq.QueueKitchenTickets, groups.Kitchen},
		{string(domain.ProductTypePizzeria), rabbitmq.QueuePizzeriaTickets, append(groups.Pizzeria, groups.GlutenFree...)},
	}

	sentAt := s.now()
	for _, station := range stations {
		if len(station.items) == 0 {
			continue
		}

		ticket := dto.Ticket{
			OrderID:     orderID,
			TableNumber: tableNumber,
			Station:     station.name,
			Items:       make([]dto.TicketItem, 0, len(station.items)),
			SentAt:      sentAt,
		}
		for _, item := range station.items {
			ticket.Items = append(ticket.Items, dto.TicketItem{
				ID:             item.ID,
				Name:           item.Name,
				Customizations: item.Customizations(),
				GlutenFree:     item.IsGlutenFree(),
			})
		}

		body, err := json.Marshal(ticket)
		if err != nil {
			logger.Warn("failed to encode ticket", zap.String("station", station.name), zap.Error(err))
			continue
		}

		if err := s.publisher.Publish(ctx, station.queue, body); err != nil {
			logger.Warn("failed to publish ticket", zap.String("station", station.name), zap.Error(err))
			continue
		}
		logger.Debug("ticket published", zap.String("station", station.name), zap.Int("items", len(ticket.Items)))
	}
}

// GetReceipt groups the items of any order, open or closed, by preparation
// station.
func (s *OrderService) GetReceipt(ctx context.Context, orderID string) (*dto.Receipt, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	table, err := s.tables.FindByID(ctx, order.TableID)
	if _, ok := apperrors.IsNotFoundError(err); ok {
		table, err = nil, nil
	}
	if err != nil {
		return nil, err
	}

	items, err := s.orders.FindItemsByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	groups := domain.GroupItems(items)
	return &dto.Receipt{
		Order:           *order,
		Table:           table,
		KitchenItems:    dto.NewItems(groups.Kitchen),
		PizzeriaItems:   dto.NewItems(groups.Pizzeria),
		GlutenFreeItems: dto.NewItems(groups.GlutenFree),
		DoughSummary:    domain.DoughSummary(items),
		Total:           domain.ItemsTotal(items),
	}, nil
}

// CashRegister lists closed orders newest first with the revenue they made.
func (s *OrderService) CashRegister(ctx context.Context) (*dto.CashRegister, error) {
	orders, err := s.orders.FindClosed(ctx)
	if err != nil {
		return nil, apperrors.WrapInternal("failed to load cash register", err)
	}

	orderIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}

	items, err := s.orders.FindItemsByOrderIDs(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	itemsByOrder := map[string][]domain.OrderItem{}
	for _, item := range items {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	tables := map[string]*domain.Table{}
	register := &dto.CashRegister{ClosedOrders: make([]dto.ClosedOrder, 0, len(orders))}
	for _, o := range orders {
		table, ok := tables[o.TableID]
		if !ok {
			table, err = s.tables.FindByID(ctx, o.TableID)
			if _, notFound := apperrors.IsNotFoundError(err); notFound {
				table, err = nil, nil
			}
			if err != nil {
				return nil, err
			}
			tables[o.TableID] = table
		}

		closed := dto.ClosedOrder{
			OrderID: o.ID,
			Date:    o.CreatedAt,
			Items:   []dto.CashRegisterItem{},
			Total:   domain.ItemsTotal(itemsByOrder[o.ID]),
		}
		if table != nil {
			closed.TableNumber = table.Number
			closed.Covers = table.Covers
			closed.UseCount = table.UseCount
		}
		for _, item := range itemsByOrder[o.ID] {
			closed.Items = append(closed.Items, dto.CashRegisterItem{
				ID:             item.ID,
				Name:           item.Name,
				TotalPrice:     item.TotalPrice,
				Customizations: item.Customizations(),
			})
		}

		register.ClosedOrders = append(register.ClosedOrders, closed)
		register.TotalRevenue += closed.Total
	}

	return register, nil
}
