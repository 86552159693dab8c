package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ristorante/internal/domain"
	"ristorante/internal/dto"
	apperrors "ristorante/internal/errors"
)

type TableRepository interface {
	FindAll(ctx context.Context) ([]domain.Table, error)
	FindByID(ctx context.Context, id string) (*domain.Table, error)
	Open(ctx context.Context, tableID string, covers int, order domain.Order) error
	Close(ctx context.Context, tableID string) error
}

type OrderRepository interface {
	FindActiveByTable(ctx context.Context, tableID string) (*domain.Order, error)
	FindOpen(ctx context.Context) ([]domain.Order, error)
	FindItemsByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	FindItemsByOrderIDs(ctx context.Context, orderIDs []string) ([]domain.OrderItem, error)
}

// Locker serializes work on a single table.
type Locker interface {
	Lock(key string) (unlock func())
}

type TableService struct {
	tables TableRepository
	orders OrderRepository
	locker Locker
	logger *zap.Logger
	now    func() time.Time
}

func NewTableService(tables TableRepository, orders OrderRepository, locker Locker, logger *zap.Logger) *TableService {
	return &TableService{
		tables: tables,
		orders: orders,
		locker: locker,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ListTables annotates every table with the item count and total of all its
// open orders.
func (s *TableService) ListTables(ctx context.Context) ([]dto.TableSummary, error) {
	tables, err := s.tables.FindAll(ctx)
	if err != nil {
		return nil, apperrors.WrapInternal("failed to list tables", err)
	}

	openOrders, err := s.orders.FindOpen(ctx)
	if err != nil {
		return nil, apperrors.WrapInternal("failed to list tables", err)
	}

	tableByOrder := make(map[string]string, len(openOrders))
	orderIDs := make([]string, 0, len(openOrders))
	for _, o := range openOrders {
		tableByOrder[o.ID] = o.TableID
		orderIDs = append(orderIDs, o.ID)
	}

	items, err := s.orders.FindItemsByOrderIDs(ctx, orderIDs)
	if err != nil {
		return nil, apperrors.WrapInternal("failed to list tables", err)
	}

	counts := map[string]int{}
	totals := map[string]float64{}
	for _, item := range items {
		tableID := tableByOrder[item.OrderID]
		counts[tableID]++
		totals[tableID] += item.TotalPrice
	}

	summaries := make([]dto.TableSummary, 0, len(tables))
	for _, t := range tables {
		summaries = append(summaries, dto.TableSummary{
			Table:      t,
			ItemsCount: counts[t.ID],
			Total:      totals[t.ID],
		})
	}

	return summaries, nil
}

func (s *TableService) GetTable(ctx context.Context, tableID string) (*dto.TableDetail, error) {
	table, err := s.tables.FindByID(ctx, tableID)
	if err != nil {
		return nil, err
	}

	detail := &dto.TableDetail{Table: *table}

	order, err := s.orders.FindActiveByTable(ctx, tableID)
	if _, ok := apperrors.IsNotFoundError(err); ok {
		return detail, nil
	}
	if err != nil {
		return nil, err
	}

	items, err := s.orders.FindItemsByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	detail.ActiveOrder = order
	detail.Items = dto.NewItems(items)
	return detail, nil
}

// OpenTable seats covers at a free table and returns the id of its new order.
func (s *TableService) OpenTable(ctx context.Context, tableID string, covers int) (string, error) {
	unlock := s.locker.Lock(tableID)
	defer unlock()

	order := domain.NewOrder(uuid.NewString(), tableID, s.now())
	if err := s.tables.Open(ctx, tableID, covers, order); err != nil {
		if _, ok := apperrors.IsConflictError(err); ok {
			s.logger.Warn("table already open", zap.String("tableId", tableID))
		}
		return "", apperrors.WrapInternal("failed to open table", err)
	}

	s.logger.Info("table opened",
		zap.String("tableId", tableID),
		zap.String("orderId", order.ID),
		zap.Int("covers", covers),
	)
	return order.ID, nil
}

func (s *TableService) CloseTable(ctx context.Context, tableID string) error {
	unlock := s.locker.Lock(tableID)
	defer unlock()

	if err := s.tables.Close(ctx, tableID); err != nil {
		return apperrors.WrapInternal("failed to close table", err)
	}

	s.logger.Info("table closed", zap.String("tableId", tableID))
	return nil
}
