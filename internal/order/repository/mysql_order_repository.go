package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"ristorante/internal/domain"
	"ristorante/internal/errors"
)

const orderColumns = `id, table_id, created_at, is_sent, is_closed`

const itemColumns = `id, order_id, product_id, name, price, product_type, dough_type, total_price, extras, created_at`

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return order, nil
}

func (r *MySQLOrderRepository) FindActiveByTable(ctx context.Context, tableID string) (*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE table_id = ? AND is_closed = 0
		ORDER BY created_at DESC
		LIMIT 1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, tableID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("No active order found for this table")
	}
	if err != nil {
		return nil, fmt.Errorf("querying active order: %w", err)
	}

	return order, nil
}

func (r *MySQLOrderRepository) FindOpen(ctx context.Context) ([]domain.Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE is_closed = 0 ORDER BY created_at`)
}

// FindClosed returns closed orders newest first.
func (r *MySQLOrderRepository) FindClosed(ctx context.Context) ([]domain.Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE is_closed = 1 ORDER BY created_at DESC`)
}

// MarkSent flips is_sent and reports whether this call did it. Sending an
// already sent order returns false without error.
func (r *MySQLOrderRepository) MarkSent(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE orders SET is_sent = 1 WHERE id = ? AND is_sent = 0`, id)
	if err != nil {
		return false, fmt.Errorf("marking order sent: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}

	return true, nil
}

func (r *MySQLOrderRepository) InsertItem(ctx context.Context, item domain.OrderItem) error {
	extras := item.Extras
	if extras == nil {
		extras = []domain.ItemExtra{}
	}
	extrasJSON, err := json.Marshal(extras)
	if err != nil {
		return fmt.Errorf("encoding item extras: %w", err)
	}

	query := `INSERT INTO order_items (` + itemColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		item.ID, item.OrderID, item.ProductID, item.Name, item.Price, item.ProductType,
		item.DoughType, item.TotalPrice, extrasJSON, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting order item: %w", err)
	}

	return nil
}

func (r *MySQLOrderRepository) DeleteItem(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM order_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting order item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError("Item not found")
	}

	return nil
}

func (r *MySQLOrderRepository) FindItemsByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	return r.FindItemsByOrderIDs(ctx, []string{orderID})
}

func (r *MySQLOrderRepository) FindItemsByOrderIDs(ctx context.Context, orderIDs []string) ([]domain.OrderItem, error) {
	if len(orderIDs) == 0 {
		return []domain.OrderItem{}, nil
	}

	placeholders := make([]string, len(orderIDs))
	args := make([]interface{}, len(orderIDs))
	for i, id := range orderIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM order_items
		WHERE order_id IN (%s)
		ORDER BY created_at`,
		itemColumns, strings.Join(placeholders, ", "),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var (
			item       domain.OrderItem
			dough      sql.NullString
			extrasJSON []byte
		)
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Price, &item.ProductType,
			&dough, &item.TotalPrice, &extrasJSON, &item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}

		if dough.Valid {
			item.DoughType = &dough.String
		}
		item.Extras = []domain.ItemExtra{}
		if len(extrasJSON) > 0 {
			if err := json.Unmarshal(extrasJSON, &item.Extras); err != nil {
				return nil, fmt.Errorf("decoding item extras: %w", err)
			}
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return items, nil
}

func (r *MySQLOrderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(&o.ID, &o.TableID, &o.CreatedAt, &o.IsSent, &o.IsClosed); err != nil {
		return nil, err
	}
	return &o, nil
}
