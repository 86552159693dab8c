package repository

import (
	"context"
	"database/sql"
	"fmt"

	"ristorante/internal/domain"
	"ristorante/internal/errors"
	"ristorante/internal/infrastructure/mysql"
)

type MySQLTableRepository struct {
	db *sql.DB
	tx *mysql.TxRunner
}

func NewMySQLTableRepository(db *sql.DB, tx *mysql.TxRunner) *MySQLTableRepository {
	return &MySQLTableRepository{db: db, tx: tx}
}

func (r *MySQLTableRepository) FindAll(ctx context.Context) ([]domain.Table, error) {
	query := `
		SELECT id, number, status, covers, use_count, is_closed
		FROM restaurant_tables
		WHERE is_closed = 0
		ORDER BY number`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying tables: %w", err)
	}
	defer rows.Close()

	tables := []domain.Table{}
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.Number, &t.Status, &t.Covers, &t.UseCount, &t.IsClosed); err != nil {
			return nil, fmt.Errorf("scanning table row: %w", err)
		}
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating table rows: %w", err)
	}

	return tables, nil
}

func (r *MySQLTableRepository) FindByID(ctx context.Context, id string) (*domain.Table, error) {
	query := `
		SELECT id, number, status, covers, use_count, is_closed
		FROM restaurant_tables
		WHERE id = ?`

	var t domain.Table
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Number, &t.Status, &t.Covers, &t.UseCount, &t.IsClosed)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Table not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying table by id: %w", err)
	}

	return &t, nil
}

func (r *MySQLTableRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM restaurant_tables`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting tables: %w", err)
	}
	return count, nil
}

func (r *MySQLTableRepository) InsertMany(ctx context.Context, tables []domain.Table) error {
	return r.tx.Run(ctx, func(ctx context.Context, tx *sql.Tx) error {
		for _, t := range tables {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO restaurant_tables (id, number, status, covers, use_count, is_closed) VALUES (?, ?, ?, ?, ?, ?)`,
				t.ID, t.Number, t.Status, t.Covers, t.UseCount, t.IsClosed,
			)
			if err != nil {
				return fmt.Errorf("inserting table %d: %w", t.Number, err)
			}
		}
		return nil
	})
}

// Open seats covers at the table and creates its order in one transaction.
// The table row is locked so two opens of the same table cannot both pass the
// active order check.
func (r *MySQLTableRepository) Open(ctx context.Context, tableID string, covers int, order domain.Order) error {
	return r.tx.Run(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := lockTable(ctx, tx, tableID); err != nil {
			return err
		}

		var active int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM orders WHERE table_id = ? AND is_closed = 0`, tableID,
		).Scan(&active)
		if err != nil {
			return fmt.Errorf("counting active orders: %w", err)
		}
		if active > 0 {
			return errors.NewConflictError("Table already has an active order")
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE restaurant_tables SET status = ?, covers = ?, use_count = use_count + 1 WHERE id = ?`,
			domain.TableStatusOccupied, covers, tableID,
		)
		if err != nil {
			return fmt.Errorf("updating table status: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO orders (id, table_id, created_at, is_sent, is_closed) VALUES (?, ?, ?, ?, ?)`,
			order.ID, order.TableID, order.CreatedAt, order.IsSent, order.IsClosed,
		)
		if err != nil {
			return fmt.Errorf("inserting order: %w", err)
		}

		return nil
	})
}

// Close closes every open order of the table and frees it.
func (r *MySQLTableRepository) Close(ctx context.Context, tableID string) error {
	return r.tx.Run(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := lockTable(ctx, tx, tableID); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`UPDATE orders SET is_closed = 1 WHERE table_id = ? AND is_closed = 0`, tableID,
		)
		if err != nil {
			return fmt.Errorf("closing orders: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE restaurant_tables SET status = ?, covers = 0 WHERE id = ?`,
			domain.TableStatusFree, tableID,
		)
		if err != nil {
			return fmt.Errorf("freeing table: %w", err)
		}

		return nil
	})
}

func lockTable(ctx context.Context, tx *sql.Tx, tableID string) error {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM restaurant_tables WHERE id = ? FOR UPDATE`, tableID).Scan(&id)
	if err == sql.ErrNoRows {
		return errors.NewNotFoundError("Table not found")
	}
	if err != nil {
		return fmt.Errorf("locking table: %w", err)
	}
	return nil
}
