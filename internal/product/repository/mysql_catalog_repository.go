package repository

import (
	"context"
	"database/sql"
	"fmt"

	"ristorante/internal/domain"
	"ristorante/internal/errors"
)

type MySQLCatalogRepository struct {
	db *sql.DB
}

func NewMySQLCatalogRepository(db *sql.DB) *MySQLCatalogRepository {
	return &MySQLCatalogRepository{db: db}
}

// FindProducts returns the menu in insertion order. An empty category
// returns every product.
func (r *MySQLCatalogRepository) FindProducts(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	query := `
		SELECT id, name, price, category, type, is_customizable
		FROM products`
	var args []interface{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Type, &p.IsCustomizable); err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

func (r *MySQLCatalogRepository) FindCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM products`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return categories, nil
}

func (r *MySQLCatalogRepository) FindProductByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT id, name, price, category, type, is_customizable
		FROM products
		WHERE id = ?`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Type, &p.IsCustomizable)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	return &p, nil
}

func (r *MySQLCatalogRepository) FindDoughTypes(ctx context.Context) ([]domain.DoughType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, additional_price FROM dough_types ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying dough types: %w", err)
	}
	defer rows.Close()

	doughTypes := []domain.DoughType{}
	for rows.Next() {
		var d domain.DoughType
		if err := rows.Scan(&d.ID, &d.Name, &d.AdditionalPrice); err != nil {
			return nil, fmt.Errorf("scanning dough type row: %w", err)
		}
		doughTypes = append(doughTypes, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dough type rows: %w", err)
	}

	return doughTypes, nil
}

func (r *MySQLCatalogRepository) FindDoughTypeByName(ctx context.Context, name string) (*domain.DoughType, error) {
	var d domain.DoughType
	err := r.db.QueryRowContext(ctx, `SELECT id, name, additional_price FROM dough_types WHERE name = ?`, name).
		Scan(&d.ID, &d.Name, &d.AdditionalPrice)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("Dough type %q not found", name))
	}
	if err != nil {
		return nil, fmt.Errorf("querying dough type by name: %w", err)
	}

	return &d, nil
}

func (r *MySQLCatalogRepository) FindExtras(ctx context.Context) ([]domain.Extra, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, price FROM extras ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying extras: %w", err)
	}
	defer rows.Close()

	extras := []domain.Extra{}
	for rows.Next() {
		var e domain.Extra
		if err := rows.Scan(&e.ID, &e.Name, &e.Price); err != nil {
			return nil, fmt.Errorf("scanning extra row: %w", err)
		}
		extras = append(extras, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating extra rows: %w", err)
	}

	return extras, nil
}

func (r *MySQLCatalogRepository) FindExtraByID(ctx context.Context, id string) (*domain.Extra, error) {
	var e domain.Extra
	err := r.db.QueryRowContext(ctx, `SELECT id, name, price FROM extras WHERE id = ?`, id).
		Scan(&e.ID, &e.Name, &e.Price)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("Extra %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying extra by id: %w", err)
	}

	return &e, nil
}

// InsertCatalog writes the whole catalog in one transaction.
func (r *MySQLCatalogRepository) InsertCatalog(ctx context.Context, products []domain.Product, doughTypes []domain.DoughType, extras []domain.Extra) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning catalog transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range products {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO products (id, name, price, category, type, is_customizable) VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Price, p.Category, p.Type, p.IsCustomizable,
		)
		if err != nil {
			return fmt.Errorf("inserting product %s: %w", p.Name, err)
		}
	}

	for _, d := range doughTypes {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO dough_types (id, name, additional_price) VALUES (?, ?, ?)`,
			d.ID, d.Name, d.AdditionalPrice,
		)
		if err != nil {
			return fmt.Errorf("inserting dough type %s: %w", d.Name, err)
		}
	}

	for _, e := range extras {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO extras (id, name, price) VALUES (?, ?, ?)`,
			e.ID, e.Name, e.Price,
		)
		if err != nil {
			return fmt.Errorf("inserting extra %s: %w", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing catalog: %w", err)
	}

	return nil
}
