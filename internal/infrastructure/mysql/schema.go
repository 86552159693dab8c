package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []struct {
	name  string
	query string
}{
	{"restaurant_tables", `
	CREATE TABLE IF NOT EXISTS restaurant_tables (
		id CHAR(36) NOT NULL PRIMARY KEY,
		number INT NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'free',
		covers INT NOT NULL DEFAULT 0,
		use_count INT NOT NULL DEFAULT 0,
		is_closed TINYINT(1) NOT NULL DEFAULT 0,
		UNIQUE KEY uq_number (number)
	)`},
	{"products", `
	CREATE TABLE IF NOT EXISTS products (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		category VARCHAR(32) NOT NULL,
		type VARCHAR(16) NOT NULL,
		is_customizable TINYINT(1) NOT NULL DEFAULT 0,
		position INT NOT NULL AUTO_INCREMENT,
		UNIQUE KEY uq_position (position),
		INDEX idx_category (category)
	)`},
	{"dough_types", `
	CREATE TABLE IF NOT EXISTS dough_types (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		additional_price DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		position INT NOT NULL AUTO_INCREMENT,
		UNIQUE KEY uq_position (position),
		UNIQUE KEY uq_name (name)
	)`},
	{"extras", `
	CREATE TABLE IF NOT EXISTS extras (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		position INT NOT NULL AUTO_INCREMENT,
		UNIQUE KEY uq_position (position)
	)`},
	{"orders", `
	CREATE TABLE IF NOT EXISTS orders (
		id CHAR(36) NOT NULL PRIMARY KEY,
		table_id CHAR(36) NOT NULL,
		created_at DATETIME(6) NOT NULL,
		is_sent TINYINT(1) NOT NULL DEFAULT 0,
		is_closed TINYINT(1) NOT NULL DEFAULT 0,
		INDEX idx_table_open (table_id, is_closed)
	)`},
	{"order_items", `
	CREATE TABLE IF NOT EXISTS order_items (
		id CHAR(36) NOT NULL PRIMARY KEY,
		order_id CHAR(36) NOT NULL,
		product_id CHAR(36) NOT NULL,
		name VARCHAR(255) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		product_type VARCHAR(16) NOT NULL,
		dough_type VARCHAR(100) NULL,
		total_price DECIMAL(10,2) NOT NULL,
		extras JSON NOT NULL,
		created_at DATETIME(6) NOT NULL,
		INDEX idx_order (order_id)
	)`},
}

// Tables lists the schema tables in creation order.
func Tables() []string {
	names := make([]string, len(schema))
	for i, s := range schema {
		names[i] = s.name
	}
	return names
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, s := range schema {
		if _, err := db.ExecContext(ctx, s.query); err != nil {
			return fmt.Errorf("creating table %s: %w", s.name, err)
		}
	}
	return nil
}
