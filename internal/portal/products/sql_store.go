package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLStore serves the catalogue from a local SQLite database.
type SQLStore struct {
	db *sql.DB
}

// OpenSQLStore opens (creating if needed) the SQLite file at path and applies
// the schema. Use ":memory:" for an ephemeral store.
func OpenSQLStore(path string) (*SQLStore, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("products: create database directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("products: open database: %w", err)
	}
	// SQLite needs a single writer; an in-memory database also lives per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("products: ping database: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		price INTEGER NOT NULL CHECK (price >= 0),
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("products: apply schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Insert stores p and returns it with the assigned ID.
func (s *SQLStore) Insert(ctx context.Context, p Product) (Product, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO products (name, price, description) VALUES (?, ?, ?)`, p.Name, p.Price, p.Description)
	if err != nil {
		return Product{}, fmt.Errorf("products: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Product{}, fmt.Errorf("products: insert id: %w", err)
	}
	p.ID = id
	return p, nil
}

// SeedIfEmpty inserts items only when the table has no rows.
func (s *SQLStore) SeedIfEmpty(ctx context.Context, items []Product) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("products: count: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, item := range items {
		if _, err := s.Insert(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// GetProducts lists products ordered by ID. The token is not used locally.
func (s *SQLStore) GetProducts(ctx context.Context, _ string) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, price, description FROM products ORDER BY id`)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("products: query: %v: %w", err, newAPIError(http.StatusServiceUnavailable, ""))
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description); err != nil {
			return nil, fmt.Errorf("products: scan: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("products: iterate: %w", err)
	}
	return result, nil
}
