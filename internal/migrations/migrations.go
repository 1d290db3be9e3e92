package migrations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Run creates the database schema required for the pharmacy backend.
func Run(ctx context.Context, db *pgxpool.Pool) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'seller',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS suppliers (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			margin_percent NUMERIC(5,2) NOT NULL DEFAULT 0 CHECK (margin_percent >= 0),
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			purchase_price NUMERIC(12,2) NOT NULL DEFAULT 0,
			sale_price_usd NUMERIC(12,2) NOT NULL DEFAULT 0,
			stock_qty BIGINT NOT NULL DEFAULT 0 CHECK (stock_qty >= 0),
			initial_qty BIGINT NOT NULL DEFAULT 0,
			alert_qty BIGINT NOT NULL DEFAULT 10,
			expiry_alert_days BIGINT NOT NULL DEFAULT 30,
			expiry_date DATE,
			supplier_id BIGINT NOT NULL REFERENCES suppliers(id) ON DELETE RESTRICT,
			category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS clients (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS exchange_rates (
			id BIGSERIAL PRIMARY KEY,
			currency_code TEXT NOT NULL UNIQUE,
			fc_amount NUMERIC(15,2) NOT NULL CHECK (fc_amount > 0),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS sales (
			id BIGSERIAL PRIMARY KEY,
			reference VARCHAR(16) NOT NULL DEFAULT '',
			client_id BIGINT REFERENCES clients(id) ON DELETE SET NULL,
			seller_id BIGINT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
			sale_type TEXT NOT NULL DEFAULT 'retail',
			payment_mode TEXT NOT NULL DEFAULT 'cash',
			total NUMERIC(15,2) NOT NULL DEFAULT 0,
			paid_amount NUMERIC(15,2) NOT NULL DEFAULT 0,
			is_settled BOOLEAN NOT NULL DEFAULT FALSE,
			note TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS sale_lines (
			id BIGSERIAL PRIMARY KEY,
			sale_id BIGINT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
			product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
			quantity BIGINT NOT NULL CHECK (quantity > 0),
			unit_price NUMERIC(12,2) NOT NULL,
			line_amount NUMERIC(15,2) NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS audit_log (
			id BIGSERIAL PRIMARY KEY,
			at TIMESTAMPTZ DEFAULT NOW(),
			user_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
			action TEXT NOT NULL,
			entity TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS user_preferences (
			user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			default_supplier_id BIGINT REFERENCES suppliers(id) ON DELETE SET NULL,
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_sale_lines_sale_id ON sale_lines(sale_id);`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_at ON audit_log(at);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
