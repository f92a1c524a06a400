package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL DEFAULT '',
		mobile VARCHAR(32) NOT NULL DEFAULT '',
		role VARCHAR(20) NOT NULL CHECK (role IN ('SUPER_ADMIN', 'ADMIN', 'USER')),
		owner_admin_id BIGINT REFERENCES users(id),
		wallet_balance NUMERIC(20, 4) NOT NULL DEFAULT 0 CHECK (wallet_balance >= 0),
		status VARCHAR(10) NOT NULL DEFAULT 'ACTIVE',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS users_owner_admin_id_idx ON users (owner_admin_id)`,
	`CREATE TABLE IF NOT EXISTS commodities (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) UNIQUE NOT NULL,
		unit VARCHAR(32) NOT NULL,
		current_price NUMERIC(20, 4) NOT NULL CHECK (current_price > 0),
		previous_price NUMERIC(20, 4) NOT NULL DEFAULT 0,
		last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		commodity_id BIGINT NOT NULL REFERENCES commodities(id),
		type VARCHAR(4) NOT NULL CHECK (type IN ('BUY', 'SELL')),
		quantity BIGINT NOT NULL CHECK (quantity > 0),
		price_per_unit NUMERIC(20, 4) NOT NULL,
		total_amount NUMERIC(24, 4) NOT NULL,
		status VARCHAR(10) NOT NULL DEFAULT 'PENDING',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		processed_at TIMESTAMPTZ,
		processed_by BIGINT REFERENCES users(id)
	)`,
	`CREATE INDEX IF NOT EXISTS orders_user_id_idx ON orders (user_id)`,
	`CREATE TABLE IF NOT EXISTS wallet_logs (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		change_amount NUMERIC(24, 4) NOT NULL,
		entry_type VARCHAR(10) NOT NULL,
		balance_after NUMERIC(24, 4) NOT NULL,
		remarks TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id BIGSERIAL PRIMARY KEY,
		admin_id BIGINT NOT NULL REFERENCES users(id),
		order_id BIGINT NOT NULL REFERENCES orders(id),
		message TEXT NOT NULL,
		read_status BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the tables if they don't exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			slog.Error("failed to apply schema", "method", "Migrate", "error", err)
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	slog.Info("schema applied", "statements", len(schema))
	return nil
}
