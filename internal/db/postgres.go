// internal/db/postgres.go
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// ConnectPostgres opens a pool, verifies it and applies the schema.
func ConnectPostgres(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}

	if err := InitSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return pool, nil
}

var schema = []string{
	// -------------------------------
	// MERCHANTS
	// -------------------------------
	`CREATE TABLE IF NOT EXISTS merchants (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'merchant',
		status VARCHAR(20) NOT NULL DEFAULT 'onboarding',
		business_name VARCHAR(255),
		category VARCHAR(100),
		phone VARCHAR(20),
		description TEXT,
		address TEXT,
		city VARCHAR(100),
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		last_login TIMESTAMPTZ,
		approved_at TIMESTAMPTZ,
		suspended_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	// -------------------------------
	// MENU
	// -------------------------------
	`CREATE TABLE IF NOT EXISTS menu_items (
		id UUID PRIMARY KEY,
		merchant_id BIGINT NOT NULL REFERENCES merchants(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		category VARCHAR(100),
		image_url TEXT,
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_items_merchant ON menu_items(merchant_id)`,
	`CREATE TABLE IF NOT EXISTS menu_collections (
		id UUID PRIMARY KEY,
		merchant_id BIGINT NOT NULL REFERENCES merchants(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		menu_item_ids TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	// -------------------------------
	// DEALS
	// -------------------------------
	`CREATE TABLE IF NOT EXISTS deals (
		id BIGSERIAL PRIMARY KEY,
		merchant_id BIGINT NOT NULL REFERENCES merchants(id) ON DELETE CASCADE,
		deal_code VARCHAR(40) UNIQUE NOT NULL,
		title VARCHAR(100) NOT NULL,
		description TEXT,
		deal_type VARCHAR(20) NOT NULL,
		category VARCHAR(100),
		discount_percentage DOUBLE PRECISION,
		discount_amount DOUBLE PRECISION,
		custom_offer_display TEXT,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ NOT NULL,
		redemption_instructions TEXT,
		image_urls TEXT[],
		menu_collection_id UUID,
		max_redemptions INTEGER,
		min_order_amount DOUBLE PRECISION,
		bounty_reward_amount DOUBLE PRECISION,
		min_referrals_required INTEGER,
		kickback_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		access_code VARCHAR(20),
		recurring_days TEXT[],
		recurring_frequency VARCHAR(10),
		recurring_occurrences INTEGER,
		original_value DOUBLE PRECISION NOT NULL DEFAULT 0,
		final_value DOUBLE PRECISION NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (end_time > start_time)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_deals_merchant ON deals(merchant_id, created_at DESC)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_deals_access_code ON deals(merchant_id, access_code) WHERE access_code IS NOT NULL`,
	`CREATE TABLE IF NOT EXISTS deal_menu_items (
		deal_id BIGINT NOT NULL REFERENCES deals(id) ON DELETE CASCADE,
		menu_item_id UUID NOT NULL,
		name VARCHAR(255) NOT NULL,
		base_price DOUBLE PRECISION NOT NULL,
		is_hidden BOOLEAN NOT NULL DEFAULT FALSE,
		custom_price DOUBLE PRECISION,
		custom_discount DOUBLE PRECISION,
		discount_amount DOUBLE PRECISION,
		final_price DOUBLE PRECISION NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (deal_id, menu_item_id)
	)`,
}

// InitSchema creates missing tables and indexes.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
