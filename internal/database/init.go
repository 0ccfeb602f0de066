package database

import (
	"context"
	"fmt"

	"github.com/CanyenPalmer/Best-Bet-NFL/internal/config"
)

// Initialize creates a database connection pool and ensures the
// evaluation history schema exists.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

// ensureSchema creates the evaluations table when it is missing
func ensureSchema(ctx context.Context, db *DB) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS evaluations (
			id UUID PRIMARY KEY,
			label TEXT NOT NULL,
			market TEXT NOT NULL,
			player TEXT,
			opponent TEXT,
			stake NUMERIC(12,2) NOT NULL,
			payout_if_win NUMERIC(12,2) NOT NULL,
			probability NUMERIC(6,4) NOT NULL,
			expected_value NUMERIC(12,2) NOT NULL,
			evaluated_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_evaluations_evaluated_at
			ON evaluations (evaluated_at DESC);
	`)
	return err
}
