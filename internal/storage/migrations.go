package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial portfolio schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS towers (
					id TEXT PRIMARY KEY,
					hash TEXT UNIQUE NOT NULL,
					tower_id TEXT NOT NULL,
					name TEXT,
					type TEXT,
					status TEXT,
					latitude REAL,
					longitude REAL,
					height REAL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_towers_status ON towers(status)`,

				`CREATE TABLE IF NOT EXISTS landlords (
					id TEXT PRIMARY KEY,
					hash TEXT UNIQUE NOT NULL,
					landlord_id TEXT NOT NULL,
					name TEXT NOT NULL,
					contact_name TEXT,
					email TEXT,
					phone TEXT,
					address TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS contracts (
					id TEXT PRIMARY KEY,
					hash TEXT UNIQUE NOT NULL,
					contract_id TEXT NOT NULL,
					tower_id TEXT,
					landlord_id TEXT,
					start_date DATETIME,
					end_date DATETIME,
					monthly_rate REAL,
					currency TEXT,
					status TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_contracts_end_date ON contracts(end_date)`,

				`CREATE TABLE IF NOT EXISTS payments (
					id TEXT PRIMARY KEY,
					hash TEXT UNIQUE NOT NULL,
					contract_id TEXT,
					payment_date DATETIME,
					amount REAL,
					status TEXT,
					reference_id TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_payments_date ON payments(payment_date)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Durable response cache for the query assistant",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS response_cache (
					position INTEGER PRIMARY KEY,
					prompt TEXT NOT NULL,
					model TEXT NOT NULL,
					response TEXT NOT NULL,
					tokens_used INTEGER DEFAULT 0,
					cached_at DATETIME NOT NULL
				)`)
			if err != nil {
				return fmt.Errorf("failed to create response_cache: %w", err)
			}
			return nil
		},
	},
}

// Migrate brings the database schema up to the expected version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}

		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		slog.Info("Applied migration",
			"version", m.Version,
			"description", m.Description)
	}

	return nil
}
