package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Migration is one idempotent schema change. Up runs inside the same
// transaction as the ledger insert, so a failed migration leaves no trace.
type Migration struct {
	ID   string
	Name string
	Up   func(ctx context.Context, tx *sqlx.Tx) error
}

// migrations returns the ordered schema migrations.
func migrations() []Migration {
	return []Migration{
		{
			ID:   "001",
			Name: "initial_schema",
			Up:   migrateInitialSchema,
		},
	}
}

// runMigrations applies pending migrations, recording each in the
// migrations ledger table.
func (s *Store) runMigrations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS migrations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL
		)
	`); err != nil {
		return err
	}

	for _, migration := range migrations() {
		applied, err := s.migrationApplied(ctx, migration.ID)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = s.inTx(ctx, func(tx *sqlx.Tx) error {
			if err := migration.Up(ctx, tx); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO migrations (id, name, applied_at) VALUES (?, ?, ?)`,
				migration.ID, migration.Name, time.Now().UTC())
			return err
		})
		if err != nil {
			s.logger.Error("migration failed", zap.String("migration_id", migration.ID), zap.Error(err))
			return err
		}
		s.logger.Info("migration applied", zap.String("migration_id", migration.ID), zap.String("name", migration.Name))
	}
	return nil
}

func (s *Store) migrationApplied(ctx context.Context, id string) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM migrations WHERE id = ?`, id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func migrateInitialSchema(ctx context.Context, tx *sqlx.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS boards (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS columns (
		id TEXT PRIMARY KEY,
		board_id TEXT NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		position INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cards (
		id TEXT PRIMARY KEY,
		board_id TEXT NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
		column_id TEXT NOT NULL REFERENCES columns(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT,
		assignee TEXT,
		due_date TEXT,
		labels TEXT NOT NULL DEFAULT '[]',
		priority TEXT NOT NULL DEFAULT 'medium',
		position INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_columns_board_id ON columns(board_id);
	CREATE INDEX IF NOT EXISTS idx_cards_board_id ON cards(board_id);
	CREATE INDEX IF NOT EXISTS idx_cards_column_id ON cards(column_id);
	`)
	return err
}
