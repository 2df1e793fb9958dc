// Package store provides the SQLite-backed board, column, and card stores,
// including the positional-ordering engine that keeps sibling positions
// dense under insertion, deletion, reorder, and cross-column moves.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/boardkit/boardkit/internal/common/logger"
	"github.com/boardkit/boardkit/internal/kanban/position"
)

// Store provides SQLite-based kanban storage operations. All stores share
// one writer handle (single connection, serializes transactions) and one
// read-only pool.
type Store struct {
	db     *sqlx.DB // writer
	ro     *sqlx.DB // reader (read-only pool)
	ownsDB bool
	logger *logger.Logger
}

// NewWithDB creates a new store with existing database connections (shared ownership).
func NewWithDB(writer, reader *sqlx.DB, log *logger.Logger) (*Store, error) {
	return newStore(writer, reader, false, log)
}

func newStore(writer, reader *sqlx.DB, ownsDB bool, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Default()
	}
	s := &Store{db: writer, ro: reader, ownsDB: ownsDB, logger: log.WithFields(zap.String("component", "kanban-store"))}
	if err := s.runMigrations(context.Background()); err != nil {
		if ownsDB {
			if closeErr := writer.Close(); closeErr != nil {
				return nil, fmt.Errorf("failed to close database after migration error: %w", closeErr)
			}
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection when the store owns it.
func (s *Store) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying writer handle for shared access.
func (s *Store) DB() *sql.DB {
	return s.db.DB
}

// inTx runs fn inside a single write transaction. The writer pool holds one
// connection, so transactions serialize; a failed fn rolls back entirely and
// leaves the dense-position invariant at its pre-operation state.
func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("rollback failed: %v (after: %w)", rollbackErr, err)
		}
		return err
	}
	return tx.Commit()
}

// maxPositionIn returns the largest position among the children of parentID,
// or -1 when the parent has no children.
func maxPositionIn(ctx context.Context, tx *sqlx.Tx, table, parentColumn, parentID string) (int, error) {
	var maxPos int
	query := fmt.Sprintf(`SELECT COALESCE(MAX(position), -1) FROM %s WHERE %s = ?`, table, parentColumn)
	if err := tx.QueryRowContext(ctx, query, parentID).Scan(&maxPos); err != nil {
		return 0, err
	}
	return maxPos, nil
}

// applyShift translates one position.Shift into an UPDATE over the children
// of parentID. An unbounded shift covers every position at or above Lower;
// there is deliberately no numeric sentinel bound.
func applyShift(ctx context.Context, tx *sqlx.Tx, table, parentColumn, parentID string, sh position.Shift, now time.Time) error {
	if sh.Bounded() {
		query := fmt.Sprintf(`
			UPDATE %s SET position = position + ?, updated_at = ?
			WHERE %s = ? AND position >= ? AND position <= ?
		`, table, parentColumn)
		_, err := tx.ExecContext(ctx, query, sh.Delta, now, parentID, sh.Lower, sh.Upper)
		return err
	}
	query := fmt.Sprintf(`
		UPDATE %s SET position = position + ?, updated_at = ?
		WHERE %s = ? AND position >= ?
	`, table, parentColumn)
	_, err := tx.ExecContext(ctx, query, sh.Delta, now, parentID, sh.Lower)
	return err
}

func applyShifts(ctx context.Context, tx *sqlx.Tx, table, parentColumn, parentID string, shifts []position.Shift, now time.Time) error {
	for _, sh := range shifts {
		if err := applyShift(ctx, tx, table, parentColumn, parentID, sh, now); err != nil {
			return err
		}
	}
	return nil
}

// normalizePositions rewrites the positions of parentID's surviving children
// to the dense run {0..N-1}, preserving relative order. Ties on position are
// broken by creation time so the result is deterministic. Rows keep their
// updated_at; renormalization is bookkeeping, not an edit.
func normalizePositions(ctx context.Context, tx *sqlx.Tx, table, parentColumn, parentID string) error {
	selectQuery := fmt.Sprintf(`SELECT id FROM %s WHERE %s = ? ORDER BY position, created_at`, table, parentColumn)
	rows, err := tx.QueryContext(ctx, selectQuery, parentID)
	if err != nil {
		return err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	updateQuery := fmt.Sprintf(`UPDATE %s SET position = ? WHERE id = ?`, table)
	for index, id := range ids {
		if _, err := tx.ExecContext(ctx, updateQuery, index, id); err != nil {
			return err
		}
	}
	return nil
}

// setOrderForParent assigns position = index for each listed id, scoped to
// parentID so foreign ids are ignored, then renormalizes the whole sibling
// set. The trailing pass restores density when the list is partial or
// contains ids from other parents.
func setOrderForParent(ctx context.Context, tx *sqlx.Tx, table, parentColumn, parentID string, orderedIDs []string) error {
	updateQuery := fmt.Sprintf(`UPDATE %s SET position = ? WHERE id = ? AND %s = ?`, table, parentColumn)
	for index, id := range orderedIDs {
		if _, err := tx.ExecContext(ctx, updateQuery, index, id, parentID); err != nil {
			return err
		}
	}
	return normalizePositions(ctx, tx, table, parentColumn, parentID)
}
