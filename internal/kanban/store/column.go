package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	apperrors "github.com/boardkit/boardkit/internal/common/errors"
	"github.com/boardkit/boardkit/internal/kanban/models"
	"github.com/boardkit/boardkit/internal/kanban/position"
)

// CreateColumn creates a column on a board. With requested nil the column is
// appended after the current last position; an explicit position is clamped
// to at most append and the columns at or after it shift right to make room.
// Runs inside one transaction.
func (s *Store) CreateColumn(ctx context.Context, boardID, name string, requested *int) (*models.Column, error) {
	column := &models.Column{
		ID:      uuid.New().String(),
		BoardID: boardID,
		Name:    name,
	}
	now := time.Now().UTC()
	column.CreatedAt = now
	column.UpdatedAt = now

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		maxPos, err := maxPositionIn(ctx, tx, "columns", "board_id", boardID)
		if err != nil {
			return err
		}

		column.Position = maxPos + 1
		if requested != nil {
			actual, shifts := position.InsertAt(maxPos, *requested)
			if err := applyShifts(ctx, tx, "columns", "board_id", boardID, shifts, now); err != nil {
				return err
			}
			column.Position = actual
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO columns (id, board_id, name, position, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, column.ID, column.BoardID, column.Name, column.Position, column.CreatedAt, column.UpdatedAt)
		return err
	})
	if err != nil {
		return nil, err
	}
	return column, nil
}

// GetColumn retrieves a column by ID.
func (s *Store) GetColumn(ctx context.Context, id string) (*models.Column, error) {
	column := &models.Column{}
	err := s.ro.GetContext(ctx, column, `
		SELECT id, board_id, name, position, created_at, updated_at
		FROM columns WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("column", id)
	}
	if err != nil {
		return nil, err
	}
	return column, nil
}

// ListColumns returns the columns of a board ordered by position.
func (s *Store) ListColumns(ctx context.Context, boardID string) ([]*models.Column, error) {
	columns := []*models.Column{}
	err := s.ro.SelectContext(ctx, &columns, `
		SELECT id, board_id, name, position, created_at, updated_at
		FROM columns WHERE board_id = ? ORDER BY position
	`, boardID)
	if err != nil {
		return nil, err
	}
	return columns, nil
}

// RenameColumn updates a column's name; position is untouched.
func (s *Store) RenameColumn(ctx context.Context, id, name string) (*models.Column, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE columns SET name = ?, updated_at = ? WHERE id = ?
	`, name, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, apperrors.NotFound("column", id)
	}
	return s.GetColumn(ctx, id)
}

// ReorderColumn moves a column to newPosition within its board. Equal
// positions are a no-op that leaves updated_at untouched. The store does not
// validate newPosition against the sibling maximum; callers clamp.
func (s *Store) ReorderColumn(ctx context.Context, id string, newPosition int) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var current struct {
			BoardID  string `db:"board_id"`
			Position int    `db:"position"`
		}
		err := tx.GetContext(ctx, &current, `SELECT board_id, position FROM columns WHERE id = ?`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("column", id)
		}
		if err != nil {
			return err
		}

		shifts := position.Move(current.Position, newPosition)
		if shifts == nil {
			return nil
		}

		now := time.Now().UTC()
		if err := applyShifts(ctx, tx, "columns", "board_id", current.BoardID, shifts, now); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE columns SET position = ?, updated_at = ? WHERE id = ?
		`, newPosition, now, id)
		return err
	})
}

// SetColumnOrder assigns position = index for each listed column id scoped
// to the board; ids outside the board are ignored. A renormalize pass then
// restores density for the whole sibling set, so partial lists cannot leave
// gaps or duplicates behind.
func (s *Store) SetColumnOrder(ctx context.Context, boardID string, orderedColumnIDs []string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		return setOrderForParent(ctx, tx, "columns", "board_id", boardID, orderedColumnIDs)
	})
}

// DeleteColumn deletes a column (its cards cascade) and renormalizes the
// remaining columns of the board. Deleting an absent column is a no-op.
func (s *Store) DeleteColumn(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var boardID string
		err := tx.QueryRowContext(ctx, `SELECT board_id FROM columns WHERE id = ?`, id).Scan(&boardID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM columns WHERE id = ?`, id); err != nil {
			return err
		}
		return normalizePositions(ctx, tx, "columns", "board_id", boardID)
	})
}
