package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	apperrors "github.com/boardkit/boardkit/internal/common/errors"
	"github.com/boardkit/boardkit/internal/kanban/models"
	"github.com/boardkit/boardkit/internal/kanban/position"
)

const cardColumns = `id, board_id, column_id, title, description, assignee, due_date, labels, priority, position, created_at, updated_at`

// serializeLabels encodes labels as a JSON array for the single text column.
func serializeLabels(labels []string) string {
	if labels == nil {
		labels = []string{}
	}
	encoded, err := json.Marshal(labels)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

// deserializeLabels decodes the stored label text. Malformed stored text
// degrades to an empty slice rather than failing the read.
func deserializeLabels(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var labels []string
	if err := json.Unmarshal([]byte(raw), &labels); err != nil || labels == nil {
		return []string{}
	}
	return labels
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*models.Card, error) {
	card := &models.Card{}
	var description, assignee, dueDate sql.NullString
	var labels string
	err := row.Scan(
		&card.ID,
		&card.BoardID,
		&card.ColumnID,
		&card.Title,
		&description,
		&assignee,
		&dueDate,
		&labels,
		&card.Priority,
		&card.Position,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		card.Description = &description.String
	}
	if assignee.Valid {
		card.Assignee = &assignee.String
	}
	if dueDate.Valid {
		card.DueDate = &dueDate.String
	}
	card.Labels = deserializeLabels(labels)
	return card, nil
}

// CreateCard creates a card appended at the end of its target column.
// Labels persist as a JSON array; an absent or invalid priority becomes
// medium. Runs inside one transaction.
func (s *Store) CreateCard(ctx context.Context, input models.CreateCardInput) (*models.Card, error) {
	card := &models.Card{
		ID:          uuid.New().String(),
		BoardID:     input.BoardID,
		ColumnID:    input.ColumnID,
		Title:       input.Title,
		Description: input.Description,
		Assignee:    input.Assignee,
		DueDate:     input.DueDate,
		Labels:      input.Labels,
		Priority:    models.NormalizePriority(input.Priority),
	}
	if card.Labels == nil {
		card.Labels = []string{}
	}
	now := time.Now().UTC()
	card.CreatedAt = now
	card.UpdatedAt = now

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		maxPos, err := maxPositionIn(ctx, tx, "cards", "column_id", card.ColumnID)
		if err != nil {
			return err
		}
		card.Position = maxPos + 1

		_, err = tx.ExecContext(ctx, `
			INSERT INTO cards (`+cardColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, card.ID, card.BoardID, card.ColumnID, card.Title, card.Description, card.Assignee,
			card.DueDate, serializeLabels(card.Labels), card.Priority, card.Position, card.CreatedAt, card.UpdatedAt)
		return err
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// GetCard retrieves a card by ID.
func (s *Store) GetCard(ctx context.Context, id string) (*models.Card, error) {
	row := s.ro.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("card", id)
	}
	if err != nil {
		return nil, err
	}
	return card, nil
}

// ListCards returns all cards of a board ordered by (column, position).
func (s *Store) ListCards(ctx context.Context, boardID string) ([]*models.Card, error) {
	rows, err := s.ro.QueryContext(ctx, `
		SELECT `+cardColumns+` FROM cards WHERE board_id = ? ORDER BY column_id, position
	`, boardID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := []*models.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, card)
	}
	return result, rows.Err()
}

// ListColumnCards returns the cards of one column ordered by position.
func (s *Store) ListColumnCards(ctx context.Context, columnID string) ([]*models.Card, error) {
	rows, err := s.ro.QueryContext(ctx, `
		SELECT `+cardColumns+` FROM cards WHERE column_id = ? ORDER BY position
	`, columnID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := []*models.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, card)
	}
	return result, rows.Err()
}

// CountColumnCards returns the number of cards in a column.
func (s *Store) CountColumnCards(ctx context.Context, columnID string) (int, error) {
	var count int
	err := s.ro.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE column_id = ?`, columnID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateCard applies a partial update. Absent fields keep their prior value,
// explicit nulls clear, present values overwrite. Position and column are
// never touched here.
func (s *Store) UpdateCard(ctx context.Context, id string, patch models.CardPatch) (*models.Card, error) {
	card, err := s.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		card.Title = *patch.Title
	}
	card.Description = patch.Description.Apply(card.Description)
	card.Assignee = patch.Assignee.Apply(card.Assignee)
	card.DueDate = patch.DueDate.Apply(card.DueDate)
	if patch.Labels != nil {
		card.Labels = *patch.Labels
		if card.Labels == nil {
			card.Labels = []string{}
		}
	}
	if patch.Priority != nil {
		card.Priority = models.NormalizePriority(*patch.Priority)
	}
	card.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE cards
		SET title = ?, description = ?, assignee = ?, due_date = ?, labels = ?, priority = ?, updated_at = ?
		WHERE id = ?
	`, card.Title, card.Description, card.Assignee, card.DueDate,
		serializeLabels(card.Labels), card.Priority, card.UpdatedAt, id)
	if err != nil {
		return nil, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, apperrors.NotFound("card", id)
	}
	return card, nil
}

// ReorderCard moves a card to toPosition within its own column. Equal
// positions are a no-op that leaves updated_at untouched.
func (s *Store) ReorderCard(ctx context.Context, id string, toPosition int) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		current, err := cardPlacement(ctx, tx, id)
		if err != nil {
			return err
		}
		return reorderCardInTx(ctx, tx, id, current.ColumnID, current.Position, toPosition)
	})
}

// MoveCard moves a card to toColumnID at toPosition. A same-column move
// delegates to the reorder algorithm. A cross-column move, in one
// transaction: closes the gap in the source column with an unbounded -1
// shift, clamps the insertion point to at most append, makes room in the
// target with a +1 shift when landing on an occupied slot, re-homes the
// card, and renormalizes the source column as a guard against drift.
func (s *Store) MoveCard(ctx context.Context, id, toColumnID string, toPosition int) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		current, err := cardPlacement(ctx, tx, id)
		if err != nil {
			return err
		}

		if current.ColumnID == toColumnID {
			return reorderCardInTx(ctx, tx, id, current.ColumnID, current.Position, toPosition)
		}

		now := time.Now().UTC()
		maxPos, err := maxPositionIn(ctx, tx, "cards", "column_id", toColumnID)
		if err != nil {
			return err
		}
		sourceShifts, actual, targetShifts := position.Splice(current.Position, maxPos, toPosition)

		if err := applyShifts(ctx, tx, "cards", "column_id", current.ColumnID, sourceShifts, now); err != nil {
			return err
		}
		if err := applyShifts(ctx, tx, "cards", "column_id", toColumnID, targetShifts, now); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE cards SET column_id = ?, position = ?, updated_at = ? WHERE id = ?
		`, toColumnID, actual, now, id); err != nil {
			return err
		}

		// Source should already be dense after the gap-close shift.
		return normalizePositions(ctx, tx, "cards", "column_id", current.ColumnID)
	})
}

// SetCardOrder assigns position = index for each listed card id scoped to
// the column, then renormalizes; semantics mirror SetColumnOrder.
func (s *Store) SetCardOrder(ctx context.Context, columnID string, orderedCardIDs []string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		return setOrderForParent(ctx, tx, "cards", "column_id", columnID, orderedCardIDs)
	})
}

// DeleteCard deletes a card and renormalizes its former siblings. Deleting
// an absent card is a no-op, not an error.
func (s *Store) DeleteCard(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var columnID string
		err := tx.QueryRowContext(ctx, `SELECT column_id FROM cards WHERE id = ?`, id).Scan(&columnID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id); err != nil {
			return err
		}
		return normalizePositions(ctx, tx, "cards", "column_id", columnID)
	})
}

type placement struct {
	ColumnID string `db:"column_id"`
	Position int    `db:"position"`
}

func cardPlacement(ctx context.Context, tx *sqlx.Tx, id string) (placement, error) {
	var current placement
	err := tx.GetContext(ctx, &current, `SELECT column_id, position FROM cards WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return current, apperrors.NotFound("card", id)
	}
	return current, err
}

func reorderCardInTx(ctx context.Context, tx *sqlx.Tx, id, columnID string, fromPosition, toPosition int) error {
	shifts := position.Move(fromPosition, toPosition)
	if shifts == nil {
		return nil
	}

	now := time.Now().UTC()
	if err := applyShifts(ctx, tx, "cards", "column_id", columnID, shifts, now); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `
		UPDATE cards SET position = ?, updated_at = ? WHERE id = ?
	`, toPosition, now, id)
	return err
}
