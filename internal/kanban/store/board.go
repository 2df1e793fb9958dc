package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/boardkit/boardkit/internal/common/errors"
	"github.com/boardkit/boardkit/internal/kanban/models"
)

// CreateBoard creates a new board.
func (s *Store) CreateBoard(ctx context.Context, name string) (*models.Board, error) {
	board := &models.Board{
		ID:   uuid.New().String(),
		Name: name,
	}
	now := time.Now().UTC()
	board.CreatedAt = now
	board.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO boards (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, board.ID, board.Name, board.CreatedAt, board.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return board, nil
}

// GetBoard retrieves a board by ID.
func (s *Store) GetBoard(ctx context.Context, id string) (*models.Board, error) {
	board := &models.Board{}
	err := s.ro.GetContext(ctx, board, `
		SELECT id, name, created_at, updated_at FROM boards WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("board", id)
	}
	if err != nil {
		return nil, err
	}
	return board, nil
}

// ListBoards returns all boards, newest first.
func (s *Store) ListBoards(ctx context.Context) ([]*models.Board, error) {
	boards := []*models.Board{}
	err := s.ro.SelectContext(ctx, &boards, `
		SELECT id, name, created_at, updated_at FROM boards ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return boards, nil
}

// RenameBoard updates a board's name.
func (s *Store) RenameBoard(ctx context.Context, id, name string) (*models.Board, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE boards SET name = ?, updated_at = ? WHERE id = ?
	`, name, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, apperrors.NotFound("board", id)
	}
	return s.GetBoard(ctx, id)
}

// DeleteBoard deletes a board by ID. Columns and cards cascade via foreign keys.
func (s *Store) DeleteBoard(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.NotFound("board", id)
	}
	return nil
}
