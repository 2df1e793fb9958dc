package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	apperrors "github.com/boardkit/boardkit/internal/common/errors"
	"github.com/boardkit/boardkit/internal/kanban/models"
)

// CreateColumn creates a column on an existing board. A nil position
// appends; an explicit position must be non-negative.
func (s *Service) CreateColumn(ctx context.Context, boardID, name string, position *int) (*models.Column, error) {
	if boardID == "" {
		return nil, apperrors.Validation("board id is required")
	}
	trimmed, err := validateName("column", name)
	if err != nil {
		return nil, err
	}
	if position != nil {
		if err := validatePosition(*position); err != nil {
			return nil, err
		}
	}
	if _, err := s.store.GetBoard(ctx, boardID); err != nil {
		return nil, err
	}

	column, err := s.store.CreateColumn(ctx, boardID, trimmed, position)
	if err != nil {
		s.logger.WithBoardID(boardID).WithError(err).Error("failed to create column")
		return nil, err
	}
	s.logger.Info("column created",
		zap.String("column_id", column.ID),
		zap.String("board_id", boardID),
		zap.Int("position", column.Position))
	return column, nil
}

// ListColumns returns a board's columns ordered by position.
func (s *Service) ListColumns(ctx context.Context, boardID string) ([]*models.Column, error) {
	if boardID == "" {
		return nil, apperrors.Validation("board id is required")
	}
	return s.store.ListColumns(ctx, boardID)
}

// GetColumn retrieves a column by ID.
func (s *Service) GetColumn(ctx context.Context, columnID string) (*models.Column, error) {
	if columnID == "" {
		return nil, apperrors.Validation("column id is required")
	}
	return s.store.GetColumn(ctx, columnID)
}

// RenameColumn updates a column's name; its position is untouched.
func (s *Service) RenameColumn(ctx context.Context, columnID, name string) (*models.Column, error) {
	if columnID == "" {
		return nil, apperrors.Validation("column id is required")
	}
	trimmed, err := validateName("column", name)
	if err != nil {
		return nil, err
	}
	return s.store.RenameColumn(ctx, columnID, trimmed)
}

// ReorderColumn moves a column to a new position within its board.
func (s *Service) ReorderColumn(ctx context.Context, columnID string, newPosition int) error {
	if columnID == "" {
		return apperrors.Validation("column id is required")
	}
	if err := validatePosition(newPosition); err != nil {
		return err
	}
	return s.store.ReorderColumn(ctx, columnID, newPosition)
}

// SetColumnOrder applies an explicit ordering to a board's columns.
func (s *Service) SetColumnOrder(ctx context.Context, boardID string, orderedColumnIDs []string) error {
	if boardID == "" {
		return apperrors.Validation("board id is required")
	}
	if _, err := s.store.GetBoard(ctx, boardID); err != nil {
		return err
	}
	return s.store.SetColumnOrder(ctx, boardID, orderedColumnIDs)
}

// DeleteColumn deletes a column. A column still holding cards is protected:
// without force the call fails with a Conflict so the caller can confirm.
func (s *Service) DeleteColumn(ctx context.Context, columnID string, force bool) error {
	if columnID == "" {
		return apperrors.Validation("column id is required")
	}
	if _, err := s.store.GetColumn(ctx, columnID); err != nil {
		return err
	}

	count, err := s.store.CountColumnCards(ctx, columnID)
	if err != nil {
		return err
	}
	if count > 0 && !force {
		return apperrors.Conflict(fmt.Sprintf("column contains %d card(s); use force=true to delete a non-empty column", count))
	}

	if err := s.store.DeleteColumn(ctx, columnID); err != nil {
		return err
	}
	s.logger.Info("column deleted", zap.String("column_id", columnID), zap.Int("cards_removed", count))
	return nil
}
