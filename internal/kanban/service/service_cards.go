package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	apperrors "github.com/boardkit/boardkit/internal/common/errors"
	"github.com/boardkit/boardkit/internal/kanban/models"
)

// CreateCard validates and creates a card appended to its target column.
func (s *Service) CreateCard(ctx context.Context, input models.CreateCardInput) (*models.Card, error) {
	if input.BoardID == "" {
		return nil, apperrors.Validation("board id is required")
	}
	if input.ColumnID == "" {
		return nil, apperrors.Validation("column id is required")
	}
	trimmed, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}
	input.Title = trimmed

	if input.Description != nil && utf8.RuneCountInString(*input.Description) > maxDescriptionLength {
		return nil, apperrors.Validation("card description must be 2000 characters or less")
	}
	if len(input.Labels) > maxLabels {
		return nil, apperrors.Validation("card can have maximum 10 labels")
	}
	if input.Priority != "" && !input.Priority.Valid() {
		return nil, apperrors.Validation("priority must be one of low, medium, high")
	}
	input.Priority = models.NormalizePriority(input.Priority)

	column, err := s.store.GetColumn(ctx, input.ColumnID)
	if err != nil {
		return nil, err
	}
	if column.BoardID != input.BoardID {
		return nil, apperrors.Validation("column does not belong to the given board")
	}

	card, err := s.store.CreateCard(ctx, input)
	if err != nil {
		s.logger.Error("failed to create card", zap.String("column_id", input.ColumnID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("card created",
		zap.String("card_id", card.ID),
		zap.String("column_id", card.ColumnID),
		zap.Int("position", card.Position))
	return card, nil
}

// GetCard retrieves a card by ID.
func (s *Service) GetCard(ctx context.Context, cardID string) (*models.Card, error) {
	if cardID == "" {
		return nil, apperrors.Validation("card id is required")
	}
	return s.store.GetCard(ctx, cardID)
}

// ListCards returns all cards of a board ordered by (column, position).
func (s *Service) ListCards(ctx context.Context, boardID string) ([]*models.Card, error) {
	if boardID == "" {
		return nil, apperrors.Validation("board id is required")
	}
	return s.store.ListCards(ctx, boardID)
}

// UpdateCard validates and applies a partial card update. Position and
// column are never changed here; use MoveCard or ReorderCard.
func (s *Service) UpdateCard(ctx context.Context, cardID string, patch models.CardPatch) (*models.Card, error) {
	if cardID == "" {
		return nil, apperrors.Validation("card id is required")
	}
	if patch.Title != nil {
		trimmed, err := validateTitle(*patch.Title)
		if err != nil {
			return nil, err
		}
		patch.Title = &trimmed
	}
	if patch.Description.Set && !patch.Description.Null &&
		utf8.RuneCountInString(patch.Description.Value) > maxDescriptionLength {
		return nil, apperrors.Validation("card description must be 2000 characters or less")
	}
	if patch.Labels != nil && len(*patch.Labels) > maxLabels {
		return nil, apperrors.Validation("card can have maximum 10 labels")
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, apperrors.Validation("priority must be one of low, medium, high")
	}

	return s.store.UpdateCard(ctx, cardID, patch)
}

// ReorderCard moves a card to a new position within its own column.
func (s *Service) ReorderCard(ctx context.Context, cardID string, toPosition int) error {
	if cardID == "" {
		return apperrors.Validation("card id is required")
	}
	if err := validatePosition(toPosition); err != nil {
		return err
	}
	return s.store.ReorderCard(ctx, cardID, toPosition)
}

// MoveCard moves a card to a target column and position. Positions beyond
// the end of the target column clamp to append.
func (s *Service) MoveCard(ctx context.Context, cardID, toColumnID string, toPosition int) error {
	if cardID == "" {
		return apperrors.Validation("card id is required")
	}
	if strings.TrimSpace(toColumnID) == "" {
		return apperrors.Validation("target column id is required")
	}
	if err := validatePosition(toPosition); err != nil {
		return err
	}
	if _, err := s.store.GetColumn(ctx, toColumnID); err != nil {
		return err
	}
	if err := s.store.MoveCard(ctx, cardID, toColumnID, toPosition); err != nil {
		return err
	}
	s.logger.Info("card moved",
		zap.String("card_id", cardID),
		zap.String("to_column_id", toColumnID),
		zap.Int("to_position", toPosition))
	return nil
}

// SetCardOrder applies an explicit ordering to a column's cards.
func (s *Service) SetCardOrder(ctx context.Context, columnID string, orderedCardIDs []string) error {
	if columnID == "" {
		return apperrors.Validation("column id is required")
	}
	if _, err := s.store.GetColumn(ctx, columnID); err != nil {
		return err
	}
	return s.store.SetCardOrder(ctx, columnID, orderedCardIDs)
}

// DeleteCard deletes a card; former siblings renormalize in the store.
func (s *Service) DeleteCard(ctx context.Context, cardID string) error {
	if cardID == "" {
		return apperrors.Validation("card id is required")
	}
	if _, err := s.store.GetCard(ctx, cardID); err != nil {
		return err
	}
	if err := s.store.DeleteCard(ctx, cardID); err != nil {
		return err
	}
	s.logger.WithCardID(cardID).Info("card deleted")
	return nil
}
