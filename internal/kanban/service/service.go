// Package service enforces the kanban business rules (name and label
// limits, priority defaults, delete protection) before delegating to the
// store layer.
package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	apperrors "github.com/boardkit/boardkit/internal/common/errors"
	"github.com/boardkit/boardkit/internal/common/logger"
	"github.com/boardkit/boardkit/internal/kanban/models"
	"github.com/boardkit/boardkit/internal/kanban/store"
)

const (
	maxNameLength        = 100
	maxTitleLength       = 200
	maxDescriptionLength = 2000
	maxLabels            = 10
)

// Service validates and orchestrates kanban operations.
type Service struct {
	store  *store.Store
	logger *logger.Logger
}

// New creates a new kanban service.
func New(st *store.Store, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		store:  st,
		logger: log.WithFields(zap.String("component", "kanban-service")),
	}
}

// validateName trims and checks a board or column name.
func validateName(kind, name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", apperrors.Validation(kind + " name is required")
	}
	if utf8.RuneCountInString(trimmed) > maxNameLength {
		return "", apperrors.Validation(kind + " name must be 100 characters or less")
	}
	return trimmed, nil
}

// validateTitle trims and checks a card title.
func validateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", apperrors.Validation("card title is required")
	}
	if utf8.RuneCountInString(trimmed) > maxTitleLength {
		return "", apperrors.Validation("card title must be 200 characters or less")
	}
	return trimmed, nil
}

func validatePosition(pos int) error {
	if pos < 0 {
		return apperrors.Validation("position must be non-negative")
	}
	return nil
}

// CreateBoard creates a board with a validated name.
func (s *Service) CreateBoard(ctx context.Context, name string) (*models.Board, error) {
	trimmed, err := validateName("board", name)
	if err != nil {
		return nil, err
	}
	board, err := s.store.CreateBoard(ctx, trimmed)
	if err != nil {
		s.logger.Error("failed to create board", zap.Error(err))
		return nil, err
	}
	s.logger.Info("board created", zap.String("board_id", board.ID), zap.String("name", board.Name))
	return board, nil
}

// GetBoard retrieves a board by ID.
func (s *Service) GetBoard(ctx context.Context, boardID string) (*models.Board, error) {
	if boardID == "" {
		return nil, apperrors.Validation("board id is required")
	}
	return s.store.GetBoard(ctx, boardID)
}

// ListBoards returns all boards.
func (s *Service) ListBoards(ctx context.Context) ([]*models.Board, error) {
	return s.store.ListBoards(ctx)
}

// RenameBoard updates a board's name.
func (s *Service) RenameBoard(ctx context.Context, boardID, name string) (*models.Board, error) {
	if boardID == "" {
		return nil, apperrors.Validation("board id is required")
	}
	trimmed, err := validateName("board", name)
	if err != nil {
		return nil, err
	}
	return s.store.RenameBoard(ctx, boardID, trimmed)
}

// DeleteBoard deletes a board; its columns and cards cascade.
func (s *Service) DeleteBoard(ctx context.Context, boardID string) error {
	if boardID == "" {
		return apperrors.Validation("board id is required")
	}
	if err := s.store.DeleteBoard(ctx, boardID); err != nil {
		return err
	}
	s.logger.Info("board deleted", zap.String("board_id", boardID))
	return nil
}
