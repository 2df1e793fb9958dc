// Package dto defines the wire representations returned by the HTTP
// handlers and the converters from the internal models.
package dto

import (
	"time"

	"github.com/boardkit/boardkit/internal/kanban/models"
)

// BoardDTO is the wire representation of a board.
type BoardDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ColumnDTO is the wire representation of a column.
type ColumnDTO struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"board_id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CardDTO is the wire representation of a card.
type CardDTO struct {
	ID          string    `json:"id"`
	BoardID     string    `json:"board_id"`
	ColumnID    string    `json:"column_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Assignee    *string   `json:"assignee,omitempty"`
	DueDate     *string   `json:"due_date,omitempty"`
	Labels      []string  `json:"labels"`
	Priority    string    `json:"priority"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SuccessResponse is the generic acknowledgement body.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ListBoardsResponse wraps a board listing.
type ListBoardsResponse struct {
	Boards []BoardDTO `json:"boards"`
	Total  int        `json:"total"`
}

// ListColumnsResponse wraps a column listing.
type ListColumnsResponse struct {
	Columns []ColumnDTO `json:"columns"`
	Total   int         `json:"total"`
}

// ListCardsResponse wraps a card listing.
type ListCardsResponse struct {
	Cards []CardDTO `json:"cards"`
	Total int       `json:"total"`
}

// FromBoard converts a board model to its DTO.
func FromBoard(board *models.Board) BoardDTO {
	return BoardDTO{
		ID:        board.ID,
		Name:      board.Name,
		CreatedAt: board.CreatedAt,
		UpdatedAt: board.UpdatedAt,
	}
}

// FromColumn converts a column model to its DTO.
func FromColumn(column *models.Column) ColumnDTO {
	return ColumnDTO{
		ID:        column.ID,
		BoardID:   column.BoardID,
		Name:      column.Name,
		Position:  column.Position,
		CreatedAt: column.CreatedAt,
		UpdatedAt: column.UpdatedAt,
	}
}

// FromCard converts a card model to its DTO.
func FromCard(card *models.Card) CardDTO {
	labels := card.Labels
	if labels == nil {
		labels = []string{}
	}
	return CardDTO{
		ID:          card.ID,
		BoardID:     card.BoardID,
		ColumnID:    card.ColumnID,
		Title:       card.Title,
		Description: card.Description,
		Assignee:    card.Assignee,
		DueDate:     card.DueDate,
		Labels:      labels,
		Priority:    string(card.Priority),
		Position:    card.Position,
		CreatedAt:   card.CreatedAt,
		UpdatedAt:   card.UpdatedAt,
	}
}
