package models

import (
	"time"
)

// Priority is the urgency level of a card.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// NormalizePriority returns p when valid, PriorityMedium otherwise.
func NormalizePriority(p Priority) Priority {
	if p.Valid() {
		return p
	}
	return PriorityMedium
}

// Board is the root entity; it owns columns and, transitively, cards.
type Board struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Column is an ordered lane within a board. Position is unique and dense
// within the columns of one board: for N columns the set is {0..N-1}.
type Column struct {
	ID        string    `json:"id" db:"id"`
	BoardID   string    `json:"board_id" db:"board_id"`
	Name      string    `json:"name" db:"name"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Card is an ordered item within a column. Position is unique and dense
// within the cards of one column. BoardID is denormalized for board-level
// listing.
type Card struct {
	ID          string    `json:"id"`
	BoardID     string    `json:"board_id"`
	ColumnID    string    `json:"column_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Assignee    *string   `json:"assignee,omitempty"`
	DueDate     *string   `json:"due_date,omitempty"`
	Labels      []string  `json:"labels"`
	Priority    Priority  `json:"priority"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCardInput carries the fields accepted when creating a card.
// Position is assigned by the store (append at end of the column).
type CreateCardInput struct {
	BoardID     string
	ColumnID    string
	Title       string
	Description *string
	Assignee    *string
	DueDate     *string
	Labels      []string
	Priority    Priority
}

// CardPatch is a partial update for a card. Nil pointer fields are left
// unchanged; Optional fields distinguish absent (keep), explicit null
// (clear), and value (set). Position and column are never touched by a
// patch; use Reorder/Move for those.
type CardPatch struct {
	Title       *string
	Description Optional[string]
	Assignee    Optional[string]
	DueDate     Optional[string]
	Labels      *[]string
	Priority    *Priority
}
