package store

import (
	"context"
	"reflect"
	"testing"

	apperrors "github.com/boardkit/boardkit/internal/common/errors"
	"github.com/boardkit/boardkit/internal/kanban/models"
)

func TestCreateCard_AppendsWithDefaults(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")
	column := newTestColumn(t, store, board.ID, "todo")

	card, err := store.CreateCard(ctx, models.CreateCardInput{
		BoardID:  board.ID,
		ColumnID: column.ID,
		Title:    "task",
	})
	if err != nil {
		t.Fatalf("failed to create card: %v", err)
	}
	if card.Position != 0 {
		t.Errorf("expected position 0, got %d", card.Position)
	}

	fetched, err := store.GetCard(ctx, card.ID)
	if err != nil {
		t.Fatalf("failed to get card: %v", err)
	}
	if fetched.Labels == nil || len(fetched.Labels) != 0 {
		t.Errorf("expected empty labels slice, got %v", fetched.Labels)
	}
	if fetched.Priority != models.PriorityMedium {
		t.Errorf("expected default priority medium, got %q", fetched.Priority)
	}
	if fetched.Description != nil || fetched.Assignee != nil || fetched.DueDate != nil {
		t.Error("expected optional fields to stay null")
	}
}

func TestCreateCard_FieldsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")
	column := newTestColumn(t, store, board.ID, "todo")

	description := "a longer body"
	assignee := "sam"
	dueDate := "2026-10-01"
	card, err := store.CreateCard(ctx, models.CreateCardInput{
		BoardID:     board.ID,
		ColumnID:    column.ID,
		Title:       "task",
		Description: &description,
		Assignee:    &assignee,
		DueDate:     &dueDate,
		Labels:      []string{"bug", "urgent"},
		Priority:    models.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("failed to create card: %v", err)
	}

	fetched, err := store.GetCard(ctx, card.ID)
	if err != nil {
		t.Fatalf("failed to get card: %v", err)
	}
	if fetched.Description == nil || *fetched.Description != description {
		t.Errorf("description did not round-trip: %v", fetched.Description)
	}
	if fetched.Assignee == nil || *fetched.Assignee != assignee {
		t.Errorf("assignee did not round-trip: %v", fetched.Assignee)
	}
	if fetched.DueDate == nil || *fetched.DueDate != dueDate {
		t.Errorf("due date did not round-trip: %v", fetched.DueDate)
	}
	if !reflect.DeepEqual(fetched.Labels, []string{"bug", "urgent"}) {
		t.Errorf("labels did not round-trip: %v", fetched.Labels)
	}
	if fetched.Priority != models.PriorityHigh {
		t.Errorf("expected priority high, got %q", fetched.Priority)
	}
}

func TestGetCard_MalformedLabelsDegradeToEmpty(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")
	column := newTestColumn(t, store, board.ID, "todo")
	card := newTestCard(t, store, board.ID, column.ID, "task")

	if _, err := store.db.ExecContext(ctx,
		`UPDATE cards SET labels = ? WHERE id = ?`, `{not json`, card.ID); err != nil {
		t.Fatalf("failed to corrupt labels: %v", err)
	}

	fetched, err := store.GetCard(ctx, card.ID)
	if err != nil {
		t.Fatalf("malformed labels must not fail the read: %v", err)
	}
	if fetched.Labels == nil || len(fetched.Labels) != 0 {
		t.Errorf("expected empty labels fallback, got %v", fetched.Labels)
	}
}

func TestUpdateCard_ThreeWayPatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")
	column := newTestColumn(t, store, board.ID, "todo")

	description := "keep me"
	assignee := "sam"
	card, err := store.CreateCard(ctx, models.CreateCardInput{
		BoardID:     board.ID,
		ColumnID:    column.ID,
		Title:       "task",
		Description: &description,
		Assignee:    &assignee,
	})
	if err != nil {
		t.Fatalf("failed to create card: %v", err)
	}

	// Absent description keeps, explicit null clears the assignee, a value
	// sets the due date.
	updated, err := store.UpdateCard(ctx, card.ID, models.CardPatch{
		Assignee: models.Clear[string](),
		DueDate:  models.SetTo("2026-12-24"),
	})
	if err != nil {
		t.Fatalf("failed to update card: %v", err)
	}
	if updated.Description == nil || *updated.Description != description {
		t.Errorf("absent field must keep its value, got %v", updated.Description)
	}
	if updated.Assignee != nil {
		t.Errorf("null field must clear, got %v", *updated.Assignee)
	}
	if updated.DueDate == nil || *updated.DueDate != "2026-12-24" {
		t.Errorf("set field must overwrite, got %v", updated.DueDate)
	}

	if updated.Position != card.Position || updated.ColumnID != card.ColumnID {
		t.Error("update must never touch position or column")
	}
}

func TestUpdateCard_TitleLabelsPriority(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")
	column := newTestColumn(t, store, board.ID, "todo")
	card := newTestCard(t, store, board.ID, column.ID, "before")

	title := "after"
	labels := []string{"a"}
	priority := models.PriorityLow
	updated, err := store.UpdateCard(ctx, card.ID, models.CardPatch{
		Title:    &title,
		Labels:   &labels,
		Priority: &priority,
	})
	if err != nil {
		t.Fatalf("failed to update card: %v", err)
	}
	if updated.Title != "after" {
		t.Errorf("expected title %q, got %q", "after", updated.Title)
	}
	if !reflect.DeepEqual(updated.Labels, []string{"a"}) {
		t.Errorf("expected labels [a], got %v", updated.Labels)
	}
	if updated.Priority != models.PriorityLow {
		t.Errorf("expected priority low, got %q", updated.Priority)
	}
}

func TestUpdateCard_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.UpdateCard(context.Background(), "missing", models.CardPatch{})
	if !apperrors.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestReorderCard_ToFront(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")
	column := newTestColumn(t, store, board.ID, "todo")

	newTestCard(t, store, board.ID, column.ID, "X")
	newTestCard(t, store, board.ID, column.ID, "Y")
	z := newTestCard(t, store, board.ID, column.ID, "Z")

	if err := store.ReorderCard(ctx, z.ID, 0); err != nil {
		t.Fatalf("failed to reorder card: %v", err)
	}
	assertCardOrder(t, store, column.ID, "Z", "X", "Y")
}

func TestReorderCard_SamePositionIsNoOp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")
	column := newTestColumn(t, store, board.ID, "todo")

	card := newTestCard(t, store, board.ID, column.ID, "X")
	newTestCard(t, store, board.ID, column.ID, "Y")

	if err := store.ReorderCard(ctx, card.ID, 0); err != nil {
		t.Fatalf("failed to reorder card: %v", err)
	}

	after, err := store.GetCard(ctx, card.ID)
	if err != nil {
		t.Fatalf("failed to get card: %v", err)
	}
	if !after.UpdatedAt.Equal(card.UpdatedAt) {
		t.Errorf("no-op reorder must not touch updated_at: %v -> %v", card.UpdatedAt, after.UpdatedAt)
	}
	assertCardOrder(t, store, column.ID, "X", "Y")
}

func TestMoveCard_CrossColumn(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")
	column1 := newTestColumn(t, store, board.ID, "todo")
	column2 := newTestColumn(t, store, board.ID, "doing")

	p := newTestCard(t, store, board.ID, column1.ID, "P")
	newTestCard(t, store, board.ID, column1.ID, "Q")
	newTestCard(t, store, board.ID, column2.ID, "R")

	if err := store.MoveCard(ctx, p.ID, column2.ID, 0); err != nil {
		t.Fatalf("failed to move card: %v", err)
	}
	assertCardOrder(t, store, column1.ID, "Q")
	assertCardOrder(t, store, column2.ID, "P", "R")

	moved, err := store.GetCard(ctx, p.ID)
	if err != nil {
		t.Fatalf("failed to get card: %v", err)
	}
	if moved.ColumnID != column2.ID {
		t.Errorf("expected card re-homed to %s, got %s", column2.ID, moved.ColumnID)
	}
}

func TestMoveCard_SameColumnEqualsReorder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")
	column := newTestColumn(t, store, board.ID, "todo")

	newTestCard(t, store, board.ID, column.ID, "X")
	newTestCard(t, store, board.ID, column.ID, "Y")
	z := newTestCard(t, store, board.ID, column.ID, "Z")

	if err := store.MoveCard(ctx, z.ID, column.ID, 0); err != nil {
		t.Fatalf("failed to move card: %v", err)
	}
	assertCardOrder(t, store, column.ID, "Z", "X", "Y")
}

func TestMoveCard_PositionBeyondTargetAppends(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")
	column1 := newTestColumn(t, store, board.ID, "todo")
	column2 := newTestColumn(t, store, board.ID, "done")

	card := newTestCard(t, store, board.ID, column1.ID, "X")
	newTestCard(t, store, board.ID, column2.ID, "A")
	newTestCard(t, store, board.ID, column2.ID, "B")

	if err := store.MoveCard(ctx, card.ID, column2.ID, 99); err != nil {
		t.Fatalf("failed to move card: %v", err)
	}
	assertCardOrder(t, store, column2.ID, "A", "B", "X")
}

func TestMoveCard_ToEmptyColumn(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")
	column1 := newTestColumn(t, store, board.ID, "todo")
	column2 := newTestColumn(t, store, board.ID, "done")

	newTestCard(t, store, board.ID, column1.ID, "X")
	card := newTestCard(t, store, board.ID, column1.ID, "Y")

	if err := store.MoveCard(ctx, card.ID, column2.ID, 5); err != nil {
		t.Fatalf("failed to move card: %v", err)
	}
	assertCardOrder(t, store, column1.ID, "X")
	assertCardOrder(t, store, column2.ID, "Y")
}

func TestMoveCard_NotFound(t *testing.T) {
	store := newTestStore(t)
	board := newTestBoard(t, store, "board")
	column := newTestColumn(t, store, board.ID, "todo")

	err := store.MoveCard(context.Background(), "missing", column.ID, 0)
	if !apperrors.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestSetCardOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")
	column := newTestColumn(t, store, board.ID, "todo")

	x := newTestCard(t, store, board.ID, column.ID, "X")
	y := newTestCard(t, store, board.ID, column.ID, "Y")
	z := newTestCard(t, store, board.ID, column.ID, "Z")

	if err := store.SetCardOrder(ctx, column.ID, []string{y.ID, z.ID, x.ID}); err != nil {
		t.Fatalf("failed to set card order: %v", err)
	}
	assertCardOrder(t, store, column.ID, "Y", "Z", "X")
}

func TestDeleteCard_PreservesRelativeOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")
	column := newTestColumn(t, store, board.ID, "todo")

	newTestCard(t, store, board.ID, column.ID, "X")
	middle := newTestCard(t, store, board.ID, column.ID, "Y")
	newTestCard(t, store, board.ID, column.ID, "Z")

	if err := store.DeleteCard(ctx, middle.ID); err != nil {
		t.Fatalf("failed to delete card: %v", err)
	}
	assertCardOrder(t, store, column.ID, "X", "Z")
}

func TestDeleteCard_AbsentIsNoOp(t *testing.T) {
	store := newTestStore(t)

	if err := store.DeleteCard(context.Background(), "missing"); err != nil {
		t.Errorf("expected no error deleting absent card, got %v", err)
	}
}

func TestListCards_OrdersByColumnThenPosition(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")
	column1 := newTestColumn(t, store, board.ID, "todo")
	column2 := newTestColumn(t, store, board.ID, "done")

	newTestCard(t, store, board.ID, column1.ID, "A")
	newTestCard(t, store, board.ID, column2.ID, "B")
	newTestCard(t, store, board.ID, column1.ID, "C")

	cards, err := store.ListCards(ctx, board.ID)
	if err != nil {
		t.Fatalf("failed to list cards: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(cards))
	}
	for i := 1; i < len(cards); i++ {
		prev, cur := cards[i-1], cards[i]
		if prev.ColumnID == cur.ColumnID && prev.Position >= cur.Position {
			t.Errorf("cards within a column must be position-ordered: %d then %d", prev.Position, cur.Position)
		}
	}
}

func TestCountColumnCards(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")
	column := newTestColumn(t, store, board.ID, "todo")

	newTestCard(t, store, board.ID, column.ID, "X")
	newTestCard(t, store, board.ID, column.ID, "Y")

	count, err := store.CountColumnCards(ctx, column.ID)
	if err != nil {
		t.Fatalf("failed to count cards: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 cards, got %d", count)
	}
}

// TestDenseInvariantSurvivesOperationSequence runs a mixed sequence of card
// operations and checks the sibling sets stay dense throughout.
func TestDenseInvariantSurvivesOperationSequence(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")
	todo := newTestColumn(t, store, board.ID, "todo")
	doing := newTestColumn(t, store, board.ID, "doing")

	var ids []string
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		ids = append(ids, newTestCard(t, store, board.ID, todo.ID, title).ID)
	}

	assertDense := func() {
		t.Helper()
		for _, columnID := range []string{todo.ID, doing.ID} {
			cards, err := store.ListColumnCards(ctx, columnID)
			if err != nil {
				t.Fatalf("failed to list cards: %v", err)
			}
			for i, card := range cards {
				if card.Position != i {
					t.Fatalf("column %s not dense: card %q at %d, want %d", columnID, card.Title, card.Position, i)
				}
			}
		}
	}

	steps := []struct {
		name string
		op   func() error
	}{
		{"reorder e to front", func() error { return store.ReorderCard(ctx, ids[4], 0) }},
		{"move a across", func() error { return store.MoveCard(ctx, ids[0], doing.ID, 0) }},
		{"delete c", func() error { return store.DeleteCard(ctx, ids[2]) }},
		{"move b across far", func() error { return store.MoveCard(ctx, ids[1], doing.ID, 99) }},
		{"reorder d forward", func() error { return store.ReorderCard(ctx, ids[3], 1) }},
		{"move e back", func() error { return store.MoveCard(ctx, ids[4], doing.ID, 1) }},
		{"delete a", func() error { return store.DeleteCard(ctx, ids[0]) }},
	}
	for _, step := range steps {
		if err := step.op(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		assertDense()
	}
}
