package store

import (
	"context"
	"testing"

	apperrors "github.com/boardkit/boardkit/internal/common/errors"
)

func TestCreateColumn_Appends(t *testing.T) {
	store := newTestStore(t)
	board := newTestBoard(t, store, "board")

	newTestColumn(t, store, board.ID, "A")
	newTestColumn(t, store, board.ID, "B")
	newTestColumn(t, store, board.ID, "C")

	assertColumnOrder(t, store, board.ID, "A", "B", "C")
}

func TestCreateColumn_ExplicitPositionShiftsSiblings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")

	newTestColumn(t, store, board.ID, "A")
	newTestColumn(t, store, board.ID, "B")

	head := 0
	column, err := store.CreateColumn(ctx, board.ID, "front", &head)
	if err != nil {
		t.Fatalf("failed to create column: %v", err)
	}
	if column.Position != 0 {
		t.Errorf("expected position 0, got %d", column.Position)
	}
	assertColumnOrder(t, store, board.ID, "front", "A", "B")
}

func TestCreateColumn_PositionBeyondMaxAppends(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")

	newTestColumn(t, store, board.ID, "A")

	far := 99
	column, err := store.CreateColumn(ctx, board.ID, "tail", &far)
	if err != nil {
		t.Fatalf("failed to create column: %v", err)
	}
	if column.Position != 1 {
		t.Errorf("expected clamp to append at 1, got %d", column.Position)
	}
	assertColumnOrder(t, store, board.ID, "A", "tail")
}

func TestDeleteColumn_RenormalizesSiblings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "B1")

	newTestColumn(t, store, board.ID, "A")
	middle := newTestColumn(t, store, board.ID, "B")
	newTestColumn(t, store, board.ID, "C")

	if err := store.DeleteColumn(ctx, middle.ID); err != nil {
		t.Fatalf("failed to delete column: %v", err)
	}
	assertColumnOrder(t, store, board.ID, "A", "C")
}

func TestDeleteColumn_AbsentIsNoOp(t *testing.T) {
	store := newTestStore(t)

	if err := store.DeleteColumn(context.Background(), "missing"); err != nil {
		t.Errorf("expected no error deleting absent column, got %v", err)
	}
}

func TestDeleteColumn_CascadesCards(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")
	column := newTestColumn(t, store, board.ID, "todo")
	card := newTestCard(t, store, board.ID, column.ID, "task")

	if err := store.DeleteColumn(ctx, column.ID); err != nil {
		t.Fatalf("failed to delete column: %v", err)
	}
	if _, err := store.GetCard(ctx, card.ID); !apperrors.IsNotFound(err) {
		t.Errorf("expected card to cascade with its column, got %v", err)
	}
}

func TestRenameColumn(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")
	column := newTestColumn(t, store, board.ID, "before")

	renamed, err := store.RenameColumn(ctx, column.ID, "after")
	if err != nil {
		t.Fatalf("failed to rename column: %v", err)
	}
	if renamed.Name != "after" {
		t.Errorf("expected name %q, got %q", "after", renamed.Name)
	}
	if renamed.Position != column.Position {
		t.Errorf("rename must not move the column: position %d -> %d", column.Position, renamed.Position)
	}

	_, err = store.RenameColumn(ctx, "missing", "x")
	if !apperrors.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestReorderColumn_Forward(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")

	first := newTestColumn(t, store, board.ID, "A")
	newTestColumn(t, store, board.ID, "B")
	newTestColumn(t, store, board.ID, "C")

	if err := store.ReorderColumn(ctx, first.ID, 2); err != nil {
		t.Fatalf("failed to reorder column: %v", err)
	}
	assertColumnOrder(t, store, board.ID, "B", "C", "A")
}

func TestReorderColumn_Backward(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")

	newTestColumn(t, store, board.ID, "A")
	newTestColumn(t, store, board.ID, "B")
	last := newTestColumn(t, store, board.ID, "C")

	if err := store.ReorderColumn(ctx, last.ID, 0); err != nil {
		t.Fatalf("failed to reorder column: %v", err)
	}
	assertColumnOrder(t, store, board.ID, "C", "A", "B")
}

func TestReorderColumn_SamePositionIsNoOp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")

	column := newTestColumn(t, store, board.ID, "A")
	newTestColumn(t, store, board.ID, "B")

	if err := store.ReorderColumn(ctx, column.ID, 0); err != nil {
		t.Fatalf("failed to reorder column: %v", err)
	}

	after, err := store.GetColumn(ctx, column.ID)
	if err != nil {
		t.Fatalf("failed to get column: %v", err)
	}
	if !after.UpdatedAt.Equal(column.UpdatedAt) {
		t.Errorf("no-op reorder must not touch updated_at: %v -> %v", column.UpdatedAt, after.UpdatedAt)
	}
	assertColumnOrder(t, store, board.ID, "A", "B")
}

func TestReorderColumn_NotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.ReorderColumn(context.Background(), "missing", 0)
	if !apperrors.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestSetColumnOrder_FullPermutation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")

	a := newTestColumn(t, store, board.ID, "A")
	b := newTestColumn(t, store, board.ID, "B")
	c := newTestColumn(t, store, board.ID, "C")

	if err := store.SetColumnOrder(ctx, board.ID, []string{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("failed to set column order: %v", err)
	}
	assertColumnOrder(t, store, board.ID, "C", "A", "B")
}

func TestSetColumnOrder_PartialListRestoresDensity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")

	newTestColumn(t, store, board.ID, "A")
	newTestColumn(t, store, board.ID, "B")
	c := newTestColumn(t, store, board.ID, "C")

	// Only C is listed at index 0, tying with A. Renormalization breaks the
	// tie by creation time (A is older) and restores a dense run.
	if err := store.SetColumnOrder(ctx, board.ID, []string{c.ID}); err != nil {
		t.Fatalf("failed to set column order: %v", err)
	}
	assertColumnOrder(t, store, board.ID, "A", "C", "B")
}

func TestSetColumnOrder_ForeignIDsIgnored(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	board := newTestBoard(t, store, "board")
	other := newTestBoard(t, store, "other")

	a := newTestColumn(t, store, board.ID, "A")
	b := newTestColumn(t, store, board.ID, "B")
	foreign := newTestColumn(t, store, other.ID, "X")

	if err := store.SetColumnOrder(ctx, board.ID, []string{foreign.ID, b.ID, a.ID}); err != nil {
		t.Fatalf("failed to set column order: %v", err)
	}
	assertColumnOrder(t, store, board.ID, "B", "A")

	// The foreign column keeps its own board's ordering untouched.
	assertColumnOrder(t, store, other.ID, "X")
}
