package talonbridge

import "testing"

func TestStatusCell(t *testing.T) {
	cell := &StatusCell{}
	if cell.Summary() != nil {
		t.Error("expected empty cell to return nil")
	}

	cell.Set("compiling")
	got := cell.Summary()
	if got == nil || *got != "compiling" {
		t.Errorf("expected 'compiling', got %v", got)
	}

	// The returned value is a copy; mutating it must not leak back.
	*got = "mutated"
	if again := cell.Summary(); again == nil || *again != "compiling" {
		t.Errorf("expected cell unaffected by caller mutation, got %v", again)
	}

	cell.Clear()
	if cell.Summary() != nil {
		t.Error("expected nil after Clear")
	}
}
