package arena

import "testing"

func TestArenaSaveResetIsLIFO(t *testing.T) {
	a := New(0)
	saved := a.Save()

	if err := a.Alloc(3, "x"); err != nil {
		t.Fatalf("unexpected alloc error: %v", err)
	}
	if got := a.Used(); got != 3 {
		t.Fatalf("used = %d, want 3", got)
	}

	a.Reset(saved)
	if got := a.Used(); got != int(saved) {
		t.Fatalf("used after reset = %d, want %d", got, saved)
	}
}

func TestArenaOutOfMemory(t *testing.T) {
	a := New(2)
	if err := a.Alloc(1, "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Alloc(2, "b"); err == nil {
		t.Fatalf("expected OutOfMemory, got nil")
	}
	// A failed allocation must not charge the budget.
	if got := a.Used(); got != 1 {
		t.Fatalf("used after failed alloc = %d, want 1", got)
	}
}

func TestArenaUnboundedCapacity(t *testing.T) {
	a := New(0)
	if err := a.Alloc(1_000_000, "big"); err != nil {
		t.Fatalf("capacity 0 should be unbounded: %v", err)
	}
}
