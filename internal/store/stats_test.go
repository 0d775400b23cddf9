package store

import (
	"testing"

	"github.com/fennwick/choreboard/internal/model"
)

func TestStatsIncrementAndCounts(t *testing.T) {
	s := NewStatsStore(setupTestDB(t))

	s.Increment("ash", "Dishes")
	s.Increment("ash", "Dishes")
	s.Increment("vast", "Dishes")
	s.Increment("ash", "Bins")

	counts, err := s.Counts("Dishes", []string{"ash", "vast", "sephy"})
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts["ash"] != 2 || counts["vast"] != 1 || counts["sephy"] != 0 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestLeastUsed(t *testing.T) {
	s := NewStatsStore(setupTestDB(t))
	eligible := []string{"ash", "vast", "sephy"}

	// No history: first eligible user wins.
	got, err := s.LeastUsed("Bins", eligible)
	if err != nil {
		t.Fatalf("least used: %v", err)
	}
	if got != "ash" {
		t.Errorf("least used = %s, want ash", got)
	}

	s.Increment("ash", "Bins")
	s.Increment("vast", "Bins")
	s.Increment("ash", "Bins")

	got, _ = s.LeastUsed("Bins", eligible)
	if got != "sephy" {
		t.Errorf("least used = %s, want sephy", got)
	}

	// Ties keep the earlier user in roster order.
	s.Increment("sephy", "Bins")
	got, _ = s.LeastUsed("Bins", eligible)
	if got != "vast" {
		t.Errorf("least used on tie = %s, want vast", got)
	}

	// Counts from other chores do not bleed in.
	s.Increment("vast", "Dishes")
	got, _ = s.LeastUsed("Bins", eligible)
	if got != "vast" {
		t.Errorf("least used = %s, want vast (Dishes count is unrelated)", got)
	}
}

func TestStatsDeleteByChore(t *testing.T) {
	s := NewStatsStore(setupTestDB(t))

	s.Increment("ash", "Dishes")
	s.Increment("ash", "Bins")

	if err := s.DeleteByChore("Dishes"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	counts, _ := s.Counts("Dishes", []string{"ash"})
	if counts["ash"] != 0 {
		t.Error("Dishes counts should be gone")
	}
	counts, _ = s.Counts("Bins", []string{"ash"})
	if counts["ash"] != 1 {
		t.Error("Bins counts should survive")
	}
}

func TestUndoStoreRoundTrip(t *testing.T) {
	s := NewUndoStore(setupTestDB(t))

	snap := model.UndoSnapshot{
		ChoreID:        "dishes",
		LastMarkedDate: "2026-03-01",
		LastMarkedBy:   "ash,vast",
		TimesMarkedOff: 4,
	}
	if err := s.Put(snap); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.Get("dishes")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || *got != snap {
		t.Fatalf("snapshot did not round-trip: %+v", got)
	}

	// A newer completion overwrites the snapshot.
	snap.LastMarkedDate = "2026-03-02"
	if err := s.Put(snap); err != nil {
		t.Fatalf("put overwrite: %v", err)
	}
	got, _ = s.Get("dishes")
	if got.LastMarkedDate != "2026-03-02" {
		t.Errorf("snapshot not overwritten: %+v", got)
	}

	if err := s.Delete("dishes"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = s.Get("dishes")
	if got != nil {
		t.Error("deleted snapshot should be gone")
	}
}
