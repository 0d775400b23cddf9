package store

import (
	"database/sql"
	"fmt"

	"github.com/fennwick/choreboard/internal/model"
)

// UndoStore keeps the single-level undo snapshot per chore. A new
// completion overwrites the previous snapshot for that chore.
type UndoStore struct {
	db *sql.DB
}

func NewUndoStore(db *sql.DB) *UndoStore {
	return &UndoStore{db: db}
}

func (s *UndoStore) Put(snap model.UndoSnapshot) error {
	_, err := s.db.Exec(`
		INSERT INTO undo_snapshots (chore_id, last_marked_date, last_marked_by, times_marked_off)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(chore_id) DO UPDATE SET
			last_marked_date = excluded.last_marked_date,
			last_marked_by = excluded.last_marked_by,
			times_marked_off = excluded.times_marked_off`,
		snap.ChoreID, snap.LastMarkedDate, snap.LastMarkedBy, snap.TimesMarkedOff)
	if err != nil {
		return fmt.Errorf("put undo snapshot: %w", err)
	}
	return nil
}

// Get returns the snapshot for a chore, or nil when none exists.
func (s *UndoStore) Get(choreID string) (*model.UndoSnapshot, error) {
	var snap model.UndoSnapshot
	err := s.db.QueryRow(`
		SELECT chore_id, last_marked_date, last_marked_by, times_marked_off
		FROM undo_snapshots WHERE chore_id = ?`, choreID).
		Scan(&snap.ChoreID, &snap.LastMarkedDate, &snap.LastMarkedBy, &snap.TimesMarkedOff)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get undo snapshot: %w", err)
	}
	return &snap, nil
}

func (s *UndoStore) Delete(choreID string) error {
	if _, err := s.db.Exec(`DELETE FROM undo_snapshots WHERE chore_id = ?`, choreID); err != nil {
		return fmt.Errorf("delete undo snapshot: %w", err)
	}
	return nil
}
