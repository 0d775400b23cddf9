package store

import (
	"database/sql"
	"fmt"
)

// StreakStore tracks the household's consecutive-weeks streak. One row,
// seeded by the schema migration.
type StreakStore struct {
	db *sql.DB
}

func NewStreakStore(db *sql.DB) *StreakStore {
	return &StreakStore{db: db}
}

func (s *StreakStore) Weeks() (int, error) {
	var weeks int
	if err := s.db.QueryRow(`SELECT weeks FROM streak WHERE id = 1`).Scan(&weeks); err != nil {
		return 0, fmt.Errorf("get streak: %w", err)
	}
	return weeks, nil
}

func (s *StreakStore) Increment() (int, error) {
	if _, err := s.db.Exec(`UPDATE streak SET weeks = weeks + 1 WHERE id = 1`); err != nil {
		return 0, fmt.Errorf("increment streak: %w", err)
	}
	return s.Weeks()
}

func (s *StreakStore) Reset() error {
	if _, err := s.db.Exec(`UPDATE streak SET weeks = 0 WHERE id = 1`); err != nil {
		return fmt.Errorf("reset streak: %w", err)
	}
	return nil
}
