package store

import (
	"database/sql"
	"fmt"
	"time"
)

// PointsStore tracks the running point total per user.
type PointsStore struct {
	db *sql.DB
}

func NewPointsStore(db *sql.DB) *PointsStore {
	return &PointsStore{db: db}
}

// Add credits points to a user, creating the row on first use.
func (s *PointsStore) Add(user string, points float64) error {
	_, err := s.db.Exec(`
		INSERT INTO points (user, points) VALUES (?, ?)
		ON CONFLICT(user) DO UPDATE SET points = points + excluded.points`,
		user, points)
	if err != nil {
		return fmt.Errorf("add points for %s: %w", user, err)
	}
	return nil
}

// Deduct removes points from a user, flooring the balance at zero.
func (s *PointsStore) Deduct(user string, points float64) error {
	_, err := s.db.Exec(`
		UPDATE points SET points = MAX(0, points - ?) WHERE user = ?`,
		points, user)
	if err != nil {
		return fmt.Errorf("deduct points for %s: %w", user, err)
	}
	return nil
}

// Totals returns the balance for every user in the roster. Users without
// a row yet report zero.
func (s *PointsStore) Totals(roster []string) (map[string]float64, error) {
	totals := make(map[string]float64, len(roster))
	for _, u := range roster {
		totals[u] = 0
	}

	rows, err := s.db.Query(`SELECT user, points FROM points`)
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var user string
		var pts float64
		if err := rows.Scan(&user, &pts); err != nil {
			return nil, fmt.Errorf("scan points: %w", err)
		}
		totals[user] = pts
	}
	return totals, rows.Err()
}

// Reset zeroes every balance and records when it happened.
func (s *PointsStore) Reset() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE points SET points = 0`); err != nil {
		return fmt.Errorf("reset points: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO points_meta (key, value) VALUES ('last_reset', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("record reset time: %w", err)
	}
	return tx.Commit()
}

// LastReset returns when Reset last ran, or the zero time if never.
func (s *PointsStore) LastReset() (time.Time, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM points_meta WHERE key = 'last_reset'`).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("get last reset: %w", err)
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse last reset: %w", err)
	}
	return t, nil
}
