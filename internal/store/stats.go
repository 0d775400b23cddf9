package store

import (
	"database/sql"
	"fmt"
)

// StatsStore counts completions per user per chore name. Undesirable chore
// assignment reads these counts to keep rotation fair.
type StatsStore struct {
	db *sql.DB
}

func NewStatsStore(db *sql.DB) *StatsStore {
	return &StatsStore{db: db}
}

// Increment bumps the completion count for a user on a chore name.
func (s *StatsStore) Increment(user, choreName string) error {
	_, err := s.db.Exec(`
		INSERT INTO user_stats (user, chore_name, count) VALUES (?, ?, 1)
		ON CONFLICT(user, chore_name) DO UPDATE SET count = count + 1`,
		user, choreName)
	if err != nil {
		return fmt.Errorf("increment stat for %s/%s: %w", user, choreName, err)
	}
	return nil
}

// Counts returns the completion count per eligible user for a chore name.
// Users with no recorded completions report zero.
func (s *StatsStore) Counts(choreName string, users []string) (map[string]int, error) {
	counts := make(map[string]int, len(users))
	for _, u := range users {
		counts[u] = 0
	}

	rows, err := s.db.Query(`SELECT user, count FROM user_stats WHERE chore_name = ?`, choreName)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var user string
		var count int
		if err := rows.Scan(&user, &count); err != nil {
			return nil, fmt.Errorf("scan stat: %w", err)
		}
		if _, ok := counts[user]; ok {
			counts[user] = count
		}
	}
	return counts, rows.Err()
}

// LeastUsed picks the user with the strictly lowest completion count for a
// chore name. Ties keep the earlier user in the given order.
func (s *StatsStore) LeastUsed(choreName string, users []string) (string, error) {
	if len(users) == 0 {
		return "", nil
	}
	counts, err := s.Counts(choreName, users)
	if err != nil {
		return "", err
	}

	best := users[0]
	for _, u := range users[1:] {
		if counts[u] < counts[best] {
			best = u
		}
	}
	return best, nil
}

// DeleteByChore drops all counts for a chore name. Used when the chore is
// removed from the collection.
func (s *StatsStore) DeleteByChore(choreName string) error {
	if _, err := s.db.Exec(`DELETE FROM user_stats WHERE chore_name = ?`, choreName); err != nil {
		return fmt.Errorf("delete stats for %s: %w", choreName, err)
	}
	return nil
}

// Reset clears every recorded count.
func (s *StatsStore) Reset() error {
	if _, err := s.db.Exec(`DELETE FROM user_stats`); err != nil {
		return fmt.Errorf("reset stats: %w", err)
	}
	return nil
}
