package store

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/fennwick/choreboard/internal/model"
)

// ChoreStore owns the chore collection. Every write goes through Save or
// Mutate, which rewrite the whole collection inside one transaction while
// holding the store's write lock, so concurrent mutations serialize here
// instead of racing each other with stale copies.
type ChoreStore struct {
	db *sql.DB
	mu sync.Mutex
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db}
}

const choreCols = `id, name, description, value, spawn, frequency_type, custom_days,
	weekly_day, after_chore_id, cron, cron_spawned_date, in_pool, assigned_to,
	undesirable, eligible_users, after_dinner, claimed, claimed_date,
	last_marked_date, last_marked_by, times_marked_off`

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	var spawn, inPool, undesirable, afterDinner, claimed int
	var weeklyDay sql.NullInt64
	var eligible string

	err := scanner.Scan(
		&c.ID, &c.Name, &c.Description, &c.Value, &spawn, &c.FrequencyType,
		&c.CustomDays, &weeklyDay, &c.AfterChoreID, &c.Cron, &c.CronSpawnedDate,
		&inPool, &c.AssignedTo, &undesirable, &eligible, &afterDinner,
		&claimed, &c.ClaimedDate, &c.LastMarkedDate, &c.LastMarkedBy,
		&c.TimesMarkedOff,
	)
	if err != nil {
		return nil, err
	}

	c.Spawn = spawn != 0
	c.InPool = inPool != 0
	c.Undesirable = undesirable != 0
	c.AfterDinner = afterDinner != 0
	c.Claimed = claimed != 0
	if weeklyDay.Valid {
		d := int(weeklyDay.Int64)
		c.WeeklyDay = &d
	}
	if eligible != "" {
		c.EligibleUsers = strings.Split(eligible, ",")
	}
	return &c, nil
}

type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func loadChores(q querier) ([]model.Chore, error) {
	rows, err := q.Query(`SELECT ` + choreCols + ` FROM chores ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query chores: %w", err)
	}
	defer rows.Close()

	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

// Load returns the full chore collection in stored order.
func (s *ChoreStore) Load() ([]model.Chore, error) {
	return loadChores(s.db)
}

// ByID returns the chore with the given id, or nil if absent.
func (s *ChoreStore) ByID(id string) (*model.Chore, error) {
	row := s.db.QueryRow(`SELECT `+choreCols+` FROM chores WHERE id = ?`, id)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

// ByIDMap returns a keyed view of the given collection. Callers use this
// instead of maintaining their own shadow index.
func ByIDMap(chores []model.Chore) map[string]*model.Chore {
	m := make(map[string]*model.Chore, len(chores))
	for i := range chores {
		if chores[i].ID != "" {
			m[chores[i].ID] = &chores[i]
		}
	}
	return m
}

// Save replaces the persisted collection with the given one.
func (s *ChoreStore) Save(chores []model.Chore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := writeChores(tx, chores); err != nil {
		return err
	}
	return tx.Commit()
}

// Mutate runs fn against the current collection and, when fn reports a
// change, persists the returned collection, all inside one transaction
// under the store lock. fn returning an error aborts with nothing written.
func (s *ChoreStore) Mutate(fn func(chores []model.Chore) ([]model.Chore, bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	chores, err := loadChores(tx)
	if err != nil {
		return err
	}

	updated, changed, err := fn(chores)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := writeChores(tx, updated); err != nil {
		return err
	}
	return tx.Commit()
}

func writeChores(tx *sql.Tx, chores []model.Chore) error {
	if _, err := tx.Exec(`DELETE FROM chores`); err != nil {
		return fmt.Errorf("clear chores: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO chores (` + choreCols + `, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range chores {
		var weeklyDay sql.NullInt64
		if c.WeeklyDay != nil {
			weeklyDay = sql.NullInt64{Int64: int64(*c.WeeklyDay), Valid: true}
		}
		_, err := stmt.Exec(
			c.ID, c.Name, c.Description, c.Value, boolInt(c.Spawn),
			c.FrequencyType, c.CustomDays, weeklyDay, c.AfterChoreID, c.Cron,
			c.CronSpawnedDate, boolInt(c.InPool), c.AssignedTo,
			boolInt(c.Undesirable), strings.Join(c.EligibleUsers, ","),
			boolInt(c.AfterDinner), boolInt(c.Claimed), c.ClaimedDate,
			c.LastMarkedDate, c.LastMarkedBy, c.TimesMarkedOff, i,
		)
		if err != nil {
			return fmt.Errorf("insert chore %s: %w", c.ID, err)
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
