package service

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/fennwick/choreboard/internal/chore"
	"github.com/fennwick/choreboard/internal/model"
	"github.com/fennwick/choreboard/internal/store"
)

// CompletionService owns every chore state transition: completing,
// skipping, undoing, claiming, and the admin upsert/delete surface.
// Ledger writes (points, stats, undo snapshots) happen after the chore
// collection commits so a ledger failure never leaves the collection
// half-written.
type CompletionService struct {
	chores *store.ChoreStore
	undo   *store.UndoStore
	points *store.PointsStore
	stats  *store.StatsStore
	users  []string
	logger *slog.Logger
	now    func() time.Time
}

func NewCompletionService(chores *store.ChoreStore, undo *store.UndoStore,
	points *store.PointsStore, stats *store.StatsStore, users []string,
	logger *slog.Logger) *CompletionService {
	return &CompletionService{
		chores: chores,
		undo:   undo,
		points: points,
		stats:  stats,
		users:  users,
		logger: logger.With("component", "completion"),
		now:    time.Now,
	}
}

// Users returns the configured household roster.
func (s *CompletionService) Users() []string {
	return s.users
}

func (s *CompletionService) today() string {
	return chore.FormatDay(s.now())
}

// MarkComplete records a completion by one or more users. The previous
// completion state is snapshotted first so the action can be undone.
// Chores chained after this one are handed to the first completer, and
// each completer earns an equal share of the chore's point value.
func (s *CompletionService) MarkComplete(choreID string, users []string, clientDate string) (*model.Chore, error) {
	if choreID == "" || len(users) == 0 {
		return nil, fmt.Errorf("%w: chore id and users are required", ErrInvalidInput)
	}
	for i, u := range users {
		users[i] = strings.ToLower(strings.TrimSpace(u))
		if users[i] == "" {
			return nil, fmt.Errorf("%w: empty user name", ErrInvalidInput)
		}
	}
	if _, ok := chore.ParseDay(clientDate); !ok {
		clientDate = s.today()
	}

	var (
		snap    model.UndoSnapshot
		updated model.Chore
	)
	err := s.chores.Mutate(func(chores []model.Chore) ([]model.Chore, bool, error) {
		idx := indexByID(chores, choreID)
		if idx < 0 {
			return nil, false, fmt.Errorf("%w: chore %s", ErrNotFound, choreID)
		}
		c := &chores[idx]

		snap = model.UndoSnapshot{
			ChoreID:        c.ID,
			LastMarkedDate: c.LastMarkedDate,
			LastMarkedBy:   c.LastMarkedBy,
			TimesMarkedOff: c.TimesMarkedOff,
		}

		c.LastMarkedDate = clientDate
		c.LastMarkedBy = strings.Join(users, ",")
		c.TimesMarkedOff++

		for i := range chores {
			if chores[i].Freq() == model.FreqAfter && chores[i].AfterChoreID == choreID {
				chores[i].AssignedTo = users[0]
				chores[i].InPool = false
				chores[i].LastMarkedDate = ""
			}
		}

		updated = *c
		return chores, true, nil
	})
	if err != nil {
		return nil, passthrough(err)
	}

	if err := s.undo.Put(snap); err != nil {
		s.logger.Error("failed to store undo snapshot", "chore", choreID, "error", err)
	}
	share := updated.Value / float64(len(users))
	for _, u := range users {
		if err := s.stats.Increment(u, updated.Name); err != nil {
			s.logger.Error("failed to record stat", "user", u, "error", err)
		}
		if err := s.points.Add(u, share); err != nil {
			s.logger.Error("failed to award points", "user", u, "error", err)
		}
	}

	s.logger.Info("chore completed", "chore", updated.Name, "users", users, "points_each", share)
	return &updated, nil
}

// Skip marks a chore as deliberately passed over for today. The marked
// date moves to today so the chore stops showing as due, but no points
// or stats move and the count stays put. Skips are not undoable.
func (s *CompletionService) Skip(choreID string) (*model.Chore, error) {
	if choreID == "" {
		return nil, fmt.Errorf("%w: chore id is required", ErrInvalidInput)
	}
	today := s.today()

	var updated model.Chore
	err := s.chores.Mutate(func(chores []model.Chore) ([]model.Chore, bool, error) {
		idx := indexByID(chores, choreID)
		if idx < 0 {
			return nil, false, fmt.Errorf("%w: chore %s", ErrNotFound, choreID)
		}
		chores[idx].LastMarkedDate = today
		chores[idx].LastMarkedBy = "skipped"
		updated = chores[idx]
		return chores, true, nil
	})
	if err != nil {
		return nil, passthrough(err)
	}
	return &updated, nil
}

// Undo restores the snapshot taken by the last completion and claws back
// the points it awarded, flooring each balance at zero. The snapshot is
// single-level: undoing consumes it.
func (s *CompletionService) Undo(choreID string) (*model.Chore, error) {
	if choreID == "" {
		return nil, fmt.Errorf("%w: chore id is required", ErrInvalidInput)
	}
	snap, err := s.undo.Get(choreID)
	if err != nil {
		return nil, storageErr(err)
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: nothing to undo for chore %s", ErrNotFound, choreID)
	}

	var (
		updated    model.Chore
		undoneBy   []string
		shareValue float64
	)
	err = s.chores.Mutate(func(chores []model.Chore) ([]model.Chore, bool, error) {
		idx := indexByID(chores, choreID)
		if idx < 0 {
			return nil, false, fmt.Errorf("%w: chore %s", ErrNotFound, choreID)
		}
		c := &chores[idx]

		undoneBy = c.MarkedByUsers()
		shareValue = c.Value

		c.LastMarkedDate = snap.LastMarkedDate
		c.LastMarkedBy = snap.LastMarkedBy
		c.TimesMarkedOff = snap.TimesMarkedOff

		updated = *c
		return chores, true, nil
	})
	if err != nil {
		return nil, passthrough(err)
	}

	if len(undoneBy) > 0 && undoneBy[0] != "skipped" {
		share := shareValue / float64(len(undoneBy))
		for _, u := range undoneBy {
			if err := s.points.Deduct(u, share); err != nil {
				s.logger.Error("failed to claw back points", "user", u, "error", err)
			}
		}
	}
	if err := s.undo.Delete(choreID); err != nil {
		s.logger.Error("failed to clear undo snapshot", "chore", choreID, "error", err)
	}

	s.logger.Info("completion undone", "chore", updated.Name, "users", undoneBy)
	return &updated, nil
}

// Claim takes a pool chore for one user for the rest of the day. A chore
// already claimed today by the same user conflicts; a stale or rival
// claim is simply replaced.
func (s *CompletionService) Claim(choreID, user string) (*model.Chore, error) {
	user = strings.ToLower(strings.TrimSpace(user))
	if choreID == "" || user == "" {
		return nil, fmt.Errorf("%w: chore id and user are required", ErrInvalidInput)
	}
	today := s.today()

	var updated model.Chore
	err := s.chores.Mutate(func(chores []model.Chore) ([]model.Chore, bool, error) {
		idx := indexByID(chores, choreID)
		if idx < 0 {
			return nil, false, fmt.Errorf("%w: chore %s", ErrNotFound, choreID)
		}
		c := &chores[idx]

		if !c.InPool && !c.Claimed {
			return nil, false, fmt.Errorf("%w: chore %s is not in the pool", ErrInvalidInput, choreID)
		}
		if c.Claimed && c.ClaimedDate == today && c.AssignedTo == user {
			return nil, false, fmt.Errorf("%w: chore %s already claimed by %s today", ErrConflict, choreID, user)
		}

		c.AssignedTo = user
		c.InPool = false
		c.Claimed = true
		c.ClaimedDate = today

		updated = *c
		return chores, true, nil
	})
	if err != nil {
		return nil, passthrough(err)
	}

	s.logger.Info("chore claimed", "chore", updated.Name, "user", user)
	return &updated, nil
}

// List returns the collection, first releasing any claim made on a
// previous day back into the pool. A storage failure logs and yields an
// empty list so the dashboard renders instead of erroring.
func (s *CompletionService) List() []model.Chore {
	today := s.today()

	var out []model.Chore
	err := s.chores.Mutate(func(chores []model.Chore) ([]model.Chore, bool, error) {
		changed := false
		for i := range chores {
			c := &chores[i]
			if c.Claimed && c.ClaimedDate != today {
				c.Claimed = false
				c.ClaimedDate = ""
				c.AssignedTo = ""
				c.InPool = true
				changed = true
			}
		}
		out = append([]model.Chore(nil), chores...)
		return chores, changed, nil
	})
	if err != nil {
		s.logger.Error("failed to list chores", "error", err)
		return []model.Chore{}
	}
	if out == nil {
		out = []model.Chore{}
	}
	return out
}

// StatusByUser maps each roster user to the chores currently due or
// overdue for them. Pool chores, after-dinner chores, and non-spawning
// chores are excluded; undesirable chores land on the least-used eligible
// user, and chained chores follow the first completer of their parent.
func (s *CompletionService) StatusByUser() (map[string][]model.Chore, error) {
	chores, err := s.chores.Load()
	if err != nil {
		return nil, storageErr(err)
	}
	byID := store.ByIDMap(chores)
	now := s.now()

	result := make(map[string][]model.Chore, len(s.users))
	for _, u := range s.users {
		result[u] = []model.Chore{}
	}

	for _, c := range chores {
		if c.InPool || c.AfterDinner || !c.Spawn {
			continue
		}
		var parent *model.Chore
		if c.Freq() == model.FreqAfter {
			parent = byID[c.AfterChoreID]
		}
		st := chore.Evaluate(c, parent, now)
		if !st.Due && !st.Overdue {
			continue
		}

		owner := c.AssignedTo
		switch {
		case c.Freq() == model.FreqAfter:
			if parent == nil {
				continue
			}
			completers := parent.MarkedByUsers()
			if len(completers) == 0 {
				continue
			}
			owner = completers[0]
		case c.Undesirable && len(c.EligibleUsers) > 0:
			least, err := s.stats.LeastUsed(c.Name, c.EligibleUsers)
			if err != nil {
				return nil, storageErr(err)
			}
			owner = least
		}

		if _, ok := result[owner]; ok {
			result[owner] = append(result[owner], c)
		}
	}
	return result, nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// SaveChore creates or updates a chore definition. New chores get a slug
// id derived from the name, suffixed on collision.
func (s *CompletionService) SaveChore(c model.Chore) (*model.Chore, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, fmt.Errorf("%w: chore name is required", ErrInvalidInput)
	}
	switch c.Freq() {
	case model.FreqDaily, model.FreqWeekly, model.FreqMonthly:
	case model.FreqCustom:
		if c.CustomDays < 1 {
			return nil, fmt.Errorf("%w: custom frequency requires customDays >= 1", ErrInvalidInput)
		}
	case model.FreqAfter:
		if c.AfterChoreID == "" {
			return nil, fmt.Errorf("%w: after frequency requires afterChoreId", ErrInvalidInput)
		}
	case model.FreqCron:
	default:
		return nil, fmt.Errorf("%w: unknown frequency type %q", ErrInvalidInput, c.FrequencyType)
	}
	if c.WeeklyDay != nil && (*c.WeeklyDay < 0 || *c.WeeklyDay > 6) {
		return nil, fmt.Errorf("%w: weeklyDay must be 0-6", ErrInvalidInput)
	}

	if c.ID != "" && c.AfterChoreID == c.ID {
		return nil, fmt.Errorf("%w: chore cannot chain after itself", ErrInvalidInput)
	}

	var saved model.Chore
	err := s.chores.Mutate(func(chores []model.Chore) ([]model.Chore, bool, error) {
		if c.ID == "" {
			base := slugify(c.Name)
			if base == "" {
				base = "chore"
			}
			id := base
			for n := 2; indexByID(chores, id) >= 0; n++ {
				id = fmt.Sprintf("%s-%d", base, n)
			}
			c.ID = id
			chores = append(chores, c)
		} else {
			idx := indexByID(chores, c.ID)
			if idx < 0 {
				return nil, false, fmt.Errorf("%w: chore %s", ErrNotFound, c.ID)
			}
			chores[idx] = c
		}
		saved = c
		return chores, true, nil
	})
	if err != nil {
		return nil, passthrough(err)
	}

	s.logger.Info("chore saved", "chore", saved.ID)
	return &saved, nil
}

// DeleteChore removes a chore and its ledger entries.
func (s *CompletionService) DeleteChore(choreID string) error {
	if choreID == "" {
		return fmt.Errorf("%w: chore id is required", ErrInvalidInput)
	}

	var name string
	err := s.chores.Mutate(func(chores []model.Chore) ([]model.Chore, bool, error) {
		idx := indexByID(chores, choreID)
		if idx < 0 {
			return nil, false, fmt.Errorf("%w: chore %s", ErrNotFound, choreID)
		}
		name = chores[idx].Name
		return append(chores[:idx], chores[idx+1:]...), true, nil
	})
	if err != nil {
		return passthrough(err)
	}

	if err := s.stats.DeleteByChore(name); err != nil {
		s.logger.Error("failed to delete stats", "chore", name, "error", err)
	}
	if err := s.undo.Delete(choreID); err != nil {
		s.logger.Error("failed to delete undo snapshot", "chore", choreID, "error", err)
	}

	s.logger.Info("chore deleted", "chore", choreID)
	return nil
}

func indexByID(chores []model.Chore, id string) int {
	for i := range chores {
		if chores[i].ID == id {
			return i
		}
	}
	return -1
}

// passthrough keeps sentinel errors intact and converts everything else
// into a storage error.
func passthrough(err error) error {
	for _, sentinel := range []error{ErrNotFound, ErrInvalidInput, ErrConflict, ErrStorage} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return storageErr(err)
}
