package service

import (
	"log/slog"
	"time"

	"github.com/fennwick/choreboard/internal/chore"
	"github.com/fennwick/choreboard/internal/cron"
	"github.com/fennwick/choreboard/internal/model"
	"github.com/fennwick/choreboard/internal/store"
)

// SweepResult reports what one cron sweep did. Checked counts every
// cron-frequency chore examined, whether or not it could latch.
type SweepResult struct {
	Date    string   `json:"date"`
	Checked int      `json:"checked"`
	Latched []string `json:"latched"`
	Cleared []string `json:"cleared"`
	Changed bool     `json:"changed"`
}

// SweepService walks the cron chores each minute, clearing latches left
// over from previous days and latching chores whose expression matches
// the current minute. The latch is what makes a cron chore due today.
type SweepService struct {
	chores *store.ChoreStore
	logger *slog.Logger
	now    func() time.Time
}

func NewSweepService(chores *store.ChoreStore, logger *slog.Logger) *SweepService {
	return &SweepService{
		chores: chores,
		logger: logger.With("component", "sweep"),
		now:    time.Now,
	}
}

// Sweep runs one pass. The collection is only rewritten when a latch
// actually changed, so idle minutes cost a read and nothing else.
func (s *SweepService) Sweep() (*SweepResult, error) {
	now := s.now()
	result := &SweepResult{
		Date:    chore.FormatDay(now),
		Latched: []string{},
		Cleared: []string{},
	}

	err := s.chores.Mutate(func(chores []model.Chore) ([]model.Chore, bool, error) {
		for i := range chores {
			c := &chores[i]
			if c.Freq() != model.FreqCron {
				continue
			}
			result.Checked++
			// A chore with no expression can never latch.
			if c.Cron == "" {
				continue
			}

			if c.CronSpawnedDate != "" && c.CronSpawnedDate != result.Date {
				c.CronSpawnedDate = ""
				result.Cleared = append(result.Cleared, c.ID)
				result.Changed = true
			}
			if c.CronSpawnedDate != result.Date && cron.Matches(c.Cron, now) {
				c.CronSpawnedDate = result.Date
				result.Latched = append(result.Latched, c.ID)
				result.Changed = true
			}
		}
		return chores, result.Changed, nil
	})
	if err != nil {
		return nil, storageErr(err)
	}

	if result.Changed {
		s.logger.Info("sweep changed latches",
			"latched", result.Latched, "cleared", result.Cleared)
	}
	return result, nil
}
