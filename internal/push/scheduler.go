package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fennwick/choreboard/internal/service"
	"github.com/fennwick/choreboard/internal/store"
)

// Scheduler sends each user one reminder per day listing the chores due
// or overdue for them. It checks every minute and fires during the
// configured hour.
type Scheduler struct {
	mu         sync.RWMutex
	service    *Service
	push       *store.PushStore
	completion *service.CompletionService
	hour       int
	interval   time.Duration
	logger     *slog.Logger
	lastSent   string
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewScheduler creates a reminder scheduler that fires at the given hour
// of the server's local day.
func NewScheduler(svc *Service, pushStore *store.PushStore, completion *service.CompletionService, hour int, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		service:    svc,
		push:       pushStore,
		completion: completion,
		hour:       hour,
		interval:   60 * time.Second,
		logger:     logger.With("component", "push-scheduler"),
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(time.Now())
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) tick(now time.Time) {
	if !s.service.Enabled() {
		return
	}
	if now.Hour() != s.hour {
		return
	}
	today := now.Format("2006-01-02")
	if s.lastSent == today {
		return
	}
	s.lastSent = today
	s.SendReminders(today)
}

// SendReminders pushes the due-chore summary to every subscribed user.
// Exposed so the reminder endpoint can trigger it on demand.
func (s *Scheduler) SendReminders(today string) {
	byUser, err := s.completion.StatusByUser()
	if err != nil {
		s.logger.Error("failed to resolve chore status", "error", err)
		return
	}

	for user, chores := range byUser {
		if len(chores) == 0 {
			continue
		}
		subs, err := s.push.ListByUser(user)
		if err != nil {
			s.logger.Error("failed to list subscriptions", "user", user, "error", err)
			continue
		}
		if len(subs) == 0 {
			continue
		}

		names := make([]string, 0, len(chores))
		for _, c := range chores {
			names = append(names, c.Name)
		}
		body := fmt.Sprintf("%d chores need doing: %s", len(names), strings.Join(names, ", "))
		if len(names) == 1 {
			body = fmt.Sprintf("Chore due today: %s", names[0])
		}

		payload := Payload{
			Title: "Chore Reminders",
			Body:  body,
			URL:   "/",
			Tag:   "chores-" + today,
		}

		for i := range subs {
			if err := s.service.Send(&subs[i], payload); err != nil {
				if errors.Is(err, ErrExpired) {
					if derr := s.push.DeleteByEndpoint(subs[i].Endpoint); derr != nil {
						s.logger.Error("failed to prune subscription", "error", derr)
					}
				} else {
					s.logger.Error("failed to send reminder", "user", user, "error", err)
				}
			}
		}
	}
}
