package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/fennwick/choreboard/internal/backup"
	"github.com/fennwick/choreboard/internal/handler"
	"github.com/fennwick/choreboard/internal/middleware"
	"github.com/fennwick/choreboard/internal/push"
	"github.com/fennwick/choreboard/internal/service"
	"github.com/fennwick/choreboard/internal/store"
	ws "github.com/fennwick/choreboard/internal/websocket"
)

// Config carries everything the server needs beyond the database handle.
type Config struct {
	Users           []string
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	ReminderHour    int
	Backup          backup.Config
	RateLimit       int
	RateLimitWindow time.Duration
}

type Server struct {
	db  *sql.DB
	hub *ws.Hub

	choreH  *handler.ChoreHandler
	pointsH *handler.PointsHandler
	pushH   *handler.PushHandler
	backupH *handler.BackupHandler

	sweepScheduler *service.SweepScheduler
	pushScheduler  *push.Scheduler
	backupManager  *backup.Manager

	rateLimiter *middleware.RateLimiter
	rateLimit   int
	rateWindow  time.Duration
	logger      *slog.Logger
}

// New wires stores, services, handlers, and schedulers together.
func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	choreStore := store.NewChoreStore(db)
	undoStore := store.NewUndoStore(db)
	pointsStore := store.NewPointsStore(db)
	statsStore := store.NewStatsStore(db)
	streakStore := store.NewStreakStore(db)
	pushStore := store.NewPushStore(db)

	completion := service.NewCompletionService(choreStore, undoStore, pointsStore, statsStore, cfg.Users, logger)
	sweep := service.NewSweepService(choreStore, logger)
	sweepScheduler := service.NewSweepScheduler(sweep, func(r *service.SweepResult) {
		hub.Broadcast(ws.SweepChanged(r.Date, r.Latched, r.Cleared))
	}, logger)

	pushSvc := push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
	pushScheduler := push.NewScheduler(pushSvc, pushStore, completion, cfg.ReminderHour, logger)

	backupMgr := backup.NewManager(cfg.Backup, db, logger)

	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = 60
	}
	rateWindow := cfg.RateLimitWindow
	if rateWindow <= 0 {
		rateWindow = time.Minute
	}

	return &Server{
		db:             db,
		hub:            hub,
		choreH:         handler.NewChoreHandler(completion, sweep, hub),
		pointsH:        handler.NewPointsHandler(pointsStore, streakStore, cfg.Users, hub),
		pushH:          handler.NewPushHandler(pushStore, pushSvc, pushScheduler),
		backupH:        handler.NewBackupHandler(backupMgr),
		sweepScheduler: sweepScheduler,
		pushScheduler:  pushScheduler,
		backupManager:  backupMgr,
		rateLimiter:    middleware.NewRateLimiter(),
		rateLimit:      rateLimit,
		rateWindow:     rateWindow,
		logger:         logger,
	}
}

// SweepScheduler returns the cron sweep scheduler for lifecycle control.
func (s *Server) SweepScheduler() *service.SweepScheduler {
	return s.sweepScheduler
}

// PushScheduler returns the reminder scheduler for lifecycle control.
func (s *Server) PushScheduler() *push.Scheduler {
	return s.pushScheduler
}

// BackupManager returns the backup manager for lifecycle control.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

// RateLimiter returns the limiter so a cleanup loop can prune it.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Chore board
	mux.HandleFunc("GET /api/chores", s.choreH.List)
	mux.HandleFunc("PUT /api/chores", s.choreH.Save)
	mux.HandleFunc("DELETE /api/chores/{id}", s.choreH.Delete)
	mux.HandleFunc("POST /api/chores/{id}/complete", s.choreH.Complete)
	mux.HandleFunc("POST /api/chores/{id}/skip", s.choreH.Skip)
	mux.HandleFunc("POST /api/chores/{id}/undo", s.choreH.Undo)
	mux.HandleFunc("POST /api/chores/{id}/claim", s.choreH.Claim)
	mux.HandleFunc("GET /api/chores/status-by-user", s.choreH.StatusByUser)
	mux.HandleFunc("POST /api/cron/sweep", s.choreH.Sweep)

	// Points and streak
	mux.HandleFunc("GET /api/points", s.pointsH.Get)
	mux.HandleFunc("POST /api/points/add", s.pointsH.Add)
	mux.HandleFunc("POST /api/points/reset", s.pointsH.Reset)
	mux.HandleFunc("GET /api/streak", s.pointsH.GetStreak)
	mux.HandleFunc("POST /api/streak/increment", s.pointsH.IncrementStreak)

	// Push subscriptions
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	mux.HandleFunc("POST /api/push/remind", s.pushH.Remind)

	// Backup
	mux.HandleFunc("GET /api/backup/status", s.backupH.Status)
	mux.HandleFunc("POST /api/backup/run", s.backupH.Run)

	// Live sync
	mux.HandleFunc("GET /ws", ws.Handle(s.hub, s.logger.With("component", "websocket")))

	limited := middleware.RateLimit(s.rateLimiter, s.rateLimit, s.rateWindow)(mux)
	return middleware.RequestLogger(s.logger.With("component", "http"))(limited)
}
