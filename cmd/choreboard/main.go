package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fennwick/choreboard/internal/backup"
	"github.com/fennwick/choreboard/internal/database"
	"github.com/fennwick/choreboard/internal/logging"
	"github.com/fennwick/choreboard/internal/server"
)

// defaultUsers is the household roster used when CHOREBOARD_USERS is unset.
const defaultUsers = "ash,vast,sephy,hope,cylis,phil,selina"

func main() {
	// Missing .env is fine; env vars win either way.
	godotenv.Load()

	logger := logging.Setup(os.Getenv("CHOREBOARD_LOG_LEVEL"), os.Getenv("CHOREBOARD_LOG_FORMAT"))

	port := envOr("CHOREBOARD_PORT", "8080")
	dbPath := envOr("CHOREBOARD_DB_PATH", "choreboard.db")

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("failed to open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	cfg := server.Config{
		Users:           splitUsers(envOr("CHOREBOARD_USERS", defaultUsers)),
		VAPIDPublicKey:  os.Getenv("CHOREBOARD_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("CHOREBOARD_VAPID_PRIVATE_KEY"),
		ReminderHour:    envInt("CHOREBOARD_REMINDER_HOUR", 16),
		Backup: backup.Config{
			S3: backup.S3Config{
				Endpoint:  os.Getenv("CHOREBOARD_S3_ENDPOINT"),
				Bucket:    os.Getenv("CHOREBOARD_S3_BUCKET"),
				Region:    envOr("CHOREBOARD_S3_REGION", "auto"),
				AccessKey: os.Getenv("CHOREBOARD_S3_ACCESS_KEY"),
				SecretKey: os.Getenv("CHOREBOARD_S3_SECRET_KEY"),
			},
			DBPath:        dbPath,
			Passphrase:    os.Getenv("CHOREBOARD_BACKUP_PASSPHRASE"),
			Hour:          envInt("CHOREBOARD_BACKUP_HOUR", 3),
			RetentionDays: envInt("CHOREBOARD_BACKUP_RETENTION_DAYS", 30),
		},
		RateLimit:       envInt("CHOREBOARD_RATE_LIMIT", 120),
		RateLimitWindow: time.Minute,
	}

	srv := server.New(db, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv.SweepScheduler().Start(ctx)
	defer srv.SweepScheduler().Stop()

	srv.PushScheduler().Start(ctx)
	defer srv.PushScheduler().Stop()

	if srv.BackupManager().Enabled() {
		srv.BackupManager().Start(ctx)
		defer srv.BackupManager().Stop()
	}

	// Prune expired rate limit windows hourly.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("choreboard listening", "port", port, "users", cfg.Users)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitUsers(s string) []string {
	parts := strings.Split(s, ",")
	users := make([]string, 0, len(parts))
	for _, p := range parts {
		if u := strings.ToLower(strings.TrimSpace(p)); u != "" {
			users = append(users, u)
		}
	}
	return users
}
