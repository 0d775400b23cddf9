package handler

import (
	"fmt"
	"net/http"

	"github.com/fennwick/choreboard/internal/backup"
	"github.com/fennwick/choreboard/internal/service"
)

// BackupHandler exposes backup status and a manual trigger.
type BackupHandler struct {
	manager *backup.Manager
}

func NewBackupHandler(manager *backup.Manager) *BackupHandler {
	return &BackupHandler{manager: manager}
}

func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeOK(w, map[string]any{"backup": h.manager.Status()})
}

func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	if !h.manager.Enabled() {
		writeError(w, fmt.Errorf("%w: backup not configured", service.ErrInvalidInput))
		return
	}
	key, err := h.manager.RunNow(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"key": key})
}
