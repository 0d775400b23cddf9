package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fennwick/choreboard/internal/model"
	"github.com/fennwick/choreboard/internal/push"
	"github.com/fennwick/choreboard/internal/service"
	"github.com/fennwick/choreboard/internal/store"
)

// PushHandler manages web push subscription registration and the manual
// reminder trigger.
type PushHandler struct {
	store     *store.PushStore
	service   *push.Service
	scheduler *push.Scheduler
}

func NewPushHandler(pushStore *store.PushStore, svc *push.Service, scheduler *push.Scheduler) *PushHandler {
	return &PushHandler{store: pushStore, service: svc, scheduler: scheduler}
}

type subscribeRequest struct {
	User     string `json:"user"`
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON", service.ErrInvalidInput))
		return
	}

	req.User = strings.ToLower(strings.TrimSpace(req.User))
	if req.User == "" || req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		writeError(w, fmt.Errorf("%w: user, endpoint, and keys are required", service.ErrInvalidInput))
		return
	}

	sub := &model.PushSubscription{
		User:      req.User,
		Endpoint:  req.Endpoint,
		P256dhKey: req.Keys.P256dh,
		AuthKey:   req.Keys.Auth,
	}
	if err := h.store.Create(sub); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"id": sub.ID})
}

func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid subscription id", service.ErrInvalidInput))
		return
	}
	if err := h.store.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, nil)
}

func (h *PushHandler) VAPIDKey(w http.ResponseWriter, r *http.Request) {
	writeOK(w, map[string]any{"publicKey": h.service.VAPIDPublicKey()})
}

// Remind sends the due-chore reminders immediately instead of waiting
// for the scheduled hour.
func (h *PushHandler) Remind(w http.ResponseWriter, r *http.Request) {
	if !h.service.Enabled() {
		writeError(w, fmt.Errorf("%w: push is not configured", service.ErrInvalidInput))
		return
	}
	h.scheduler.SendReminders(time.Now().Format("2006-01-02"))
	writeOK(w, nil)
}
