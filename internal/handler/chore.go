package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fennwick/choreboard/internal/model"
	"github.com/fennwick/choreboard/internal/service"
	"github.com/fennwick/choreboard/internal/websocket"
)

// ChoreHandler exposes the chore API: listing, the four board actions
// (complete, skip, undo, claim), the per-user status aggregate, the cron
// sweep trigger, and the admin upsert/delete surface.
type ChoreHandler struct {
	completion *service.CompletionService
	sweep      *service.SweepService
	hub        *websocket.Hub
}

func NewChoreHandler(completion *service.CompletionService, sweep *service.SweepService, hub *websocket.Hub) *ChoreHandler {
	return &ChoreHandler{completion: completion, sweep: sweep, hub: hub}
}

func (h *ChoreHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.completion.List())
}

type completeRequest struct {
	Users      []string `json:"users"`
	ClientDate string   `json:"clientDate"`
}

func (h *ChoreHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON", service.ErrInvalidInput))
		return
	}

	chore, err := h.completion.MarkComplete(r.PathValue("id"), req.Users, req.ClientDate)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.ChoreChanged("completed", chore.ID))
	writeOK(w, map[string]any{"chore": chore})
}

func (h *ChoreHandler) Skip(w http.ResponseWriter, r *http.Request) {
	chore, err := h.completion.Skip(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.ChoreChanged("skipped", chore.ID))
	writeOK(w, map[string]any{"chore": chore})
}

func (h *ChoreHandler) Undo(w http.ResponseWriter, r *http.Request) {
	chore, err := h.completion.Undo(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.ChoreChanged("undone", chore.ID))
	writeOK(w, map[string]any{"chore": chore})
}

type claimRequest struct {
	UserName string `json:"userName"`
}

func (h *ChoreHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON", service.ErrInvalidInput))
		return
	}

	chore, err := h.completion.Claim(r.PathValue("id"), req.UserName)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.ChoreChanged("claimed", chore.ID))
	writeOK(w, map[string]any{"chore": chore})
}

// StatusByUser reports, per roster user, whether any chores are still
// due or overdue for them today.
func (h *ChoreHandler) StatusByUser(w http.ResponseWriter, r *http.Request) {
	byUser, err := h.completion.StatusByUser()
	if err != nil {
		writeError(w, err)
		return
	}

	status := make(map[string]bool, len(byUser))
	for user, chores := range byUser {
		status[user] = len(chores) > 0
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *ChoreHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.sweep.Sweep()
	if err != nil {
		writeError(w, err)
		return
	}

	if result.Changed {
		h.broadcast(websocket.SweepChanged(result.Date, result.Latched, result.Cleared))
	}
	writeOK(w, map[string]any{"result": result})
}

func (h *ChoreHandler) Save(w http.ResponseWriter, r *http.Request) {
	var chore model.Chore
	if err := json.NewDecoder(r.Body).Decode(&chore); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON", service.ErrInvalidInput))
		return
	}

	saved, err := h.completion.SaveChore(chore)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.ChoreChanged("saved", saved.ID))
	writeOK(w, map[string]any{"chore": saved})
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.completion.DeleteChore(id); err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.ChoreChanged("deleted", id))
	writeOK(w, nil)
}
