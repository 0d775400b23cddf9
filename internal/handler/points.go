package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fennwick/choreboard/internal/service"
	"github.com/fennwick/choreboard/internal/store"
	"github.com/fennwick/choreboard/internal/websocket"
)

// PointsHandler exposes the points ledger and the household streak.
type PointsHandler struct {
	points *store.PointsStore
	streak *store.StreakStore
	users  []string
	hub    *websocket.Hub
}

func NewPointsHandler(points *store.PointsStore, streak *store.StreakStore, users []string, hub *websocket.Hub) *PointsHandler {
	return &PointsHandler{points: points, streak: streak, users: users, hub: hub}
}

func (h *PointsHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *PointsHandler) Get(w http.ResponseWriter, r *http.Request) {
	totals, err := h.points.Totals(h.users)
	if err != nil {
		writeError(w, err)
		return
	}
	lastReset, err := h.points.LastReset()
	if err != nil {
		writeError(w, err)
		return
	}

	fields := map[string]any{"points": totals}
	if !lastReset.IsZero() {
		fields["lastReset"] = lastReset
	}
	writeOK(w, fields)
}

type addPointsRequest struct {
	User  string  `json:"user"`
	Value float64 `json:"value"`
}

func (h *PointsHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON", service.ErrInvalidInput))
		return
	}
	if req.User == "" {
		writeError(w, fmt.Errorf("%w: user is required", service.ErrInvalidInput))
		return
	}

	var err error
	if req.Value >= 0 {
		err = h.points.Add(req.User, req.Value)
	} else {
		err = h.points.Deduct(req.User, -req.Value)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.Message{Type: "points_changed"})
	writeOK(w, nil)
}

func (h *PointsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.points.Reset(); err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.Message{Type: "points_reset"})
	writeOK(w, nil)
}

func (h *PointsHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	weeks, err := h.streak.Weeks()
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"weeks": weeks})
}

func (h *PointsHandler) IncrementStreak(w http.ResponseWriter, r *http.Request) {
	weeks, err := h.streak.Increment()
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.Message{Type: "streak_changed"})
	writeOK(w, map[string]any{"weeks": weeks})
}
