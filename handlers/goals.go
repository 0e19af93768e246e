package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/readshelf/readshelf/collection"
	"github.com/readshelf/readshelf/middleware"
	"github.com/readshelf/readshelf/store"
)

// GoalsHandler adapts the reading-goal surface of the collection.
type GoalsHandler struct {
	KV store.KV
}

func (h *GoalsHandler) open(r *http.Request) (*collection.Manager, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return nil, false
	}
	return collection.Open(r.Context(), h.KV, userID), true
}

func yearParam(r *http.Request) (int, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		return 0, false
	}
	return year, true
}

func (h *GoalsHandler) List(w http.ResponseWriter, r *http.Request) {
	m, ok := h.open(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, m.Goals())
}

type SetGoalRequest struct {
	Target int `json:"target"`
}

func (h *GoalsHandler) Set(w http.ResponseWriter, r *http.Request) {
	m, ok := h.open(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	year, ok := yearParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	var req SetGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := m.SetGoal(r.Context(), year, req.Target); err != nil {
		if writeValidationError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, "could not save the goal")
		return
	}
	goal, _ := m.Goal(year)
	writeJSON(w, http.StatusOK, goal)
}

// Deactivate turns a goal off without losing its target.
func (h *GoalsHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	m, ok := h.open(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	year, ok := yearParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	m.DeactivateGoal(r.Context(), year)
	w.WriteHeader(http.StatusNoContent)
}

// Progress returns the goal progress for the year, or a JSON null when
// the goal is inactive.
func (h *GoalsHandler) Progress(w http.ResponseWriter, r *http.Request) {
	m, ok := h.open(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	year, ok := yearParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	writeJSON(w, http.StatusOK, m.GoalProgress(r.Context(), year))
}

func (h *GoalsHandler) DetailedStats(w http.ResponseWriter, r *http.Request) {
	m, ok := h.open(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	year, ok := yearParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	writeJSON(w, http.StatusOK, m.DetailedStats(r.Context(), year))
}
