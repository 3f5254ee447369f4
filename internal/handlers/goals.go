package handlers

import (
	"net/http"

	"github.com/AnshRaj112/serenify-companion/internal/models"
	"github.com/AnshRaj112/serenify-companion/internal/services"
)

type GoalResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Goal    models.Goal `json:"goal"`
}

type GoalsResponse struct {
	Success bool                  `json:"success"`
	Goals   []models.GoalProgress `json:"goals"`
}

type OverviewResponse struct {
	Success bool `json:"success"`
	services.Overview
}

// UpsertGoal handles PUT /api/goals.
func (h *Handler) UpsertGoal(w http.ResponseWriter, r *http.Request) {
	var req models.GoalInput
	if !decodeJSON(w, r, &req) {
		return
	}
	userID, ok := h.resolveUserID(w, r, req.UserID)
	if !ok {
		return
	}
	req.UserID = userID

	goal, err := h.Goals.Upsert(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Failed to save goal")
		return
	}
	writeJSON(w, http.StatusOK, GoalResponse{Success: true, Message: "Goal saved", Goal: goal})
}

// GetGoals handles GET /api/goals/{userId}.
func (h *Handler) GetGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.Goals.List(r.Context(), pathOrQueryUserID(r))
	if err != nil {
		writeServiceError(w, err, "Failed to load goals")
		return
	}
	writeJSON(w, http.StatusOK, GoalsResponse{Success: true, Goals: goals})
}

// GetOverview handles GET /api/overview/{userId}.
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Goals.Overview(r.Context(), pathOrQueryUserID(r))
	if err != nil {
		writeServiceError(w, err, "Failed to load overview")
		return
	}
	writeJSON(w, http.StatusOK, OverviewResponse{Success: true, Overview: overview})
}
