package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/serenify-companion/internal/models"
	"github.com/AnshRaj112/serenify-companion/internal/services"
)

// DashboardResponse flattens the summary next to the success flag.
type DashboardResponse struct {
	Success bool `json:"success"`
	services.DashboardSummary
}

type ActivityResponse struct {
	Success  bool                  `json:"success"`
	Message  string                `json:"message"`
	Activity models.ActivityRecord `json:"activity"`
}

type ActivitiesResponse struct {
	Success    bool                    `json:"success"`
	Activities []models.ActivityRecord `json:"activities"`
}

type RewardResponse struct {
	Success bool `json:"success"`
	services.Reward
}

// pathOrQueryUserID reads {userId} from the route, falling back to ?userId=.
func pathOrQueryUserID(r *http.Request) string {
	if id := chi.URLParam(r, "userId"); id != "" {
		return strings.TrimSpace(id)
	}
	return strings.TrimSpace(r.URL.Query().Get("userId"))
}

// GetDashboard handles GET /api/dashboard/{userId}.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID := pathOrQueryUserID(r)
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	summary, err := h.Activities.Dashboard(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Failed to load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, DashboardResponse{Success: true, DashboardSummary: summary})
}

// CreateActivity handles POST /api/activities.
func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req models.ActivityInput
	if !decodeJSON(w, r, &req) {
		return
	}
	userID, ok := h.resolveUserID(w, r, req.UserID)
	if !ok {
		return
	}
	req.UserID = userID

	rec, err := h.Activities.Record(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Failed to save activity")
		return
	}
	writeJSON(w, http.StatusCreated, ActivityResponse{
		Success:  true,
		Message:  "Activity recorded",
		Activity: rec,
	})
}

// ListActivities handles GET /api/activities?userId=&limit=.
func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	records, err := h.Activities.List(r.Context(), r.URL.Query().Get("userId"), queryInt(r, "limit", 0))
	if err != nil {
		writeServiceError(w, err, "Failed to load activities")
		return
	}
	writeJSON(w, http.StatusOK, ActivitiesResponse{Success: true, Activities: records})
}

// GetReward handles GET /api/rewards/{userId}.
func (h *Handler) GetReward(w http.ResponseWriter, r *http.Request) {
	reward, err := h.Activities.Reward(r.Context(), pathOrQueryUserID(r))
	if err != nil {
		writeServiceError(w, err, "Failed to load rewards")
		return
	}
	writeJSON(w, http.StatusOK, RewardResponse{Success: true, Reward: reward})
}
