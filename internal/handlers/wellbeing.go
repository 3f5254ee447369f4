package handlers

import (
	"net/http"

	"github.com/AnshRaj112/serenify-companion/internal/models"
	"github.com/AnshRaj112/serenify-companion/internal/services"
)

type MeditationResponse struct {
	Success    bool                     `json:"success"`
	Message    string                   `json:"message"`
	Meditation models.MeditationSession `json:"meditation"`
}

type MeditationsResponse struct {
	Success     bool                       `json:"success"`
	Meditations []models.MeditationSession `json:"meditations"`
}

type MoodResponse struct {
	Success   bool                       `json:"success"`
	Message   string                     `json:"message"`
	Mood      models.MoodEntry           `json:"mood"`
	Resources []services.SupportResource `json:"resources,omitempty"`
}

type MoodsResponse struct {
	Success bool               `json:"success"`
	Moods   []models.MoodEntry `json:"moods"`
}

// CompleteMeditation handles POST /api/meditations.
func (h *Handler) CompleteMeditation(w http.ResponseWriter, r *http.Request) {
	var req models.MeditationInput
	if !decodeJSON(w, r, &req) {
		return
	}
	userID, ok := h.resolveUserID(w, r, req.UserID)
	if !ok {
		return
	}
	req.UserID = userID

	session, err := h.Meditations.Complete(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Failed to save meditation")
		return
	}
	writeJSON(w, http.StatusCreated, MeditationResponse{Success: true, Message: "Meditation saved", Meditation: session})
}

// ListMeditations handles GET /api/meditations?userId=&limit=.
func (h *Handler) ListMeditations(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.Meditations.List(r.Context(), r.URL.Query().Get("userId"), queryInt(r, "limit", 0))
	if err != nil {
		writeServiceError(w, err, "Failed to load meditations")
		return
	}
	writeJSON(w, http.StatusOK, MeditationsResponse{Success: true, Meditations: sessions})
}

// LogMood handles POST /api/moods.
func (h *Handler) LogMood(w http.ResponseWriter, r *http.Request) {
	var req models.MoodInput
	if !decodeJSON(w, r, &req) {
		return
	}
	userID, ok := h.resolveUserID(w, r, req.UserID)
	if !ok {
		return
	}
	req.UserID = userID

	res, err := h.Moods.Log(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Failed to save mood")
		return
	}
	writeJSON(w, http.StatusCreated, MoodResponse{
		Success:   true,
		Message:   res.Entry.Message,
		Mood:      res.Entry,
		Resources: res.Resources,
	})
}

// ListMoods handles GET /api/moods?userId=&limit=.
func (h *Handler) ListMoods(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Moods.List(r.Context(), r.URL.Query().Get("userId"), queryInt(r, "limit", 0))
	if err != nil {
		writeServiceError(w, err, "Failed to load moods")
		return
	}
	writeJSON(w, http.StatusOK, MoodsResponse{Success: true, Moods: entries})
}
