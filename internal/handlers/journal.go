package handlers

import (
	"net/http"

	"github.com/AnshRaj112/serenify-companion/internal/models"
	"github.com/AnshRaj112/serenify-companion/internal/services"
)

type CreateJournalResponse struct {
	Success   bool                       `json:"success"`
	Message   string                     `json:"message"`
	Journal   models.Journal             `json:"journal"`
	Resources []services.SupportResource `json:"resources,omitempty"`
}

type GetJournalsResponse struct {
	Success  bool             `json:"success"`
	Journals []models.Journal `json:"journals"`
	Total    int64            `json:"total"`
}

// CreateJournal handles POST /api/journals.
func (h *Handler) CreateJournal(w http.ResponseWriter, r *http.Request) {
	var req models.JournalInput
	if !decodeJSON(w, r, &req) {
		return
	}
	userID, ok := h.resolveUserID(w, r, req.UserID)
	if !ok {
		return
	}
	req.UserID = userID

	res, err := h.Journals.Save(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Failed to create journal entry")
		return
	}
	writeJSON(w, http.StatusCreated, CreateJournalResponse{
		Success:   true,
		Message:   "Journal entry saved",
		Journal:   res.Journal,
		Resources: res.Resources,
	})
}

// GetJournals handles GET /api/journals?userId=&limit=&skip=.
func (h *Handler) GetJournals(w http.ResponseWriter, r *http.Request) {
	journals, total, err := h.Journals.List(r.Context(), r.URL.Query().Get("userId"),
		queryInt(r, "limit", 0), queryInt(r, "skip", 0))
	if err != nil {
		writeServiceError(w, err, "Failed to fetch journals")
		return
	}
	writeJSON(w, http.StatusOK, GetJournalsResponse{Success: true, Journals: journals, Total: total})
}
