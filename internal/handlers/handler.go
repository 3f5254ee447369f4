package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/AnshRaj112/serenify-companion/internal/services"
)

// Handler serves the JSON API. Auth and Uploader may be nil; the endpoints
// that need them then report themselves unavailable.
type Handler struct {
	Activities  *services.ActivityService
	Journals    *services.JournalService
	Meditations *services.MeditationService
	Moods       *services.MoodService
	Goals       *services.GoalService
	Auth        *services.AuthService
	Uploader    services.Uploader
}

// resolveUserID reconciles the userId sent by the client with the signed-in
// user. With a valid session, a missing userId is taken from the session and
// a different one is rejected with 403. Without one, the client's value
// stands. It writes the error response itself and returns false on rejection.
func (h *Handler) resolveUserID(w http.ResponseWriter, r *http.Request, requested string) (string, bool) {
	requested = strings.TrimSpace(requested)
	token := bearerToken(r)
	if h.Auth == nil || token == "" {
		return requested, true
	}

	sessionUser, err := h.Auth.UserFromToken(r.Context(), token)
	if err != nil {
		if !errors.Is(err, services.ErrUnauthenticated) {
			log.Printf("[Auth] session lookup failed: %v", err)
		}
		return requested, true
	}

	if requested == "" {
		return sessionUser, true
	}
	if requested != sessionUser {
		writeError(w, http.StatusForbidden, "userId does not match the signed-in user")
		return "", false
	}
	return requested, true
}
