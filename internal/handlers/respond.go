package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/AnshRaj112/serenify-companion/internal/services"
	"github.com/AnshRaj112/serenify-companion/pkg/utils"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the envelope for every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[HTTP] failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Message: message})
}

// writeServiceError maps a service error onto a status code. Store failures
// are logged and reported with fallback only.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var vErr *utils.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Success: false, Message: vErr.Message, Field: vErr.Field})
	case errors.Is(err, services.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, services.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "Username is already taken")
	case errors.Is(err, services.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrUploadsDisabled):
		writeError(w, http.StatusServiceUnavailable, "File uploads are not available")
	default:
		log.Printf("[HTTP] %s: %v", fallback, err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// queryInt reads a non-negative integer query parameter. Missing or invalid
// values yield def.
func queryInt(r *http.Request, key string, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func bearerToken(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) < len("Bearer ") || !strings.EqualFold(auth[:len("Bearer ")], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(auth[len("Bearer "):])
}
