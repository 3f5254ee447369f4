package handlers

import (
	"net/http"

	"github.com/AnshRaj112/serenify-companion/internal/models"
	"github.com/AnshRaj112/serenify-companion/internal/services"
)

type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse returns only anonymous data
type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *models.User `json:"user,omitempty"`
	Token   string       `json:"token,omitempty"`
}

func (h *Handler) authAvailable(w http.ResponseWriter) bool {
	if h.Auth == nil {
		writeError(w, http.StatusServiceUnavailable, "Accounts are not available")
		return false
	}
	return true
}

// Signup handles POST /api/auth/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if !h.authAvailable(w) {
		return
	}
	var req AuthRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Auth.Signup(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err, "Failed to create account")
		return
	}
	writeJSON(w, http.StatusCreated, authResponse("Account created", res))
}

// Signin handles POST /api/auth/signin.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	if !h.authAvailable(w) {
		return
	}
	var req AuthRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Auth.Signin(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err, "Failed to sign in")
		return
	}
	writeJSON(w, http.StatusOK, authResponse("Signed in", res))
}

// GetMe handles GET /api/auth/me.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	if !h.authAvailable(w) {
		return
	}
	user, err := h.Auth.Me(r.Context(), bearerToken(r))
	if err != nil {
		writeServiceError(w, err, "Failed to load account")
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "OK", User: &user})
}

// Signout handles POST /api/auth/signout. Signing out without a session is not an error.
func (h *Handler) Signout(w http.ResponseWriter, r *http.Request) {
	if !h.authAvailable(w) {
		return
	}
	if err := h.Auth.Signout(r.Context(), bearerToken(r)); err != nil {
		writeServiceError(w, err, "Failed to sign out")
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Signed out"})
}

func authResponse(message string, res services.AuthResult) AuthResponse {
	user := res.User
	return AuthResponse{Success: true, Message: message, User: &user, Token: res.Token}
}
