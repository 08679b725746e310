package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// AuthHandler is the session gate in front of the dashboard. One
// shared password; nothing fancier is needed for a single-operator
// tool.
type AuthHandler struct {
	password    string
	rateLimiter *RateLimiter
}

func NewAuthHandler(password string) *AuthHandler {
	return &AuthHandler{
		password:    password,
		rateLimiter: NewRateLimiter(10, time.Minute),
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, loginResponse{Success: false})
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, loginResponse{Success: false})
		return
	}

	if req.Password != h.password {
		writeJSON(w, http.StatusUnauthorized, loginResponse{Success: false})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Success: true, Token: "session_valid"})
}
