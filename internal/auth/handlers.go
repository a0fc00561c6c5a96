package auth

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Handler handles HTTP requests for authentication.
type Handler struct {
	service *Service
}

// NewHandler creates a new auth handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleDevToken handles POST /v1/auth/dev-token
func (h *Handler) HandleDevToken(w http.ResponseWriter, r *http.Request) {
	var req DevTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	resp, err := h.service.IssueDevToken(req.UserID)
	if err != nil {
		if errors.Is(err, ErrDevDisabled) {
			writeError(w, http.StatusForbidden, "dev_tokens_disabled", "Dev tokens are only available with AUTH_MODE=dev")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
