package workouts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mrocha88/fitapp/internal/userctx"
)

// Handler handles HTTP requests for workout sessions.
type Handler struct {
	service *Service
}

// NewHandler creates a new workouts handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleCreateSession handles POST /v1/workouts
func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	session, err := h.service.Create(ctx, ownerUserID, req)
	if err != nil {
		if errors.Is(err, ErrLimitReached) {
			writeError(w, http.StatusForbidden, "plan_limit_reached", "Weekly workout limit reached for your plan")
			return
		}
		if strings.HasPrefix(err.Error(), "invalid_request:") {
			writeError(w, http.StatusBadRequest, "invalid_request", strings.TrimSpace(strings.TrimPrefix(err.Error(), "invalid_request:")))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create workout session")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(session)
}

// HandleListSessions handles GET /v1/workouts?from=&to=
func (h *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	for _, date := range []string{from, to} {
		if date == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "from/to must be YYYY-MM-DD")
			return
		}
	}

	resp, err := h.service.List(ctx, ownerUserID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list workout sessions")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// HandleDeleteSession handles DELETE /v1/workouts/{id}
func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid session id")
		return
	}

	if err := h.service.Delete(ctx, ownerUserID, id); err != nil {
		writeError(w, http.StatusNotFound, "session_not_found", "Workout session not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
