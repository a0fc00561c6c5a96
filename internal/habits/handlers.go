package habits

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mrocha88/fitapp/internal/userctx"
)

// Handler handles HTTP requests for habits.
type Handler struct {
	service *Service
}

// NewHandler creates a new habits handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleCreateHabit handles POST /v1/habits
func (h *Handler) HandleCreateHabit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	var req CreateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	habit, err := h.service.Create(ctx, ownerUserID, req)
	if err != nil {
		if strings.HasPrefix(err.Error(), "invalid_request:") {
			writeError(w, http.StatusBadRequest, "invalid_request", strings.TrimSpace(strings.TrimPrefix(err.Error(), "invalid_request:")))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create habit")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(habit)
}

// HandleListHabits handles GET /v1/habits?date=
func (h *Handler) HandleListHabits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}

	habits, err := h.service.List(ctx, ownerUserID, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list habits")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"habits": habits, "date": date})
}

// HandleUpdateHabit handles PUT /v1/habits/{id}
func (h *Handler) HandleUpdateHabit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid habit id")
		return
	}

	var req UpdateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	habit, err := h.service.Update(ctx, ownerUserID, id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "habit_not_found", "Habit not found")
			return
		}
		if strings.HasPrefix(err.Error(), "invalid_request:") {
			writeError(w, http.StatusBadRequest, "invalid_request", strings.TrimSpace(strings.TrimPrefix(err.Error(), "invalid_request:")))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to update habit")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(habit)
}

// HandleDeleteHabit handles DELETE /v1/habits/{id}
func (h *Handler) HandleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid habit id")
		return
	}

	if err := h.service.Delete(ctx, ownerUserID, id); err != nil {
		writeError(w, http.StatusNotFound, "habit_not_found", "Habit not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleToggleHabit handles POST /v1/habits/{id}/toggle?date=
func (h *Handler) HandleToggleHabit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid habit id")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}

	result, err := h.service.Toggle(ctx, ownerUserID, id, date)
	if err != nil {
		writeError(w, http.StatusNotFound, "habit_not_found", "Habit not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// HandleGetPoints handles GET /v1/habits/points
func (h *Handler) HandleGetPoints(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	points, err := h.service.Points(ctx, ownerUserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get points")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(PointsResponse{Points: points})
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
