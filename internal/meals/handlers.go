package meals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mrocha88/fitapp/internal/userctx"
)

// Handler handles HTTP requests for meals.
type Handler struct {
	service *Service
}

// NewHandler creates a new meals handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleCreateMeal handles POST /v1/meals
func (h *Handler) HandleCreateMeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	var req CreateMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	meal, err := h.service.Create(ctx, ownerUserID, req)
	if err != nil {
		if errors.Is(err, ErrLimitReached) {
			writeError(w, http.StatusForbidden, "plan_limit_reached", "Daily meal limit reached for your plan")
			return
		}
		if strings.HasPrefix(err.Error(), "invalid_request:") {
			writeError(w, http.StatusBadRequest, "invalid_request", strings.TrimSpace(strings.TrimPrefix(err.Error(), "invalid_request:")))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create meal")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(meal)
}

// HandleGetMeal handles GET /v1/meals/{id}
func (h *Handler) HandleGetMeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid meal id")
		return
	}

	meal, err := h.service.Get(ctx, ownerUserID, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "meal_not_found", "Meal not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(meal)
}

// HandleListDay handles GET /v1/meals/today and GET /v1/meals?date=
func (h *Handler) HandleListDay(w http.ResponseWriter, r *http.Request) {
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

	summary, err := h.service.ListDay(ctx, ownerUserID, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list meals")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(summary)
}

// HandleUpdateMeal handles PUT /v1/meals/{id}
func (h *Handler) HandleUpdateMeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid meal id")
		return
	}

	var req UpdateMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	meal, err := h.service.Update(ctx, ownerUserID, id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "meal_not_found", "Meal not found")
			return
		}
		if strings.HasPrefix(err.Error(), "invalid_request:") {
			writeError(w, http.StatusBadRequest, "invalid_request", strings.TrimSpace(strings.TrimPrefix(err.Error(), "invalid_request:")))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to update meal")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(meal)
}

// HandleDeleteMeal handles DELETE /v1/meals/{id}
func (h *Handler) HandleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid meal id")
		return
	}

	if err := h.service.Delete(ctx, ownerUserID, id); err != nil {
		writeError(w, http.StatusNotFound, "meal_not_found", "Meal not found")
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
