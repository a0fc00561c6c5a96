package subscription

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mrocha88/fitapp/internal/userctx"
)

// Handler handles HTTP requests for subscription management.
type Handler struct {
	service *Service
}

// NewHandler creates a new subscription handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGetStatus handles GET /v1/subscription
func (h *Handler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	status, err := h.service.Status(ctx, ownerUserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to load subscription status")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(status)
}

// HandleChangePlan handles PUT /v1/subscription/plan
func (h *Handler) HandleChangePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	var req ChangePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	status, err := h.service.ChangePlan(ctx, ownerUserID, req.Plan)
	if err != nil {
		if errors.Is(err, ErrUnknownPlan) {
			writeError(w, http.StatusBadRequest, "unknown_plan", "Plan must be one of free, premium, pro")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to change plan")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(status)
}

// HandleListPlans handles GET /v1/subscription/plans
func (h *Handler) HandleListPlans(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"plans": Plans(),
	})
}

// HandleGetLimits handles GET /v1/subscription/limits?feature=&usage=
func (h *Handler) HandleGetLimits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	feature := r.URL.Query().Get("feature")
	if feature == "" {
		writeError(w, http.StatusBadRequest, "missing_feature", "Query parameter 'feature' is required")
		return
	}

	usage := 0
	usageKnown := false
	if raw := r.URL.Query().Get("usage"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_usage", "Query parameter 'usage' must be a non-negative integer")
			return
		}
		usage = n
		usageKnown = true
	}

	resp, err := h.service.LimitFor(ctx, ownerUserID, feature, usage, usageKnown)
	if err != nil {
		if errors.Is(err, ErrUnknownFeature) {
			writeError(w, http.StatusBadRequest, "unknown_feature", "Feature must be one of meals, workouts, analyses")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to resolve plan limits")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
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
