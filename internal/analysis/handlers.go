package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/mrocha88/fitapp/internal/ai"
	"github.com/mrocha88/fitapp/internal/userctx"
)

const (
	unrecognizedMealMessage = "Could not identify your meal. Try another photo or adjust the lighting."
	quotaReachedMessage     = "Monthly photo analysis limit reached for your plan. Upgrade to continue."
)

// PlanGate enforces per-plan analysis limits. The subscription service
// implements it.
type PlanGate interface {
	AnalysisAllowed(ctx context.Context, ownerUserID string) (bool, error)
	MicronutrientsAllowed(ctx context.Context, ownerUserID string) (bool, error)
	RecordAnalysis(ctx context.Context, ownerUserID string) error
}

// Handler handles HTTP requests for meal photo analysis.
type Handler struct {
	service *Service
	gate    PlanGate
}

// NewHandler creates a new analysis handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// WithPlanGate enables plan quota enforcement on the analyze endpoint.
func (h *Handler) WithPlanGate(gate PlanGate) *Handler {
	h.gate = gate
	return h
}

// HandleAnalyzeMeal handles POST /v1/meals/analyze
func (h *Handler) HandleAnalyzeMeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if h.gate != nil {
		allowed, err := h.gate.AnalysisAllowed(ctx, ownerUserID)
		if err != nil {
			log.Printf("analysis quota check failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to check analysis quota")
			return
		}
		if !allowed {
			writeError(w, http.StatusTooManyRequests, quotaReachedMessage)
			return
		}

		// Micronutrient breakdowns are a premium feature. Free plan
		// requests still analyze, just without the extra block.
		if req.IncludeMicronutrients {
			micros, err := h.gate.MicronutrientsAllowed(ctx, ownerUserID)
			if err != nil {
				log.Printf("micronutrients plan check failed: %v", err)
				writeError(w, http.StatusInternalServerError, "Failed to check analysis quota")
				return
			}
			if !micros {
				req.IncludeMicronutrients = false
			}
		}
	}

	result, err := h.service.Analyze(ctx, req)
	if err != nil {
		h.writeAnalyzeError(w, err)
		return
	}

	if h.gate != nil {
		if err := h.gate.RecordAnalysis(ctx, ownerUserID); err != nil {
			log.Printf("failed to record analysis usage: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// writeAnalyzeError maps pipeline failures onto the client-facing status
// codes and messages. No upstream payload text ever reaches the client.
func (h *Handler) writeAnalyzeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrImageRequired):
		writeError(w, http.StatusBadRequest, "Image not provided")
	case errors.Is(err, ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, "OpenAI API key is not configured")
	case errors.Is(err, ai.ErrUnauthorized):
		writeError(w, http.StatusInternalServerError, "Invalid or unauthorized API key. Configure your OpenAI key.")
	case errors.Is(err, ai.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "The service is temporarily busy. Please wait 30 seconds and try again.")
	case errors.Is(err, ErrUnrecognizedMeal):
		writeError(w, http.StatusBadRequest, unrecognizedMealMessage)
	default:
		var upstreamErr *ai.UpstreamError
		if errors.As(err, &upstreamErr) {
			writeError(w, http.StatusInternalServerError, upstreamErr.Error())
			return
		}
		log.Printf("meal analysis failed: %v", err)
		writeError(w, http.StatusInternalServerError, unrecognizedMealMessage)
	}
}

// writeError writes the flat error shape the meal analysis client expects.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
