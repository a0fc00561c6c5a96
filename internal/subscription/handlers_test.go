package subscription

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mrocha88/fitapp/internal/storage/memory"
	"github.com/mrocha88/fitapp/internal/userctx"
)

func setupSubscriptionHandler() *Handler {
	return NewHandler(NewService(memory.New(), fixedPoints{}))
}

func subscriptionRequest(handler http.HandlerFunc, method, target string, body any, userID string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req = req.WithContext(userctx.WithUserID(context.Background(), userID))
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestChangePlanEndpoint(t *testing.T) {
	handler := setupSubscriptionHandler()

	w := subscriptionRequest(handler.HandleChangePlan, http.MethodPut, "/v1/subscription/plan", ChangePlanRequest{Plan: "premium"}, "userA")
	if w.Code != http.StatusOK {
		t.Fatalf("change plan failed status=%d body=%s", w.Code, w.Body.String())
	}

	var status StatusResponse
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatalf("decode status failed: %v", err)
	}
	if status.Plan.Name != PlanPremium {
		t.Errorf("expected plan=premium, got %s", status.Plan.Name)
	}

	// Unknown plan is rejected
	w = subscriptionRequest(handler.HandleChangePlan, http.MethodPut, "/v1/subscription/plan", ChangePlanRequest{Plan: "platinum"}, "userA")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown plan, got %d", w.Code)
	}
}

func TestListPlansEndpoint(t *testing.T) {
	handler := setupSubscriptionHandler()

	w := subscriptionRequest(handler.HandleListPlans, http.MethodGet, "/v1/subscription/plans", nil, "userA")
	if w.Code != http.StatusOK {
		t.Fatalf("list plans failed status=%d", w.Code)
	}

	var resp struct {
		Plans []PlanSpec `json:"plans"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode plans failed: %v", err)
	}
	if len(resp.Plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(resp.Plans))
	}
	if resp.Plans[0].Name != PlanFree || resp.Plans[2].Name != PlanPro {
		t.Errorf("expected plans ordered cheapest first, got %s..%s", resp.Plans[0].Name, resp.Plans[2].Name)
	}
}

func TestLimitsEndpoint(t *testing.T) {
	handler := setupSubscriptionHandler()

	// Free plan: 3 meals/day, caller supplies today's usage
	w := subscriptionRequest(handler.HandleGetLimits, http.MethodGet, "/v1/subscription/limits?feature=meals&usage=3", nil, "userA")
	if w.Code != http.StatusOK {
		t.Fatalf("limits failed status=%d body=%s", w.Code, w.Body.String())
	}

	var resp LimitResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode limits failed: %v", err)
	}
	if resp.Limit != 3 || resp.Allowed || resp.Remaining != 0 {
		t.Errorf("expected limit=3 allowed=false remaining=0, got %+v", resp)
	}

	// Analyses usage defaults to the monthly counter (0 so far)
	w = subscriptionRequest(handler.HandleGetLimits, http.MethodGet, "/v1/subscription/limits?feature=analyses", nil, "userA")
	if w.Code != http.StatusOK {
		t.Fatalf("limits failed status=%d", w.Code)
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode limits failed: %v", err)
	}
	if resp.Limit != 5 || !resp.Allowed || resp.Remaining != 5 {
		t.Errorf("expected limit=5 allowed=true remaining=5, got %+v", resp)
	}
}

func TestLimitsEndpointUnlimitedOnPro(t *testing.T) {
	handler := setupSubscriptionHandler()

	w := subscriptionRequest(handler.HandleChangePlan, http.MethodPut, "/v1/subscription/plan", ChangePlanRequest{Plan: "pro"}, "userA")
	if w.Code != http.StatusOK {
		t.Fatalf("change plan failed status=%d", w.Code)
	}

	w = subscriptionRequest(handler.HandleGetLimits, http.MethodGet, "/v1/subscription/limits?feature=workouts&usage=40", nil, "userA")
	if w.Code != http.StatusOK {
		t.Fatalf("limits failed status=%d", w.Code)
	}

	var resp LimitResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode limits failed: %v", err)
	}
	if !resp.Unlimited || !resp.Allowed || resp.Remaining != -1 {
		t.Errorf("expected unlimited workouts on pro, got %+v", resp)
	}
}

func TestLimitsEndpointRejectsUnknownFeature(t *testing.T) {
	handler := setupSubscriptionHandler()

	w := subscriptionRequest(handler.HandleGetLimits, http.MethodGet, "/v1/subscription/limits?feature=swimming", nil, "userA")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown feature, got %d", w.Code)
	}

	w = subscriptionRequest(handler.HandleGetLimits, http.MethodGet, "/v1/subscription/limits", nil, "userA")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing feature, got %d", w.Code)
	}
}
