package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mrocha88/fitapp/internal/storage"
	"github.com/mrocha88/fitapp/internal/storage/memory"
	"github.com/mrocha88/fitapp/internal/userctx"
)

type stubPlanChecker struct {
	pdfAllowed bool
}

func (c stubPlanChecker) PDFReportsAllowed(ctx context.Context, ownerUserID string) (bool, error) {
	return c.pdfAllowed, nil
}

func setupHandler(t *testing.T, pdfAllowed bool) (*Handler, *memory.MemoryStorage) {
	t.Helper()

	store := memory.New()
	generator := NewGenerator(store, store)
	service := NewService(store, generator, stubPlanChecker{pdfAllowed: pdfAllowed}, nil, 90, 900, "")
	return NewHandler(service), store
}

func seedDay(t *testing.T, store *memory.MemoryStorage, userID, date string) {
	t.Helper()
	ctx := context.Background()

	meals := []storage.Meal{
		{OwnerUserID: userID, Name: "Oatmeal", MealType: "breakfast", Date: date, Calories: 300, Protein: 20, Carbs: 30, Fat: 10, Completed: true},
		{OwnerUserID: userID, Name: "Salad", MealType: "lunch", Date: date, Calories: 200, Protein: 10.5, Carbs: 15.5, Fat: 5.5, Completed: true},
		{OwnerUserID: userID, Name: "Planned dinner", MealType: "dinner", Date: date, Calories: 999, Completed: false},
	}
	for i := range meals {
		if err := store.CreateMeal(ctx, &meals[i]); err != nil {
			t.Fatalf("failed to seed meal: %v", err)
		}
	}

	session := storage.WorkoutSession{
		OwnerUserID:     userID,
		Activity:        "Running",
		Intensity:       "moderate",
		DurationMinutes: 30,
		WeightKg:        70,
		CaloriesBurned:  202,
		Date:            date,
	}
	if err := store.CreateSession(ctx, &session); err != nil {
		t.Fatalf("failed to seed workout: %v", err)
	}
}

func createReport(t *testing.T, handler *Handler, userID string, req CreateReportRequest) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(req)
	httpReq := httptest.NewRequest(http.MethodPost, "/v1/reports", bytes.NewReader(body))
	httpReq = httpReq.WithContext(userctx.WithUserID(httpReq.Context(), userID))

	rec := httptest.NewRecorder()
	handler.HandleCreateReport(rec, httpReq)
	return rec
}

func downloadReport(t *testing.T, handler *Handler, userID, id string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/"+id+"/download", nil)
	req.SetPathValue("id", id)
	req = req.WithContext(userctx.WithUserID(req.Context(), userID))

	rec := httptest.NewRecorder()
	handler.HandleDownload(rec, req)
	return rec
}

func TestCreateAndDownloadCSVReport(t *testing.T) {
	handler, store := setupHandler(t, false)
	seedDay(t, store, "userA", "2026-08-01")

	rec := createReport(t, handler, "userA", CreateReportRequest{Format: "csv", From: "2026-08-01", To: "2026-08-02"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var dto ReportDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if dto.Status != StatusReady {
		t.Fatalf("expected ready status, got %q", dto.Status)
	}

	download := downloadReport(t, handler, "userA", dto.ID.String())
	if download.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", download.Code, download.Body.String())
	}
	if got := download.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("expected text/csv, got %q", got)
	}

	lines := strings.Split(strings.TrimSpace(download.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 day rows, got %d lines", len(lines))
	}
	if lines[0] != "date,meals,calories,protein_g,carbs_g,fat_g,workouts,calories_burned" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	// Only completed meals count toward the consumed totals.
	if lines[1] != "2026-08-01,2,500,30.50,45.50,15.50,1,202" {
		t.Fatalf("unexpected day row: %s", lines[1])
	}
	if lines[2] != "2026-08-02,0,0,0.00,0.00,0.00,0,0" {
		t.Fatalf("unexpected empty day row: %s", lines[2])
	}
}

func TestCreatePDFReport(t *testing.T) {
	handler, store := setupHandler(t, true)
	seedDay(t, store, "userA", "2026-08-01")

	rec := createReport(t, handler, "userA", CreateReportRequest{Format: "pdf", From: "2026-08-01", To: "2026-08-07"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var dto ReportDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	download := downloadReport(t, handler, "userA", dto.ID.String())
	if download.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", download.Code, download.Body.String())
	}
	if !bytes.HasPrefix(download.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected PDF magic bytes, got %q", download.Body.Bytes()[:8])
	}
}

func TestPDFRequiresPremiumPlan(t *testing.T) {
	handler, _ := setupHandler(t, false)

	rec := createReport(t, handler, "userA", CreateReportRequest{Format: "pdf", From: "2026-08-01", To: "2026-08-07"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != "pdf_reports_premium" {
		t.Fatalf("expected pdf_reports_premium, got %q", resp.Error.Code)
	}
}

func TestCreateReportValidation(t *testing.T) {
	handler, _ := setupHandler(t, true)

	cases := []struct {
		req      CreateReportRequest
		wantCode string
	}{
		{CreateReportRequest{Format: "xlsx", From: "2026-08-01", To: "2026-08-07"}, "invalid_format"},
		{CreateReportRequest{Format: "csv", From: "not-a-date", To: "2026-08-07"}, "invalid_date"},
		{CreateReportRequest{Format: "csv", From: "2026-08-07", To: "2026-08-01"}, "invalid_date_range"},
		{CreateReportRequest{Format: "csv", From: "2026-01-01", To: "2026-12-31"}, "range_too_large"},
	}

	for _, tc := range cases {
		rec := createReport(t, handler, "userA", tc.req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.wantCode, rec.Code)
		}

		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Error.Code != tc.wantCode {
			t.Fatalf("expected %q, got %q", tc.wantCode, resp.Error.Code)
		}
	}
}

func TestDeleteReport(t *testing.T) {
	handler, store := setupHandler(t, false)
	seedDay(t, store, "userA", "2026-08-01")

	rec := createReport(t, handler, "userA", CreateReportRequest{Format: "csv", From: "2026-08-01", To: "2026-08-01"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var dto ReportDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/v1/reports/"+dto.ID.String(), nil)
	req.SetPathValue("id", dto.ID.String())
	req = req.WithContext(userctx.WithUserID(req.Context(), "userA"))

	del := httptest.NewRecorder()
	handler.HandleDeleteReport(del, req)
	if del.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", del.Code, del.Body.String())
	}

	del = httptest.NewRecorder()
	handler.HandleDeleteReport(del, req)
	if del.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", del.Code, del.Body.String())
	}
}
