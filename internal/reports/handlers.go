package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/mrocha88/fitapp/internal/userctx"
)

// Handler handles HTTP requests for reports.
type Handler struct {
	service *Service
}

// NewHandler creates a new reports handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleCreateReport handles POST /v1/reports
func (h *Handler) HandleCreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	report, err := h.service.CreateReport(ctx, ownerUserID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidFormat):
			writeError(w, http.StatusBadRequest, "invalid_format", "Format must be 'pdf' or 'csv'")
		case errors.Is(err, ErrInvalidDate):
			writeError(w, http.StatusBadRequest, "invalid_date", "Dates must be YYYY-MM-DD")
		case errors.Is(err, ErrInvalidDateRange):
			writeError(w, http.StatusBadRequest, "invalid_date_range", "From date must be before to date")
		case errors.Is(err, ErrRangeTooLarge):
			writeError(w, http.StatusBadRequest, "range_too_large", fmt.Sprintf("Date range exceeds maximum of %d days", h.service.maxRangeDays))
		case errors.Is(err, ErrPDFNotAllowed):
			writeError(w, http.StatusForbidden, "pdf_reports_premium", "PDF reports require a premium or pro plan")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate report")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(report)
}

// HandleListReports handles GET /v1/reports?limit=&offset=
func (h *Handler) HandleListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	reports, err := h.service.List(ctx, ownerUserID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list reports")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ReportsResponse{Reports: reports})
}

// HandleDownload handles GET /v1/reports/{id}/download
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid report ID")
		return
	}

	downloadURL, isRedirect, err := h.service.DownloadURL(ctx, ownerUserID, id)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "report_not_found", "Report not found")
		} else {
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to resolve download")
		}
		return
	}

	if isRedirect {
		http.Redirect(w, r, downloadURL, http.StatusFound)
		return
	}

	data, contentType, err := h.service.Data(ctx, ownerUserID, id)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "report_not_found", "Report not found")
		} else {
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to read report")
		}
		return
	}

	ext := "pdf"
	if contentType == "text/csv" {
		ext = "csv"
	}
	filename := fmt.Sprintf("report_%s.%s", id.String()[:8], ext)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// HandleDeleteReport handles DELETE /v1/reports/{id}
func (h *Handler) HandleDeleteReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerUserID := userctx.OwnerID(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid report ID")
		return
	}

	if err := h.service.Delete(ctx, ownerUserID, id); err != nil {
		if errors.Is(err, ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "report_not_found", "Report not found")
		} else {
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete report")
		}
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
