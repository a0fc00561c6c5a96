package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mrocha88/fitapp/internal/blob"
	"github.com/mrocha88/fitapp/internal/storage"
)

var (
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidDate      = errors.New("invalid date format")
	ErrInvalidDateRange = errors.New("from date must be before to date")
	ErrRangeTooLarge    = errors.New("date range too large")
	ErrReportNotFound   = errors.New("report not found")
	ErrPDFNotAllowed    = errors.New("pdf reports not included in plan")
)

// PlanChecker answers whether the user's plan includes PDF reports. The
// subscription service implements it.
type PlanChecker interface {
	PDFReportsAllowed(ctx context.Context, ownerUserID string) (bool, error)
}

// Service handles report generation and delivery.
type Service struct {
	reportsStorage storage.ReportsStorage
	generator      *Generator
	planChecker    PlanChecker
	blobStore      blob.Store
	localMode      bool // true if no S3 configured
	publicBaseURL  string
	presignTTL     int
	maxRangeDays   int
}

// NewService creates a new reports service. A nil blob store selects local
// mode, where report bytes live in the storage layer.
func NewService(reportsStorage storage.ReportsStorage, generator *Generator, planChecker PlanChecker, blobStore blob.Store, maxRangeDays, presignTTL int, publicBaseURL string) *Service {
	return &Service{
		reportsStorage: reportsStorage,
		generator:      generator,
		planChecker:    planChecker,
		blobStore:      blobStore,
		localMode:      blobStore == nil,
		publicBaseURL:  publicBaseURL,
		presignTTL:     presignTTL,
		maxRangeDays:   maxRangeDays,
	}
}

// CreateReport validates the request, renders the report and stores it.
func (s *Service) CreateReport(ctx context.Context, ownerUserID string, req CreateReportRequest) (ReportDTO, error) {
	if req.Format != FormatPDF && req.Format != FormatCSV {
		return ReportDTO{}, ErrInvalidFormat
	}

	fromDate, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return ReportDTO{}, ErrInvalidDate
	}
	toDate, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		return ReportDTO{}, ErrInvalidDate
	}
	if fromDate.After(toDate) {
		return ReportDTO{}, ErrInvalidDateRange
	}
	if int(toDate.Sub(fromDate).Hours()/24) > s.maxRangeDays {
		return ReportDTO{}, ErrRangeTooLarge
	}

	if req.Format == FormatPDF && s.planChecker != nil {
		allowed, err := s.planChecker.PDFReportsAllowed(ctx, ownerUserID)
		if err != nil {
			return ReportDTO{}, fmt.Errorf("failed to resolve plan: %w", err)
		}
		if !allowed {
			return ReportDTO{}, ErrPDFNotAllowed
		}
	}

	data, err := s.generator.GenerateReport(ctx, ownerUserID, req)
	if err != nil {
		return ReportDTO{}, fmt.Errorf("failed to generate report: %w", err)
	}

	report := storage.ReportMeta{
		ID:          uuid.New(),
		OwnerUserID: ownerUserID,
		Format:      req.Format,
		FromDate:    req.From,
		ToDate:      req.To,
		SizeBytes:   int64(len(data)),
		Status:      StatusReady,
	}

	if s.localMode {
		report.Data = data
	} else {
		objectKey := fmt.Sprintf("reports/%s/%s_%s_%s.%s", ownerUserID, req.From, req.To, report.ID.String(), req.Format)
		if _, err := s.blobStore.PutObject(ctx, objectKey, data, contentTypeFor(req.Format)); err != nil {
			return ReportDTO{}, fmt.Errorf("failed to upload to S3: %w", err)
		}
		report.ObjectKey = &objectKey
	}

	if err := s.reportsStorage.CreateReport(ctx, &report); err != nil {
		if !s.localMode && report.ObjectKey != nil {
			_ = s.blobStore.DeleteObject(ctx, *report.ObjectKey)
		}
		return ReportDTO{}, fmt.Errorf("failed to save report metadata: %w", err)
	}

	return toDTO(report), nil
}

// List returns the user's reports, newest first.
func (s *Service) List(ctx context.Context, ownerUserID string, limit, offset int) ([]ReportDTO, error) {
	metas, err := s.reportsStorage.ListReports(ctx, ownerUserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	dtos := make([]ReportDTO, 0, len(metas))
	for _, meta := range metas {
		dtos = append(dtos, toDTO(meta))
	}
	return dtos, nil
}

// DownloadURL returns the download URL and whether the handler should
// redirect (true for S3, false for local serving).
func (s *Service) DownloadURL(ctx context.Context, ownerUserID string, id uuid.UUID) (string, bool, error) {
	meta, err := s.reportsStorage.GetReport(ctx, ownerUserID, id)
	if err != nil {
		return "", false, ErrReportNotFound
	}

	if s.localMode {
		return "", false, nil
	}

	if meta.ObjectKey == nil || *meta.ObjectKey == "" {
		return "", false, errors.New("object key not found")
	}

	if s.publicBaseURL != "" {
		publicURL := strings.TrimSuffix(s.publicBaseURL, "/") + "/" + *meta.ObjectKey
		return publicURL, true, nil
	}

	presignedURL, err := s.blobStore.PresignGet(ctx, *meta.ObjectKey, s.presignTTL)
	if err != nil {
		return "", false, fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return presignedURL, true, nil
}

// Data returns the report bytes and content type for local serving.
func (s *Service) Data(ctx context.Context, ownerUserID string, id uuid.UUID) ([]byte, string, error) {
	meta, err := s.reportsStorage.GetReport(ctx, ownerUserID, id)
	if err != nil {
		return nil, "", ErrReportNotFound
	}

	if s.localMode {
		return meta.Data, contentTypeFor(meta.Format), nil
	}

	if meta.ObjectKey == nil || *meta.ObjectKey == "" {
		return nil, "", errors.New("object key not found")
	}

	data, err := s.blobStore.GetObject(ctx, *meta.ObjectKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get object from S3: %w", err)
	}
	return data, contentTypeFor(meta.Format), nil
}

// Delete removes a report and its blob.
func (s *Service) Delete(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	meta, err := s.reportsStorage.GetReport(ctx, ownerUserID, id)
	if err != nil {
		return ErrReportNotFound
	}

	if !s.localMode && meta.ObjectKey != nil && *meta.ObjectKey != "" {
		// Metadata deletion proceeds even if the blob delete fails.
		_ = s.blobStore.DeleteObject(ctx, *meta.ObjectKey)
	}

	return s.reportsStorage.DeleteReport(ctx, ownerUserID, id)
}

func contentTypeFor(format string) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/pdf"
}

func toDTO(meta storage.ReportMeta) ReportDTO {
	return ReportDTO{
		ID:        meta.ID,
		Format:    meta.Format,
		FromDate:  meta.FromDate,
		ToDate:    meta.ToDate,
		SizeBytes: meta.SizeBytes,
		Status:    meta.Status,
		CreatedAt: meta.CreatedAt,
	}
}
