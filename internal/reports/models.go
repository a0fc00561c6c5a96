package reports

import (
	"time"

	"github.com/google/uuid"
)

const (
	FormatPDF = "pdf"
	FormatCSV = "csv"

	StatusReady  = "ready"
	StatusFailed = "failed"
)

// CreateReportRequest is the payload of POST /v1/reports.
type CreateReportRequest struct {
	Format string `json:"format"` // pdf | csv
	From   string `json:"from"`   // YYYY-MM-DD
	To     string `json:"to"`     // YYYY-MM-DD
}

// ReportDTO is one generated report in API responses.
type ReportDTO struct {
	ID        uuid.UUID `json:"id"`
	Format    string    `json:"format"`
	FromDate  string    `json:"from_date"`
	ToDate    string    `json:"to_date"`
	SizeBytes int64     `json:"size_bytes"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ReportsResponse wraps a report listing.
type ReportsResponse struct {
	Reports []ReportDTO `json:"reports"`
}
