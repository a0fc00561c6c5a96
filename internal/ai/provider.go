package ai

import (
	"context"
	"errors"
	"fmt"
)

// Provider answers a single meal-photo analysis request with the raw text
// content produced by the vision model. Interpreting that text (JSON
// extraction, schema normalization) is the caller's job.
type Provider interface {
	AnalyzeImage(ctx context.Context, req Request) (string, error)
}

// Request carries the already-built instructions and the photo reference.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	ImageDataURI string
}

var (
	// ErrUnauthorized: the upstream rejected the configured API key (401).
	ErrUnauthorized = errors.New("upstream rejected the api key")

	// ErrRateLimited: the upstream still answered 429 after all retries.
	ErrRateLimited = errors.New("upstream rate limited")

	// ErrImageRejected: the upstream refused the request content (400).
	ErrImageRejected = errors.New("upstream rejected the image")

	// ErrEmptyCompletion: a 2xx response without usable message content.
	ErrEmptyCompletion = errors.New("completion contains no content")
)

// UpstreamError represents any other non-OK upstream status.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream error %d", e.Status)
	}
	return fmt.Sprintf("upstream error %d: %s", e.Status, e.Message)
}
