package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrocha88/fitapp/internal/ai"
	"github.com/mrocha88/fitapp/internal/config"
)

var (
	// ErrImageRequired: the request carried no image payload.
	ErrImageRequired = errors.New("image_required")

	// ErrNotConfigured: openai mode is active but no API key is set.
	ErrNotConfigured = errors.New("api_key_not_configured")

	// ErrUnrecognizedMeal: the model output could not be turned into a
	// valid analysis (rejected image, empty completion, parse or
	// validation failure).
	ErrUnrecognizedMeal = errors.New("unrecognized_meal")
)

// Service runs the meal photo analysis pipeline: prompt, upstream call,
// JSON extraction, normalization.
type Service struct {
	provider ai.Provider
	cfg      *config.Config
}

// NewService creates a new analysis service.
func NewService(provider ai.Provider, cfg *config.Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Analyze performs a full analysis of one meal photo.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (*MealAnalysis, error) {
	if req.Image == "" {
		return nil, ErrImageRequired
	}

	// Checked per request so the server still boots without a key and the
	// operator sees a clear error instead of upstream 401 noise.
	if s.cfg.AIMode == config.AIModeOpenAI && s.cfg.OpenAIAPIKey == "" {
		return nil, ErrNotConfigured
	}

	content, err := s.provider.AnalyzeImage(ctx, ai.Request{
		SystemPrompt: BuildSystemPrompt(req.IncludeMicronutrients),
		UserPrompt:   UserPrompt(),
		ImageDataURI: req.Image,
	})
	if err != nil {
		if errors.Is(err, ai.ErrImageRejected) || errors.Is(err, ai.ErrEmptyCompletion) {
			return nil, fmt.Errorf("%w: %w", ErrUnrecognizedMeal, err)
		}
		// ErrUnauthorized, ErrRateLimited, *UpstreamError and transport
		// failures pass through for the handler to map.
		return nil, err
	}

	raw, err := ExtractJSON(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnrecognizedMeal, err)
	}

	result, err := Normalize(raw, req.IncludeMicronutrients)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnrecognizedMeal, err)
	}

	return result, nil
}
