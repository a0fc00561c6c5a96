package ai

import (
	"github.com/mrocha88/fitapp/internal/config"
)

// NewProvider picks the provider implementation for the configured AI mode.
func NewProvider(cfg *config.Config) Provider {
	if cfg.AIMode == config.AIModeOpenAI {
		return NewOpenAIProvider(cfg)
	}
	return NewMockProvider()
}
