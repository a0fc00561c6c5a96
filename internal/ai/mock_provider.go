package ai

import "context"

// MockProvider returns a canned completion so the analyze endpoint works
// without an API key (AI_MODE=mock, the default in local development).
//
// The fixture deliberately looks like real model output: fenced, totals that
// do not add up (the normalizer recomputes them), micronutrients present so
// include_micronutrients requests have something to surface.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) AnalyzeImage(ctx context.Context, req Request) (string, error) {
	return mockCompletion, nil
}

const mockCompletion = "```json\n" + `{
  "foods": [
    {
      "name": "Grilled chicken breast",
      "portion": "150 g",
      "calories": 248,
      "protein": 46.5,
      "carbs": 0,
      "fat": 5.4
    },
    {
      "name": "Steamed white rice",
      "portion": "1 cup",
      "calories": 205,
      "protein": 4.3,
      "carbs": 44.5,
      "fat": 0.4
    }
  ],
  "totals": {
    "calories": 400,
    "protein": 40,
    "carbs": 40,
    "fat": 5
  },
  "micronutrients": {
    "vitaminA": 21.3,
    "vitaminC": 0.8,
    "vitaminD": 0.2,
    "calcium": 24,
    "iron": 3.05,
    "fiber": 0.6
  }
}` + "\n```"
