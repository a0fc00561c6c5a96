package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mrocha88/fitapp/internal/config"
)

const defaultChatCompletionsURL = "https://api.openai.com/v1/chat/completions"

// OpenAIProvider calls the OpenAI chat-completions API with a vision payload.
type OpenAIProvider struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	maxAttempts int
	endpoint    string
	httpClient  *http.Client
	sleep       SleepFunc
}

func NewOpenAIProvider(cfg *config.Config) *OpenAIProvider {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}

	return &OpenAIProvider{
		apiKey:      cfg.OpenAIAPIKey,
		model:       cfg.OpenAIModel,
		maxTokens:   cfg.AIMaxOutputTokens,
		temperature: cfg.AITemperature,
		maxAttempts: cfg.AIMaxAttempts,
		endpoint:    defaultChatCompletionsURL,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
		sleep: sleepContext,
	}
}

// WithEndpoint overrides the chat-completions URL (tests point it at a stub).
func (p *OpenAIProvider) WithEndpoint(url string) *OpenAIProvider {
	p.endpoint = url
	return p
}

// WithSleep overrides the backoff sleeper (tests avoid real waits).
func (p *OpenAIProvider) WithSleep(sleep SleepFunc) *OpenAIProvider {
	p.sleep = sleep
	return p
}

func (p *OpenAIProvider) AnalyzeImage(ctx context.Context, req Request) (string, error) {
	requestPayload := chatCompletionsRequest{
		Model:       p.model,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
		Messages: []chatMessageRequest{
			{
				Role:    "system",
				Content: req.SystemPrompt,
			},
			{
				Role: "user",
				Content: []contentPart{
					{
						Type: "text",
						Text: req.UserPrompt,
					},
					{
						Type: "image_url",
						ImageURL: &imageURLPart{
							URL:    req.ImageDataURI,
							Detail: "high",
						},
					},
				},
			},
		},
	}

	body, err := json.Marshal(requestPayload)
	if err != nil {
		return "", err
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+p.apiKey)
	header.Set("Content-Type", "application/json")

	resp, err := doWithRetry(ctx, p.httpClient, p.endpoint, header, body, p.maxAttempts, p.sleep)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return "", ErrUnauthorized
		case http.StatusTooManyRequests:
			return "", ErrRateLimited
		case http.StatusBadRequest:
			return "", ErrImageRejected
		default:
			return "", &UpstreamError{
				Status:  resp.StatusCode,
				Message: upstreamErrorMessage(responseBody),
			}
		}
	}

	var parsed chatCompletionsResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return "", ErrEmptyCompletion
	}
	if len(parsed.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyCompletion
	}

	return content, nil
}

// upstreamErrorMessage pulls the error message out of an OpenAI error body.
// Returns "" when the body is not in the expected shape.
func upstreamErrorMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return strings.TrimSpace(parsed.Error.Message)
}

type chatCompletionsRequest struct {
	Model       string               `json:"model"`
	Messages    []chatMessageRequest `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
}

// chatMessageRequest content is either a plain string (system message) or a
// list of contentPart (user message with text + image).
type chatMessageRequest struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *imageURLPart `json:"image_url,omitempty"`
}

type imageURLPart struct {
	URL    string `json:"url"`
	Detail string `json:"detail"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
