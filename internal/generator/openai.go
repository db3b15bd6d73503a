package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Provider configuration
const (
	ProviderOpenAI = "openai"
	ProviderStatic = "static"

	DefaultOpenAIModel = "gpt-4o-mini"

	OpenAIChatCompletionsURL = "https://api.openai.com/v1/chat/completions"

	// Retry configuration
	MaxRetries        = 3
	InitialBackoffMs  = 200
	MaxBackoffMs      = 5000
	BackoffMultiplier = 2.0
)

// Environment variables consulted by provider constructors
const (
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvOpenAIModel  = "CAMPUSQA_GENERATION_MODEL"
)

// OpenAIGenerator implements AnswerGenerator using the OpenAI chat
// completions API
type OpenAIGenerator struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIGenerator creates a chat-completions backed generator. The API
// key falls back to OPENAI_API_KEY; the model to CAMPUSQA_GENERATION_MODEL.
func NewOpenAIGenerator(apiKey string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		apiKey = os.Getenv(EnvOpenAIAPIKey)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s not set", ErrNoProviderEnabled, EnvOpenAIAPIKey)
	}

	model := os.Getenv(EnvOpenAIModel)
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIGenerator{
		apiKey:  apiKey,
		model:   model,
		baseURL: OpenAIChatCompletionsURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	config := defaultRetryConfig()
	answer, err := retryWithBackoff(ctx, config, func() (string, error) {
		return g.callAPI(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("%w after %d retries: %v", ErrGenerationFailed, MaxRetries, err)
	}

	return &Response{
		Answer:   answer,
		Provider: ProviderOpenAI,
		Model:    g.model,
	}, nil
}

func (g *OpenAIGenerator) callAPI(ctx context.Context, req Request) (string, error) {
	reqBody := map[string]interface{}{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": BuildUserPrompt(req)},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", g.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("api error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	return apiResp.Choices[0].Message.Content, nil
}

func (g *OpenAIGenerator) Provider() string {
	return ProviderOpenAI
}

func (g *OpenAIGenerator) Model() string {
	return g.model
}

func (g *OpenAIGenerator) Close() error {
	g.httpClient.CloseIdleConnections()
	return nil
}

// StaticGenerator answers by echoing the top retrieved document. It keeps
// offline runs and tests working without an API key.
type StaticGenerator struct{}

// NewStaticGenerator creates a generator that needs no network
func NewStaticGenerator() (*StaticGenerator, error) {
	return &StaticGenerator{}, nil
}

func (s *StaticGenerator) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	answer := "No matching documents were found for this question."
	if len(req.Documents) > 0 {
		top := req.Documents[0]
		answer = fmt.Sprintf("%s: %s", top.Title, top.Content)
	}

	return &Response{
		Answer:   answer,
		Provider: ProviderStatic,
		Model:    "static",
	}, nil
}

func (s *StaticGenerator) Provider() string {
	return ProviderStatic
}

func (s *StaticGenerator) Model() string {
	return "static"
}

func (s *StaticGenerator) Close() error {
	return nil
}

// NewFromEnv creates a generator based on environment variables: OpenAI when
// OPENAI_API_KEY is set, otherwise the static fallback.
func NewFromEnv() (AnswerGenerator, error) {
	if os.Getenv(EnvOpenAIAPIKey) != "" {
		return NewOpenAIGenerator("")
	}
	return NewStaticGenerator()
}
