// File: internal/llmclient/gemini_client.go
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
	"github.com/xkilldash9x/formfill-cli/internal/config"
)

const systemInstruction = "You are helping to fill out a survey form. Generate realistic, natural-sounding answers that would be typical responses from a real person. Keep answers concise and relevant to the question asked."

// Token budgets derived from the requested character cap.
const (
	shortOutputTokens = 150
	longOutputTokens  = 500
)

// GeminiClient implements schemas.TextGenerator against the Gemini REST API.
type GeminiClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
	config     config.GeneratorConfig

	// Retry bounds, overridable in tests.
	initialInterval time.Duration
	maxElapsed      time.Duration
	maxInterval     time.Duration
}

// -- Gemini API request/response structures (internal to this file) --

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiSystemInstruction struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiRequestPayload struct {
	Contents          []geminiContent          `json:"contents"`
	SystemInstruction *geminiSystemInstruction `json:"system_instruction,omitempty"`
	GenerationConfig  geminiGenerationConfig   `json:"generationConfig"`
}

type geminiResponsePayload struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// NewGeminiClient initializes the client. The API key is required.
func NewGeminiClient(cfg config.GeneratorConfig, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", cfg.Model)
	}

	timeout := cfg.APITimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GeminiClient{
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		config:   cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:          logger.Named("llmclient.gemini"),
		initialInterval: backoff.DefaultInitialInterval,
		maxElapsed:      90 * time.Second,
		maxInterval:     15 * time.Second,
	}, nil
}

// Generate sends the question to the Gemini API and returns the generated
// answer, truncated to the requested character cap, retrying transient
// failures with exponential backoff.
func (c *GeminiClient) Generate(ctx context.Context, req schemas.GenerationRequest) (string, error) {
	payload := c.buildRequestPayload(req)

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval
	b.MaxElapsedTime = c.maxElapsed
	b.MaxInterval = c.maxInterval
	b.Reset()

	var responseContent string

	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create HTTP request: %w", err))
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("x-goog-api-key", c.apiKey)

		startTime := time.Now()
		resp, err := c.httpClient.Do(httpReq)
		duration := time.Since(startTime)

		if err != nil {
			c.logger.Warn("network error during generation request, retrying", zap.Error(err))
			return fmt.Errorf("failed to execute HTTP request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return c.handleAPIError(resp.StatusCode, respBody)
		}

		var responsePayload geminiResponsePayload
		if err := json.Unmarshal(respBody, &responsePayload); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response payload: %w", err))
		}

		if len(responsePayload.Candidates) == 0 {
			return backoff.Permanent(fmt.Errorf("gemini API returned no candidates"))
		}

		candidate := responsePayload.Candidates[0]
		if len(candidate.Content.Parts) == 0 {
			if candidate.FinishReason == "SAFETY" || candidate.FinishReason == "BLOCKLIST" {
				return backoff.Permanent(fmt.Errorf("gemini API blocked the request (reason: %s)", candidate.FinishReason))
			}
			return fmt.Errorf("gemini API returned empty content parts (reason: %s)", candidate.FinishReason)
		}

		c.logger.Debug("generation complete",
			zap.Duration("duration", duration),
			zap.Int("prompt_tokens", responsePayload.UsageMetadata.PromptTokenCount),
			zap.Int("completion_tokens", responsePayload.UsageMetadata.CandidatesTokenCount),
		)

		responseContent = candidate.Content.Parts[0].Text
		return nil
	}

	if err = backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", err
	}

	return truncate(responseContent, req.MaxLength), nil
}

func (c *GeminiClient) buildRequestPayload(req schemas.GenerationRequest) geminiRequestPayload {
	maxTokens := shortOutputTokens
	if req.MaxLength > 100 {
		maxTokens = longOutputTokens
	}

	return geminiRequestPayload{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: buildPrompt(req)}},
			},
		},
		SystemInstruction: &geminiSystemInstruction{
			Parts: []geminiPart{{Text: systemInstruction}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     float64(c.config.Temperature),
			MaxOutputTokens: maxTokens,
		},
	}
}

// buildPrompt phrases the instruction per question kind.
func buildPrompt(req schemas.GenerationRequest) string {
	switch req.Kind {
	case schemas.KindParagraph:
		return fmt.Sprintf("Answer this survey question with 2-4 sentences (max %d characters): %q", req.MaxLength, req.Question)
	case schemas.KindShortText:
		return fmt.Sprintf("Answer this survey question briefly in 1-2 sentences (max %d characters): %q", req.MaxLength, req.Question)
	default:
		return fmt.Sprintf("Provide a brief, natural answer to this question (max %d characters): %q", req.MaxLength, req.Question)
	}
}

// handleAPIError classifies API failures: client errors other than rate
// limiting will not succeed on retry.
func (c *GeminiClient) handleAPIError(status int, body []byte) error {
	err := fmt.Errorf("gemini API error (status %d): %s", status, string(body))
	if status == http.StatusTooManyRequests || status >= 500 {
		c.logger.Warn("retryable generation API error", zap.Int("status", status))
		return err
	}
	return backoff.Permanent(err)
}

// truncate enforces the character cap, marking cut answers with an ellipsis.
func truncate(s string, maxLength int) string {
	if maxLength <= 3 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return string(runes[:maxLength-3]) + "..."
}
