// internal/genai/client.go
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"invoice-insights/internal/common/logger"
)

// ErrUpstreamService marks any transport, authentication or service-side
// failure of the completion call. Callers surface it; nothing retries it.
var ErrUpstreamService = errors.New("UPSTREAM_SERVICE_FAILED")

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Client calls an OpenAI-compatible chat-completions endpoint. The
// credential lives here, injected at construction; there is no package-level
// state.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			// No client-level timeout; the per-call context bounds the request.
		},
		logger: log.WithFields(map[string]interface{}{"component": "genai"}),
	}
}

// Complete sends the prompt and returns the generated text. Single attempt:
// any failure, including deadline expiry, comes back as ErrUpstreamService
// with the underlying cause.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	requestBody := map[string]interface{}{
		"model": c.config.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  c.config.MaxTokens,
		"temperature": c.config.Temperature,
	}

	body, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrUpstreamService, err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+"/v1/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamService, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: request timed out after %s", ErrUpstreamService, c.config.Timeout)
		}
		return "", fmt.Errorf("%w: %v", ErrUpstreamService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUpstreamService, resp.StatusCode)
	}

	var apiResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("%w: decode error: %v", ErrUpstreamService, err)
	}
	if len(apiResponse.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrUpstreamService)
	}

	c.logger.Info("completion received", map[string]interface{}{
		"model":      c.config.Model,
		"durationMs": time.Since(start).Milliseconds(),
	})

	return strings.TrimSpace(apiResponse.Choices[0].Message.Content), nil
}
