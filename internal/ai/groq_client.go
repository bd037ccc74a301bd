package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ChatMessage is one turn handed to the completion API.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatConfig identifies the hosted model and its generation parameters.
type ChatConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

const (
	requestTimeout = 30 * time.Second
	maxAttempts    = 3
	backoffBase    = 2 * time.Second
	backoffCap     = 10 * time.Second
)

// GroqClient calls an OpenAI-compatible chat completion endpoint. Transient
// failures (network errors, 429, 5xx) are retried up to three attempts with
// exponential backoff; retry lives here and only here — callers must not
// retry around this client.
type GroqClient struct {
	httpClient *http.Client
	logger     *zap.Logger
}

func NewGroqClient(logger *zap.Logger) *GroqClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroqClient{
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// Complete sends the message list and returns the generated text.
func (c *GroqClient) Complete(ctx context.Context, cfg ChatConfig, messages []ChatMessage) (string, error) {
	var lastErr error
	delay := backoffBase
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > backoffCap {
				delay = backoffCap
			}
		}

		text, retryable, err := c.complete(ctx, cfg, messages)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
		c.logger.Warn("llm request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	return "", fmt.Errorf("llm request failed after %d attempts: %w", maxAttempts, lastErr)
}

func (c *GroqClient) complete(ctx context.Context, cfg ChatConfig, messages []ChatMessage) (string, bool, error) {
	reqBody := map[string]interface{}{
		"model":    cfg.Model,
		"messages": messages,
		"stream":   false,
	}
	if cfg.Temperature > 0 {
		reqBody["temperature"] = cfg.Temperature
	}
	if cfg.MaxTokens > 0 {
		reqBody["max_tokens"] = cfg.MaxTokens
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", false, fmt.Errorf("marshal llm request failed: %w", err)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", false, fmt.Errorf("build llm request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("read llm response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retryable, fmt.Errorf("llm response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", false, fmt.Errorf("parse llm json failed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", false, fmt.Errorf("empty llm choices")
	}
	return parsed.Choices[0].Message.Content, false, nil
}
