package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"studyassist/internal/config"
)

// Client sends a prompt to the hosted language model and returns the
// generated text. One outbound call per invocation; no caching, no retries.
type Client interface {
	Generate(ctx context.Context, system string, user string) (string, error)
}

const chatCompletionsPath = "/v1/chat/completions"

type openAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOpenAI builds a chat-completions client from configuration.
// The transport is instrumented so outbound calls show up in traces.
func NewOpenAI(cfg config.OpenAIConfig) Client {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &openAIClient{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type providerErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *openAIClient) Generate(ctx context.Context, system string, user string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrAuthentication)
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatCompletionsPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("call provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", classifyStatus(resp.StatusCode, body)
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode provider response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", &ProviderError{StatusCode: resp.StatusCode, Message: "response contained no choices"}
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", &ProviderError{StatusCode: resp.StatusCode, Message: "response contained empty text"}
	}
	return text, nil
}

// classifyStatus maps provider status codes onto the client error taxonomy.
func classifyStatus(status int, body []byte) error {
	msg := providerMessage(body)
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		if msg != "" {
			return fmt.Errorf("%w: %s", ErrAuthentication, msg)
		}
		return ErrAuthentication
	case http.StatusTooManyRequests:
		if msg != "" {
			return fmt.Errorf("%w: %s", ErrRateLimited, msg)
		}
		return ErrRateLimited
	default:
		return &ProviderError{StatusCode: status, Message: msg}
	}
}

func providerMessage(body []byte) string {
	var pe providerErrorBody
	if err := json.Unmarshal(body, &pe); err == nil && pe.Error.Message != "" {
		return pe.Error.Message
	}
	return strings.TrimSpace(string(body))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}
