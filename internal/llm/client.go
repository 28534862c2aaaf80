// Package llm provides the text-generation capability as an
// OpenAI-compatible chat completions client.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client is the text-generation capability consumed by the dialogue engine:
// Extract returns best-effort structured output (possibly malformed JSON),
// Respond returns free text.
type Client interface {
	Extract(ctx context.Context, systemPrompt, userText string) (string, error)
	Respond(ctx context.Context, systemPrompt, userContent string) (string, error)
}

// Extraction favors determinism; Respond favors conversational flexibility.
const (
	extractTemperature = 0.2
	respondTemperature = 0.7
)

// OpenAIClient talks to an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	baseURL string
	apiKey  string
	model   string
	logger  *slog.Logger
	http    *http.Client
}

// NewOpenAIClient creates a client with a bounded request timeout.
func NewOpenAIClient(log *slog.Logger, baseURL, apiKey, model string, timeout time.Duration) (*OpenAIClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("llm client: base url is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("llm client: api key is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("llm client: model is required")
	}
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OpenAIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		logger:  log.With(slog.String("client", "llm")),
		http: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Extract requests strictly structured output at low temperature and returns
// the raw content. Callers own the defensive parse.
func (c *OpenAIClient) Extract(ctx context.Context, systemPrompt, userText string) (string, error) {
	return c.callChat(ctx, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userText},
	}, extractTemperature)
}

// Respond requests a conversational free-form reply.
func (c *OpenAIClient) Respond(ctx context.Context, systemPrompt, userContent string) (string, error) {
	return c.callChat(ctx, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userContent},
	}, respondTemperature)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float32       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) callChat(ctx context.Context, messages []chatMessage, temperature float32) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages:    messages,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("llm error: %s", strings.TrimSpace(string(b)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("llm response missing content")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
