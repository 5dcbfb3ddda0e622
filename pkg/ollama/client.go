// Package ollama is a small HTTP client for the chat endpoint of an Ollama
// server. It knows nothing about sessions; callers hand it a full ordered
// message list per request.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds a single chat completion. Local models can be slow
// to first token, so this is generous.
const DefaultTimeout = 120 * time.Second

const defaultTopP = 0.9

// Message is one role-tagged entry of the request payload.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries the per-call generation parameters.
type ChatRequest struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// ChatResponse is the reply content plus token accounting when the server
// provides it.
type ChatResponse struct {
	Content   string
	EvalCount int
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Model   string
	TopP    float64
	Timeout time.Duration
}

// Client talks to one Ollama server and one model.
type Client struct {
	baseURL    string
	model      string
	topP       float64
	httpClient *http.Client
}

type chatPayload struct {
	Model    string      `json:"model"`
	Messages []Message   `json:"messages"`
	Stream   bool        `json:"stream"`
	Options  chatOptions `json:"options"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
	TopP        float64 `json:"top_p"`
}

type chatResult struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	EvalCount int    `json:"eval_count"`
	Error     string `json:"error"`
}

type tagsResult struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// New creates a Client. BaseURL defaults to a local Ollama server.
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	topP := cfg.TopP
	if topP <= 0 {
		topP = defaultTopP
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: baseURL,
		model:   cfg.Model,
		topP:    topP,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Chat sends a non-streaming chat completion and returns the reply content.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	payload := chatPayload{
		Model:    c.model,
		Messages: req.Messages,
		Stream:   false,
		Options: chatOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
			TopP:        c.topP,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal chat payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Warn().Int("status", resp.StatusCode).Msg("Ollama returned non-success status")
		return nil, fmt.Errorf("ollama status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var result chatResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode ollama response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("ollama error: %s", result.Error)
	}

	return &ChatResponse{
		Content:   strings.TrimSpace(result.Message.Content),
		EvalCount: result.EvalCount,
	}, nil
}

// Ping reports whether the server answers its tags endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.tags(ctx)
	return err
}

// Models lists the model names the server has pulled.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	result, err := c.tags(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(result.Models))
	for _, m := range result.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func (c *Client) tags(ctx context.Context) (*tagsResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("build tags request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama unreachable: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama tags status %d", resp.StatusCode)
	}

	var result tagsResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode tags response: %w", err)
	}
	return &result, nil
}
