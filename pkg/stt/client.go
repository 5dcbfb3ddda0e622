// Package stt maps audio blobs to transcripts through an external
// whisper-server process. The model and audio decoding live in that
// process; this package only speaks its HTTP contract and assembles the
// returned segments.
package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Transcription tasks.
const (
	TaskTranscribe = "transcribe"
	TaskTranslate  = "translate"
)

// DefaultTimeout bounds one transcription round trip.
const DefaultTimeout = 300 * time.Second

// ErrInvalidTask marks an unknown task value.
var ErrInvalidTask = fmt.Errorf("stt: invalid task")

// Segment is one timed slice of the transcript.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Result is an assembled transcription.
type Result struct {
	Text     string
	Language string
	Segments []Segment
}

// Request is one transcription call.
type Request struct {
	Audio          []byte
	Filename       string
	Language       string // empty: server auto-detects
	Task           string // TaskTranscribe (default) or TaskTranslate
	ReturnSegments bool
}

// Transcriber converts audio into a Result.
type Transcriber interface {
	Transcribe(ctx context.Context, req Request) (*Result, error)
	Ready(ctx context.Context) bool
}

// Config configures a whisper-server client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client posts audio to a whisper-server inference endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type inferenceResult struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
	Error string `json:"error"`
}

// New creates a Client.
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Transcribe sends the audio blob and assembles the transcript. Segment IDs
// are renumbered 0..n-1 and segment text is trimmed; the full text is the
// trimmed segments joined with single spaces when the server gives segments,
// otherwise the server's text field as-is (trimmed).
func (c *Client) Transcribe(ctx context.Context, req Request) (*Result, error) {
	task := req.Task
	if task == "" {
		task = TaskTranscribe
	}
	if task != TaskTranscribe && task != TaskTranslate {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTask, req.Task)
	}
	if len(req.Audio) == 0 {
		return nil, fmt.Errorf("stt: audio payload is empty")
	}

	filename := req.Filename
	if filename == "" {
		filename = "audio.wav"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(req.Audio); err != nil {
		return nil, fmt.Errorf("write audio part: %w", err)
	}

	fields := map[string]string{
		"task":            task,
		"response_format": "verbose_json",
	}
	if req.Language != "" {
		fields["language"] = req.Language
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/inference", &body)
	if err != nil {
		return nil, fmt.Errorf("build inference request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("whisper request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("whisper status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var parsed inferenceResult
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode whisper response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("whisper error: %s", parsed.Error)
	}

	result := &Result{
		Language: parsed.Language,
	}
	if result.Language == "" {
		if req.Language != "" {
			result.Language = req.Language
		} else {
			result.Language = "unknown"
		}
	}

	if len(parsed.Segments) > 0 {
		texts := make([]string, 0, len(parsed.Segments))
		for i, seg := range parsed.Segments {
			text := strings.TrimSpace(seg.Text)
			texts = append(texts, text)
			if req.ReturnSegments {
				result.Segments = append(result.Segments, Segment{
					ID:    i,
					Start: seg.Start,
					End:   seg.End,
					Text:  text,
				})
			}
		}
		result.Text = strings.Join(texts, " ")
	} else {
		result.Text = strings.TrimSpace(parsed.Text)
	}

	log.Debug().
		Str("language", result.Language).
		Int("chars", len(result.Text)).
		Msg("Transcription complete")

	return result, nil
}

// Ready reports whether the whisper server answers at all.
func (c *Client) Ready(ctx context.Context) bool {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
