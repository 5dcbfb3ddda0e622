package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"echotutor/pkg/ollama"
	"echotutor/pkg/session"
)

// Gateway is the narrow contract to the inference backend.
type Gateway interface {
	Chat(ctx context.Context, req ollama.ChatRequest) (*ollama.ChatResponse, error)
}

// Options carries generation defaults applied when a caller leaves a
// parameter unset.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// DefaultOptions mirrors the service defaults for local models.
func DefaultOptions() Options {
	return Options{
		Temperature: 0.7,
		MaxTokens:   512,
	}
}

// Params is one chat invocation.
type Params struct {
	Message      string
	SessionID    string  // empty or unknown: a new session is created
	SystemPrompt string  // only used when a session is created
	Temperature  float64 // passed through unmodified
	MaxTokens    int     // passed through unmodified
}

// Result is the assistant reply plus the session it belongs to.
type Result struct {
	Reply      string
	SessionID  string
	TokensUsed int
}

// Service resolves sessions and drives the backend. It holds no global
// state; the process entry point owns construction and teardown.
type Service struct {
	store    *session.Store
	gateway  Gateway
	defaults Options
}

// NewService creates a Service.
func NewService(store *session.Store, gateway Gateway, defaults Options) *Service {
	return &Service{
		store:    store,
		gateway:  gateway,
		defaults: defaults,
	}
}

// Store exposes the session store for callers that manage sessions directly.
func (s *Service) Store() *session.Store {
	return s.store
}

// Chat appends the user turn, calls the backend with the full turn list, and
// appends the reply. On backend failure the user turn stays appended and the
// error wraps ErrBackend.
func (s *Service) Chat(ctx context.Context, p Params) (*Result, error) {
	message := strings.TrimSpace(p.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is empty", ErrInvalidInput)
	}

	sessionID := p.SessionID
	if sessionID == "" || !s.store.Has(sessionID) {
		sessionID = s.store.Create(p.SystemPrompt)
	}

	if err := s.store.Append(sessionID, session.RoleUser, message); err != nil {
		// Only possible if the session vanished between resolve and append.
		return nil, fmt.Errorf("append user turn: %w", err)
	}

	// Snapshot the turns and call the backend without holding the store
	// lock; a hung backend must not block unrelated sessions.
	turns := s.store.Get(sessionID)
	messages := make([]ollama.Message, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, ollama.Message{Role: turn.Role, Content: turn.Content})
	}

	resp, err := s.gateway.Chat(ctx, ollama.ChatRequest{
		Messages:    messages,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Str("op", "chat").Msg("Backend call failed")
		return nil, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	if err := s.store.Append(sessionID, session.RoleAssistant, resp.Content); err != nil {
		return nil, fmt.Errorf("append assistant turn: %w", err)
	}

	log.Debug().Str("session_id", sessionID).Int("tokens", resp.EvalCount).Msg("Chat reply generated")

	return &Result{
		Reply:      resp.Content,
		SessionID:  sessionID,
		TokensUsed: resp.EvalCount,
	}, nil
}
