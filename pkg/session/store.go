package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Turn roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultSystemPrompt is installed when Create is called without a prompt.
const DefaultSystemPrompt = "You are a helpful language tutor. Help the user learn and practice languages. " +
	"Correct their mistakes gently and provide clear explanations."

// ErrSessionNotFound is returned by Append for an unknown session ID.
var ErrSessionNotFound = errors.New("session: not found")

// Turn is a single role-tagged message. Turns are immutable once appended.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Store keeps conversation histories in memory. State does not survive a
// process restart, and nothing evicts idle sessions; Count exists so the
// caller can watch for unbounded growth.
type Store struct {
	mu         sync.Mutex
	sessions   map[string][]Turn
	maxHistory int
}

// NewStore creates a Store that retains maxHistory user/assistant pairs per
// session. Values below 1 are clamped to 1.
func NewStore(maxHistory int) *Store {
	if maxHistory < 1 {
		maxHistory = 1
	}
	return &Store{
		sessions:   make(map[string][]Turn),
		maxHistory: maxHistory,
	}
}

// Create starts a new session seeded with a system turn and returns its ID.
// An empty systemPrompt installs DefaultSystemPrompt.
func (s *Store) Create(systemPrompt string) string {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	id := uuid.New().String()

	s.mu.Lock()
	s.sessions[id] = []Turn{{Role: RoleSystem, Content: systemPrompt}}
	s.mu.Unlock()

	log.Debug().Str("session_id", id).Msg("Session created")
	return id
}

// Get returns a copy of the session's turns. An unknown ID yields an empty
// slice, never an error; the caller decides whether that is a problem.
func (s *Store) Get(id string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.sessions[id]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Has reports whether the session exists.
func (s *Store) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	return ok
}

// Append adds a turn and applies the truncation rule in the same critical
// section. The store does not enforce role alternation; that is on callers.
func (s *Store) Append(id, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}

	turns = append(turns, Turn{Role: role, Content: content})
	s.sessions[id] = s.truncate(turns)
	return nil
}

// truncate keeps turn 0 plus the most recent 2*maxHistory-1 turns once a
// session grows past 2*maxHistory. Called with the store lock held.
func (s *Store) truncate(turns []Turn) []Turn {
	limit := 2 * s.maxHistory
	if len(turns) <= limit {
		return turns
	}
	kept := make([]Turn, 0, limit)
	kept = append(kept, turns[0])
	kept = append(kept, turns[len(turns)-(limit-1):]...)
	return kept
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		log.Debug().Str("session_id", id).Msg("Session deleted")
	}
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
