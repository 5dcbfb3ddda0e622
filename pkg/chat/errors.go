package chat

import "errors"

// Error classes the HTTP layer maps onto status codes. Callers discriminate
// with errors.Is; the wrapped detail stays server-side.
var (
	// ErrInvalidInput marks bad or empty caller input.
	ErrInvalidInput = errors.New("chat: invalid input")

	// ErrBackend marks an unreachable, failing, or unparseable inference
	// backend. The orchestrator does not retry.
	ErrBackend = errors.New("chat: backend failure")
)
