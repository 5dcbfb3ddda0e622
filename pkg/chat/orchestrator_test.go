package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"echotutor/pkg/ollama"
	"echotutor/pkg/session"
)

// fakeGateway records requests and replays canned responses.
type fakeGateway struct {
	mu       sync.Mutex
	requests []ollama.ChatRequest
	reply    string
	tokens   int
	err      error
}

func (f *fakeGateway) Chat(_ context.Context, req ollama.ChatRequest) (*ollama.ChatResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return &ollama.ChatResponse{Content: f.reply, EvalCount: f.tokens}, nil
}

func newTestService(gw Gateway, maxHistory int) *Service {
	return NewService(session.NewStore(maxHistory), gw, DefaultOptions())
}

func TestService_ChatNewSession(t *testing.T) {
	gw := &fakeGateway{reply: "Hi! How can I help?", tokens: 12}
	svc := newTestService(gw, 10)

	res, err := svc.Chat(context.Background(), Params{Message: "hello"})
	require.NoError(t, err)

	assert.Equal(t, "Hi! How can I help?", res.Reply)
	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, 12, res.TokensUsed)

	turns := svc.Store().Get(res.SessionID)
	require.Len(t, turns, 3)
	assert.Equal(t, session.RoleSystem, turns[0].Role)
	assert.Equal(t, session.RoleUser, turns[1].Role)
	assert.Equal(t, session.RoleAssistant, turns[2].Role)
}

func TestService_ChatEmptyMessage(t *testing.T) {
	svc := newTestService(&fakeGateway{}, 10)

	for _, message := range []string{"", "   ", "\n\t "} {
		_, err := svc.Chat(context.Background(), Params{Message: message})
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestService_ChatReusesSession(t *testing.T) {
	gw := &fakeGateway{reply: "ok"}
	svc := newTestService(gw, 10)

	first, err := svc.Chat(context.Background(), Params{Message: "one"})
	require.NoError(t, err)

	second, err := svc.Chat(context.Background(), Params{Message: "two", SessionID: first.SessionID})
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)

	// Full history goes out on the second call: system + 3 prior turns +
	// the new user turn.
	require.Len(t, gw.requests, 2)
	assert.Len(t, gw.requests[1].Messages, 5)
}

func TestService_ChatUnknownSessionCreatesNew(t *testing.T) {
	gw := &fakeGateway{reply: "ok"}
	svc := newTestService(gw, 10)

	res, err := svc.Chat(context.Background(), Params{Message: "hi", SessionID: "no-such-session"})
	require.NoError(t, err)
	assert.NotEqual(t, "no-such-session", res.SessionID)
}

func TestService_ChatCustomSystemPrompt(t *testing.T) {
	gw := &fakeGateway{reply: "ok"}
	svc := newTestService(gw, 10)

	res, err := svc.Chat(context.Background(), Params{Message: "hi", SystemPrompt: "Answer in French."})
	require.NoError(t, err)

	turns := svc.Store().Get(res.SessionID)
	assert.Equal(t, "Answer in French.", turns[0].Content)
}

func TestService_ChatTrimsMessage(t *testing.T) {
	gw := &fakeGateway{reply: "ok"}
	svc := newTestService(gw, 10)

	res, err := svc.Chat(context.Background(), Params{Message: "  hello  "})
	require.NoError(t, err)

	turns := svc.Store().Get(res.SessionID)
	assert.Equal(t, "hello", turns[1].Content)
}

func TestService_ChatParameterPassthrough(t *testing.T) {
	gw := &fakeGateway{reply: "ok"}
	svc := newTestService(gw, 10)

	_, err := svc.Chat(context.Background(), Params{Message: "hi", Temperature: 1.3, MaxTokens: 64})
	require.NoError(t, err)

	require.Len(t, gw.requests, 1)
	assert.InDelta(t, 1.3, gw.requests[0].Temperature, 1e-9)
	assert.Equal(t, 64, gw.requests[0].MaxTokens)
}

func TestService_ChatBackendFailureKeepsUserTurn(t *testing.T) {
	gw := &fakeGateway{err: errors.New("connection refused")}
	svc := newTestService(gw, 10)

	id := svc.Store().Create("")
	_, err := svc.Chat(context.Background(), Params{Message: "hello", SessionID: id})
	require.ErrorIs(t, err, ErrBackend)

	turns := svc.Store().Get(id)
	require.Len(t, turns, 2)
	assert.Equal(t, session.RoleUser, turns[1].Role)
	assert.Equal(t, "hello", turns[1].Content)
}

func TestService_ChatTruncationAcrossCalls(t *testing.T) {
	gw := &fakeGateway{reply: "reply"}
	svc := NewService(session.NewStore(1), gw, DefaultOptions())

	id := svc.Store().Create("")
	for i := 0; i < 3; i++ {
		_, err := svc.Chat(context.Background(), Params{Message: fmt.Sprintf("msg %d", i), SessionID: id})
		require.NoError(t, err)
	}

	turns := svc.Store().Get(id)
	require.Len(t, turns, 2)
	assert.Equal(t, session.RoleSystem, turns[0].Role)
	assert.Equal(t, "reply", turns[1].Content)
}

func TestService_ChatConcurrentSessions(t *testing.T) {
	gw := &fakeGateway{reply: "ok"}
	svc := newTestService(gw, 10)

	const callers = 16
	var wg sync.WaitGroup
	ids := make([]string, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.Chat(context.Background(), Params{Message: fmt.Sprintf("hello %d", i)})
			require.NoError(t, err)
			ids[i] = res.SessionID
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, id := range ids {
		assert.False(t, seen[id])
		seen[id] = true
		assert.Len(t, svc.Store().Get(id), 3)
	}
}
