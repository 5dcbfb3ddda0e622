package httpd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"echotutor/internal/metrics"
)

// Options configures the HTTP server.
type Options struct {
	Host        string
	Port        int
	ServiceName string

	// /info reporting
	OllamaURL  string
	MaxHistory int

	// chat defaults applied when the request omits a parameter
	DefaultTemperature float64
	DefaultMaxTokens   int

	// transcription
	MaxAudioSizeMB  int
	DefaultLanguage string

	ShutdownTimeout time.Duration
}

// Server is the HTTP front for the chat, correction, synthesis, and
// transcription services.
type Server struct {
	options  Options
	services Services
	metrics  *metrics.Metrics
	server   *http.Server
}

// NewServer creates a Server. Services.Chat and Services.Backend are
// required; TTS and STT may be nil, which disables their routes with 503.
func NewServer(options Options, services Services, m *metrics.Metrics) (*Server, error) {
	if services.Chat == nil {
		return nil, fmt.Errorf("chat service is required")
	}
	if services.Backend == nil {
		return nil, fmt.Errorf("backend client is required")
	}

	if options.Host == "" {
		options.Host = "0.0.0.0"
	}
	if options.Port == 0 {
		options.Port = 8003
	}
	if options.ServiceName == "" {
		options.ServiceName = "echotutor"
	}
	if options.DefaultTemperature == 0 {
		options.DefaultTemperature = 0.7
	}
	if options.DefaultMaxTokens == 0 {
		options.DefaultMaxTokens = 512
	}
	if options.MaxAudioSizeMB == 0 {
		options.MaxAudioSizeMB = 25
	}
	if options.ShutdownTimeout == 0 {
		options.ShutdownTimeout = 30 * time.Second
	}

	return &Server{
		options:  options,
		services: services,
		metrics:  m,
	}, nil
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /correct", s.handleCorrect)
	mux.HandleFunc("DELETE /conversation/{id}", s.handleDeleteConversation)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /info", s.handleInfo)

	mux.HandleFunc("POST /synthesize", s.handleSynthesize)
	mux.HandleFunc("POST /synthesize/audio", s.handleSynthesizeAudio)
	mux.HandleFunc("POST /transcribe", s.handleTranscribe)

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	return instrument(mux, s.metrics)
}

// Start blocks serving HTTP until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.options.Host, s.options.Port),
		Handler: s.Handler(),
	}

	log.Info().
		Str("host", s.options.Host).
		Int("port", s.options.Port).
		Str("service", s.options.ServiceName).
		Msg("Starting HTTP server")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	log.Info().Msg("Shutting down HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), s.options.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	return nil
}
