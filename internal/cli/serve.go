package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"echotutor/internal/config"
	"echotutor/internal/httpd"
	"echotutor/internal/logger"
	"echotutor/internal/metrics"
	"echotutor/pkg/chat"
	"echotutor/pkg/ollama"
	"echotutor/pkg/session"
	"echotutor/pkg/stt"
	"echotutor/pkg/tts"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the echotutor HTTP gateway",
	Long: `Run the echotutor HTTP gateway in the foreground until interrupted.
All dependencies (session store, backend clients, HTTP server) are
constructed here and torn down on exit.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	lg, err := logger.New(logger.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: cfg.Logging.Console,
		Pretty:  cfg.Logging.Pretty,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer lg.Close()

	m := metrics.NewMetrics()

	backend := ollama.New(ollama.Config{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Ollama.Model,
		TopP:    cfg.Ollama.TopP,
		Timeout: time.Duration(cfg.Ollama.TimeoutSeconds) * time.Second,
	})

	// Startup probe only warns: the gateway still serves requests and the
	// backend may come up later.
	if err := backend.Ping(cmd.Context()); err != nil {
		log.Warn().Err(err).Str("url", cfg.Ollama.BaseURL).Msg("Ollama not reachable at startup")
	} else if models, err := backend.Models(cmd.Context()); err == nil {
		log.Info().Strs("models", models).Msg("Ollama is running")
	}

	store := session.NewStore(cfg.Chat.MaxHistory)
	chatSvc := chat.NewService(store, backend, chat.Options{
		Temperature: cfg.Chat.Temperature,
		MaxTokens:   cfg.Chat.MaxTokens,
	})

	reporter := session.NewReporter(store, cfg.Sessions.ReportSchedule, func(count int) {
		m.SessionsActive.Set(float64(count))
	})
	if err := reporter.Start(); err != nil {
		return fmt.Errorf("failed to start session reporter: %w", err)
	}
	defer reporter.Stop()

	services := httpd.Services{
		Chat:    chatSvc,
		Backend: backend,
	}
	if cfg.TTS.Enabled {
		synth, err := tts.NewPiper(tts.PiperConfig{
			BinaryPath: cfg.TTS.BinaryPath,
			ModelPath:  cfg.TTS.ModelPath,
			SampleRate: cfg.TTS.SampleRate,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize tts: %w", err)
		}
		services.TTS = synth
	}
	if cfg.STT.Enabled {
		services.STT = stt.New(stt.Config{BaseURL: cfg.STT.BaseURL})
	}

	server, err := httpd.NewServer(httpd.Options{
		Host:               cfg.Service.Host,
		Port:               cfg.Service.Port,
		ServiceName:        cfg.Service.Name,
		OllamaURL:          cfg.Ollama.BaseURL,
		MaxHistory:         cfg.Chat.MaxHistory,
		DefaultTemperature: cfg.Chat.Temperature,
		DefaultMaxTokens:   cfg.Chat.MaxTokens,
		MaxAudioSizeMB:     cfg.STT.MaxAudioSizeMB,
		DefaultLanguage:    cfg.STT.DefaultLanguage,
	}, services, m)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	return server.Stop()
}
