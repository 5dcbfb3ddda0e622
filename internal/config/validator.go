package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validator validates configuration values.
type Validator struct{}

// NewValidator creates a validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks the whole configuration.
func (v *Validator) Validate(cfg *Config) error {
	if cfg.Service.Port < 1 || cfg.Service.Port > 65535 {
		return fmt.Errorf("service port must be 1-65535, got %d", cfg.Service.Port)
	}
	if err := v.validateURL("ollama base_url", cfg.Ollama.BaseURL); err != nil {
		return err
	}
	if cfg.Ollama.Model == "" {
		return fmt.Errorf("ollama model cannot be empty")
	}
	if cfg.Ollama.TopP <= 0 || cfg.Ollama.TopP > 1 {
		return fmt.Errorf("ollama top_p must be in (0, 1], got %v", cfg.Ollama.TopP)
	}
	if cfg.Chat.MaxHistory < 1 {
		return fmt.Errorf("chat max_history must be >= 1, got %d", cfg.Chat.MaxHistory)
	}
	if cfg.Chat.Temperature < 0 || cfg.Chat.Temperature > 2 {
		return fmt.Errorf("chat temperature must be in [0, 2], got %v", cfg.Chat.Temperature)
	}
	if cfg.Chat.MaxTokens < 1 || cfg.Chat.MaxTokens > 2048 {
		return fmt.Errorf("chat max_tokens must be 1-2048, got %d", cfg.Chat.MaxTokens)
	}
	if cfg.TTS.Enabled && cfg.TTS.ModelPath == "" {
		return fmt.Errorf("tts model_path is required when tts is enabled")
	}
	if cfg.STT.Enabled {
		if err := v.validateURL("stt base_url", cfg.STT.BaseURL); err != nil {
			return err
		}
		if cfg.STT.MaxAudioSizeMB < 1 {
			return fmt.Errorf("stt max_audio_size_mb must be >= 1, got %d", cfg.STT.MaxAudioSizeMB)
		}
	}
	return nil
}

func (v *Validator) validateURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || !strings.HasPrefix(parsed.Scheme, "http") {
		return fmt.Errorf("%s must be an http(s) URL, got %q", field, raw)
	}
	return nil
}
