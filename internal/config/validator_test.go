package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		shouldErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"port zero", func(c *Config) { c.Service.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Service.Port = 70000 }, true},
		{"empty ollama url", func(c *Config) { c.Ollama.BaseURL = "" }, true},
		{"non-http ollama url", func(c *Config) { c.Ollama.BaseURL = "ftp://x" }, true},
		{"empty model", func(c *Config) { c.Ollama.Model = "" }, true},
		{"top_p zero", func(c *Config) { c.Ollama.TopP = 0 }, true},
		{"top_p above one", func(c *Config) { c.Ollama.TopP = 1.1 }, true},
		{"max_history zero", func(c *Config) { c.Chat.MaxHistory = 0 }, true},
		{"temperature negative", func(c *Config) { c.Chat.Temperature = -0.1 }, true},
		{"temperature above two", func(c *Config) { c.Chat.Temperature = 2.5 }, true},
		{"max_tokens zero", func(c *Config) { c.Chat.MaxTokens = 0 }, true},
		{"max_tokens above limit", func(c *Config) { c.Chat.MaxTokens = 4096 }, true},
		{"tts enabled without model", func(c *Config) { c.TTS.Enabled = true }, true},
		{"tts enabled with model", func(c *Config) {
			c.TTS.Enabled = true
			c.TTS.ModelPath = "/voices/en.onnx"
		}, false},
		{"stt enabled bad url", func(c *Config) {
			c.STT.Enabled = true
			c.STT.BaseURL = "not a url"
		}, true},
		{"stt enabled bad size", func(c *Config) {
			c.STT.Enabled = true
			c.STT.MaxAudioSizeMB = 0
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := NewValidator().Validate(cfg)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
