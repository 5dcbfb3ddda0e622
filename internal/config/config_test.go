package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "echotutor", cfg.Service.Name)
	assert.Equal(t, 8003, cfg.Service.Port)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "phi3", cfg.Ollama.Model)
	assert.Equal(t, 10, cfg.Chat.MaxHistory)
	assert.InDelta(t, 0.7, cfg.Chat.Temperature, 1e-9)
	assert.Equal(t, 512, cfg.Chat.MaxTokens)
	assert.False(t, cfg.TTS.Enabled)
	assert.False(t, cfg.STT.Enabled)

	require.NoError(t, NewValidator().Validate(cfg))
}

func TestLoader_MissingFileYieldsDefaults(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "nope.json"))

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Service.Port, cfg.Service.Port)
}

func TestLoader_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"service": {"port": 9100},
		"ollama": {"model": "llama3.2"},
		"chat": {"max_history": 4}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Service.Port)
	assert.Equal(t, "llama3.2", cfg.Ollama.Model)
	assert.Equal(t, 4, cfg.Chat.MaxHistory)
	// Untouched fields keep defaults.
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
}

func TestLoader_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	_, err := NewLoader(path).Load()
	assert.Error(t, err)
}

func TestLoader_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"chat": {"max_history": 0}}`), 0o600))

	_, err := NewLoader(path).Load()
	assert.ErrorContains(t, err, "max_history")
}
