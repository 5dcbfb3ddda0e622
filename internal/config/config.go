package config

// Config is the full echotutor configuration.
type Config struct {
	Service  ServiceConfig  `json:"service" mapstructure:"service"`
	Ollama   OllamaConfig   `json:"ollama" mapstructure:"ollama"`
	Chat     ChatConfig     `json:"chat" mapstructure:"chat"`
	TTS      TTSConfig      `json:"tts" mapstructure:"tts"`
	STT      STTConfig      `json:"stt" mapstructure:"stt"`
	Sessions SessionsConfig `json:"sessions" mapstructure:"sessions"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// ServiceConfig holds the HTTP listener settings.
type ServiceConfig struct {
	Name string `json:"name" mapstructure:"name"`
	Host string `json:"host" mapstructure:"host"`
	Port int    `json:"port" mapstructure:"port"`
}

// OllamaConfig locates the chat inference backend.
type OllamaConfig struct {
	BaseURL        string  `json:"base_url" mapstructure:"base_url"`
	Model          string  `json:"model" mapstructure:"model"`
	TopP           float64 `json:"top_p" mapstructure:"top_p"`
	TimeoutSeconds int     `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// ChatConfig holds conversation defaults.
type ChatConfig struct {
	MaxHistory  int     `json:"max_history" mapstructure:"max_history"`
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `json:"max_tokens" mapstructure:"max_tokens"`
}

// TTSConfig locates the Piper voice.
type TTSConfig struct {
	Enabled    bool   `json:"enabled" mapstructure:"enabled"`
	BinaryPath string `json:"binary_path" mapstructure:"binary_path"`
	ModelPath  string `json:"model_path" mapstructure:"model_path"`
	SampleRate int    `json:"sample_rate" mapstructure:"sample_rate"`
}

// STTConfig locates the whisper server.
type STTConfig struct {
	Enabled         bool   `json:"enabled" mapstructure:"enabled"`
	BaseURL         string `json:"base_url" mapstructure:"base_url"`
	MaxAudioSizeMB  int    `json:"max_audio_size_mb" mapstructure:"max_audio_size_mb"`
	DefaultLanguage string `json:"default_language" mapstructure:"default_language"`
}

// SessionsConfig tunes the in-memory session store.
type SessionsConfig struct {
	ReportSchedule string `json:"report_schedule" mapstructure:"report_schedule"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	File    string `json:"file" mapstructure:"file"`
	Console bool   `json:"console" mapstructure:"console"`
	Pretty  bool   `json:"pretty" mapstructure:"pretty"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name: "echotutor",
			Host: "0.0.0.0",
			Port: 8003,
		},
		Ollama: OllamaConfig{
			BaseURL:        "http://localhost:11434",
			Model:          "phi3",
			TopP:           0.9,
			TimeoutSeconds: 120,
		},
		Chat: ChatConfig{
			MaxHistory:  10,
			Temperature: 0.7,
			MaxTokens:   512,
		},
		TTS: TTSConfig{
			Enabled:    false,
			BinaryPath: "piper",
			SampleRate: 22050,
		},
		STT: STTConfig{
			Enabled:        false,
			BaseURL:        "http://localhost:8080",
			MaxAudioSizeMB: 25,
		},
		Sessions: SessionsConfig{
			ReportSchedule: "@every 1m",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
	}
}
