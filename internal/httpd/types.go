package httpd

// Request size limits enforced at the boundary.
const (
	MaxChatMessageLength    = 2000
	MaxCorrectionTextLength = 1000
)

// ChatRequest is the inbound body of POST /chat.
type ChatRequest struct {
	Message        string   `json:"message"`
	ConversationID string   `json:"conversation_id,omitempty"`
	SystemPrompt   string   `json:"system_prompt,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty"`
	MaxTokens      *int     `json:"max_tokens,omitempty"`
}

// ChatResponse is the reply of POST /chat.
type ChatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
	TokensUsed     *int   `json:"tokens_used,omitempty"`
}

// CorrectionRequest is the inbound body of POST /correct.
type CorrectionRequest struct {
	Text               string `json:"text"`
	TargetLanguage     string `json:"target_language,omitempty"`
	ProvideExplanation *bool  `json:"provide_explanation,omitempty"`
}

// CorrectionItem wraps one free-text correction.
type CorrectionItem struct {
	Correction string `json:"correction"`
}

// CorrectionResponse is the reply of POST /correct.
type CorrectionResponse struct {
	OriginalText  string           `json:"original_text"`
	CorrectedText string           `json:"corrected_text"`
	Corrections   []CorrectionItem `json:"corrections"`
	Explanation   string           `json:"explanation,omitempty"`
}

// DeleteConversationResponse echoes the deleted conversation ID.
type DeleteConversationResponse struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
}

// HealthResponse is the reply of GET /health.
type HealthResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	ModelLoaded bool   `json:"model_loaded"`
	ModelName   string `json:"model_name"`
}

// InfoResponse is the reply of GET /info.
type InfoResponse struct {
	ModelName           string `json:"model_name"`
	OllamaURL           string `json:"ollama_url"`
	MaxHistory          int    `json:"max_history"`
	ActiveConversations int    `json:"active_conversations"`
	Status              string `json:"status"`
}

// SynthesizeRequest is the inbound body of the synthesis routes.
type SynthesizeRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
	Voice    string `json:"voice,omitempty"`
}

// SynthesizeResponse is the metadata reply of POST /synthesize.
type SynthesizeResponse struct {
	Message       string  `json:"message"`
	AudioDuration float64 `json:"audio_duration"`
	SampleRate    int     `json:"sample_rate"`
	TextLength    int     `json:"text_length"`
}

// TranscriptionSegment is one timed slice of POST /transcribe output.
type TranscriptionSegment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TranscriptionResponse is the reply of POST /transcribe.
type TranscriptionResponse struct {
	Text     string                 `json:"text"`
	Language string                 `json:"language"`
	Segments []TranscriptionSegment `json:"segments,omitempty"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
