package httpd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"echotutor/pkg/chat"
	"echotutor/pkg/stt"
	"echotutor/pkg/tts"
)

// Backend is the slice of the Ollama client the handlers need for health
// and info reporting.
type Backend interface {
	Ping(ctx context.Context) error
	Models(ctx context.Context) ([]string, error)
	Model() string
}

// Services bundles the dependencies handed to the handlers. There is no
// package-level service state; the process entry point constructs this and
// owns its lifecycle.
type Services struct {
	Chat    *chat.Service
	Backend Backend
	TTS     tts.Synthesizer // nil when the synthesis routes are disabled
	STT     stt.Transcriber // nil when the transcription route is disabled
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeChatError maps the error taxonomy onto status codes. Backend detail
// stays in the logs, not in the response body.
func writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), "chat: "))
	case errors.Is(err, chat.ErrBackend):
		writeError(w, http.StatusBadGateway, "inference backend failure")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if len(req.Message) > MaxChatMessageLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("message exceeds %d characters", MaxChatMessageLength))
		return
	}

	temperature := s.options.DefaultTemperature
	if req.Temperature != nil {
		if *req.Temperature < 0 || *req.Temperature > 2 {
			writeError(w, http.StatusBadRequest, "temperature must be between 0.0 and 2.0")
			return
		}
		temperature = *req.Temperature
	}

	maxTokens := s.options.DefaultMaxTokens
	if req.MaxTokens != nil {
		if *req.MaxTokens < 1 || *req.MaxTokens > 2048 {
			writeError(w, http.StatusBadRequest, "max_tokens must be between 1 and 2048")
			return
		}
		maxTokens = *req.MaxTokens
	}

	res, err := s.services.Chat.Chat(r.Context(), chat.Params{
		Message:      req.Message,
		SessionID:    req.ConversationID,
		SystemPrompt: req.SystemPrompt,
		Temperature:  temperature,
		MaxTokens:    maxTokens,
	})
	if err != nil {
		if errors.Is(err, chat.ErrBackend) && s.metrics != nil {
			s.metrics.BackendErrorsTotal.WithLabelValues("ollama").Inc()
		}
		writeChatError(w, err)
		return
	}

	resp := ChatResponse{
		Response:       res.Reply,
		ConversationID: res.SessionID,
	}
	if res.TokensUsed > 0 {
		resp.TokensUsed = &res.TokensUsed
	}
	if s.metrics != nil {
		if res.SessionID != req.ConversationID {
			s.metrics.SessionsCreated.Inc()
		}
		s.metrics.SessionsActive.Set(float64(s.services.Chat.Store().Count()))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	var req CorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if len(req.Text) > MaxCorrectionTextLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("text exceeds %d characters", MaxCorrectionTextLength))
		return
	}

	targetLanguage := req.TargetLanguage
	if targetLanguage == "" {
		targetLanguage = "en"
	}
	provideExplanation := true
	if req.ProvideExplanation != nil {
		provideExplanation = *req.ProvideExplanation
	}

	result, err := s.services.Chat.Correct(r.Context(), req.Text, targetLanguage, provideExplanation)
	if err != nil {
		if s.metrics != nil {
			s.metrics.CorrectionsTotal.WithLabelValues("error").Inc()
			if errors.Is(err, chat.ErrBackend) {
				s.metrics.BackendErrorsTotal.WithLabelValues("ollama").Inc()
			}
		}
		writeChatError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.CorrectionsTotal.WithLabelValues("success").Inc()
	}

	items := make([]CorrectionItem, 0, len(result.Corrections))
	for _, c := range result.Corrections {
		items = append(items, CorrectionItem{Correction: c})
	}

	writeJSON(w, http.StatusOK, CorrectionResponse{
		OriginalText:  result.OriginalText,
		CorrectedText: result.CorrectedText,
		Corrections:   items,
		Explanation:   result.Explanation,
	})
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "conversation id is required")
		return
	}

	// Idempotent: deleting an unknown conversation still reports success.
	s.services.Chat.Store().Delete(id)
	if s.metrics != nil {
		s.metrics.SessionsActive.Set(float64(s.services.Chat.Store().Count()))
	}

	writeJSON(w, http.StatusOK, DeleteConversationResponse{
		Message:        "Conversation cleared",
		ConversationID: id,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	modelLoaded := s.services.Backend.Ping(r.Context()) == nil

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "healthy",
		Service:     s.options.ServiceName,
		ModelLoaded: modelLoaded,
		ModelName:   s.services.Backend.Model(),
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	status := "connected"
	if err := s.services.Backend.Ping(r.Context()); err != nil {
		status = "disconnected"
	}

	writeJSON(w, http.StatusOK, InfoResponse{
		ModelName:           s.services.Backend.Model(),
		OllamaURL:           s.options.OllamaURL,
		MaxHistory:          s.options.MaxHistory,
		ActiveConversations: s.services.Chat.Store().Count(),
		Status:              status,
	})
}

// synthesize decodes the request body and renders speech; on failure it has
// already written the error response.
func (s *Server) synthesize(w http.ResponseWriter, r *http.Request) (*SynthesizeRequest, []byte, bool) {
	if s.services.TTS == nil {
		writeError(w, http.StatusServiceUnavailable, "tts service not initialized")
		return nil, nil, false
	}

	var req SynthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, nil, false
	}

	audio, err := s.services.TTS.Synthesize(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, tts.ErrInvalidText) {
			writeError(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), "tts: "))
		} else {
			log.Error().Err(err).Str("op", "synthesize").Msg("Synthesis failed")
			writeError(w, http.StatusInternalServerError, "synthesis failed")
		}
		return nil, nil, false
	}
	return &req, audio, true
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	req, audio, ok := s.synthesize(w, r)
	if !ok {
		return
	}

	resp := SynthesizeResponse{
		Message:    "Synthesis successful",
		SampleRate: s.services.TTS.SampleRate(),
		TextLength: len(req.Text),
	}
	if info, err := tts.ParseWav(audio); err == nil {
		resp.AudioDuration = info.Duration()
		resp.SampleRate = info.SampleRate
	} else {
		log.Warn().Err(err).Msg("Could not inspect generated audio")
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSynthesizeAudio(w http.ResponseWriter, r *http.Request) {
	_, audio, ok := s.synthesize(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", `attachment; filename=speech.wav`)
	if _, err := w.Write(audio); err != nil {
		log.Error().Err(err).Msg("Failed to stream audio")
	}
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if s.services.STT == nil {
		writeError(w, http.StatusServiceUnavailable, "stt service not initialized")
		return
	}

	maxBytes := int64(s.options.MaxAudioSizeMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file too large or malformed upload (max %dMB)", s.options.MaxAudioSizeMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	language := r.FormValue("language")
	if language == "" {
		language = s.options.DefaultLanguage
	}
	task := r.FormValue("task")
	returnSegments := r.FormValue("return_segments") == "true"

	result, err := s.services.STT.Transcribe(r.Context(), stt.Request{
		Audio:          audio,
		Filename:       header.Filename,
		Language:       language,
		Task:           task,
		ReturnSegments: returnSegments,
	})
	if err != nil {
		if errors.Is(err, stt.ErrInvalidTask) {
			writeError(w, http.StatusBadRequest, "task must be transcribe or translate")
			return
		}
		log.Error().Err(err).Str("op", "transcribe").Msg("Transcription failed")
		writeError(w, http.StatusBadGateway, "transcription failed")
		return
	}

	resp := TranscriptionResponse{
		Text:     result.Text,
		Language: result.Language,
	}
	if returnSegments {
		resp.Segments = make([]TranscriptionSegment, 0, len(result.Segments))
		for _, seg := range result.Segments {
			resp.Segments = append(resp.Segments, TranscriptionSegment(seg))
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
