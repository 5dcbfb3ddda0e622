package chat

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// correctionSystemPrompt seeds the throwaway session used for a single
// correction run.
const correctionSystemPrompt = "You are a language correction assistant. Correct mistakes and explain them clearly."

// correctionPromptTemplate is a contract with the backend's instruction
// following, not a structural guarantee; the extractor tolerates replies
// that ignore it.
const correctionPromptTemplate = `Correct the following %s text and explain the mistakes:

Text: "%s"

Provide:
1. The corrected text
2. A list of specific corrections made
3. Brief explanation of why each correction was needed

Format your response as:
CORRECTED: <corrected text>
CORRECTIONS:
- <mistake 1>: <correction 1>
- <mistake 2>: <correction 2>
EXPLANATION: <brief explanation>`

// Correct runs a one-shot correction: throwaway session, single backend
// round trip, marker extraction. The session is deleted whether or not the
// backend call succeeds; orchestrator errors propagate unchanged.
func (s *Service) Correct(ctx context.Context, text, targetLanguage string, provideExplanation bool) (*CorrectionResult, error) {
	prompt := fmt.Sprintf(correctionPromptTemplate, targetLanguage, text)

	tempID := s.store.Create(correctionSystemPrompt)
	defer s.store.Delete(tempID)

	res, err := s.Chat(ctx, Params{
		Message:     prompt,
		SessionID:   tempID,
		Temperature: s.defaults.Temperature,
		MaxTokens:   s.defaults.MaxTokens,
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", tempID).Str("op", "correct").Msg("Correction failed")
		return nil, err
	}

	result := ExtractCorrection(text, res.Reply)
	if !provideExplanation {
		result.Explanation = ""
	}

	return &result, nil
}
