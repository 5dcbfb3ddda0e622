package chat

import "strings"

// Section markers the correction prompt asks the model to emit. Matched
// literally and case-sensitively; a reworded reply simply degrades to the
// fallbacks below. Known limitation, kept deliberately.
const (
	markerCorrected   = "CORRECTED:"
	markerCorrections = "CORRECTIONS:"
	markerExplanation = "EXPLANATION:"
)

// CorrectionResult is the typed form of a marker-delimited correction reply.
type CorrectionResult struct {
	OriginalText  string
	CorrectedText string
	Corrections   []string
	Explanation   string
}

// ExtractCorrection parses reply into a CorrectionResult. Pure function,
// never errors: a missing CORRECTED section falls back to the original
// text, missing CORRECTIONS yields no items, missing EXPLANATION yields an
// empty explanation.
func ExtractCorrection(original, reply string) CorrectionResult {
	result := CorrectionResult{
		OriginalText:  original,
		CorrectedText: original,
		Corrections:   []string{},
	}

	if _, rest, ok := strings.Cut(reply, markerCorrected); ok {
		corrected := rest
		if idx := strings.Index(corrected, markerCorrections); idx >= 0 {
			corrected = corrected[:idx]
		}
		result.CorrectedText = strings.TrimSpace(corrected)
	}

	if _, rest, ok := strings.Cut(reply, markerCorrections); ok {
		region := rest
		if idx := strings.Index(region, markerExplanation); idx >= 0 {
			region = region[:idx]
		}
		for _, line := range strings.Split(region, "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "-") {
				item := strings.TrimSpace(strings.TrimPrefix(line, "-"))
				result.Corrections = append(result.Corrections, item)
			}
		}
	}

	if _, rest, ok := strings.Cut(reply, markerExplanation); ok {
		result.Explanation = strings.TrimSpace(rest)
	}

	return result
}
