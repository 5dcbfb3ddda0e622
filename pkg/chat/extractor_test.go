package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCorrection_AllSections(t *testing.T) {
	reply := `CORRECTED: I went to the store.
CORRECTIONS:
- "goed" should be "went": irregular past tense
- missing final period
EXPLANATION: "Go" is an irregular verb; its past tense is "went".`

	result := ExtractCorrection("I goed to the store", reply)

	assert.Equal(t, "I goed to the store", result.OriginalText)
	assert.Equal(t, "I went to the store.", result.CorrectedText)
	assert.Equal(t, []string{
		`"goed" should be "went": irregular past tense`,
		"missing final period",
	}, result.Corrections)
	assert.Equal(t, `"Go" is an irregular verb; its past tense is "went".`, result.Explanation)
}

func TestExtractCorrection_AdjacentMarkersNoWhitespace(t *testing.T) {
	reply := "CORRECTED:abcCORRECTIONS:\n- xEXPLANATION:done"

	result := ExtractCorrection("orig", reply)

	assert.Equal(t, "abc", result.CorrectedText)
	// The CORRECTIONS region ends at the first EXPLANATION marker even when
	// it lands mid-line, so the bullet keeps only what precedes it.
	assert.Equal(t, []string{"x"}, result.Corrections)
	assert.Equal(t, "done", result.Explanation)
}

func TestExtractCorrection_NoMarkers(t *testing.T) {
	result := ExtractCorrection("my text", "The text looks fine to me!")

	assert.Equal(t, "my text", result.CorrectedText)
	assert.Empty(t, result.Corrections)
	assert.Empty(t, result.Explanation)
}

func TestExtractCorrection_OnlyCorrectedSection(t *testing.T) {
	result := ExtractCorrection("helo", "CORRECTED: hello")

	assert.Equal(t, "hello", result.CorrectedText)
	assert.Empty(t, result.Corrections)
	assert.Empty(t, result.Explanation)
}

func TestExtractCorrection_NonBulletLinesIgnored(t *testing.T) {
	reply := `CORRECTED: fixed
CORRECTIONS:
Here is what I changed:
- first fix
some commentary
- second fix
EXPLANATION: because.`

	result := ExtractCorrection("orig", reply)

	assert.Equal(t, []string{"first fix", "second fix"}, result.Corrections)
}

func TestExtractCorrection_CaseSensitiveMarkers(t *testing.T) {
	// Lowercase markers must not match; the whole reply degrades to
	// fallbacks.
	result := ExtractCorrection("orig", "corrected: nope\ncorrections:\n- nope")

	assert.Equal(t, "orig", result.CorrectedText)
	assert.Empty(t, result.Corrections)
}

func TestExtractCorrection_ExplanationWithoutOtherSections(t *testing.T) {
	result := ExtractCorrection("orig", "EXPLANATION: nothing to fix")

	assert.Equal(t, "orig", result.CorrectedText)
	assert.Empty(t, result.Corrections)
	assert.Equal(t, "nothing to fix", result.Explanation)
}

func TestExtractCorrection_BareDashYieldsEmptyItem(t *testing.T) {
	result := ExtractCorrection("orig", "CORRECTIONS:\n-\n- real fix")

	assert.Equal(t, []string{"", "real fix"}, result.Corrections)
}
