package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidymail/tidymail/internal/core"
)

func TestParseTriageResponseCleanJSON(t *testing.T) {
	parsed, err := parseTriageResponse(`{"category":"promo","confidence":0.9,"suggested_action":"archive","rationale":"sales blast"}`)
	require.NoError(t, err)

	assert.Equal(t, "promo", parsed.Category)
	assert.Equal(t, 0.9, parsed.Confidence)
	assert.Equal(t, "archive", parsed.SuggestedAction)
	assert.Equal(t, "sales blast", parsed.Rationale)
}

func TestParseTriageResponseWithSurroundingProse(t *testing.T) {
	text := "Sure, here is the result:\n```json\n{\"category\":\"spam\",\"confidence\":0.95,\"suggested_action\":\"trash\"}\n```\nLet me know if you need anything else."

	parsed, err := parseTriageResponse(text)
	require.NoError(t, err)

	assert.Equal(t, "spam", parsed.Category)
	assert.Equal(t, "trash", parsed.SuggestedAction)
}

func TestParseTriageResponseNoJSON(t *testing.T) {
	_, err := parseTriageResponse("I cannot categorize this email.")
	assert.Error(t, err)
}

func TestToClassificationClampsConfidence(t *testing.T) {
	high := &triageResponse{Category: "spam", Confidence: 1.7, SuggestedAction: "trash"}
	assert.Equal(t, 1.0, high.toClassification().Confidence)

	low := &triageResponse{Category: "other", Confidence: -0.2, SuggestedAction: "keep"}
	assert.Equal(t, 0.0, low.toClassification().Confidence)
}

func TestToClassificationUnknownActionDefaultsToKeep(t *testing.T) {
	r := &triageResponse{Category: "other", Confidence: 0.5, SuggestedAction: "delete"}

	cls := r.toClassification()
	assert.Equal(t, core.ActionKeep, cls.SuggestedAction)
}
