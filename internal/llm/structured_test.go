package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSummary struct {
	Headline   string   `json:"headline"`
	Risks      []string `json:"risks"`
	Confidence float64  `json:"confidence"`
}

func TestExtractJSON_CleanJSON(t *testing.T) {
	raw := `{"headline":"On track","risks":["IPSG.2.1"],"confidence":0.95}`
	result, err := ExtractJSON[testSummary](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "On track", result.Headline)
	assert.Equal(t, []string{"IPSG.2.1"}, result.Risks)
	assert.Equal(t, 0.95, result.Confidence)
}

func TestExtractJSON_FencedWithSurroundingText(t *testing.T) {
	raw := "Here is the summary:\n```json\n{\"headline\":\"At risk\",\"confidence\":0.7}\n```\nLet me know!"
	result, err := ExtractJSON[testSummary](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "At risk", result.Headline)
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	raw := `{"headline":"Use {curly} braces","risks":[]}`
	result, err := ExtractJSON[testSummary](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Use {curly} braces", result.Headline)
}

func TestExtractJSON_SkipsBracesInProse(t *testing.T) {
	raw := "Summary for {project}: {\"headline\":\"ok\",\"confidence\":0.8} and {more}"
	result, err := ExtractJSON[testSummary](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Headline)
	assert.Equal(t, 0.8, result.Confidence)
}

func TestExtractJSON_FirstObjectWins(t *testing.T) {
	raw := `{"headline":"first"}` + "\n" + `{"headline":"second"}`
	result, err := ExtractJSON[testSummary](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "first", result.Headline)
}

func TestExtractJSON_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no json", "I cannot summarize this project."},
		{"broken", `{"headline": broken}`},
		{"unterminated", `{"headline": "x"`},
		{"wrong types", `{"headline": 3}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractJSON[testSummary](tc.raw, nil)
			assert.ErrorIs(t, err, ErrInvalidOutput)
		})
	}
}

func TestExtractJSON_Validator(t *testing.T) {
	requireHeadline := func(s testSummary) error {
		if s.Headline == "" {
			return fmt.Errorf("headline is required")
		}
		return nil
	}

	_, err := ExtractJSON(`{"risks":[]}`, requireHeadline)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "validation failed")

	result, err := ExtractJSON(`{"headline":"Ready"}`, requireHeadline)
	require.NoError(t, err)
	assert.Equal(t, "Ready", result.Headline)
}
