package interview

import (
	"context"
	"testing"

	"github.com/sandevgo/dermflow/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validProfileJSON = `{
  "skin_type": "combination",
  "concerns": ["acne", "redness"],
  "sensitivity_level": "medium",
  "environment": {"climate": "humid", "sun_exposure": "moderate", "lifestyle": ["outdoors"]},
  "routine": {"morning_steps": ["cleanser", "spf"], "evening_steps": ["cleanser"], "products": ["gel cleanser"], "consistency": "daily"},
  "preferences": {"textures": ["gel"], "avoided_ingredients": ["fragrance"], "budget_level": "drugstore"},
  "summary": "Combination skin with breakouts, consistent basic routine.",
  "recommendations": ["Add a niacinamide serum"],
  "confidence": {"skin_type": 0.9, "concerns": 0.8, "routine": 0.7, "preferences": 0.6, "overall": 0.75}
}`

func TestSynthesize_BuildsProfile(t *testing.T) {
	gen := &scriptGen{replies: []string{validProfileJSON}}
	synth := NewSynthesizer(gen, testConfig())

	transcript := dialogue(
		"My skin is combination, oily T-zone",
		"I get acne and some redness",
		"Cleanser and sunscreen every morning",
	)

	profile, err := synth.Synthesize(context.Background(), "tok-1", transcript, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, "tok-1", profile.SessionToken)
	assert.Equal(t, "combination", profile.SkinType)
	assert.Equal(t, []string{"acne", "redness"}, profile.Concerns)
	assert.NotZero(t, profile.CreatedAt)

	// The model's overall confidence is replaced by the locally computed one.
	assert.InDelta(t, ProfileConfidence(transcript).Overall, profile.Confidence.Overall, 1e-9)
}

func TestSynthesize_LoweredTemperatureAndNoStaticBlock(t *testing.T) {
	gen := &scriptGen{replies: []string{validProfileJSON}}
	cfg := testConfig()
	synth := NewSynthesizer(gen, cfg)

	_, err := synth.Synthesize(context.Background(), "tok-1", dialogue("oily skin"), nil)
	require.NoError(t, err)
	require.Len(t, gen.requests, 1)

	req := gen.requests[0]
	assert.Equal(t, cfg.SynthesisTemp, req.Temperature)
	assert.Equal(t, cfg.SynthesisMaxTokens, req.MaxTokens)
	assert.Empty(t, req.StaticContext)
	assert.NotEqual(t, systemInstructions, req.System)
}

func TestSynthesize_GenerationErrorWraps(t *testing.T) {
	gen := &scriptGen{errs: []error{core.ErrUpstreamTimeout}}
	synth := NewSynthesizer(gen, testConfig())

	_, err := synth.Synthesize(context.Background(), "tok-1", dialogue("oily"), nil)
	assert.ErrorIs(t, err, core.ErrProfileSynthesisFailed)
}

func TestParseProfilePayload(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"plain_json", validProfileJSON, false},
		{"fenced_json", "```json\n" + validProfileJSON + "\n```", false},
		{"bare_fence", "```\n" + validProfileJSON + "\n```", false},
		{"not_json", "I couldn't build a profile, sorry.", true},
		{"missing_skin_type", `{"summary": "s", "concerns": []}`, true},
		{"missing_summary", `{"skin_type": "oily", "concerns": []}`, true},
		{"null_concerns", `{"skin_type": "oily", "summary": "s"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := parseProfilePayload(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrMalformedProfilePayload)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "combination", payload.SkinType)
		})
	}
}

func TestParseProfilePayload_NilListsBecomeEmpty(t *testing.T) {
	payload, err := parseProfilePayload(`{"skin_type": "oily", "summary": "s", "concerns": []}`)
	require.NoError(t, err)

	assert.NotNil(t, payload.Recommendations)
	assert.NotNil(t, payload.Environment.Lifestyle)
	assert.NotNil(t, payload.Routine.MorningSteps)
	assert.NotNil(t, payload.Routine.EveningSteps)
	assert.NotNil(t, payload.Routine.Products)
	assert.NotNil(t, payload.Preferences.Textures)
	assert.NotNil(t, payload.Preferences.Avoided)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("{\"a\":1}"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("  ```\n{\"a\":1}\n```  "))
}
