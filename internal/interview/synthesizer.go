package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/dermflow/internal/config"
	"github.com/sandevgo/dermflow/internal/core"
	"github.com/sandevgo/dermflow/pkg/log"
)

// Synthesizer runs the terminal structured-extraction call once per
// completed session.
type Synthesizer struct {
	gen core.Generator
	cfg *config.InterviewConfig
	now func() time.Time
}

func NewSynthesizer(gen core.Generator, cfg *config.InterviewConfig) *Synthesizer {
	return &Synthesizer{gen: gen, cfg: cfg, now: time.Now}
}

// profilePayload mirrors the JSON contract given to the model.
type profilePayload struct {
	SkinType         string                  `json:"skin_type"`
	Concerns         []string                `json:"concerns"`
	SensitivityLevel string                  `json:"sensitivity_level"`
	Environment      core.EnvironmentFactors `json:"environment"`
	Routine          core.RoutineSnapshot    `json:"routine"`
	Preferences      core.ProductPreferences `json:"preferences"`
	Summary          string                  `json:"summary"`
	Recommendations  []string                `json:"recommendations"`
	Confidence       core.ConfidenceScores   `json:"confidence"`
}

// Synthesize sends the full transcript plus side-context upstream with a
// strict schema at lowered temperature, then validates and normalizes the
// result. Idempotent against the same transcript modulo model nondeterminism.
func (s *Synthesizer) Synthesize(ctx context.Context, token string, transcript []core.Message, sideContext json.RawMessage) (*core.SkinProfile, error) {
	result, err := s.gen.Generate(ctx, core.GenerateRequest{
		System:         synthesisInstructions,
		DynamicContext: BuildSynthesisContext(sideContext),
		Messages:       transcript,
		MaxTokens:      s.cfg.SynthesisMaxTokens,
		Temperature:    s.cfg.SynthesisTemp,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrProfileSynthesisFailed, err)
	}

	payload, err := parseProfilePayload(result.Text)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("token", token).Msg("profile payload rejected")
		return nil, err
	}

	profile := &core.SkinProfile{
		ID:               uuid.NewString(),
		SessionToken:     token,
		SkinType:         payload.SkinType,
		Concerns:         payload.Concerns,
		SensitivityLevel: payload.SensitivityLevel,
		Environment:      payload.Environment,
		Routine:          payload.Routine,
		Preferences:      payload.Preferences,
		Summary:          payload.Summary,
		Recommendations:  payload.Recommendations,
		Confidence:       payload.Confidence,
		CreatedAt:        s.now(),
	}

	// The model's confidences are advisory. The locally computed overall is
	// the authoritative signal surfaced to callers.
	profile.Confidence.Overall = ProfileConfidence(transcript).Overall

	return profile, nil
}

func parseProfilePayload(text string) (*profilePayload, error) {
	cleaned := stripCodeFence(text)

	var payload profilePayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedProfilePayload, err)
	}

	if payload.SkinType == "" || payload.Summary == "" || payload.Concerns == nil {
		return nil, fmt.Errorf("%w: missing required fields", core.ErrMalformedProfilePayload)
	}

	// List fields come back as empty lists, never null.
	if payload.Recommendations == nil {
		payload.Recommendations = []string{}
	}
	if payload.Environment.Lifestyle == nil {
		payload.Environment.Lifestyle = []string{}
	}
	if payload.Routine.MorningSteps == nil {
		payload.Routine.MorningSteps = []string{}
	}
	if payload.Routine.EveningSteps == nil {
		payload.Routine.EveningSteps = []string{}
	}
	if payload.Routine.Products == nil {
		payload.Routine.Products = []string{}
	}
	if payload.Preferences.Textures == nil {
		payload.Preferences.Textures = []string{}
	}
	if payload.Preferences.Avoided == nil {
		payload.Preferences.Avoided = []string{}
	}

	return &payload, nil
}

// stripCodeFence unwraps ```json ... ``` fencing some models insist on.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx != -1 {
		text = text[idx+1:]
	}
	if idx := strings.LastIndex(text, "```"); idx != -1 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
