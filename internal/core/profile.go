package core

import "time"

// SkinProfile is the structured output synthesized once per completed
// session. Immutable after creation; regenerating it means re-running the
// synthesis step against the same transcript.
type SkinProfile struct {
	ID               string             `json:"id"`
	SessionToken     string             `json:"session_token"`
	SkinType         string             `json:"skin_type"`
	Concerns         []string           `json:"concerns"`
	SensitivityLevel string             `json:"sensitivity_level"`
	Environment      EnvironmentFactors `json:"environment"`
	Routine          RoutineSnapshot    `json:"routine"`
	Preferences      ProductPreferences `json:"preferences"`
	Summary          string             `json:"summary"`
	Recommendations  []string           `json:"recommendations"`
	Confidence       ConfidenceScores   `json:"confidence"`
	CreatedAt        time.Time          `json:"created_at"`
}

type EnvironmentFactors struct {
	Climate     string   `json:"climate"`
	SunExposure string   `json:"sun_exposure"`
	Lifestyle   []string `json:"lifestyle"`
}

type RoutineSnapshot struct {
	MorningSteps []string `json:"morning_steps"`
	EveningSteps []string `json:"evening_steps"`
	Products     []string `json:"products"`
	Consistency  string   `json:"consistency"`
}

type ProductPreferences struct {
	Textures    []string `json:"textures"`
	Avoided     []string `json:"avoided_ingredients"`
	BudgetLevel string   `json:"budget_level"`
}

// ConfidenceScores are per-dimension values in [0,1]. The model's
// self-reported values are advisory; the conversation quality score computed
// locally is the authoritative signal.
type ConfidenceScores struct {
	SkinType    float64 `json:"skin_type"`
	Concerns    float64 `json:"concerns"`
	Routine     float64 `json:"routine"`
	Preferences float64 `json:"preferences"`
	Overall     float64 `json:"overall"`
}
