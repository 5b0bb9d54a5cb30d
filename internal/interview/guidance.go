package interview

import "github.com/sandevgo/dermflow/internal/core"

const (
	EngagementLow    = "low"
	EngagementMedium = "medium"
	EngagementHigh   = "high"
)

// Guidance is the questioning-style directive recomputed from transcript
// statistics each turn. ShowExamples asks the model to offer concrete example
// answers; AllowDeepening permits multi-part follow-ups.
type Guidance struct {
	EngagementLevel string
	StyleDirective  string
	ShowExamples    bool
	AllowDeepening  bool
}

// AssessGuidance is pure: no state is kept between calls, and the same
// transcript always yields the same directive.
func AssessGuidance(transcript []core.Message) Guidance {
	st := computeStats(transcript)
	level := engagementFromStats(st)

	switch level {
	case EngagementHigh:
		return Guidance{
			EngagementLevel: level,
			StyleDirective: "The user answers in depth. Ask open-ended questions and " +
				"follow interesting threads; multi-part follow-ups are fine.",
			ShowExamples:   false,
			AllowDeepening: true,
		}
	case EngagementLow:
		return Guidance{
			EngagementLevel: level,
			StyleDirective: "The user gives short answers. Ask one simple, concrete " +
				"question at a time and offer example answers they can pick from.",
			ShowExamples:   true,
			AllowDeepening: false,
		}
	default:
		return Guidance{
			EngagementLevel: level,
			StyleDirective: "Keep questions focused and conversational, one main " +
				"question per turn with an optional brief follow-up.",
			ShowExamples:   false,
			AllowDeepening: false,
		}
	}
}
