package interview

import (
	"encoding/json"
	"fmt"
	"strings"
)

const Greeting = "Hi! I'm here to learn about your skin so we can build a personalized " +
	"skincare profile together. To start: how would you describe your skin on a typical day?"

const completionSentinel = "[PROFILE_READY]"

const (
	suggestionsOpen  = "[SUGGESTIONS]"
	suggestionsClose = "[/SUGGESTIONS]"
)

const systemInstructions = `You are a warm, knowledgeable skincare consultant conducting an intake interview.

Your job:
- Learn about the user's skin type, concerns, current routine, environment, lifestyle and product preferences through natural conversation.
- Ask one focused question per reply unless told otherwise in the guidance block.
- Reflect back what you heard before asking the next question.
- Never diagnose medical conditions; suggest seeing a dermatologist for anything that sounds clinical.
- Keep replies to 2-4 short paragraphs.

When you have gathered enough across all areas (skin type, concerns, routine, environment, preferences) to build a solid profile, include the literal marker ` + completionSentinel + ` at the end of your reply.`

const suggestionFormatBlock = `After your reply, include 2-4 short example answers the user could tap to respond, formatted exactly like this:

` + suggestionsOpen + `
- First example answer
- Second example answer
` + suggestionsClose + `

Each suggestion must be a complete answer written in the user's voice, at least a few words long.`

// BuildDynamicContext assembles the per-turn block: extracted memory,
// questioning guidance, and opaque side-context. This block changes every
// turn, so it stays out of the cacheable prompt prefix.
func BuildDynamicContext(facts []Fact, guidance Guidance, tone string, sideContext json.RawMessage) string {
	var b strings.Builder

	if len(facts) > 0 {
		b.WriteString("What we know so far:\n")
		for _, f := range facts {
			fmt.Fprintf(&b, "- [%s] %s (confidence: %s)\n", f.Topic, f.Statement, f.Confidence)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Questioning guidance (engagement: %s, tone: %s): %s\n",
		guidance.EngagementLevel, tone, guidance.StyleDirective)
	if guidance.ShowExamples {
		b.WriteString("Offer concrete example answers in your suggestions.\n")
	}
	if guidance.AllowDeepening {
		b.WriteString("Multi-part follow-up questions are allowed this turn.\n")
	}

	if len(sideContext) > 0 {
		b.WriteString("\nEnvironment context (raw, from an external lookup):\n")
		b.Write(sideContext)
		b.WriteString("\n")
	}

	return b.String()
}

const synthesisInstructions = `You are a skincare profile analyst. You receive a completed intake interview transcript and must produce a structured profile.

Respond with a single JSON object and nothing else. No prose, no code fences. Schema:
{
  "skin_type": "oily|dry|combination|sensitive|normal",
  "concerns": ["..."],
  "sensitivity_level": "low|medium|high",
  "environment": {"climate": "...", "sun_exposure": "...", "lifestyle": ["..."]},
  "routine": {"morning_steps": ["..."], "evening_steps": ["..."], "products": ["..."], "consistency": "..."},
  "preferences": {"textures": ["..."], "avoided_ingredients": ["..."], "budget_level": "..."},
  "summary": "2-3 sentence human-readable summary",
  "recommendations": ["ranked recommendation", "..."],
  "confidence": {"skin_type": 0.0, "concerns": 0.0, "routine": 0.0, "preferences": 0.0, "overall": 0.0}
}
Confidence values are your own certainty in [0,1]. Use only information from the transcript and context. skin_type, concerns and summary are mandatory.`

// BuildSynthesisContext renders the transcript and side-context for the
// structured extraction call.
func BuildSynthesisContext(sideContext json.RawMessage) string {
	if len(sideContext) == 0 {
		return ""
	}
	return "Environment context gathered during the interview (raw):\n" + string(sideContext)
}
