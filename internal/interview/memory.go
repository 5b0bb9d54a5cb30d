package interview

import (
	"strings"

	"github.com/sandevgo/dermflow/internal/core"
)

// Fact is a derived, non-authoritative annotation over one user turn. Facts
// are recomputed from the full transcript every turn, never patched
// incrementally, so the same transcript always yields the same set.
type Fact struct {
	Topic       string
	Statement   string
	OriginIndex int
	Confidence  string
}

const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

const (
	TopicSkinType    = "skin_type"
	TopicConcerns    = "concerns"
	TopicRoutine     = "routine"
	TopicTiming      = "timing"
	TopicLifestyle   = "lifestyle"
	TopicPreferences = "preferences"
)

type topicRule struct {
	Topic    string
	Keywords []string
}

// topicRules is the declarative keyword table driving fact extraction,
// fallback suggestions and quality scoring. Order fixes the order of
// emitted facts.
var topicRules = []topicRule{
	{TopicSkinType, []string{
		"oily", "dry skin", "combination", "sensitive", "normal skin",
		"greasy", "shiny", "flaky", "tight", "dehydrated",
	}},
	{TopicConcerns, []string{
		"acne", "breakout", "pimple", "blackhead", "wrinkle", "fine line",
		"dark spot", "hyperpigmentation", "redness", "rosacea", "eczema",
		"dullness", "pores", "texture", "scar", "dark circle", "puffiness",
	}},
	{TopicRoutine, []string{
		"cleanser", "moisturizer", "moisturiser", "serum", "sunscreen", "spf",
		"toner", "retinol", "exfoliat", "niacinamide", "vitamin c",
		"hyaluronic", "face mask", "facial oil",
	}},
	{TopicTiming, []string{
		"morning", "evening", "night", "daily", "weekly", "twice a day",
		"winter", "summer", "season", "before bed",
	}},
	{TopicLifestyle, []string{
		"stress", "sleep", "diet", "water intake", "exercise", "smoking",
		"alcohol", "sun exposure", "outdoors", "air conditioning", "humidity",
		"travel",
	}},
	{TopicPreferences, []string{
		"fragrance-free", "fragrance free", "cruelty-free", "vegan",
		"natural", "drugstore", "budget", "luxury", "lightweight", "gel",
		"cream", "prefer", "avoid", "allergic",
	}},
}

// ExtractFacts scans every user turn against the topic keyword tables. A
// turn can contribute facts across several topics but at most one fact per
// topic. Pure: identical transcript, identical result.
func ExtractFacts(transcript []core.Message) []Fact {
	var facts []Fact
	for idx, m := range transcript {
		if m.Role != core.RoleUser {
			continue
		}
		lowered := strings.ToLower(m.Content)
		for _, rule := range topicRules {
			hits := countHits(lowered, rule.Keywords)
			if hits == 0 {
				continue
			}
			facts = append(facts, Fact{
				Topic:       rule.Topic,
				Statement:   leadingClause(m.Content, 160),
				OriginIndex: idx,
				Confidence:  confidenceForHits(hits),
			})
		}
	}
	return facts
}

func countHits(lowered string, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			hits++
		}
	}
	return hits
}

func confidenceForHits(hits int) string {
	switch {
	case hits >= 3:
		return ConfidenceHigh
	case hits == 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// EngagementLevel classifies how much detail the user supplies per turn.
func EngagementLevel(transcript []core.Message) string {
	return engagementFromStats(computeStats(transcript))
}

func engagementFromStats(st transcriptStats) string {
	switch {
	case st.userTurns == 0:
		return EngagementMedium
	case st.detailedFraction >= 0.5:
		return EngagementHigh
	case st.briefFraction >= 0.5 || st.meanWords < 8:
		return EngagementLow
	default:
		return EngagementMedium
	}
}

// ConversationTone is a coarse read of the user's register, derived from the
// same statistics as engagement.
func ConversationTone(transcript []core.Message) string {
	st := computeStats(transcript)
	switch {
	case st.userTurns == 0:
		return "neutral"
	case st.detailedFraction >= 0.5:
		return "expansive"
	case st.briefFraction >= 0.5:
		return "terse"
	default:
		return "conversational"
	}
}
