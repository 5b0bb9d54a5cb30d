package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationQuality_EmptyTranscriptIsZero(t *testing.T) {
	assert.Zero(t, ConversationQuality(nil))
	assert.Zero(t, ConversationQuality(dialogue()))
}

func TestConversationQuality_Bounded(t *testing.T) {
	turns := make([]string, 0, 20)
	for range 20 {
		turns = append(turns, "My skin is extremely oily and greasy and shiny with constant acne breakouts, "+
			"I use a cleanser, toner, serum, sunscreen and moisturizer every morning and evening, "+
			"I avoid fragrance and prefer lightweight gel textures on a budget")
	}
	score := ConversationQuality(dialogue(turns...))

	assert.Greater(t, score, 0.8)
	assert.LessOrEqual(t, score, 1.0)
}

func TestConversationQuality_MoreSignalScoresHigher(t *testing.T) {
	thin := ConversationQuality(dialogue("oily", "yes"))
	rich := ConversationQuality(dialogue(
		"My skin is oily and shiny with regular acne breakouts around my chin and forehead area",
		"I use a gel cleanser and a light moisturizer with sunscreen every single morning before work",
		"I have been sleeping badly and stress definitely makes my breakouts worse during busy weeks",
		"I prefer fragrance-free drugstore products, nothing too heavy or greasy on my face",
	))

	assert.Greater(t, rich, thin)
}

func TestConversationQuality_Pure(t *testing.T) {
	transcript := dialogue(
		"My skin is oily with some redness",
		"I use a cleanser and sunscreen daily",
	)
	assert.Equal(t, ConversationQuality(transcript), ConversationQuality(transcript))
}

func TestProfileConfidence_AllDimensionsBounded(t *testing.T) {
	scores := ProfileConfidence(dialogue(
		"Oily and shiny skin with blackheads and big pores",
		"Cleanser, serum, sunscreen every morning, retinol at night",
		"Fragrance-free only, I'm allergic to a lot and prefer gels",
	))

	for name, v := range map[string]float64{
		"skin_type":   scores.SkinType,
		"concerns":    scores.Concerns,
		"routine":     scores.Routine,
		"preferences": scores.Preferences,
		"overall":     scores.Overall,
	} {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 1.0, name)
	}
}

func TestProfileConfidence_OverallIsMeanOfDimensions(t *testing.T) {
	scores := ProfileConfidence(dialogue(
		"My skin is oily and I get breakouts",
		"I use a cleanser and sunscreen",
	))

	mean := (scores.SkinType + scores.Concerns + scores.Routine + scores.Preferences) / 4
	assert.InDelta(t, mean, scores.Overall, 1e-9)
}

func TestProfileConfidence_CoverageDrivesDimensions(t *testing.T) {
	// Plenty of skin-type keywords, zero routine keywords.
	scores := ProfileConfidence(dialogue(
		"My skin is oily, greasy and shiny all day",
		"Definitely oily, sometimes dehydrated too",
	))

	assert.Greater(t, scores.SkinType, scores.Routine)
}
