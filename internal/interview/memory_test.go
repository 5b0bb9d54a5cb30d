package interview

import (
	"testing"

	"github.com/sandevgo/dermflow/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFacts_TopicMatching(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantTopics []string
	}{
		{
			name:       "skin_type_only",
			content:    "My skin is really oily and shiny by the afternoon",
			wantTopics: []string{TopicSkinType},
		},
		{
			name:       "multiple_topics_one_turn",
			content:    "I use a cleanser and sunscreen every morning because of my acne",
			wantTopics: []string{TopicConcerns, TopicRoutine, TopicTiming},
		},
		{
			name:       "no_match",
			content:    "Sure, sounds good to me",
			wantTopics: nil,
		},
		{
			name:       "preferences",
			content:    "I prefer fragrance-free products on a budget",
			wantTopics: []string{TopicPreferences},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := ExtractFacts([]core.Message{userMsg(tt.content)})

			var topics []string
			for _, f := range facts {
				topics = append(topics, f.Topic)
			}
			assert.Equal(t, tt.wantTopics, topics)
		})
	}
}

func TestExtractFacts_OneFactPerTopicPerTurn(t *testing.T) {
	// Several skin-type keywords in one turn still yield a single fact.
	facts := ExtractFacts([]core.Message{
		userMsg("It's oily and greasy and shiny, honestly"),
	})

	require.Len(t, facts, 1)
	assert.Equal(t, TopicSkinType, facts[0].Topic)
	assert.Equal(t, ConfidenceHigh, facts[0].Confidence)
	assert.Equal(t, 0, facts[0].OriginIndex)
}

func TestExtractFacts_ConfidenceScalesWithHits(t *testing.T) {
	low := ExtractFacts([]core.Message{userMsg("a bit oily sometimes")})
	require.Len(t, low, 1)
	assert.Equal(t, ConfidenceLow, low[0].Confidence)

	medium := ExtractFacts([]core.Message{userMsg("oily and shiny in summer")})
	require.NotEmpty(t, medium)
	assert.Equal(t, ConfidenceMedium, medium[0].Confidence)
}

func TestExtractFacts_IgnoresAssistantTurns(t *testing.T) {
	facts := ExtractFacts([]core.Message{
		assistantMsg("Do you have acne or oily skin?"),
	})
	assert.Empty(t, facts)
}

func TestExtractFacts_Pure(t *testing.T) {
	transcript := dialogue(
		"My skin is oily and I get breakouts",
		"I use a cleanser and retinol at night",
	)

	first := ExtractFacts(transcript)
	second := ExtractFacts(transcript)
	assert.Equal(t, first, second, "same transcript must yield identical facts")
	require.NotEmpty(t, first)
}

func TestEngagementLevel(t *testing.T) {
	tests := []struct {
		name  string
		turns []string
		want  string
	}{
		{
			name: "high_when_detailed_dominates",
			turns: []string{
				"My skin has always been on the oilier side, especially through the T-zone, and in summer it gets much worse with all the humidity here",
				"I have tried a lot of different cleansers over the years but most of them either dry me out completely or leave me greasy within a couple of hours",
			},
			want: EngagementHigh,
		},
		{
			name:  "low_when_brief_dominates",
			turns: []string{"oily", "yes", "not sure"},
			want:  EngagementLow,
		},
		{
			name: "medium_otherwise",
			turns: []string{
				"My skin is fairly oily in the T-zone area",
				"I wash my face twice a day with a gel cleanser",
			},
			want: EngagementMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EngagementLevel(dialogue(tt.turns...)))
		})
	}
}

func TestConversationTone_Pure(t *testing.T) {
	transcript := dialogue("short", "answers", "here")
	assert.Equal(t, ConversationTone(transcript), ConversationTone(transcript))
	assert.Equal(t, "terse", ConversationTone(transcript))
}
