package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuggestions(t *testing.T) {
	tests := []struct {
		name   string
		reply  string
		want   []string
		wantOK bool
	}{
		{
			name: "well_formed_block",
			reply: "What does your morning routine look like?\n" +
				"[SUGGESTIONS]\n- Just cleanser and moisturizer\n- I have a full routine\n- I don't have one yet\n[/SUGGESTIONS]",
			want:   []string{"Just cleanser and moisturizer", "I have a full routine", "I don't have one yet"},
			wantOK: true,
		},
		{
			name:   "missing_block",
			reply:  "What does your morning routine look like?",
			wantOK: false,
		},
		{
			name:   "unterminated_block",
			reply:  "Question?\n[SUGGESTIONS]\n- Just cleanser and moisturizer",
			wantOK: false,
		},
		{
			name:   "item_too_short",
			reply:  "Question?\n[SUGGESTIONS]\n- Yes\n- I have a full skincare routine\n[/SUGGESTIONS]",
			wantOK: false,
		},
		{
			name:   "empty_block",
			reply:  "Question?\n[SUGGESTIONS]\n[/SUGGESTIONS]",
			wantOK: false,
		},
		{
			name:   "asterisk_bullets",
			reply:  "Question?\n[SUGGESTIONS]\n* Mostly in the morning hours\n[/SUGGESTIONS]",
			want:   []string{"Mostly in the morning hours"},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseSuggestions(tt.reply)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestStripReply(t *testing.T) {
	reply := "Thanks! One more question about your routine.\n" +
		"[SUGGESTIONS]\n- Just cleanser and moisturizer\n[/SUGGESTIONS]\n"

	assert.Equal(t, "Thanks! One more question about your routine.", stripReply(reply))
}

func TestStripReply_RemovesSentinel(t *testing.T) {
	reply := "That's everything I need, thank you! [PROFILE_READY]"

	assert.True(t, containsSentinel(reply))
	assert.Equal(t, "That's everything I need, thank you!", stripReply(reply))
}

func TestStripReply_UnterminatedBlockDropsTail(t *testing.T) {
	reply := "Here is my question.\n[SUGGESTIONS]\n- dangling bullet"

	assert.Equal(t, "Here is my question.", stripReply(reply))
}

func TestFallbackSuggestions_NeverEmptyAndAllLongEnough(t *testing.T) {
	transcripts := map[string][]string{
		"empty":        nil,
		"no_topics":    {"sure", "ok then"},
		"skin_type":    {"my skin is oily"},
		"routine_last": {"I get acne", "I use a cleanser daily"},
	}

	for name, turns := range transcripts {
		t.Run(name, func(t *testing.T) {
			items := fallbackSuggestions(dialogue(turns...))
			require.NotEmpty(t, items)
			for _, item := range items {
				assert.GreaterOrEqual(t, len(item), minSuggestionLen)
			}
		})
	}
}

func TestFallbackSuggestions_KeyedOnMostRecentTopic(t *testing.T) {
	items := fallbackSuggestions(dialogue(
		"my skin is oily",
		"I use a cleanser and sunscreen",
	))

	assert.Equal(t, fallbacksByTopic[TopicRoutine], items)
}

func TestFallbackTablesAllClearMinimumLength(t *testing.T) {
	for topic, items := range fallbacksByTopic {
		require.NotEmpty(t, items, topic)
		for _, item := range items {
			assert.GreaterOrEqual(t, len(item), minSuggestionLen, topic)
		}
	}
	for _, item := range defaultFallbacks {
		assert.GreaterOrEqual(t, len(item), minSuggestionLen)
	}
}
