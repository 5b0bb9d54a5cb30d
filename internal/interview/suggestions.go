package interview

import (
	"strings"

	"github.com/sandevgo/dermflow/internal/core"
)

const minSuggestionLen = 10

// parseSuggestions extracts the bullet items from the delimited block in a
// generation reply. ok is false when the block is missing or any item is too
// short to surface.
func parseSuggestions(reply string) (items []string, ok bool) {
	start := strings.Index(reply, suggestionsOpen)
	if start == -1 {
		return nil, false
	}
	rest := reply[start+len(suggestionsOpen):]
	end := strings.Index(rest, suggestionsClose)
	if end == -1 {
		return nil, false
	}

	for _, line := range strings.Split(rest[:end], "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "-")
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) < minSuggestionLen {
			return nil, false
		}
		items = append(items, line)
	}

	if len(items) == 0 {
		return nil, false
	}
	return items, true
}

// stripReply removes the suggestion block and completion sentinel, leaving
// the text shown to the user.
func stripReply(reply string) string {
	if start := strings.Index(reply, suggestionsOpen); start != -1 {
		rest := reply[start+len(suggestionsOpen):]
		if end := strings.Index(rest, suggestionsClose); end != -1 {
			reply = reply[:start] + rest[end+len(suggestionsClose):]
		} else {
			reply = reply[:start]
		}
	}
	reply = strings.ReplaceAll(reply, completionSentinel, "")
	return strings.TrimSpace(reply)
}

func containsSentinel(reply string) bool {
	return strings.Contains(reply, completionSentinel)
}

// fallbacksByTopic maps the most recently discussed topic to canned example
// answers. Every entry is at least minSuggestionLen long.
var fallbacksByTopic = map[string][]string{
	TopicSkinType: {
		"My skin gets oily by midday",
		"My cheeks feel dry and tight",
		"It's a mix, oily T-zone but dry cheeks",
	},
	TopicConcerns: {
		"I get breakouts around my chin",
		"I'm noticing fine lines lately",
		"Redness is my biggest concern",
	},
	TopicRoutine: {
		"I just use a cleanser and moisturizer",
		"I have a full routine with serums",
		"I don't really have a routine yet",
	},
	TopicTiming: {
		"Mostly in the morning before work",
		"My skin changes a lot in winter",
		"I do my routine every evening",
	},
	TopicLifestyle: {
		"I spend a lot of time outdoors",
		"I've been stressed and sleeping badly",
		"I drink plenty of water daily",
	},
	TopicPreferences: {
		"I prefer fragrance-free products",
		"Lightweight gels work best for me",
		"I'd rather stick to a budget",
	},
}

var defaultFallbacks = []string{
	"Tell me more about my skin type",
	"I'd like product recommendations",
	"Let's talk about my daily routine",
}

// fallbackSuggestions picks suggestions from the context-derived table when
// the reply's own block is absent or degenerate. Never returns an empty list;
// every item clears minSuggestionLen.
func fallbackSuggestions(transcript []core.Message) []string {
	facts := ExtractFacts(transcript)
	if len(facts) == 0 {
		return defaultFallbacks
	}

	// Key on the most recently matched topic.
	last := facts[len(facts)-1]
	if items, ok := fallbacksByTopic[last.Topic]; ok {
		return items
	}
	return defaultFallbacks
}
