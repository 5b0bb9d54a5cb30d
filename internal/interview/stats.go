package interview

import (
	"strings"

	"github.com/sandevgo/dermflow/internal/core"
)

const (
	detailedTurnWords = 20
	briefTurnWords    = 5
)

// transcriptStats are the aggregate numbers every heuristic in this package
// keys off. Computed only from user turns.
type transcriptStats struct {
	userTurns        int
	meanChars        float64
	meanWords        float64
	detailedFraction float64
	briefFraction    float64
	wordCounts       []int
}

func computeStats(transcript []core.Message) transcriptStats {
	users := core.UserMessages(transcript)
	st := transcriptStats{userTurns: len(users)}
	if len(users) == 0 {
		return st
	}

	var chars, words, detailed, brief int
	for _, m := range users {
		wc := len(strings.Fields(m.Content))
		chars += len(m.Content)
		words += wc
		st.wordCounts = append(st.wordCounts, wc)
		if wc > detailedTurnWords {
			detailed++
		}
		if wc < briefTurnWords {
			brief++
		}
	}

	n := float64(len(users))
	st.meanChars = float64(chars) / n
	st.meanWords = float64(words) / n
	st.detailedFraction = float64(detailed) / n
	st.briefFraction = float64(brief) / n
	return st
}

// leadingClause returns the first sentence of text, cut to maxLen runes.
func leadingClause(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			text = text[:i]
			break
		}
	}
	runes := []rune(text)
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}
	return strings.TrimSpace(string(runes))
}
