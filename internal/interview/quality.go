package interview

import (
	"math"
	"strings"

	"github.com/sandevgo/dermflow/internal/core"
)

// Quality scoring weights. Turn count and detail dominate; diversity and
// consistency refine.
const (
	weightTurnCount   = 0.35
	weightMeanDetail  = 0.30
	weightDiversity   = 0.25
	weightConsistency = 0.10

	sufficientTurns = 12.0
	sufficientWords = 20.0
)

// ConversationQuality scores how much signal the transcript carries, in
// [0,1]. Pure and cheap; recompute on every read rather than caching.
func ConversationQuality(transcript []core.Message) float64 {
	st := computeStats(transcript)
	if st.userTurns == 0 {
		return 0
	}

	turnScore := clamp01(float64(st.userTurns) / sufficientTurns)
	detailScore := clamp01(st.meanWords / sufficientWords)
	diversityScore := topicDiversity(transcript)
	consistencyScore := lengthConsistency(st)

	return weightTurnCount*turnScore +
		weightMeanDetail*detailScore +
		weightDiversity*diversityScore +
		weightConsistency*consistencyScore
}

// ProfileConfidence blends per-topic keyword coverage with overall
// conversation quality at 0.6/0.4.
func ProfileConfidence(transcript []core.Message) core.ConfidenceScores {
	quality := ConversationQuality(transcript)

	blend := func(topic string) float64 {
		return 0.6*topicCoverage(transcript, topic) + 0.4*quality
	}

	scores := core.ConfidenceScores{
		SkinType:    blend(TopicSkinType),
		Concerns:    blend(TopicConcerns),
		Routine:     blend(TopicRoutine),
		Preferences: blend(TopicPreferences),
	}
	scores.Overall = (scores.SkinType + scores.Concerns + scores.Routine + scores.Preferences) / 4
	return scores
}

// topicCoverage saturates at three distinct keyword hits for a topic.
func topicCoverage(transcript []core.Message, topic string) float64 {
	var keywords []string
	for _, rule := range topicRules {
		if rule.Topic == topic {
			keywords = rule.Keywords
			break
		}
	}

	hits := 0
	for _, m := range core.UserMessages(transcript) {
		hits += countHits(strings.ToLower(m.Content), keywords)
	}
	return clamp01(float64(hits) / 3.0)
}

func topicDiversity(transcript []core.Message) float64 {
	matched := make(map[string]struct{})
	for _, f := range ExtractFacts(transcript) {
		matched[f.Topic] = struct{}{}
	}
	return float64(len(matched)) / float64(len(topicRules))
}

func lengthConsistency(st transcriptStats) float64 {
	if st.userTurns < 2 || st.meanWords == 0 {
		return 0
	}
	var variance float64
	for _, wc := range st.wordCounts {
		d := float64(wc) - st.meanWords
		variance += d * d
	}
	stddev := math.Sqrt(variance / float64(st.userTurns))
	return 1 - clamp01(stddev/st.meanWords)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
