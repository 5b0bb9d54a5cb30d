package interview

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sandevgo/dermflow/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func longTranscript(n int) []core.Message {
	msgs := make([]core.Message, 0, n)
	for i := range n {
		if i%2 == 0 {
			msgs = append(msgs, assistantMsg(fmt.Sprintf("Question %d?", i)))
		} else {
			msgs = append(msgs, userMsg(fmt.Sprintf("Answer number %d about my skin.", i)))
		}
	}
	return msgs
}

func TestCompress_NoopBelowThreshold(t *testing.T) {
	msgs := longTranscript(10)

	got := Compress(msgs, 10)
	assert.Equal(t, msgs, got)

	got = Compress(msgs, 15)
	assert.Equal(t, msgs, got)
}

func TestCompress_NoopForDegenerateKeep(t *testing.T) {
	msgs := longTranscript(6)
	assert.Equal(t, msgs, Compress(msgs, 1))
	assert.Equal(t, msgs, Compress(msgs, 0))
}

func TestCompress_KeepsFirstAndRecent(t *testing.T) {
	msgs := longTranscript(14)

	got := Compress(msgs, 10)
	require.Len(t, got, 11)

	assert.Equal(t, msgs[0], got[0])
	assert.Equal(t, core.RoleAssistant, got[1].Role)
	assert.True(t, strings.HasPrefix(got[1].Content, "Earlier in our conversation you mentioned:"))
	assert.Equal(t, msgs[5:], got[2:])
}

func TestCompress_SummaryListsDroppedUserTurns(t *testing.T) {
	msgs := longTranscript(14)

	got := Compress(msgs, 10)
	summary := got[1].Content

	// Dropped window is msgs[1:5]; its user turns are indexes 1 and 3.
	assert.Contains(t, summary, "Answer number 1 about my skin")
	assert.Contains(t, summary, "Answer number 3 about my skin")
	assert.NotContains(t, summary, "Answer number 5")
	assert.NotContains(t, summary, "Question")
}

func TestCompress_SummaryClausesAreTruncated(t *testing.T) {
	long := userMsg(strings.Repeat("oily skin everywhere ", 10))
	msgs := []core.Message{assistantMsg("Hi?"), long, long, long, long, long}

	got := Compress(msgs, 3)
	require.Len(t, got, 4)
	for _, clause := range strings.Split(strings.TrimPrefix(got[1].Content, "Earlier in our conversation you mentioned: "), "; ") {
		assert.LessOrEqual(t, len(clause), 50)
	}
}

func TestCompress_DoesNotMutateInput(t *testing.T) {
	msgs := longTranscript(14)
	before := make([]core.Message, len(msgs))
	copy(before, msgs)

	Compress(msgs, 10)
	assert.Equal(t, before, msgs)
}
