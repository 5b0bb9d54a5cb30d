package interview

import (
	"strings"
	"time"

	"github.com/sandevgo/dermflow/internal/core"
)

const summaryClauseLen = 50

// Compress bounds the prompt sent upstream once a conversation grows long.
// It keeps the first message and the most recent keep-1, collapsing the
// middle into one synthetic assistant message that lists the leading clause
// of each dropped user turn. The stored transcript is untouched; heuristics
// always run on the original.
func Compress(messages []core.Message, keep int) []core.Message {
	if len(messages) <= keep || keep < 2 {
		return messages
	}

	dropped := messages[1 : len(messages)-(keep-1)]

	var clauses []string
	for _, m := range dropped {
		if m.Role != core.RoleUser {
			continue
		}
		if clause := leadingClause(m.Content, summaryClauseLen); clause != "" {
			clauses = append(clauses, clause)
		}
	}

	summary := core.Message{
		Role:      core.RoleAssistant,
		Content:   "Earlier in our conversation you mentioned: " + strings.Join(clauses, "; "),
		CreatedAt: time.Now(),
	}

	out := make([]core.Message, 0, keep+1)
	out = append(out, messages[0])
	out = append(out, summary)
	out = append(out, messages[len(messages)-(keep-1):]...)
	return out
}
