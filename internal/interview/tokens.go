package interview

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/dermflow/internal/core"
)

var (
	tk     *tiktoken.Tiktoken
	tkErr  error
	tkOnce sync.Once
)

// EstimateTokens counts prompt tokens with a cl100k encoding, falling back to
// a chars/4 estimate if the encoding is unavailable (it downloads on first
// use). Used for cost logging only, never for correctness.
func EstimateTokens(blocks []string, messages []core.Message) int {
	tkOnce.Do(func() {
		tk, tkErr = tiktoken.GetEncoding("cl100k_base")
	})

	total := 0
	count := func(s string) {
		if tkErr != nil || tk == nil {
			total += len(s) / 4
			return
		}
		total += len(tk.Encode(s, nil, nil))
	}

	for _, b := range blocks {
		count(b)
	}
	for _, m := range messages {
		count(m.Content)
	}
	return total
}
