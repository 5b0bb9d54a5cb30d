// Package cache holds the reply cache backing the interview pipeline.
// Keys are normalized raw input text only, never session or transcript:
// two users asking the same literal question get the same cached reply.
package cache

import "strings"

// NormalizeKey lowers and trims input text so trivially different spellings
// of the same message hit the same entry.
func NormalizeKey(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
