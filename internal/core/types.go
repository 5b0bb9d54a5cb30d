package core

import (
	"encoding/json"
	"time"
)

const (
	ServiceName      = "dermflow"
	ServiceUserAgent = "Dermflow-Interview/0.1"
	ServiceVersion   = "0.1.0"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Session statuses. A session moves active -> completed or active -> abandoned
// exactly once and is immutable afterwards.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusAbandoned = "abandoned"
)

type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// GeoPoint is the caller-supplied location used only to fetch enrichment
// side-context.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Session is one end-to-end consultation, identified by an opaque token.
// SideContext is an opaque blob (environment enrichment etc.) passed through
// to the generation call without interpretation.
type Session struct {
	Token           string          `json:"token"`
	OwnerID         string          `json:"owner_id,omitempty"`
	Status          string          `json:"status"`
	Messages        []Message       `json:"messages"`
	Phase           int             `json:"phase"`
	SideContext     json.RawMessage `json:"side_context,omitempty"`
	LastSuggestions []string        `json:"last_suggestions,omitempty"`
	Completion      float64         `json:"completion"`
	ProfileID       string          `json:"profile_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	LastActivityAt  time.Time       `json:"last_activity_at"`
	ExpiresAt       time.Time       `json:"expires_at"`
}

// UserMessages returns the user-authored turns in transcript order.
func UserMessages(transcript []Message) []Message {
	var out []Message
	for _, m := range transcript {
		if m.Role == RoleUser {
			out = append(out, m)
		}
	}
	return out
}
