package core

import (
	"context"
	"encoding/json"
)

// SessionUpdate carries the fields a caller wants to replace. Nil fields are
// left untouched; supplied fields are written whole (last-write-wins, no
// merging). Messages must always be the full list to persist, never a delta.
type SessionUpdate struct {
	Messages        []Message
	Phase           *int
	Completion      *float64
	LastSuggestions []string
	SideContext     json.RawMessage
	ProfileID       *string
}

// SessionRepository is the durable session store. Get must check expiry and
// atomically abandon an expired session, reporting ErrSessionExpired, so a
// caller never observes an expired-but-active session. Every successful
// mutation extends expiry by the store's sliding window.
type SessionRepository interface {
	Create(ctx context.Context, ownerID string, sideContext json.RawMessage) (*Session, error)
	Get(ctx context.Context, token string) (*Session, error)
	Update(ctx context.Context, token string, upd SessionUpdate) (*Session, error)
	Complete(ctx context.Context, token string) error
	Abandon(ctx context.Context, token string) error
}

// ProfileRepository persists synthesized profiles.
type ProfileRepository interface {
	Save(ctx context.Context, profile *SkinProfile) error
	Get(ctx context.Context, id string) (*SkinProfile, error)
}
