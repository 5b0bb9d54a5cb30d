package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/dermflow/internal/core"
	"github.com/sandevgo/dermflow/pkg/log"
)

// SessionRepo is the durable session store. Expiry is a sliding window: every
// successful mutation pushes expires_at out by ttl from now, so it only ever
// moves forward.
type SessionRepo struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func NewSessionRepo(db *sql.DB, ttl time.Duration) *SessionRepo {
	return &SessionRepo{db: db, ttl: ttl, now: time.Now}
}

func (r *SessionRepo) Create(ctx context.Context, ownerID string, sideContext json.RawMessage) (*core.Session, error) {
	now := r.now()
	s := &core.Session{
		Token:          uuid.NewString(),
		OwnerID:        ownerID,
		Status:         core.StatusActive,
		Messages:       []core.Message{},
		SideContext:    sideContext,
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(r.ttl),
	}

	messagesJSON, err := json.Marshal(s.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal messages: %w", err)
	}

	query := `INSERT INTO sessions
		(token, owner_id, status, messages_json, phase, side_context, suggestions_json, completion, profile_id, created_at, last_activity_at, expires_at)
		VALUES (?, ?, ?, ?, 0, ?, '[]', 0, '', ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		s.Token, s.OwnerID, s.Status, string(messagesJSON), nullableBlob(s.SideContext),
		now.UnixNano(), now.UnixNano(), s.ExpiresAt.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}

	return s, nil
}

// Get loads an active session by token. An active session past its expiry is
// flipped to abandoned in the same call, so callers never observe an
// expired-but-active session; the caller gets ErrSessionExpired. Terminal
// sessions are not addressable through Get.
func (r *SessionRepo) Get(ctx context.Context, token string) (*core.Session, error) {
	s, err := r.scanSession(ctx, token)
	if err != nil {
		return nil, err
	}

	switch s.Status {
	case core.StatusAbandoned:
		return nil, core.ErrSessionExpired
	case core.StatusCompleted:
		return nil, core.ErrSessionNotFound
	}

	if !s.ExpiresAt.After(r.now()) {
		res, err := r.db.ExecContext(ctx,
			`UPDATE sessions SET status = ? WHERE token = ? AND status = ?`,
			core.StatusAbandoned, token, core.StatusActive)
		if err != nil {
			return nil, fmt.Errorf("failed to abandon expired session: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			log.FromCtx(ctx).Info().Str("token", token).Msg("expired session abandoned")
		}
		return nil, core.ErrSessionExpired
	}

	return s, nil
}

// Update replaces exactly the fields the caller supplied (last-write-wins,
// whole values, no deltas) and extends expiry. Only active, unexpired
// sessions are mutable; an expired one is abandoned and reported as such.
func (r *SessionRepo) Update(ctx context.Context, token string, upd core.SessionUpdate) (*core.Session, error) {
	now := r.now()
	query := `UPDATE sessions SET last_activity_at = ?, expires_at = ?`
	args := []any{now.UnixNano(), now.Add(r.ttl).UnixNano()}

	if upd.Messages != nil {
		messagesJSON, err := json.Marshal(upd.Messages)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal messages: %w", err)
		}
		query += `, messages_json = ?`
		args = append(args, string(messagesJSON))
	}
	if upd.Phase != nil {
		query += `, phase = ?`
		args = append(args, *upd.Phase)
	}
	if upd.Completion != nil {
		query += `, completion = ?`
		args = append(args, *upd.Completion)
	}
	if upd.LastSuggestions != nil {
		suggestionsJSON, err := json.Marshal(upd.LastSuggestions)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal suggestions: %w", err)
		}
		query += `, suggestions_json = ?`
		args = append(args, string(suggestionsJSON))
	}
	if upd.SideContext != nil {
		query += `, side_context = ?`
		args = append(args, string(upd.SideContext))
	}
	if upd.ProfileID != nil {
		query += `, profile_id = ?`
		args = append(args, *upd.ProfileID)
	}

	query += ` WHERE token = ? AND status = ? AND expires_at > ?`
	args = append(args, token, core.StatusActive, now.UnixNano())

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish missing from expired/terminal. Get flips an
		// expired-active session to abandoned on the way.
		if _, err := r.Get(ctx, token); err != nil {
			return nil, err
		}
		return nil, core.ErrSessionNotFound
	}

	return r.scanSession(ctx, token)
}

func (r *SessionRepo) Complete(ctx context.Context, token string) error {
	return r.transition(ctx, token, core.StatusCompleted)
}

func (r *SessionRepo) Abandon(ctx context.Context, token string) error {
	err := r.transition(ctx, token, core.StatusAbandoned)
	if err == core.ErrSessionNotFound || err == core.ErrSessionExpired {
		// Abandoning a gone, expired, or already-terminal session is not an
		// error; the expired case was flipped to abandoned underneath us.
		return nil
	}
	return err
}

func (r *SessionRepo) transition(ctx context.Context, token, status string) error {
	now := r.now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET status = ?, last_activity_at = ? WHERE token = ? AND status = ? AND expires_at > ?`,
		status, now.UnixNano(), token, core.StatusActive, now.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to transition session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.Get(ctx, token); err != nil {
			return err
		}
		return core.ErrSessionNotFound
	}
	return nil
}

// SweepExpired abandons every active session whose expiry has passed.
// Returns the number of sessions swept.
func (r *SessionRepo) SweepExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET status = ? WHERE status = ? AND expires_at <= ?`,
		core.StatusAbandoned, core.StatusActive, r.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *SessionRepo) scanSession(ctx context.Context, token string) (*core.Session, error) {
	query := `SELECT token, owner_id, status, messages_json, phase, side_context, suggestions_json, completion, profile_id, created_at, last_activity_at, expires_at
		FROM sessions WHERE token = ?`

	var (
		s                                core.Session
		messagesJSON, suggestionsJSON    string
		sideContext                      sql.NullString
		createdAt, activityAt, expiresAt int64
	)
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&s.Token, &s.OwnerID, &s.Status, &messagesJSON, &s.Phase, &sideContext,
		&suggestionsJSON, &s.Completion, &s.ProfileID, &createdAt, &activityAt, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, core.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	if err := json.Unmarshal([]byte(messagesJSON), &s.Messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}
	if err := json.Unmarshal([]byte(suggestionsJSON), &s.LastSuggestions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal suggestions: %w", err)
	}
	if sideContext.Valid && sideContext.String != "" {
		s.SideContext = json.RawMessage(sideContext.String)
	}

	s.CreatedAt = time.Unix(0, createdAt)
	s.LastActivityAt = time.Unix(0, activityAt)
	s.ExpiresAt = time.Unix(0, expiresAt)
	return &s, nil
}

func nullableBlob(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
