package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sandevgo/dermflow/internal/core"
)

type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) Save(ctx context.Context, profile *core.SkinProfile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	query := `INSERT INTO profiles (id, session_token, payload_json, created_at) VALUES (?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query, profile.ID, profile.SessionToken, string(payload), profile.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepo) Get(ctx context.Context, id string) (*core.SkinProfile, error) {
	var (
		payload   string
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT payload_json, created_at FROM profiles WHERE id = ?`, id).
		Scan(&payload, &createdAt)
	if err == sql.ErrNoRows {
		return nil, core.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}

	var profile core.SkinProfile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	profile.CreatedAt = time.Unix(0, createdAt)
	return &profile, nil
}
