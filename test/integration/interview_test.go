//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sandevgo/dermflow/internal/cache"
	"github.com/sandevgo/dermflow/internal/config"
	"github.com/sandevgo/dermflow/internal/interview"
	"github.com/sandevgo/dermflow/internal/providers/llm"
	"github.com/sandevgo/dermflow/internal/storage/sqlite"
	"github.com/sandevgo/dermflow/internal/transport/httpapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileJSON = `{
	"skin_type": "oily",
	"concerns": ["acne"],
	"sensitivity_level": "low",
	"environment": {"climate": "temperate", "sun_exposure": "moderate", "lifestyle": []},
	"routine": {"morning_steps": ["cleanser"], "evening_steps": [], "products": [], "consistency": "daily"},
	"preferences": {"textures": [], "avoided_ingredients": [], "budget_level": "drugstore"},
	"summary": "Oily skin with breakouts and a minimal routine.",
	"recommendations": ["Add sunscreen every morning"],
	"confidence": {"skin_type": 0.9, "concerns": 0.8, "routine": 0.5, "preferences": 0.3, "overall": 0.6}
}`

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.NewDB(ctx, filepath.Join(t.TempDir(), "dermflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.NewInterviewConfig(ctx)
	sessions := sqlite.NewSessionRepo(db, cfg.SessionTTL)
	profiles := sqlite.NewProfileRepo(db)

	gen := llm.NewMock(
		"Noted! What are your main concerns?\n[SUGGESTIONS]\n- Breakouts around my chin\n- Fine lines and dullness\n[/SUGGESTIONS]",
		"And what does your routine look like?\n[SUGGESTIONS]\n- Just cleanser and moisturizer\n- A full multi-step routine\n[/SUGGESTIONS]",
		"Thanks, I have everything I need! [PROFILE_READY]",
		profileJSON,
	)

	orch := interview.NewOrchestrator(sessions, profiles, gen, cache.NewMemory(cfg.CacheTTL, cfg.CacheSweepSize), cfg)
	ts := httptest.NewServer(httpapi.NewRouter(httpapi.NewHandler(orch, profiles, nil)))
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, ts *httptest.Server, payload map[string]any) (int, map[string]any) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/v1/interview", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestInterviewEndToEnd(t *testing.T) {
	ts := newTestAPI(t)

	status, start := call(t, ts, map[string]any{"action": "start", "ownerId": "user-1"})
	require.Equal(t, http.StatusOK, status)
	token := start["sessionToken"].(string)
	require.NotEmpty(t, token)
	assert.NotEmpty(t, start["greetingMessage"])

	turns := []string{
		"My skin is really oily and I get breakouts",
		"Mostly acne around my chin and forehead",
		"I just wash my face with a cleanser in the morning",
	}

	var last map[string]any
	for _, text := range turns {
		status, last = call(t, ts, map[string]any{"action": "message", "sessionToken": token, "text": text})
		require.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, last["message"])
		assert.NotEmpty(t, last["suggestions"])
	}

	require.Equal(t, true, last["isDone"])
	require.Contains(t, last, "profile")
	assert.Equal(t, 1.0, last["estimatedCompletion"])

	profileID := last["profileId"].(string)
	require.NotEmpty(t, profileID)

	// Profile readback survives independently of the session.
	status, profile := call(t, ts, map[string]any{"action": "profile", "profileId": profileID})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "oily", profile["skin_type"])
	assert.Equal(t, token, profile["session_token"])

	// The completed session is terminal.
	status, errBody := call(t, ts, map[string]any{"action": "message", "sessionToken": token, "text": "one more"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, true, errBody["shouldRestart"])
}
