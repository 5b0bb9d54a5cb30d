// Package httpapi exposes the interview over a single action-discriminated
// JSON endpoint.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sandevgo/dermflow/internal/core"
	"github.com/sandevgo/dermflow/internal/interview"
	"github.com/sandevgo/dermflow/pkg/log"
)

const maxBodySize = 1 << 20 // 1MB

// Interviewer is the slice of the orchestrator the transport needs.
type Interviewer interface {
	Start(ctx context.Context, ownerID string, sideContext json.RawMessage) (*interview.StartResult, error)
	Message(ctx context.Context, token, text string) (*interview.TurnResult, error)
	AttachSideContext(ctx context.Context, token string, side json.RawMessage) error
}

type Handler struct {
	interviewer Interviewer
	profiles    core.ProfileRepository
	enrich      core.EnvironmentProvider // nil disables enrichment
}

func NewHandler(interviewer Interviewer, profiles core.ProfileRepository, enrich core.EnvironmentProvider) *Handler {
	return &Handler{interviewer: interviewer, profiles: profiles, enrich: enrich}
}

// NewRouter mounts the handler with the standard middleware chain.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Heartbeat("/health"))

	r.Post("/v1/interview", h.ServeAction)
	return r
}

type actionRequest struct {
	Action       string         `json:"action"`
	OwnerID      string         `json:"ownerId,omitempty"`
	SessionToken string         `json:"sessionToken,omitempty"`
	Text         string         `json:"text,omitempty"`
	Geolocation  *core.GeoPoint `json:"geolocation,omitempty"`
	ProfileID    string         `json:"profileId,omitempty"`
}

type startResponse struct {
	SessionToken        string  `json:"sessionToken"`
	GreetingMessage     string  `json:"greetingMessage"`
	IsDone              bool    `json:"isDone"`
	EstimatedCompletion float64 `json:"estimatedCompletion"`
}

type messageResponse struct {
	Message             string            `json:"message"`
	Suggestions         []string          `json:"suggestions"`
	IsDone              bool              `json:"isDone"`
	Profile             *core.SkinProfile `json:"profile,omitempty"`
	ProfileID           string            `json:"profileId,omitempty"`
	EstimatedCompletion float64           `json:"estimatedCompletion"`
	CurrentPhase        int               `json:"currentPhase"`
}

type errorEnvelope struct {
	Error           string `json:"error"`
	ShouldRetry     bool   `json:"shouldRetry"`
	ShouldRestart   bool   `json:"shouldRestart"`
	TechnicalDetail string `json:"technicalDetail,omitempty"`
}

// ServeAction dispatches on the request's action field.
func (h *Handler) ServeAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeCallerError(w, "invalid JSON body", err)
		return
	}

	switch req.Action {
	case "start":
		h.handleStart(w, r, req)
	case "message":
		h.handleMessage(w, r, req)
	case "profile":
		h.handleProfile(w, r, req)
	default:
		writeCallerError(w, "unknown action", nil)
	}
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request, req actionRequest) {
	ctx := r.Context()

	side := h.lookupEnvironment(ctx, req.Geolocation)

	res, err := h.interviewer.Start(ctx, req.OwnerID, side)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, startResponse{
		SessionToken:        res.Token,
		GreetingMessage:     res.Greeting,
		IsDone:              res.Done,
		EstimatedCompletion: res.Completion,
	})
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request, req actionRequest) {
	ctx := r.Context()

	if req.SessionToken == "" {
		writeCallerError(w, "sessionToken is required", nil)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeCallerError(w, "text is required", nil)
		return
	}

	if side := h.lookupEnvironment(ctx, req.Geolocation); side != nil {
		if err := h.interviewer.AttachSideContext(ctx, req.SessionToken, side); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	res, err := h.interviewer.Message(ctx, req.SessionToken, req.Text)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message:             res.Message,
		Suggestions:         res.Suggestions,
		IsDone:              res.Done,
		Profile:             res.Profile,
		ProfileID:           res.ProfileID,
		EstimatedCompletion: res.Completion,
		CurrentPhase:        res.Phase,
	})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request, req actionRequest) {
	ctx := r.Context()

	if req.ProfileID == "" {
		writeCallerError(w, "profileId is required", nil)
		return
	}

	profile, err := h.profiles.Get(ctx, req.ProfileID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// lookupEnvironment fetches enrichment context for the given point. Lookup
// failures degrade to no context; the interview works without it.
func (h *Handler) lookupEnvironment(ctx context.Context, point *core.GeoPoint) json.RawMessage {
	if h.enrich == nil || point == nil {
		return nil
	}

	side, err := h.enrich.Lookup(ctx, *point)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).
			Float64("lat", point.Lat).
			Float64("lon", point.Lon).
			Msg("environment lookup failed, continuing without context")
		return nil
	}
	return side
}

// upstreamMessage gives each upstream failure class its own wording, so a
// caller can tell a busy model from a slow one without parsing the detail.
func upstreamMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrUpstreamRateLimited):
		return "I'm handling a lot of conversations right now. Please try again shortly."
	case errors.Is(err, core.ErrUpstreamTimeout):
		return "That took too long to process. Please try again."
	case errors.Is(err, core.ErrUpstreamBadRequest):
		return "I couldn't process that message. Please rephrase and send it again."
	default:
		return "I'm having trouble responding right now. Please try again in a moment."
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeCallerError(w http.ResponseWriter, msg string, err error) {
	env := errorEnvelope{Error: msg, ShouldRestart: false}
	if err != nil {
		env.TechnicalDetail = err.Error()
	}
	writeJSON(w, http.StatusBadRequest, env)
}

// writeError maps the error taxonomy onto status codes and the response
// envelope: 400 for caller errors, 503 for upstream failures, 500 otherwise.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := log.FromCtx(ctx)

	switch {
	case errors.Is(err, core.ErrSessionNotFound):
		writeJSON(w, http.StatusBadRequest, errorEnvelope{
			Error:           "This conversation could not be found. Please start over.",
			ShouldRestart:   true,
			TechnicalDetail: err.Error(),
		})
	case errors.Is(err, core.ErrSessionExpired):
		writeJSON(w, http.StatusBadRequest, errorEnvelope{
			Error:           "This conversation has expired. Please start a new one.",
			ShouldRestart:   true,
			TechnicalDetail: err.Error(),
		})
	case errors.Is(err, core.ErrProfileNotFound):
		writeJSON(w, http.StatusBadRequest, errorEnvelope{
			Error:           "No profile exists with that id.",
			TechnicalDetail: err.Error(),
		})
	case errors.Is(err, core.ErrUpstreamRateLimited),
		errors.Is(err, core.ErrUpstreamServerError),
		errors.Is(err, core.ErrUpstreamTimeout),
		errors.Is(err, core.ErrUpstreamBadRequest):
		logger.Warn().Err(err).Msg("upstream generation failure")
		writeJSON(w, http.StatusServiceUnavailable, errorEnvelope{
			Error:           upstreamMessage(err),
			ShouldRetry:     core.Retryable(err),
			TechnicalDetail: err.Error(),
		})
	default:
		logger.Error().Err(err).Msg("unhandled error")
		writeJSON(w, http.StatusInternalServerError, errorEnvelope{
			Error:           "Something went wrong on our side.",
			TechnicalDetail: err.Error(),
		})
	}
}
