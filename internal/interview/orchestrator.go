package interview

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/sandevgo/dermflow/internal/cache"
	"github.com/sandevgo/dermflow/internal/config"
	"github.com/sandevgo/dermflow/internal/core"
	"github.com/sandevgo/dermflow/pkg/log"
)

// completionCap holds estimated completion below certainty until a profile
// actually exists.
const completionCap = 0.95

const profileReadyReply = "Thank you — I have everything I need to put your skin profile together."

// Orchestrator drives the interview: one Start per session, then one
// Message per turn, each processed to completion before returning.
type Orchestrator struct {
	sessions core.SessionRepository
	profiles core.ProfileRepository
	gen      core.Generator
	replies  core.ReplyCache
	synth    *Synthesizer
	cfg      *config.InterviewConfig
	now      func() time.Time
}

func NewOrchestrator(
	sessions core.SessionRepository,
	profiles core.ProfileRepository,
	gen core.Generator,
	replies core.ReplyCache,
	cfg *config.InterviewConfig,
) *Orchestrator {
	return &Orchestrator{
		sessions: sessions,
		profiles: profiles,
		gen:      gen,
		replies:  replies,
		synth:    NewSynthesizer(gen, cfg),
		cfg:      cfg,
		now:      time.Now,
	}
}

type StartResult struct {
	Token      string
	Greeting   string
	Phase      int
	Done       bool
	Completion float64
}

type TurnResult struct {
	Message     string
	Suggestions []string
	Done        bool
	Profile     *core.SkinProfile
	ProfileID   string
	Completion  float64
	Phase       int
}

// Start creates a session and seeds the transcript with the fixed greeting.
func (o *Orchestrator) Start(ctx context.Context, ownerID string, sideContext json.RawMessage) (*StartResult, error) {
	s, err := o.sessions.Create(ctx, ownerID, sideContext)
	if err != nil {
		return nil, err
	}

	greeting := core.Message{Role: core.RoleAssistant, Content: Greeting, CreatedAt: o.now()}
	if _, err := o.sessions.Update(ctx, s.Token, core.SessionUpdate{Messages: []core.Message{greeting}}); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Info().Str("token", s.Token).Msg("interview session started")

	return &StartResult{
		Token:    s.Token,
		Greeting: Greeting,
	}, nil
}

// AttachSideContext replaces the session's enrichment blob. Called before a
// turn so a fresh environment lookup reaches that turn's prompt.
func (o *Orchestrator) AttachSideContext(ctx context.Context, token string, side json.RawMessage) error {
	_, err := o.sessions.Update(ctx, token, core.SessionUpdate{SideContext: side})
	return err
}

// Message processes one turn: session load, cache check, compression,
// memory and guidance extraction, the generation call, reply parsing, state
// advance, and (on the completion sentinel) the one-shot profile synthesis.
func (o *Orchestrator) Message(ctx context.Context, token, text string) (*TurnResult, error) {
	logger := log.FromCtx(ctx)

	s, err := o.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	transcript := append(slices.Clone(s.Messages), core.Message{
		Role:      core.RoleUser,
		Content:   text,
		CreatedAt: o.now(),
	})

	var (
		replyText   string
		suggestions []string
		done        bool
	)

	cacheKey := cache.NormalizeKey(text)
	hit := false
	if o.cfg.CacheEnabled {
		replyText, hit = o.replies.Get(ctx, cacheKey)
	}

	if hit {
		// Cached replies are already cleaned; the turn costs nothing upstream.
		logger.Debug().Str("token", token).Msg("reply served from cache")
		suggestions = fallbackSuggestions(transcript)
	} else {
		raw, genErr := o.generateTurn(ctx, s, transcript)
		if genErr != nil {
			return nil, genErr
		}

		done = containsSentinel(raw)
		var parsed bool
		suggestions, parsed = parseSuggestions(raw)
		if !parsed {
			suggestions = fallbackSuggestions(transcript)
		}
		replyText = stripReply(raw)
		if replyText == "" {
			replyText = profileReadyReply
		}

		if o.cfg.CacheEnabled {
			o.replies.Put(ctx, cacheKey, replyText)
		}
	}

	transcript = append(transcript, core.Message{
		Role:      core.RoleAssistant,
		Content:   replyText,
		CreatedAt: o.now(),
	})

	phase := o.phaseFor(len(transcript))
	completion := o.completionFor(len(transcript))

	if _, err := o.sessions.Update(ctx, token, core.SessionUpdate{
		Messages:        transcript,
		Phase:           &phase,
		Completion:      &completion,
		LastSuggestions: suggestions,
	}); err != nil {
		return nil, err
	}

	res := &TurnResult{
		Message:     replyText,
		Suggestions: suggestions,
		Done:        done,
		Completion:  completion,
		Phase:       phase,
	}

	if done {
		o.finishSession(ctx, token, transcript, s.SideContext, res)
	}

	return res, nil
}

// generateTurn builds the prompt and issues the single external call for
// this turn. Heuristics always see the original transcript; only the
// message list sent upstream is compressed.
func (o *Orchestrator) generateTurn(ctx context.Context, s *core.Session, transcript []core.Message) (string, error) {
	prompt := transcript
	if len(prompt) > o.cfg.CompressAfter {
		prompt = Compress(prompt, o.cfg.CompressionKeep)
	}

	facts := ExtractFacts(transcript)
	guidance := AssessGuidance(transcript)
	tone := ConversationTone(transcript)
	dynamic := BuildDynamicContext(facts, guidance, tone, s.SideContext)

	log.FromCtx(ctx).Debug().
		Str("token", s.Token).
		Int("facts", len(facts)).
		Str("engagement", guidance.EngagementLevel).
		Bool("compressed", len(prompt) != len(transcript)).
		Int("estimated_prompt_tokens", EstimateTokens([]string{systemInstructions, suggestionFormatBlock, dynamic}, prompt)).
		Msg("issuing generation call")

	result, err := o.gen.Generate(ctx, core.GenerateRequest{
		System:         systemInstructions,
		StaticContext:  suggestionFormatBlock,
		DynamicContext: dynamic,
		Messages:       prompt,
		MaxTokens:      o.cfg.MaxTokens,
		Temperature:    o.cfg.Temperature,
	})
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// finishSession runs profile synthesis and closes the session. Synthesis
// failure never fails the turn: the caller still gets the reply and
// Done=true, just no profile.
func (o *Orchestrator) finishSession(ctx context.Context, token string, transcript []core.Message, sideContext json.RawMessage, res *TurnResult) {
	logger := log.FromCtx(ctx)

	profile, err := o.synth.Synthesize(ctx, token, transcript, sideContext)
	if err != nil {
		logger.Error().Err(err).Str("token", token).Msg("profile synthesis failed, returning turn without profile")
	} else if saveErr := o.profiles.Save(ctx, profile); saveErr != nil {
		logger.Error().Err(saveErr).Str("token", token).Msg("profile persistence failed")
	} else {
		full := 1.0
		if _, err := o.sessions.Update(ctx, token, core.SessionUpdate{
			ProfileID:  &profile.ID,
			Completion: &full,
		}); err != nil {
			logger.Error().Err(err).Str("token", token).Msg("failed to attach profile to session")
		}
		res.Profile = profile
		res.ProfileID = profile.ID
		res.Completion = 1.0
	}

	if err := o.sessions.Complete(ctx, token); err != nil {
		logger.Error().Err(err).Str("token", token).Msg("failed to complete session")
	} else {
		logger.Info().Str("token", token).Bool("has_profile", res.Profile != nil).Msg("interview completed")
	}
}

// phaseFor advances by message count and pins at the terminal phase.
func (o *Orchestrator) phaseFor(messageCount int) int {
	phase := messageCount / o.cfg.MessagesPerPhase
	if phase >= o.cfg.TotalPhases {
		phase = o.cfg.TotalPhases - 1
	}
	return phase
}

// completionFor is monotonic in message count and capped until a profile
// exists; finishSession raises it to 1.0.
func (o *Orchestrator) completionFor(messageCount int) float64 {
	expected := float64(o.cfg.TotalPhases * o.cfg.MessagesPerPhase)
	c := float64(messageCount) / expected
	if c > completionCap {
		return completionCap
	}
	return c
}
