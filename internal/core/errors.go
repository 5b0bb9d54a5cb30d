package core

import "errors"

// Session lifecycle errors. Expired is distinct from NotFound so the caller
// can be told to restart rather than retry.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrProfileNotFound = errors.New("profile not found")
)

// Upstream generation errors. Each maps to exactly one user-facing message at
// the orchestration boundary.
var (
	ErrUpstreamRateLimited = errors.New("upstream rate limited")
	ErrUpstreamServerError = errors.New("upstream server error")
	ErrUpstreamTimeout     = errors.New("upstream timeout")
	ErrUpstreamBadRequest  = errors.New("upstream rejected request")
)

// Profile synthesis errors. Synthesis failures degrade the turn response
// instead of failing it.
var (
	ErrProfileSynthesisFailed  = errors.New("profile synthesis failed")
	ErrMalformedProfilePayload = errors.New("malformed profile payload")
)

// Retryable reports whether the error names a transient upstream condition.
// A bad request is a defect in the prompt we built, not something a retry
// can fix.
func Retryable(err error) bool {
	return errors.Is(err, ErrUpstreamRateLimited) ||
		errors.Is(err, ErrUpstreamServerError) ||
		errors.Is(err, ErrUpstreamTimeout)
}
