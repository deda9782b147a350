// Package llm wraps the chat-completion service the classifier talks to.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrNoAPIKey means no credential is configured; callers should use
	// their offline path instead of calling the provider.
	ErrNoAPIKey = errors.New("llm: api key not configured")
	// ErrInvalidAPIKey is an authentication rejection. It is a
	// configuration problem, not service unavailability, and is fatal to
	// the operation that hit it.
	ErrInvalidAPIKey = errors.New("llm: invalid api key")
	// ErrRateLimited is a throttling rejection; callers may back off and
	// retry.
	ErrRateLimited = errors.New("llm: rate limited")
)

// Provider submits one request and returns the raw model output text.
type Provider interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
