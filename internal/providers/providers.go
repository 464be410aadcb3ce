// Package providers defines the LLM completion backend abstraction shared by
// the OpenAI and Gemini clients.
package providers

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Timeout bounds every provider round-trip.
const Timeout = 30 * time.Second

// Generation settings shared by both backends. Low temperature and bounded
// output keep the keyword lists terse and repeatable.
const (
	Temperature     = 0.2
	MaxOutputTokens = 220
	TopP            = 0.9
)

// ErrMissingAPIKey is returned before any network activity when no credential
// is configured for the selected provider.
var ErrMissingAPIKey = errors.New("no API key configured")

// HTTPError is a non-success response from a provider endpoint.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Message)
}

// Config represents the configuration for one completion request.
type Config struct {
	Model  string
	APIKey string
	Prompt string
}

// Provider defines the interface for an LLM completion backend. Complete
// sends one prompt and returns the first candidate's text. A success envelope
// with no candidate text yields an empty string, not an error; the caller
// decides what an empty completion means.
type Provider interface {
	Complete(ctx context.Context, config Config) (string, error)
}
