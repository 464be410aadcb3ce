// Package backends maps provider names to their clients, default models, and
// environment credentials.
package backends

import (
	"fmt"
	"os"

	"github.com/sudhirvr/keyworder/internal/gemini"
	"github.com/sudhirvr/keyworder/internal/openai"
	"github.com/sudhirvr/keyworder/internal/providers"
)

// Select resolves a provider name to a client. An empty name falls back to
// the KEYWORDER_PROVIDER environment variable, then to gemini.
func Select(name string) (providers.Provider, string, error) {
	if name == "" {
		name = os.Getenv("KEYWORDER_PROVIDER")
		if name == "" {
			name = "gemini"
		}
	}

	switch name {
	case "openai":
		return openai.New(), name, nil
	case "gemini":
		return gemini.New(), name, nil
	default:
		return nil, name, fmt.Errorf("unsupported provider: %s", name)
	}
}

// DefaultModel returns the model to use for a provider when none is given.
func DefaultModel(provider string) string {
	switch provider {
	case "openai":
		model := os.Getenv("OPENAI_MODEL")
		if model == "" {
			return "gpt-4o-mini"
		}
		return model
	case "gemini":
		model := os.Getenv("GEMINI_MODEL")
		if model == "" {
			return "gemini-1.5-flash"
		}
		return model
	default:
		return ""
	}
}

// APIKey returns the configured credential for a provider, or "".
func APIKey(provider string) string {
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	default:
		return ""
	}
}
