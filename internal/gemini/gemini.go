// Package gemini implements the providers.Provider interface against Google
// Gemini via the generative-ai SDK.
package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/sudhirvr/keyworder/internal/providers"
	"google.golang.org/api/option"
)

// Gemini is a provider for Google Gemini.
type Gemini struct{}

// New returns a new Gemini provider.
func New() *Gemini {
	return &Gemini{}
}

// Complete sends the prompt to Gemini and returns the first candidate's text.
func (g *Gemini) Complete(ctx context.Context, config providers.Config) (string, error) {
	if config.APIKey == "" {
		return "", fmt.Errorf("gemini: %w", providers.ErrMissingAPIKey)
	}

	ctx, cancel := context.WithTimeout(ctx, providers.Timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(config.Model)
	model.SetTemperature(float32(providers.Temperature))
	model.SetTopP(float32(providers.TopP))
	model.SetMaxOutputTokens(providers.MaxOutputTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(config.Prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	// A response without a text candidate is an empty completion, not an
	// error; the caller reports it as "no keywords returned".
	if len(resp.Candidates) == 0 {
		return "", nil
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", nil
	}
	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}
	return "", nil
}
