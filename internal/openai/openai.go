// Package openai implements the providers.Provider interface against the
// OpenAI chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sudhirvr/keyworder/internal/providers"
)

const defaultURL = "https://api.openai.com/v1/chat/completions"

// OpenAI is a provider for OpenAI chat models.
type OpenAI struct {
	url    string
	client *http.Client
}

// New returns a new OpenAI provider.
func New() *OpenAI {
	return &OpenAI{
		url:    defaultURL,
		client: &http.Client{Timeout: providers.Timeout},
	}
}

// NewWithURL returns a provider pointed at a custom endpoint. Used by tests.
func NewWithURL(url string) *OpenAI {
	p := New()
	p.url = url
	return p
}

// Complete sends the prompt to the chat completions endpoint and returns the
// first choice's message content.
func (o *OpenAI) Complete(ctx context.Context, config providers.Config) (string, error) {
	if config.APIKey == "" {
		return "", fmt.Errorf("openai: %w", providers.ErrMissingAPIKey)
	}

	requestBody, err := json.Marshal(map[string]interface{}{
		"model": config.Model,
		"messages": []map[string]string{
			{
				"role":    "system",
				"content": "You generate precise academic keywords.",
			},
			{
				"role":    "user",
				"content": config.Prompt,
			},
		},
		"temperature": providers.Temperature,
		"max_tokens":  providers.MaxOutputTokens,
		"top_p":       providers.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.url, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+config.APIKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", &providers.HTTPError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	// A 200 with no choices is treated as an empty completion, not an error.
	if len(response.Choices) == 0 {
		return "", nil
	}
	return response.Choices[0].Message.Content, nil
}
