// Package resolver maps free-text company names to ticker symbols through an
// OpenAI chat completion. The completion is prompted few-shot and the first
// uppercase run of four or more letters is taken as the symbol.
package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
)

const (
	defaultBaseURL = "https://api.openai.com/v1/chat/completions"
	defaultModel   = "gpt-3.5-turbo"
)

var symbolPattern = regexp.MustCompile(`[A-Z]{4,}`)

// Resolver turns company names into candidate ticker symbols.
type Resolver struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// New creates a resolver using the given OpenAI API key.
func New(apiKey string) *Resolver {
	return NewWithBase(apiKey, defaultBaseURL)
}

// NewWithBase creates a resolver against a custom endpoint, used in tests.
func NewWithBase(apiKey, baseURL string) *Resolver {
	return &Resolver{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   defaultModel,
		client:  &http.Client{},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Resolve returns the ticker symbol for a company name, or "" when the
// completion contains no symbol-shaped token. An empty result means no symbol
// is available; the caller must not start a collection with it.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	prompt := fmt.Sprintf(
		"Company:Tesla\nTicker:TSLA\n\nCompany:Apple\nTicker:AAPL\n\nCompany:%s\nTicker:", name)
	payload, err := json.Marshal(chatRequest{
		Model: r.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a helpful assistant."},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion request failed with status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return symbolPattern.FindString(parsed.Choices[0].Message.Content), nil
}
