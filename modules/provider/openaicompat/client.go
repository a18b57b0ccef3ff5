package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/attune-dev/attune/internal/provider"
)

// Wire shapes for the chat completions endpoint.

type oaiRequest struct {
	Model     string       `json:"model"`
	Messages  []oaiMessage `json:"messages"`
	MaxTokens int          `json:"max_tokens,omitempty"`
}

type oaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oaiResponse struct {
	Choices []oaiChoice `json:"choices"`
}

type oaiChoice struct {
	Message      oaiMessage `json:"message"`
	FinishReason string     `json:"finish_reason"`
}

// complete posts one chat completion and decodes the result. Non-200
// statuses come back wrapped in the provider sentinels so callers can
// branch with errors.Is.
func (g *Generator) complete(ctx context.Context, body oaiRequest) (oaiResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return oaiResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return oaiResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.config.APIKey)
	for name, value := range g.config.Headers {
		req.Header.Set(name, value)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		// A canceled or expired caller context is not a backend fault.
		if ctx.Err() != nil {
			return oaiResponse{}, ctx.Err()
		}
		return oaiResponse{}, fmt.Errorf("%w: %w", provider.ErrProviderDown, err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode != http.StatusOK {
		return oaiResponse{}, statusError(resp)
	}

	var decoded oaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return oaiResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return decoded, nil
}

// errBodyLimit caps how much of an error body is read back for the message.
const errBodyLimit = 4096

// statusError maps a non-200 response onto the sentinel error set.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", provider.ErrRateLimit, body)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: HTTP %d: %s", provider.ErrProviderDown, resp.StatusCode, body)
	case resp.StatusCode == http.StatusBadRequest && mentionsContextLength(body):
		return fmt.Errorf("%w: %s", provider.ErrContextLength, body)
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("bad request: %s", body)
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}
}

// Phrases different OpenAI-compatible servers use for an oversized prompt.
var contextLengthMarkers = []string{
	"context_length_exceeded",
	"context length",
	"maximum context",
	"token limit",
}

func mentionsContextLength(body []byte) bool {
	lower := strings.ToLower(string(body))
	for _, marker := range contextLengthMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
