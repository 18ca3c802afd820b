package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPAdapter is an illustrative Provider that POSTs the rendered prompt
// as JSON to a configured endpoint and expects `{"output": ...}` back. It
// exists to exercise the opaque Provider contract end-to-end over a real
// transport; it is not a reproduction of any vendor's actual API.
type HTTPAdapter struct {
	id     string
	url    string
	client *http.Client
}

// NewHTTPAdapter creates an HTTPAdapter posting to url with the given
// client (nil uses a new http.Client with a 30-second timeout).
func NewHTTPAdapter(id, url string, client *http.Client) *HTTPAdapter {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPAdapter{id: id, url: url, client: client}
}

func (a *HTTPAdapter) ID() string { return a.id }

type httpAdapterRequest struct {
	Prompt string         `json:"prompt"`
	Vars   map[string]any `json:"vars,omitempty"`
}

type httpAdapterResponse struct {
	Output     any            `json:"output"`
	Error      string         `json:"error,omitempty"`
	TokenUsage TokenUsage     `json:"tokenUsage,omitempty"`
	Cost       float64        `json:"cost,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func (a *HTTPAdapter) Call(ctx context.Context, renderedPrompt string, callCtx CallContext) (*Response, error) {
	start := time.Now()

	body, err := json.Marshal(httpAdapterRequest{Prompt: renderedPrompt, Vars: callCtx.Vars})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		// Network-level failures are transient by convention.
		return &Response{Retryable: true}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Response{Error: fmt.Sprintf("reading response: %v", err), Retryable: true}, nil
	}

	if resp.StatusCode >= 500 {
		return &Response{Error: fmt.Sprintf("provider error: status %d", resp.StatusCode), Retryable: true}, nil
	}
	if resp.StatusCode >= 400 {
		return &Response{Error: fmt.Sprintf("provider error: status %d", resp.StatusCode), Retryable: false}, nil
	}

	var parsed httpAdapterResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return &Response{Error: fmt.Sprintf("invalid JSON response: %v", err)}, nil
	}

	return &Response{
		Output:     parsed.Output,
		Error:      parsed.Error,
		TokenUsage: parsed.TokenUsage,
		Cost:       parsed.Cost,
		Metadata:   parsed.Metadata,
		LatencyMs:  float64(time.Since(start).Milliseconds()),
	}, nil
}
