package resolvers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/evalforge/evalforge/pkg/render"
)

// HTTPDo abstracts the transport a remote resolver uses, matching the
// webhook assertion's testability seam (§4.2) so fakes don't need a real
// listening server.
type HTTPDo func(ctx context.Context, req *http.Request) (*http.Response, error)

// DefaultHTTPDo issues the request with http.DefaultClient.
func DefaultHTTPDo(ctx context.Context, req *http.Request) (*http.Response, error) {
	return http.DefaultClient.Do(req.WithContext(ctx))
}

// HuggingFaceResolver resolves huggingface://<dataset>/<split> references
// against the public datasets-server rows API, returning the first row's
// "text" column (or, absent one, some string column, in map iteration
// order), rendered against vars. Only the first row is fetched; anything
// after the first "/" is passed through as the split name.
type HuggingFaceResolver struct {
	Do      HTTPDo
	BaseURL string // defaults to https://datasets-server.huggingface.co
}

func (h HuggingFaceResolver) Resolve(ctx context.Context, uri string, vars map[string]any) (string, error) {
	ref := strings.TrimPrefix(uri, "huggingface://")
	parts := strings.SplitN(ref, "/", 2)
	if len(parts) < 2 {
		return "", fmt.Errorf("malformed huggingface:// reference %q, want dataset/split", uri)
	}
	dataset, split := parts[0], parts[1]

	base := h.BaseURL
	if base == "" {
		base = "https://datasets-server.huggingface.co"
	}
	url := fmt.Sprintf("%s/rows?dataset=%s&split=%s&offset=0&length=1", base, dataset, split)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := h.doer()(ctx, req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", uri, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("huggingface resolver: unexpected status %d for %s", resp.StatusCode, uri)
	}

	var payload struct {
		Rows []struct {
			Row map[string]any `json:"row"`
		} `json:"rows"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding huggingface response for %s: %w", uri, err)
	}
	if len(payload.Rows) == 0 {
		return "", fmt.Errorf("huggingface resolver: no rows returned for %s", uri)
	}
	return render.String(firstStringField(payload.Rows[0].Row), vars), nil
}

func (h HuggingFaceResolver) doer() HTTPDo {
	if h.Do != nil {
		return h.Do
	}
	return DefaultHTTPDo
}

// LangfuseResolver resolves langfuse://<promptName>[@<version>] against a
// self-hosted or cloud Langfuse prompt-management API.
type LangfuseResolver struct {
	Do      HTTPDo
	BaseURL string
	Headers map[string]string
}

func (l LangfuseResolver) Resolve(ctx context.Context, uri string, vars map[string]any) (string, error) {
	ref := strings.TrimPrefix(uri, "langfuse://")
	name, version, _ := strings.Cut(ref, "@")

	url := fmt.Sprintf("%s/api/public/v2/prompts/%s", l.BaseURL, name)
	if version != "" {
		url += "?version=" + version
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	for k, v := range l.Headers {
		req.Header.Set(k, v)
	}

	doer := l.Do
	if doer == nil {
		doer = DefaultHTTPDo
	}
	resp, err := doer(ctx, req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", uri, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("langfuse resolver: unexpected status %d for %s", resp.StatusCode, uri)
	}

	var payload struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding langfuse response for %s: %w", uri, err)
	}
	return render.String(payload.Prompt, vars), nil
}

// BedrockResolver resolves bedrock://<promptArn>[:<version>] against the
// Bedrock Agent "GetPrompt" style API via an injected caller — AWS SigV4
// signing is a host concern, not reimplemented here.
type BedrockResolver struct {
	// Fetch performs the signed GetPrompt call and returns the prompt's
	// raw template text.
	Fetch func(ctx context.Context, promptArn, version string) (string, error)
}

func (b BedrockResolver) Resolve(ctx context.Context, uri string, vars map[string]any) (string, error) {
	if b.Fetch == nil {
		return "", fmt.Errorf("bedrock resolver: no Fetch implementation configured for %s", uri)
	}
	ref := strings.TrimPrefix(uri, "bedrock://")
	arn, version := ref, ""
	if idx := strings.LastIndex(ref, ":"); idx >= 0 && !strings.Contains(ref[idx+1:], "/") {
		arn, version = ref[:idx], ref[idx+1:]
	}

	text, err := b.Fetch(ctx, arn, version)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", uri, err)
	}
	return render.String(text, vars), nil
}

func firstStringField(row map[string]any) string {
	if v, ok := row["text"].(string); ok {
		return v
	}
	for _, v := range row {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
