package assert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

func registerWebhookHandler(r *Registry) {
	r.Register(KindWebhook, true, handleWebhook)
}

type webhookRequest struct {
	Output   any            `json:"output"`
	Prompt   string         `json:"prompt,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type webhookResponse struct {
	Pass   bool    `json:"pass"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

func handleWebhook(ctx context.Context, a Assertion, ectx EvalContext) (bool, float64, string, error) {
	if ectx.HTTPDo == nil {
		return false, 0, "", errors.New("webhook assertion requires an HTTPDo client")
	}
	url, ok := a.StringValue()
	if !ok || url == "" {
		return false, 0, "", ErrMissingAssertionValue
	}

	req := webhookRequest{Output: ectx.Output}
	if includePrompt, _ := a.Config["includePrompt"].(bool); includePrompt {
		req.Prompt = ectx.Prompt
	}
	if includeMetadata, _ := a.Config["includeMetadata"].(bool); includeMetadata {
		req.Metadata = ectx.Vars
	}

	body, err := json.Marshal(req)
	if err != nil {
		return false, 0, fmt.Sprintf("Webhook error: %s", err.Error()), nil
	}

	status, respBody, err := ectx.HTTPDo(ctx, url, body, map[string]string{"Content-Type": "application/json"})
	if err != nil {
		return false, 0, fmt.Sprintf("Webhook error: %s", err.Error()), nil
	}
	if status < 200 || status >= 300 {
		return false, 0, fmt.Sprintf("Webhook error: Webhook response status: %d", status), nil
	}

	var resp webhookResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return false, 0, "Webhook error: Invalid JSON response", nil
	}

	return resp.Pass, resp.Score, resp.Reason, nil
}
