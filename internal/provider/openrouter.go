package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/mindmirror-ai/mindmirror/internal/errors"
	"github.com/mindmirror-ai/mindmirror/internal/prompt"
	"github.com/mindmirror-ai/mindmirror/internal/resolve"
)

// DefaultOpenRouterURL is the OpenRouter API base.
const DefaultOpenRouterURL = "https://openrouter.ai/api/v1"

// OpenRouter adapts OpenRouter chat completions for the reflection
// capability.
type OpenRouter struct {
	cfg    Config
	client *http.Client
}

// NewOpenRouter creates an OpenRouter reflection adapter.
func NewOpenRouter(cfg Config) *OpenRouter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenRouterURL
	}
	return &OpenRouter{
		cfg:    cfg,
		client: newHTTPClient(),
	}
}

// Call posts a chat completion request and returns the raw body.
func (c *OpenRouter) Call(ctx context.Context, req resolve.Request) ([]byte, error) {
	if c.cfg.APIKey == "" {
		return nil, apperrors.Hard(apperrors.CodeBadCredentials, "openrouter API key not configured")
	}

	body := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": prompt.ReflectionSystem},
			{"role": "user", "content": prompt.BuildReflection(req.RawInput, req.Context)},
		},
		"temperature": 0.7,
		"max_tokens":  500,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeBadRequest, "marshal request", apperrors.CategoryHard)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeBadRequest, "build request", apperrors.CategoryHard)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("HTTP-Referer", "https://mindmirror.ai")
	httpReq.Header.Set("X-Title", "MindMirror AI")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, apperrors.Wrap(err, apperrors.CodeTimeout, "openrouter call timed out", apperrors.CategoryTransient)
		}
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "openrouter call failed", apperrors.CategoryTransient)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "read openrouter response", apperrors.CategoryTransient)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, resp.Header, raw)
	}
	return raw, nil
}

// Decode extracts the reflection JSON from the completion content.
func (c *OpenRouter) Decode(raw []byte) (map[string]any, error) {
	var orResp openRouterResponse
	if err := json.Unmarshal(raw, &orResp); err != nil {
		return nil, err
	}
	if len(orResp.Choices) == 0 {
		return nil, errNoChoices
	}
	return extractJSONObject(orResp.Choices[0].Message.Content)
}

var errNoChoices = errors.New("no choices in response")

// ============================================================
// OpenRouter API Types
// ============================================================

type openRouterResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
