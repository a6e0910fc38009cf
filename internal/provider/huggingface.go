package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/mindmirror-ai/mindmirror/internal/emotion"
	apperrors "github.com/mindmirror-ai/mindmirror/internal/errors"
	"github.com/mindmirror-ai/mindmirror/internal/prompt"
	"github.com/mindmirror-ai/mindmirror/internal/resolve"
)

// DefaultHuggingFaceURL is the serverless inference endpoint.
const DefaultHuggingFaceURL = "https://api-inference.huggingface.co"

// Input limits per task, matching the hosted models' practical windows.
const (
	maxClassifyChars = 512
	maxSpeakChars    = 500
)

// HuggingFace adapts the Hugging Face inference API for one capability.
// The same adapter type serves classification, generation, ASR, TTS, and
// text-to-image; the capability selects the request and response formats.
type HuggingFace struct {
	cfg        Config
	capability resolve.Capability
	client     *http.Client
}

// NewHuggingFace creates an adapter for the given capability.
func NewHuggingFace(cfg Config, capability resolve.Capability) *HuggingFace {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultHuggingFaceURL
	}
	return &HuggingFace{
		cfg:        cfg,
		capability: capability,
		client:     newHTTPClient(),
	}
}

// Call posts the request to the model endpoint and returns the raw body.
func (a *HuggingFace) Call(ctx context.Context, req resolve.Request) ([]byte, error) {
	body, contentType, err := a.requestBody(req)
	if err != nil {
		return nil, err
	}

	url := a.cfg.BaseURL + "/models/" + a.cfg.Model
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeBadRequest, "build request", apperrors.CategoryHard)
	}
	httpReq.Header.Set("Content-Type", contentType)
	if a.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	}

	resp, err := a.client.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, apperrors.Wrap(err, apperrors.CodeTimeout, "inference call timed out", apperrors.CategoryTransient)
		}
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "inference call failed", apperrors.CategoryTransient)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "read inference response", apperrors.CategoryTransient)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, resp.Header, raw)
	}
	return raw, nil
}

// requestBody builds the task-specific request. Transcription input is
// base64 audio in RawInput; the adapter posts the decoded bytes and never
// inspects the media itself.
func (a *HuggingFace) requestBody(req resolve.Request) ([]byte, string, error) {
	switch a.capability {
	case resolve.CapabilityEmotion:
		return jsonBody(map[string]any{
			"inputs": truncate(req.RawInput, maxClassifyChars),
		})

	case resolve.CapabilityReflection:
		return jsonBody(map[string]any{
			"inputs": prompt.BuildReflection(req.RawInput, req.Context),
			"parameters": map[string]any{
				"max_new_tokens":   400,
				"temperature":      0.7,
				"return_full_text": false,
			},
		})

	case resolve.CapabilityArt:
		return jsonBody(map[string]any{
			"inputs": prompt.BuildArt(req.Context["emotion"], req.RawInput),
			"parameters": map[string]any{
				"width":  512,
				"height": 512,
			},
		})

	case resolve.CapabilityTranscription:
		audio, err := base64.StdEncoding.DecodeString(req.RawInput)
		if err != nil {
			return nil, "", apperrors.Hard(apperrors.CodeBadRequest, "transcription input is not base64 audio")
		}
		return audio, "application/octet-stream", nil

	case resolve.CapabilitySpeech:
		return jsonBody(map[string]any{
			"inputs": truncate(req.RawInput, maxSpeakChars),
		})

	default:
		return nil, "", apperrors.Hard(apperrors.CodeBadRequest, fmt.Sprintf("unsupported capability %q", a.capability))
	}
}

func jsonBody(v any) ([]byte, string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, "", apperrors.Wrap(err, apperrors.CodeBadRequest, "marshal request", apperrors.CategoryHard)
	}
	return data, "application/json", nil
}

// Decode translates a 200 response body into a canonical payload.
func (a *HuggingFace) Decode(raw []byte) (map[string]any, error) {
	switch a.capability {
	case resolve.CapabilityEmotion:
		return decodeClassification(raw)
	case resolve.CapabilityReflection:
		return decodeGeneratedReflection(raw)
	case resolve.CapabilityArt:
		if len(raw) == 0 {
			return nil, fmt.Errorf("empty image body")
		}
		return map[string]any{
			"image":  base64.StdEncoding.EncodeToString(raw),
			"format": "png",
		}, nil
	case resolve.CapabilityTranscription:
		var out struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("parse transcription: %w", err)
		}
		return map[string]any{"text": out.Text}, nil
	case resolve.CapabilitySpeech:
		if len(raw) == 0 {
			return nil, fmt.Errorf("empty audio body")
		}
		return map[string]any{
			"audio":  base64.StdEncoding.EncodeToString(raw),
			"format": "wav",
		}, nil
	default:
		return nil, fmt.Errorf("unsupported capability %q", a.capability)
	}
}

type classPrediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// decodeClassification handles both response shapes the hosted
// classifiers emit: [[{label,score}...]] and [{label,score}...].
func decodeClassification(raw []byte) (map[string]any, error) {
	var nested [][]classPrediction
	var flat []classPrediction

	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		flat = nested[0]
	} else if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("parse classification: %w", err)
	}
	if len(flat) == 0 {
		return nil, fmt.Errorf("empty classification")
	}

	sort.SliceStable(flat, func(i, j int) bool { return flat[i].Score > flat[j].Score })
	if len(flat) > 3 {
		flat = flat[:3]
	}

	labels := make([]string, 0, len(flat))
	scores := make(map[string]float64, len(flat))
	for _, p := range flat {
		label := emotion.Normalize(p.Label)
		labels = append(labels, label)
		scores[label] = p.Score
	}

	return map[string]any{
		"emotions":        labels,
		"scores":          scores,
		"primary_emotion": labels[0],
		"color":           emotion.Color(labels[0]),
		"emoji":           emotion.Emoji(labels[0]),
		"summary":         emotion.Summarize(labels, scores),
	}, nil
}

// decodeGeneratedReflection parses a text-generation response and then
// the reflection JSON the model was instructed to emit.
func decodeGeneratedReflection(raw []byte) (map[string]any, error) {
	var outputs []struct {
		GeneratedText string `json:"generated_text"`
	}
	text := ""
	if err := json.Unmarshal(raw, &outputs); err == nil && len(outputs) > 0 {
		text = outputs[0].GeneratedText
	} else {
		var single struct {
			GeneratedText string `json:"generated_text"`
		}
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("parse generation: %w", err)
		}
		text = single.GeneratedText
	}

	return extractJSONObject(text)
}

// extractJSONObject pulls the first JSON object out of model text, which
// frequently wraps it in prose or code fences.
func extractJSONObject(text string) (map[string]any, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model output")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("parse model JSON: %w", err)
	}
	return payload, nil
}
