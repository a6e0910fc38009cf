package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mindmirror-ai/mindmirror/internal/errors"
	"github.com/mindmirror-ai/mindmirror/internal/resolve"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		header   http.Header
		category apperrors.Category
		code     string
	}{
		{"rate limited", 429, http.Header{"Retry-After": []string{"7"}}, apperrors.CategoryTransient, apperrors.CodeRateLimit},
		{"model loading", 503, nil, apperrors.CategoryTransient, apperrors.CodeModelLoading},
		{"server error", 500, nil, apperrors.CategoryTransient, apperrors.CodeUnavailable},
		{"bad gateway", 502, nil, apperrors.CategoryTransient, apperrors.CodeUnavailable},
		{"unauthorized", 401, nil, apperrors.CategoryHard, apperrors.CodeBadCredentials},
		{"forbidden", 403, nil, apperrors.CategoryHard, apperrors.CodeBadCredentials},
		{"bad request", 400, nil, apperrors.CategoryHard, apperrors.CodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyStatus(tt.status, tt.header, nil)
			assert.Equal(t, tt.category, apperrors.GetCategory(err))

			var pe *apperrors.ProviderError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.code, pe.Code)
		})
	}

	t.Run("retry-after propagated", func(t *testing.T) {
		err := classifyStatus(429, http.Header{"Retry-After": []string{"7"}}, nil)
		assert.Equal(t, 7*time.Second, apperrors.GetRetryAfter(err))
	})
}

func TestHuggingFaceEmotionRoundTrip(t *testing.T) {
	var gotAuth, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Write([]byte(`[[{"label":"happy","score":0.91},{"label":"sadness","score":0.05},{"label":"fear","score":0.02},{"label":"surprise","score":0.01}]]`))
	}))
	defer ts.Close()

	a := NewHuggingFace(Config{ID: "hf-test", Model: "some/classifier", BaseURL: ts.URL, APIKey: "secret"}, resolve.CapabilityEmotion)

	raw, err := a.Call(context.Background(), resolve.Request{RawInput: "great day", Capability: resolve.CapabilityEmotion})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "/models/some/classifier", gotPath)

	payload, err := a.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "joy", payload["primary_emotion"], "model label aliases are normalized")
	assert.Equal(t, []string{"joy", "sadness", "fear"}, payload["emotions"], "top three, sorted by score")
	assert.True(t, resolve.Validate(resolve.CapabilityEmotion, payload))
}

func TestHuggingFaceDecodeFlatClassification(t *testing.T) {
	a := NewHuggingFace(Config{Model: "m"}, resolve.CapabilityEmotion)

	payload, err := a.Decode([]byte(`[{"label":"anger","score":0.8}]`))
	require.NoError(t, err)
	assert.Equal(t, "anger", payload["primary_emotion"])
}

func TestHuggingFaceDecodeReflection(t *testing.T) {
	a := NewHuggingFace(Config{Model: "m"}, resolve.CapabilityReflection)

	body := `[{"generated_text":"Here you go:\n{\"reflection\":\"I hear you.\",\"poem_line\":\"line\",\"severity\":\"calm\",\"tone\":\"gentle\",\"micro_actions\":[{\"label\":\"x\",\"duration_seconds\":60,\"instruction\":\"y\"}]}"}]`
	payload, err := a.Decode([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "I hear you.", payload["reflection"])
	assert.True(t, resolve.Validate(resolve.CapabilityReflection, payload))
}

func TestHuggingFaceDecodeBinaryBodies(t *testing.T) {
	t.Run("art", func(t *testing.T) {
		a := NewHuggingFace(Config{Model: "m"}, resolve.CapabilityArt)
		payload, err := a.Decode([]byte{0x89, 0x50, 0x4e, 0x47})
		require.NoError(t, err)
		assert.Equal(t, "png", payload["format"])
		decoded, err := base64.StdEncoding.DecodeString(payload["image"].(string))
		require.NoError(t, err)
		assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, decoded)
	})

	t.Run("empty art body", func(t *testing.T) {
		a := NewHuggingFace(Config{Model: "m"}, resolve.CapabilityArt)
		_, err := a.Decode(nil)
		assert.Error(t, err)
	})

	t.Run("speech", func(t *testing.T) {
		a := NewHuggingFace(Config{Model: "m"}, resolve.CapabilitySpeech)
		payload, err := a.Decode([]byte("RIFFdata"))
		require.NoError(t, err)
		assert.Equal(t, "wav", payload["format"])
	})

	t.Run("transcription", func(t *testing.T) {
		a := NewHuggingFace(Config{Model: "m"}, resolve.CapabilityTranscription)
		payload, err := a.Decode([]byte(`{"text":"hello world"}`))
		require.NoError(t, err)
		assert.Equal(t, "hello world", payload["text"])
	})
}

func TestHuggingFaceTranscriptionRequiresBase64(t *testing.T) {
	a := NewHuggingFace(Config{Model: "m", BaseURL: "http://localhost:0"}, resolve.CapabilityTranscription)

	_, err := a.Call(context.Background(), resolve.Request{RawInput: "not base64!!!", Capability: resolve.CapabilityTranscription})
	require.Error(t, err)
	assert.Equal(t, apperrors.CategoryHard, apperrors.GetCategory(err))
}

func TestHuggingFaceErrorStatuses(t *testing.T) {
	status := http.StatusServiceUnavailable
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	defer ts.Close()

	a := NewHuggingFace(Config{Model: "m", BaseURL: ts.URL}, resolve.CapabilityEmotion)

	_, err := a.Call(context.Background(), resolve.Request{RawInput: "hi", Capability: resolve.CapabilityEmotion})
	require.Error(t, err)
	assert.True(t, apperrors.IsTransient(err), "503 is transient (model loading)")

	status = http.StatusUnauthorized
	_, err = a.Call(context.Background(), resolve.Request{RawInput: "hi", Capability: resolve.CapabilityEmotion})
	require.Error(t, err)
	assert.Equal(t, apperrors.CategoryHard, apperrors.GetCategory(err))
}

func TestHuggingFaceTimeoutIsTransient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer ts.Close()

	a := NewHuggingFace(Config{Model: "m", BaseURL: ts.URL}, resolve.CapabilityEmotion)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := a.Call(ctx, resolve.Request{RawInput: "hi", Capability: resolve.CapabilityEmotion})
	require.Error(t, err)
	assert.True(t, apperrors.IsTransient(err))
}

func TestOpenRouterRequiresAPIKey(t *testing.T) {
	c := NewOpenRouter(Config{Model: "m"})

	_, err := c.Call(context.Background(), resolve.Request{RawInput: "hi", Capability: resolve.CapabilityReflection})
	require.Error(t, err)

	var pe *apperrors.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, apperrors.CodeBadCredentials, pe.Code)
}

func TestOpenRouterRoundTrip(t *testing.T) {
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"reflection\":\"I hear you.\",\"poem_line\":\"line\",\"severity\":\"calm\",\"tone\":\"gentle\",\"micro_actions\":[{\"label\":\"x\",\"duration_seconds\":60,\"instruction\":\"y\"}]}"}}]}`))
	}))
	defer ts.Close()

	c := NewOpenRouter(Config{ID: "or-test", Model: "meta-llama/llama-3.2-3b-instruct:free", BaseURL: ts.URL, APIKey: "key"})

	raw, err := c.Call(context.Background(), resolve.Request{RawInput: "rough day", Capability: resolve.CapabilityReflection})
	require.NoError(t, err)
	assert.Equal(t, "meta-llama/llama-3.2-3b-instruct:free", gotBody["model"])

	payload, err := c.Decode(raw)
	require.NoError(t, err)
	assert.True(t, resolve.Validate(resolve.CapabilityReflection, payload))
}

func TestOpenRouterDecodeNoChoices(t *testing.T) {
	c := NewOpenRouter(Config{Model: "m"})
	_, err := c.Decode([]byte(`{"choices":[]}`))
	assert.Error(t, err)
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	s := "x" + strings.Repeat("é", 20) // cut point lands mid-rune

	got := truncate(s, 4)

	assert.LessOrEqual(t, len(got), 4)
	assert.True(t, utf8.ValidString(got), "truncation must not split a rune")
	assert.Equal(t, "xé", got)

	assert.Equal(t, "short", truncate("short", 10))
}

func TestExtractJSONObject(t *testing.T) {
	payload, err := extractJSONObject("Sure! Here is the JSON:\n```json\n{\"a\": 1}\n```")
	require.NoError(t, err)
	assert.Equal(t, float64(1), payload["a"])

	_, err = extractJSONObject("no json here")
	assert.Error(t, err)
}
