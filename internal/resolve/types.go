// Package resolve implements the multi-tier resolution engine: a
// priority-ordered provider chain per capability, driven by a resolver
// that degrades through local and minimal tiers and never fails.
package resolve

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"
)

// Capability identifies one AI-backed function.
type Capability string

const (
	CapabilityEmotion       Capability = "emotion"
	CapabilityReflection    Capability = "reflection"
	CapabilityArt           Capability = "art"
	CapabilityTranscription Capability = "transcription"
	CapabilitySpeech        Capability = "speech"
)

// Tier ranks which resolution strategy produced a result. Lower tiers have
// higher quality and lower guaranteed availability; TierMinimal is always
// available.
type Tier int

const (
	TierPrimary Tier = iota
	TierFallback
	TierLocal
	TierMinimal
)

// String returns the tier name as it appears in payloads.
func (t Tier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierFallback:
		return "fallback"
	case TierLocal:
		return "local"
	case TierMinimal:
		return "minimal"
	default:
		return "unknown"
	}
}

// Request is an immutable capability request. Context carries cross-stage
// hints such as the prior emotion label or locale.
type Request struct {
	RawInput   string            `json:"raw_input"`
	Capability Capability        `json:"capability"`
	Context    map[string]string `json:"context,omitempty"`
}

// WithContext returns a copy of the request with one context key added.
// The original request is not mutated.
func (r Request) WithContext(key, value string) Request {
	ctx := make(map[string]string, len(r.Context)+1)
	for k, v := range r.Context {
		ctx[k] = v
	}
	ctx[key] = value
	r.Context = ctx
	return r
}

// Result is the canonical capability output. Payload always satisfies the
// capability's required-field contract; a payload that fails validation is
// never handed to a caller.
type Result struct {
	Payload    map[string]any `json:"payload"`
	ModelUsed  string         `json:"model_used"`
	Tier       Tier           `json:"degradation_tier"`
	ProducedAt time.Time      `json:"produced_at"`
	FromCache  bool           `json:"from_cache,omitempty"`
}

// NewResult builds a result and mirrors the model and tier into the
// payload, which every capability contract requires.
func NewResult(tier Tier, modelUsed string, payload map[string]any) Result {
	if payload == nil {
		payload = make(map[string]any)
	}
	payload["model_used"] = modelUsed
	payload["degradation_tier"] = tier.String()
	return Result{
		Payload:    payload,
		ModelUsed:  modelUsed,
		Tier:       tier,
		ProducedAt: time.Now(),
	}
}

// ProviderSpec is one static provider configuration entry. Lists are
// loaded once at process start, sorted by ascending priority, and
// read-only afterward; order is never changed at runtime.
type ProviderSpec struct {
	ID          string
	Priority    int
	CallTimeout time.Duration
	TotalBudget time.Duration
	Retryable   bool
}

// Adapter is the minimal per-provider interface the chain consumes. Call
// returns the provider's raw response bytes; Decode translates them into a
// canonical payload. Transport details live entirely behind this
// interface.
type Adapter interface {
	Call(ctx context.Context, req Request) ([]byte, error)
	Decode(raw []byte) (map[string]any, error)
}

// CacheKey derives a stable key from the request's input, capability, and
// context. All context keys participate, sorted, so identical requests
// from different stages share entries only when their context agrees.
func CacheKey(req Request) string {
	keys := make([]string, 0, len(req.Context))
	for k := range req.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(string(req.Capability))
	sb.WriteByte(0)
	sb.WriteString(req.RawInput)
	for _, k := range keys {
		sb.WriteByte(0)
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(req.Context[k])
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
