package resolve

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindmirror-ai/mindmirror/internal/cache"
	"github.com/mindmirror-ai/mindmirror/internal/safety"
)

// MinimalModel is the model name reported by minimal-tier results.
const MinimalModel = "none"

// LocalGenerator is a capability's deterministic, no-network fallback.
type LocalGenerator interface {
	Generate(req Request) (map[string]any, error)
}

// MinimalFunc builds the capability's hardcoded safe payload. It must be
// pure data construction and must not fail.
type MinimalFunc func(req Request, urgent bool) map[string]any

// ResolverConfig wires one capability resolver.
type ResolverConfig struct {
	Capability Capability
	Chain      *Chain
	Cache      *cache.Cache[Result]
	Safety     *safety.Interceptor // non-nil makes the capability safety-sensitive
	Local      LocalGenerator
	Minimal    MinimalFunc
	TTL        time.Duration // cache TTL for chain and urgent results
	LocalTTL   time.Duration // short TTL for cheap-to-regenerate local results
	Log        zerolog.Logger
}

// Resolver drives one provider chain through the degradation ladder:
// cache, safety short-circuit, chain, local fallback, minimal. Resolve is
// a total function; it returns a valid result for every input and never
// propagates an error or panic.
type Resolver struct {
	capability Capability
	chain      *Chain
	cache      *cache.Cache[Result]
	safety     *safety.Interceptor
	local      LocalGenerator
	minimal    MinimalFunc
	ttl        time.Duration
	localTTL   time.Duration
	log        zerolog.Logger
}

// NewResolver creates a resolver from the config.
func NewResolver(cfg ResolverConfig) *Resolver {
	return &Resolver{
		capability: cfg.Capability,
		chain:      cfg.Chain,
		cache:      cfg.Cache,
		safety:     cfg.Safety,
		local:      cfg.Local,
		minimal:    cfg.Minimal,
		ttl:        cfg.TTL,
		localTTL:   cfg.LocalTTL,
		log:        cfg.Log.With().Str("capability", string(cfg.Capability)).Logger(),
	}
}

// Capability returns the capability this resolver serves.
func (r *Resolver) Capability() Capability {
	return r.capability
}

// Resolve runs the degradation ladder for req.
func (r *Resolver) Resolve(ctx context.Context, req Request) (res Result) {
	// Minimal payloads are plain data, so this only fires on a defect in
	// the ladder itself. The result still honors the contract.
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Interface("panic", rec).Msg("resolver defect, returning minimal result")
			res = NewResult(TierMinimal, MinimalModel, r.minimal(req, false))
		}
	}()

	key := CacheKey(req)
	if cached, ok := r.cache.Get(key); ok {
		r.log.Debug().Str("tier", cached.Tier.String()).Msg("cache hit")
		cached.FromCache = true
		return cached
	}

	urgent := false
	if r.safety != nil && r.safety.Classify(req.RawInput) == safety.LevelUrgent {
		urgent = true
		r.log.Warn().Msg("urgent input, bypassing providers")
		res = NewResult(TierMinimal, MinimalModel, r.minimal(req, true))
		r.cache.Put(key, res, r.ttl)
		return res
	}

	if result, err := r.chain.Resolve(ctx, req); err == nil {
		r.cache.Put(key, result, r.ttl)
		return result
	}

	payload, err := r.generateLocal(req)
	if err == nil && Validate(r.capability, payload) {
		res = NewResult(TierLocal, localModelName(payload), payload)
		r.cache.Put(key, res, r.localTTL)
		return res
	}
	if err != nil {
		r.log.Error().Err(err).Msg("local fallback failed, returning minimal result")
	} else {
		r.log.Error().Msg("local fallback produced invalid payload, returning minimal result")
	}

	// Not cached: a local-fallback fault is an internal defect that should
	// be retried fresh on the next call.
	return NewResult(TierMinimal, MinimalModel, r.minimal(req, urgent))
}

// generateLocal runs the local fallback, converting a panic (programming
// defect, not an expected path) into an error.
func (r *Resolver) generateLocal(req Request) (payload map[string]any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			payload = nil
			err = fmt.Errorf("local fallback panic: %v", rec)
		}
	}()
	if r.local == nil {
		return nil, fmt.Errorf("no local fallback for capability %s", r.capability)
	}
	return r.local.Generate(req)
}

// localModelName lets a local generator name itself via the payload it
// builds; NewResult overwrites the key afterward with the same value.
func localModelName(payload map[string]any) string {
	if name, ok := payload["model_used"].(string); ok && name != "" {
		return name
	}
	return "local"
}
