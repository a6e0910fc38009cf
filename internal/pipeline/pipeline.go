// Package pipeline orchestrates the full journaling flow: emotion
// analysis feeds reflection, which feeds art and speech. Every stage is
// backed by a total resolver, so a run always completes with a full set
// of results regardless of provider health.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mindmirror-ai/mindmirror/internal/cache"
	apperrors "github.com/mindmirror-ai/mindmirror/internal/errors"
	"github.com/mindmirror-ai/mindmirror/internal/fallback"
	"github.com/mindmirror-ai/mindmirror/internal/resolve"
	"github.com/mindmirror-ai/mindmirror/internal/safety"
	"github.com/mindmirror-ai/mindmirror/internal/stats"
)

// StageError records one stage that could not be served from a provider.
// The run still carries a valid result for that capability.
type StageError struct {
	Capability resolve.Capability `json:"capability"`
	Message    string             `json:"message"`
}

// Result is the aggregate outcome of one pipeline run.
type Result struct {
	ID            string                                `json:"id"`
	Results       map[resolve.Capability]resolve.Result `json:"results"`
	FallbackUsed  bool                                  `json:"fallback_used"`
	Errors        []StageError                          `json:"errors,omitempty"`
	ModelVersions map[string]string                     `json:"model_versions"`
	ProcessingMS  int64                                 `json:"processing_ms"`
	FromCache     bool                                  `json:"from_cache,omitempty"`
}

// Config wires the orchestrator. Speech is optional; a nil resolver
// skips audio synthesis entirely.
type Config struct {
	Emotion    *resolve.Resolver
	Reflection *resolve.Resolver
	Art        *resolve.Resolver
	Speech     *resolve.Resolver
	Safety     *safety.Interceptor
	Cache      *cache.Cache[Result]
	TTL        time.Duration
	Stats      *stats.Collector
	Log        zerolog.Logger
}

// Orchestrator runs the staged pipeline. Emotion and reflection are
// sequential because reflection consumes the detected emotion label; art
// and speech run concurrently once their inputs exist.
type Orchestrator struct {
	emotion    *resolve.Resolver
	reflection *resolve.Resolver
	art        *resolve.Resolver
	speech     *resolve.Resolver
	safety     *safety.Interceptor
	cache      *cache.Cache[Result]
	ttl        time.Duration
	stats      *stats.Collector
	log        zerolog.Logger
}

// NewOrchestrator creates the orchestrator from the config.
func NewOrchestrator(cfg Config) *Orchestrator {
	return &Orchestrator{
		emotion:    cfg.Emotion,
		reflection: cfg.Reflection,
		art:        cfg.Art,
		speech:     cfg.Speech,
		safety:     cfg.Safety,
		cache:      cfg.Cache,
		ttl:        cfg.TTL,
		stats:      cfg.Stats,
		log:        cfg.Log.With().Str("component", "pipeline").Logger(),
	}
}

// stageOutcome pairs a stage result with the error record it produced,
// if any, so concurrent stages can be merged back in a fixed order.
type stageOutcome struct {
	res resolve.Result
	err *StageError
}

// Run executes the pipeline for one journal entry. It never returns an
// error; provider trouble surfaces as degraded tiers and Errors entries.
func (o *Orchestrator) Run(ctx context.Context, rawInput string, userCtx map[string]string) Result {
	start := time.Now()

	cacheReq := resolve.Request{RawInput: rawInput, Capability: "pipeline", Context: userCtx}
	key := resolve.CacheKey(cacheReq)
	if o.cache != nil {
		if cached, ok := o.cache.Get(key); ok {
			cached.FromCache = true
			return cached
		}
	}

	out := Result{
		ID:            uuid.NewString(),
		Results:       make(map[resolve.Capability]resolve.Result, 4),
		ModelVersions: make(map[string]string, 4),
	}
	log := o.log.With().Str("run_id", out.ID).Logger()

	base := resolve.Request{RawInput: rawInput, Context: userCtx}

	urgent := o.safety != nil && o.safety.Classify(rawInput) == safety.LevelUrgent
	if urgent {
		log.Warn().Msg("urgent input detected, stages will short-circuit where safety-sensitive")
		base = base.WithContext("sensitivity", "urgent")
	}

	// Stage 1: emotion. Its primary label steers reflection prompts and
	// art palettes downstream.
	emoReq := base
	emoReq.Capability = resolve.CapabilityEmotion
	emo := o.runStage(ctx, log, o.emotion, emoReq, urgent)
	o.record(&out, resolve.CapabilityEmotion, emo)

	if label := primaryEmotion(emo.res.Payload); label != "" {
		base = base.WithContext("emotion", label)
	}

	// Stage 2: reflection, with the emotion label in context.
	refReq := base
	refReq.Capability = resolve.CapabilityReflection
	ref := o.runStage(ctx, log, o.reflection, refReq, urgent)
	o.record(&out, resolve.CapabilityReflection, ref)

	// Stages 3 and 4: art from the original entry, speech from the
	// reflection text. Independent of each other, so they run together.
	artReq := base
	artReq.Capability = resolve.CapabilityArt

	var speechReq resolve.Request
	runSpeech := o.speech != nil
	if runSpeech {
		speechReq = base
		speechReq.Capability = resolve.CapabilitySpeech
		if text, ok := ref.res.Payload["reflection"].(string); ok && text != "" {
			speechReq.RawInput = text
		}
	}

	var art, speech stageOutcome
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		art = o.runStage(gctx, log, o.art, artReq, urgent)
		return nil
	})
	if runSpeech {
		g.Go(func() error {
			speech = o.runStage(gctx, log, o.speech, speechReq, urgent)
			return nil
		})
	}
	_ = g.Wait() // stage funcs never return errors

	o.record(&out, resolve.CapabilityArt, art)
	if runSpeech {
		o.record(&out, resolve.CapabilitySpeech, speech)
	}

	out.ProcessingMS = time.Since(start).Milliseconds()
	if o.stats != nil {
		o.stats.RecordRun(time.Since(start), out.FallbackUsed, len(out.Errors))
	}
	if o.cache != nil && cacheable(out) {
		o.cache.Put(key, out, o.ttl)
	}

	log.Info().
		Bool("fallback_used", out.FallbackUsed).
		Int("stage_errors", len(out.Errors)).
		Int64("processing_ms", out.ProcessingMS).
		Msg("pipeline run complete")
	return out
}

// runStage resolves one capability. A stage that has not started when
// the caller's deadline is already exceeded is skipped without any
// provider call and served a minimal result. A panicking resolver (a
// defect; resolvers are total) is contained the same way.
func (o *Orchestrator) runStage(ctx context.Context, log zerolog.Logger, r *resolve.Resolver, req resolve.Request, urgent bool) (out stageOutcome) {
	if err := ctx.Err(); err != nil {
		log.Warn().Str("capability", string(req.Capability)).Msg("deadline exceeded, skipping stage")
		out.res = o.minimalResult(req, urgent)
		out.err = &StageError{
			Capability: req.Capability,
			Message:    apperrors.ErrDeadlineExceeded.Error(),
		}
		return out
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Str("capability", string(req.Capability)).
				Interface("panic", rec).
				Msg("stage panicked, substituting minimal result")
			out.res = o.minimalResult(req, urgent)
			out.err = &StageError{
				Capability: req.Capability,
				Message:    fmt.Sprintf("stage panic: %v", rec),
			}
		}
	}()

	out.res = r.Resolve(ctx, req)
	return out
}

// record merges one stage outcome into the aggregate. Any tier below
// primary marks the run as degraded; local and minimal tiers also get an
// Errors entry since no provider served them.
func (o *Orchestrator) record(out *Result, capability resolve.Capability, stage stageOutcome) {
	out.Results[capability] = stage.res
	out.ModelVersions[string(capability)] = stage.res.ModelUsed

	if stage.res.Tier != resolve.TierPrimary {
		out.FallbackUsed = true
	}
	if stage.err != nil {
		out.Errors = append(out.Errors, *stage.err)
		return
	}
	if stage.res.Tier >= resolve.TierLocal {
		out.Errors = append(out.Errors, StageError{
			Capability: capability,
			Message:    fmt.Sprintf("no provider available, served %s tier", stage.res.Tier),
		})
	}
}

// cacheable reports whether a run may be replayed from cache. A run
// holding any minimal-tier result reflects a fault local to that request
// (expired deadline, stage panic, or a broken local generator), so the
// next caller must get a fresh attempt at the providers.
func cacheable(out Result) bool {
	for _, res := range out.Results {
		if res.Tier == resolve.TierMinimal {
			return false
		}
	}
	return true
}

// minimalResult builds a minimal-tier result without touching the
// resolver or any provider.
func (o *Orchestrator) minimalResult(req resolve.Request, urgent bool) resolve.Result {
	payload := fallback.Minimal(req.Capability)(req, urgent)
	return resolve.NewResult(resolve.TierMinimal, resolve.MinimalModel, payload)
}

// primaryEmotion extracts the dominant label from an emotion payload.
func primaryEmotion(payload map[string]any) string {
	if label, ok := payload["primary_emotion"].(string); ok && label != "" {
		return label
	}
	switch list := payload["emotions"].(type) {
	case []string:
		if len(list) > 0 {
			return list[0]
		}
	case []any:
		if len(list) > 0 {
			if s, ok := list[0].(string); ok {
				return s
			}
		}
	}
	return ""
}
