package server

import (
	"github.com/rs/zerolog"

	"github.com/mindmirror-ai/mindmirror/internal/cache"
	"github.com/mindmirror-ai/mindmirror/internal/config"
	"github.com/mindmirror-ai/mindmirror/internal/fallback"
	"github.com/mindmirror-ai/mindmirror/internal/pipeline"
	"github.com/mindmirror-ai/mindmirror/internal/provider"
	"github.com/mindmirror-ai/mindmirror/internal/resolve"
	"github.com/mindmirror-ai/mindmirror/internal/safety"
	"github.com/mindmirror-ai/mindmirror/internal/stats"
)

// Engine bundles the per-capability resolvers and the pipeline
// orchestrator behind one assembly point.
type Engine struct {
	Resolvers map[resolve.Capability]*resolve.Resolver
	Pipeline  *pipeline.Orchestrator
	Stats     *stats.Collector
}

// BuildEngine assembles the full resolution engine from configuration:
// adapters, chains, caches, fallbacks, and the orchestrator.
func BuildEngine(cfg *config.Config, log zerolog.Logger) *Engine {
	interceptor := safety.NewInterceptor(cfg.Safety.Phrases)
	results := cache.New[resolve.Result](cfg.Cache.Capacity)
	runs := cache.New[pipeline.Result](cfg.Cache.Capacity)
	collector := stats.NewCollector()

	build := func(capability resolve.Capability, local resolve.LocalGenerator, guard *safety.Interceptor) *resolve.Resolver {
		specs := cfg.Providers.Entries(capability)
		entries := make([]resolve.ChainEntry, 0, len(specs))
		for _, e := range specs {
			var adapter resolve.Adapter
			switch e.Kind {
			case config.KindOpenRouter:
				adapter = provider.NewOpenRouter(provider.Config{
					ID:      e.ID,
					Model:   e.Model,
					BaseURL: cfg.Providers.OpenRouterURL,
					APIKey:  cfg.OpenRouterKey(),
				})
			default:
				adapter = provider.NewHuggingFace(provider.Config{
					ID:      e.ID,
					Model:   e.Model,
					BaseURL: cfg.Providers.HuggingFaceURL,
					APIKey:  cfg.HuggingFaceKey(),
				}, capability)
			}
			entries = append(entries, resolve.ChainEntry{
				Spec: resolve.ProviderSpec{
					ID:          e.ID,
					Priority:    e.Priority,
					CallTimeout: e.CallTimeout.Duration,
					TotalBudget: e.TotalBudget.Duration,
					Retryable:   e.Retryable,
				},
				Adapter: adapter,
			})
		}

		ttl := cfg.Cache.DefaultTTL.Duration
		if capability == resolve.CapabilityReflection {
			ttl = cfg.Cache.ReflectionTTL.Duration
		}

		return resolve.NewResolver(resolve.ResolverConfig{
			Capability: capability,
			Chain:      resolve.NewChain(capability, entries, log),
			Cache:      results,
			Safety:     guard,
			Local:      local,
			Minimal:    fallback.Minimal(capability),
			TTL:        ttl,
			LocalTTL:   cfg.Cache.LocalTTL.Duration,
			Log:        log,
		})
	}

	resolvers := map[resolve.Capability]*resolve.Resolver{
		resolve.CapabilityEmotion:       build(resolve.CapabilityEmotion, fallback.NewEmotionLocal(), nil),
		resolve.CapabilityReflection:    build(resolve.CapabilityReflection, fallback.NewReflectionLocal(interceptor, nil), interceptor),
		resolve.CapabilityArt:           build(resolve.CapabilityArt, fallback.NewArtLocal(), nil),
		resolve.CapabilityTranscription: build(resolve.CapabilityTranscription, fallback.NewTranscriptionLocal(), nil),
		resolve.CapabilitySpeech:        build(resolve.CapabilitySpeech, fallback.NewSpeechLocal(), nil),
	}

	var speechResolver *resolve.Resolver
	if cfg.Pipeline.EnableSpeech {
		speechResolver = resolvers[resolve.CapabilitySpeech]
	}

	orchestrator := pipeline.NewOrchestrator(pipeline.Config{
		Emotion:    resolvers[resolve.CapabilityEmotion],
		Reflection: resolvers[resolve.CapabilityReflection],
		Art:        resolvers[resolve.CapabilityArt],
		Speech:     speechResolver,
		Safety:     interceptor,
		Cache:      runs,
		TTL:        cfg.Cache.PipelineTTL.Duration,
		Stats:      collector,
		Log:        log,
	})

	return &Engine{
		Resolvers: resolvers,
		Pipeline:  orchestrator,
		Stats:     collector,
	}
}
