package resolve

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/mindmirror-ai/mindmirror/internal/errors"
)

// DefaultBackoff is the fixed delay before a retryable provider's single
// retry. Constant, not exponential: each provider's total budget already
// caps how long the pair of attempts may take.
const DefaultBackoff = 1 * time.Second

// ChainEntry pairs a provider spec with its adapter.
type ChainEntry struct {
	Spec    ProviderSpec
	Adapter Adapter
}

// Chain walks a priority-ordered provider list for one capability. Every
// provider failure - transient, hard, timeout, or invalid response - is
// contained here; the only error a chain returns is ErrChainExhausted.
type Chain struct {
	capability Capability
	entries    []ChainEntry
	backoff    time.Duration
	log        zerolog.Logger
}

// NewChain creates a chain for the capability. Entries are sorted by
// ascending spec priority once; order never changes at runtime.
func NewChain(capability Capability, entries []ChainEntry, log zerolog.Logger) *Chain {
	sorted := make([]ChainEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Spec.Priority < sorted[j].Spec.Priority
	})
	return &Chain{
		capability: capability,
		entries:    sorted,
		backoff:    DefaultBackoff,
		log:        log.With().Str("capability", string(capability)).Logger(),
	}
}

// SetBackoff overrides the fixed retry backoff. Tests only.
func (c *Chain) SetBackoff(d time.Duration) {
	c.backoff = d
}

// Resolve tries each provider in priority order and returns the first
// result that decodes and validates. The first-priority provider yields
// TierPrimary; any later provider yields TierFallback. When every entry
// fails, Resolve returns ErrChainExhausted.
func (c *Chain) Resolve(ctx context.Context, req Request) (Result, error) {
	for i, ent := range c.entries {
		payload, err := c.attempt(ctx, ent, req)
		if err != nil {
			c.log.Warn().
				Str("provider", ent.Spec.ID).
				Str("category", apperrors.GetCategory(err).String()).
				Err(err).
				Msg("provider failed, advancing chain")
			if ctx.Err() != nil {
				// The caller's own deadline is gone; later providers
				// would fail the same way.
				break
			}
			continue
		}

		if !Validate(c.capability, payload) {
			c.log.Warn().
				Str("provider", ent.Spec.ID).
				Str("category", apperrors.CategoryInvalidResponse.String()).
				Msg("payload failed validation, advancing chain")
			continue
		}

		tier := TierPrimary
		if i > 0 {
			tier = TierFallback
		}
		c.log.Debug().
			Str("provider", ent.Spec.ID).
			Str("tier", tier.String()).
			Msg("provider resolved")
		return NewResult(tier, ent.Spec.ID, payload), nil
	}

	return Result{}, apperrors.ErrChainExhausted
}

// attempt runs one provider under its total budget: a call bounded by
// CallTimeout, then for retryable specs a single fixed-backoff retry on
// transient failure.
func (c *Chain) attempt(ctx context.Context, ent ChainEntry, req Request) (map[string]any, error) {
	provCtx, cancel := context.WithTimeout(ctx, ent.Spec.TotalBudget)
	defer cancel()

	policy := apperrors.NoRetry()
	if ent.Spec.Retryable {
		policy = apperrors.SingleRetry(c.backoff)
	}

	attempt := 0
	return apperrors.DoWithResult(provCtx, policy, func() (map[string]any, error) {
		attempt++
		if attempt > 1 {
			c.log.Debug().
				Str("provider", ent.Spec.ID).
				Int("attempt", attempt).
				Msg("retrying after transient failure")
		}

		callCtx, cancelCall := context.WithTimeout(provCtx, ent.Spec.CallTimeout)
		defer cancelCall()

		raw, err := ent.Adapter.Call(callCtx, req)
		if err != nil {
			return nil, classify(err)
		}

		payload, err := ent.Adapter.Decode(raw)
		if err != nil {
			return nil, apperrors.InvalidResponse(fmt.Sprintf("decode %s response: %v", ent.Spec.ID, err))
		}
		return payload, nil
	})
}

// classify maps adapter errors into the taxonomy. Adapters are expected
// to return categorized errors; bare context deadlines become transient
// timeouts, anything else is hard.
func classify(err error) error {
	var pe *apperrors.ProviderError
	if errors.As(err, &pe) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(err, apperrors.CodeTimeout, "provider call timed out", apperrors.CategoryTransient)
	}
	return apperrors.Wrap(err, apperrors.CodeUnavailable, "provider call failed", apperrors.CategoryHard)
}
