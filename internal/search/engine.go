// Package search discovers candidate podcasts from the catalog providers,
// either by keyword fan-out or by walking a seed podcast's related graph,
// and unifies the results into deduplicated leads.
package search

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/sells-group/podscout/internal/resilience"
	"github.com/sells-group/podscout/pkg/listennotes"
	"github.com/sells-group/podscout/pkg/podscan"
)

// defaultCrossLookupInterval spaces consecutive cross-provider lookups as a
// client-side courtesy to the providers.
const defaultCrossLookupInterval = 500 * time.Millisecond

// Engine runs the Search stage against both catalog providers.
type Engine struct {
	listenNotes listennotes.Client
	podscan     podscan.Client

	// One breaker per provider so a dead catalog fails fast across the
	// whole keyword fan-out instead of burning retries per keyword.
	lnBreaker *resilience.Breaker
	psBreaker *resilience.Breaker

	crossLimiter *rate.Limiter
}

// Option configures the engine.
type Option func(*Engine)

// WithCrossLookupInterval overrides the delay between consecutive
// cross-provider enrichment lookups.
func WithCrossLookupInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.crossLimiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithBreakerConfig replaces the provider breaker configuration.
func WithBreakerConfig(cfg resilience.BreakerConfig) Option {
	return func(e *Engine) {
		e.lnBreaker = resilience.NewBreaker(cfg)
		e.psBreaker = resilience.NewBreaker(cfg)
	}
}

// NewEngine creates a search engine over the two catalog clients.
func NewEngine(ln listennotes.Client, ps podscan.Client, opts ...Option) *Engine {
	e := &Engine{
		listenNotes:  ln,
		podscan:      ps,
		lnBreaker:    resilience.NewBreaker(resilience.BreakerConfig{}),
		psBreaker:    resilience.NewBreaker(resilience.BreakerConfig{}),
		crossLimiter: rate.NewLimiter(rate.Every(defaultCrossLookupInterval), 1),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}
