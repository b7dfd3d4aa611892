package main

import (
	"time"

	"github.com/sells-group/podscout/internal/cost"
	"github.com/sells-group/podscout/internal/enrich"
	"github.com/sells-group/podscout/internal/keywords"
	"github.com/sells-group/podscout/internal/llm"
	"github.com/sells-group/podscout/internal/metrics"
	"github.com/sells-group/podscout/internal/rss"
	"github.com/sells-group/podscout/internal/search"
	"github.com/sells-group/podscout/internal/social"
	"github.com/sells-group/podscout/internal/vet"
	"github.com/sells-group/podscout/pkg/apify"
	anthropicpkg "github.com/sells-group/podscout/pkg/anthropic"
	"github.com/sells-group/podscout/pkg/listennotes"
	"github.com/sells-group/podscout/pkg/perplexity"
	"github.com/sells-group/podscout/pkg/podscan"
)

// newLLMClient builds the shared provider client. A nil tracker disables
// usage recording; passing it as a concrete type keeps the interface value
// nil in that case.
func newLLMClient(tracker *cost.Tracker) llm.Client {
	anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
	perplexityClient := perplexity.NewClient(cfg.Perplexity.Key,
		perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
		perplexity.WithModel(cfg.Perplexity.Model),
	)
	opts := []llm.Option{
		llm.WithModel(cfg.Anthropic.Model),
		llm.WithMaxTokens(cfg.Anthropic.MaxTokens),
	}
	if tracker != nil {
		opts = append(opts, llm.WithUsageRecorder(tracker))
	}
	return llm.New(anthropicClient, perplexityClient, opts...)
}

func newKeywordGenerator(client llm.Client) *keywords.Generator {
	return keywords.NewGenerator(client)
}

func newSearchEngine() *search.Engine {
	lnClient := listennotes.NewClient(cfg.ListenNotes.Key,
		listennotes.WithBaseURL(cfg.ListenNotes.BaseURL),
	)
	psClient := podscan.NewClient(cfg.Podscan.Token,
		podscan.WithBaseURL(cfg.Podscan.BaseURL),
	)
	return search.NewEngine(lnClient, psClient)
}

func newEnricher(client llm.Client) *enrich.Orchestrator {
	apifyClient := apify.NewClient(cfg.Apify.Token,
		apify.WithBaseURL(cfg.Apify.BaseURL),
	)
	scrapers := social.NewScrapers(apifyClient, social.ActorIDs{
		Twitter:   cfg.Apify.Actors.Twitter,
		LinkedIn:  cfg.Apify.Actors.LinkedIn,
		Instagram: cfg.Apify.Actors.Instagram,
		Facebook:  cfg.Apify.Actors.Facebook,
		YouTube:   cfg.Apify.Actors.YouTube,
		TikTok:    cfg.Apify.Actors.TikTok,
	})

	discoverer := enrich.NewDiscoverer(client,
		enrich.WithProbeInterval(time.Duration(cfg.Enrich.ProbeIntervalMs)*time.Millisecond),
	)

	opts := []enrich.Option{enrich.WithWorkers(cfg.Enrich.Workers)}
	if cfg.Enrich.RSSEnabled {
		opts = append(opts, enrich.WithRSSParser(rss.NewParser()))
	}
	return enrich.NewOrchestrator(discoverer, scrapers, opts...)
}

func newVetter(client llm.Client) *vet.Engine {
	return vet.New(client, vet.WithWorkers(cfg.Vet.Workers))
}

func newMetricsSink() metrics.Sink {
	sinks := metrics.MultiSink{metrics.LogSink{}}
	if cfg.Metrics.Enabled {
		sinks = append(sinks, metrics.PromSink{})
	}
	return sinks
}
