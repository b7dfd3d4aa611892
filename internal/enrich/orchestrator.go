package enrich

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/podscout/internal/model"
	"github.com/sells-group/podscout/internal/rss"
	"github.com/sells-group/podscout/internal/social"
)

// defaultWorkers bounds the per-lead fan-out in phases 1 and 3.
const defaultWorkers = 8

// Orchestrator runs the three enrichment phases over a lead set.
type Orchestrator struct {
	discoverer Discoverer
	scrapers   map[social.Platform]social.Scraper
	feeds      *rss.Parser
	workers    int
	now        func() time.Time
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithWorkers bounds the concurrent per-lead tasks in phases 1 and 3.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithRSSParser enables the feed side-channel: owner, explicit flag, and
// categories are read from each lead's feed during the merge phase.
func WithRSSParser(p *rss.Parser) Option {
	return func(o *Orchestrator) {
		o.feeds = p
	}
}

// NewOrchestrator creates an enrichment orchestrator over the discoverer
// and the per-platform scrapers.
func NewOrchestrator(d Discoverer, scrapers map[social.Platform]social.Scraper, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		discoverer: d,
		scrapers:   scrapers,
		workers:    defaultWorkers,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// EnrichAll produces one profile per input lead, in input order. A lead
// whose merge fails yields a nil entry rather than shrinking the output;
// discovery and scrape failures degrade to missing data instead. The error
// return is only non-nil when the context is cancelled.
func (o *Orchestrator) EnrichAll(ctx context.Context, leads []model.UnifiedLead) ([]*model.EnrichedProfile, error) {
	if len(leads) == 0 {
		return nil, nil
	}

	// Phase 1: per-lead discovery, concurrent. A failed discovery leaves a
	// nil hints entry; the merge still runs on base data.
	hints := make([]*Hints, len(leads))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := range leads {
		g.Go(func() error {
			h, err := o.discoverer.Discover(gCtx, leads[i])
			if err != nil {
				zap.L().Warn("discovery failed for lead",
					zap.String("api_id", leads[i].APIID),
					zap.Error(err),
				)
				return nil
			}
			hints[i] = h
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 2: one batch per platform over the union of URLs from every
	// lead and hint. The barrier above means these sets are complete; the
	// scrapers' batch economics depend on that.
	stats := o.scrapeAll(ctx, collectPlatformURLs(leads, hints))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 3: per-lead merge, concurrent, output order = input order.
	profiles := make([]*model.EnrichedProfile, len(leads))
	g3, g3Ctx := errgroup.WithContext(ctx)
	g3.SetLimit(o.workers)
	for i := range leads {
		g3.Go(func() error {
			profiles[i] = o.mergeOne(g3Ctx, leads[i], hints[i], stats)
			return nil
		})
	}
	_ = g3.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.logReachSummary(profiles)
	return profiles, nil
}

// mergeOne runs the Phase 3 merge for a single lead, fetching the feed
// side-channel when enabled. A panic in the merge nils this lead's slot
// only.
func (o *Orchestrator) mergeOne(
	ctx context.Context,
	lead model.UnifiedLead,
	hints *Hints,
	stats map[social.Platform]map[string]social.Stats,
) (profile *model.EnrichedProfile) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("profile merge panicked",
				zap.String("api_id", lead.APIID),
				zap.Any("panic", r),
			)
			profile = nil
		}
	}()

	var feed *rss.Metadata
	if o.feeds != nil && lead.FeedURL != nil {
		md, err := o.feeds.Fetch(ctx, *lead.FeedURL)
		if err != nil {
			zap.L().Debug("feed probe failed",
				zap.String("feed_url", *lead.FeedURL),
				zap.Error(err),
			)
		} else {
			feed = md
		}
	}

	return buildProfile(lead, hints, feed, stats, o.now())
}

// scrapeAll issues one batch per platform, concurrently. A platform whose
// scrape fails contributes an empty map; missing entries mean "no data".
func (o *Orchestrator) scrapeAll(ctx context.Context, urls map[social.Platform][]string) map[social.Platform]map[string]social.Stats {
	stats := make(map[social.Platform]map[string]social.Stats, len(urls))

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	for platform, batch := range urls {
		scraper, ok := o.scrapers[platform]
		if !ok || len(batch) == 0 {
			continue
		}
		g.Go(func() error {
			m, err := scraper.Scrape(gCtx, batch)
			if err != nil {
				zap.L().Warn("platform scrape failed",
					zap.String("platform", string(platform)),
					zap.Int("urls", len(batch)),
					zap.Error(err),
				)
				return nil
			}
			mu.Lock()
			stats[platform] = m
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return stats
}

// collectPlatformURLs builds the per-platform URL sets scraped in Phase 2:
// the union, across all leads, of base-lead URLs and discovered hint URLs,
// canonicalized and sorted.
func collectPlatformURLs(leads []model.UnifiedLead, hints []*Hints) map[social.Platform][]string {
	sets := make(map[social.Platform]map[string]bool)
	add := func(platform social.Platform, raw *string) {
		if raw == nil {
			return
		}
		canon := social.Canonicalize(*raw)
		if canon == "" {
			return
		}
		if sets[platform] == nil {
			sets[platform] = make(map[string]bool)
		}
		sets[platform][canon] = true
	}

	for i := range leads {
		for _, slot := range platformSlots() {
			add(slot.platform, slot.fromLead(&leads[i]))
			if hints[i] != nil {
				for _, u := range slot.fromHints(hints[i]) {
					add(slot.platform, u)
				}
			}
		}
	}

	out := make(map[social.Platform][]string, len(sets))
	for platform, set := range sets {
		batch := make([]string, 0, len(set))
		for u := range set {
			batch = append(batch, u)
		}
		sort.Strings(batch)
		out[platform] = batch
	}
	return out
}

// logReachSummary reports, per platform, how many profiles ended up with
// reach data.
func (o *Orchestrator) logReachSummary(profiles []*model.EnrichedProfile) {
	var merged, failed int
	counts := make(map[social.Platform]int, 6)
	for _, p := range profiles {
		if p == nil {
			failed++
			continue
		}
		merged++
		if p.TwitterFollowers != nil {
			counts[social.PlatformTwitter]++
		}
		if p.LinkedInConnections != nil {
			counts[social.PlatformLinkedIn]++
		}
		if p.InstagramFollowers != nil {
			counts[social.PlatformInstagram]++
		}
		if p.FacebookLikes != nil {
			counts[social.PlatformFacebook]++
		}
		if p.YouTubeSubscribers != nil {
			counts[social.PlatformYouTube]++
		}
		if p.TikTokFollowers != nil {
			counts[social.PlatformTikTok]++
		}
	}

	zap.L().Info("enrichment complete",
		zap.Int("profiles", merged),
		zap.Int("failed", failed),
		zap.Int("twitter_reach", counts[social.PlatformTwitter]),
		zap.Int("linkedin_reach", counts[social.PlatformLinkedIn]),
		zap.Int("instagram_reach", counts[social.PlatformInstagram]),
		zap.Int("facebook_reach", counts[social.PlatformFacebook]),
		zap.Int("youtube_reach", counts[social.PlatformYouTube]),
		zap.Int("tiktok_reach", counts[social.PlatformTikTok]),
	)
}
