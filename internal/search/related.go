package search

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/sells-group/podscout/internal/dedupe"
	"github.com/sells-group/podscout/internal/mapper"
	"github.com/sells-group/podscout/internal/model"
	"github.com/sells-group/podscout/internal/resilience"
	"github.com/sells-group/podscout/pkg/listennotes"
	"github.com/sells-group/podscout/pkg/podscan"
)

// SearchRelated walks the related-podcast graph breadth-first from the seed
// feed URL. The seed counts as depth 1 and entries through depth maxDepth
// are expanded, so maxDepth is the number of expansion levels. Results are
// keyed by feed URL during the walk; the seed itself never appears in the
// output, and the walk halts once maxTotal results are collected.
func (e *Engine) SearchRelated(ctx context.Context, seedFeedURL string, maxDepth, maxTotal int) ([]model.UnifiedLead, error) {
	log := zap.L().With(zap.String("seed", seedFeedURL))

	type entry struct {
		feedURL string
		depth   int
	}

	processed := map[string]bool{seedFeedURL: true}
	results := make(map[string]model.UnifiedLead)
	order := make([]string, 0, maxTotal)
	queue := []entry{{feedURL: seedFeedURL, depth: 1}}

	for len(queue) > 0 && len(results) < maxTotal {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cur := queue[0]
		queue = queue[1:]

		related := e.relatedOf(ctx, cur.feedURL)
		log.Debug("expanded related node",
			zap.String("feed_url", cur.feedURL),
			zap.Int("depth", cur.depth),
			zap.Int("found", len(related)),
		)

		for _, lead := range related {
			feed := lead.Key()
			if feed == "" || feed == seedFeedURL {
				continue
			}
			if _, seen := results[feed]; !seen {
				if len(results) >= maxTotal {
					break
				}
				results[feed] = lead
				order = append(order, feed)
			}
			if !processed[feed] && cur.depth < maxDepth {
				processed[feed] = true
				queue = append(queue, entry{feedURL: feed, depth: cur.depth + 1})
			}
		}
	}

	leads := make([]model.UnifiedLead, 0, len(order))
	for _, feed := range order {
		leads = append(leads, results[feed])
	}

	zap.L().Info("related search complete",
		zap.Int("max_depth", maxDepth),
		zap.Int("results", len(leads)),
	)

	leads = e.crossEnrich(ctx, leads)
	return dedupe.DedupeAndMerge(leads, model.SourceListenNotes), nil
}

// relatedOf resolves the node's provider IDs from its feed URL and fetches
// recommendations from Listen Notes and related podcasts from Podscan.
// Either provider missing the node or failing just thins the expansion.
func (e *Engine) relatedOf(ctx context.Context, feedURL string) []model.UnifiedLead {
	var out []model.UnifiedLead

	lnPodcast, err := resilience.RunVal(ctx, e.lnBreaker, func(ctx context.Context) (*listennotes.Podcast, error) {
		return e.listenNotes.LookupByFeed(ctx, feedURL)
	})
	switch {
	case errors.Is(err, listennotes.ErrNotFound):
		// Not in this catalog; nothing to expand on this side.
	case err != nil:
		zap.L().Warn("listennotes feed lookup failed",
			zap.String("feed_url", feedURL),
			zap.Error(err),
		)
	default:
		recs, recErr := resilience.RunVal(ctx, e.lnBreaker, func(ctx context.Context) (*listennotes.RecommendationsResponse, error) {
			return e.listenNotes.Recommendations(ctx, lnPodcast.ID)
		})
		if recErr != nil && !errors.Is(recErr, listennotes.ErrNotFound) {
			zap.L().Warn("listennotes recommendations failed",
				zap.String("podcast_id", lnPodcast.ID),
				zap.Error(recErr),
			)
		}
		if recErr == nil {
			for _, rec := range recs.Recommendations {
				out = append(out, mapper.FromListenNotesPodcast(rec))
			}
		}
	}

	psPodcast, err := resilience.RunVal(ctx, e.psBreaker, func(ctx context.Context) (*podscan.Podcast, error) {
		return e.podscan.LookupByFeed(ctx, feedURL)
	})
	switch {
	case errors.Is(err, podscan.ErrNotFound):
	case err != nil:
		zap.L().Warn("podscan feed lookup failed",
			zap.String("feed_url", feedURL),
			zap.Error(err),
		)
	default:
		related, relErr := resilience.RunVal(ctx, e.psBreaker, func(ctx context.Context) ([]podscan.Podcast, error) {
			return e.podscan.RelatedPodcasts(ctx, psPodcast.PodcastID)
		})
		if relErr != nil && !errors.Is(relErr, podscan.ErrNotFound) {
			zap.L().Warn("podscan related lookup failed",
				zap.String("podcast_id", psPodcast.PodcastID),
				zap.Error(relErr),
			)
		}
		for _, rel := range related {
			out = append(out, mapper.FromPodscanPodcast(rel))
		}
	}

	return out
}
