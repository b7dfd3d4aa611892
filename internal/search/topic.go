package search

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/podscout/internal/dedupe"
	"github.com/sells-group/podscout/internal/mapper"
	"github.com/sells-group/podscout/internal/model"
	"github.com/sells-group/podscout/internal/resilience"
	"github.com/sells-group/podscout/pkg/listennotes"
	"github.com/sells-group/podscout/pkg/podscan"
)

// SearchByTopic fans the keywords out across both providers concurrently,
// runs cross-provider enrichment, and returns the deduplicated lead set.
// A failing page ends pagination for that keyword and provider only; a
// provider that is down entirely just contributes nothing.
func (e *Engine) SearchByTopic(ctx context.Context, keywords []string, maxPerKeyword int) ([]model.UnifiedLead, error) {
	collectors := make([]*keywordCollector, len(keywords))

	g, gCtx := errgroup.WithContext(ctx)
	for i, keyword := range keywords {
		col := newKeywordCollector(maxPerKeyword)
		collectors[i] = col

		g.Go(func() error {
			e.paginateListenNotes(gCtx, keyword, col)
			return nil
		})
		g.Go(func() error {
			e.paginatePodscan(gCtx, keyword, col)
			return nil
		})
	}
	// Workers report failures via logs, not errors; Wait is just the join.
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []model.UnifiedLead
	for _, col := range collectors {
		all = append(all, col.drain()...)
	}

	zap.L().Info("topic search complete",
		zap.Int("keywords", len(keywords)),
		zap.Int("raw_leads", len(all)),
	)

	all = e.crossEnrich(ctx, all)
	return dedupe.DedupeAndMerge(all, model.SourceListenNotes), nil
}

// keywordCollector enforces the per-keyword result cap as a combined
// ceiling across both providers.
type keywordCollector struct {
	mu    sync.Mutex
	limit int
	leads []model.UnifiedLead
}

func newKeywordCollector(limit int) *keywordCollector {
	return &keywordCollector{limit: limit}
}

// add appends a lead and reports whether the collector can take more.
func (c *keywordCollector) add(lead model.UnifiedLead) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.leads) >= c.limit {
		return false
	}
	c.leads = append(c.leads, lead)
	return len(c.leads) < c.limit
}

func (c *keywordCollector) drain() []model.UnifiedLead {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.leads
}

func (e *Engine) paginateListenNotes(ctx context.Context, keyword string, col *keywordCollector) {
	log := zap.L().With(
		zap.String("provider", "listennotes"),
		zap.String("keyword", keyword),
	)

	offset := 0
	for {
		if ctx.Err() != nil {
			return
		}

		resp, err := resilience.RunVal(ctx, e.lnBreaker, func(ctx context.Context) (*listennotes.SearchResponse, error) {
			return e.listenNotes.Search(ctx, listennotes.SearchRequest{
				Query:  keyword,
				Offset: offset,
			})
		})
		if err != nil {
			log.Warn("page fetch failed, ending pagination for keyword",
				zap.Int("offset", offset),
				zap.Error(err),
			)
			return
		}
		if len(resp.Results) == 0 {
			return
		}

		for _, r := range resp.Results {
			if !col.add(mapper.FromListenNotesSearchResult(r)) {
				return
			}
		}

		// next_offset repeating or passing total means the last page.
		if resp.NextOffset <= offset || resp.NextOffset >= resp.Total {
			return
		}
		offset = resp.NextOffset
	}
}

func (e *Engine) paginatePodscan(ctx context.Context, keyword string, col *keywordCollector) {
	log := zap.L().With(
		zap.String("provider", "podscan"),
		zap.String("keyword", keyword),
	)

	page := 1
	for {
		if ctx.Err() != nil {
			return
		}

		resp, err := resilience.RunVal(ctx, e.psBreaker, func(ctx context.Context) (*podscan.SearchResponse, error) {
			return e.podscan.Search(ctx, podscan.SearchRequest{
				Query: keyword,
				Page:  page,
			})
		})
		if err != nil {
			log.Warn("page fetch failed, ending pagination for keyword",
				zap.Int("page", page),
				zap.Error(err),
			)
			return
		}
		if len(resp.Podcasts) == 0 {
			return
		}

		for _, p := range resp.Podcasts {
			if !col.add(mapper.FromPodscanPodcast(p)) {
				return
			}
		}

		if resp.Pagination.CurrentPage >= resp.Pagination.LastPage {
			return
		}
		page = resp.Pagination.CurrentPage + 1
	}
}
