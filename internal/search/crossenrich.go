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

// crossEnrich fills provider-exclusive fields by looking each lead up in
// the other catalog: Listen Notes leads missing reach data go to Podscan,
// Podscan leads missing listen-score or episode-date metadata go to Listen
// Notes. Lookups run sequentially behind the courtesy limiter and only
// ever fill nil fields.
func (e *Engine) crossEnrich(ctx context.Context, leads []model.UnifiedLead) []model.UnifiedLead {
	var looked, filled int
	for i := range leads {
		var (
			donor *model.UnifiedLead
			err   error
		)

		switch {
		case leads[i].SourceAPI == model.SourceListenNotes && missingPodscanFields(leads[i]):
			donor, err = e.lookupPodscan(ctx, leads[i])
		case leads[i].SourceAPI == model.SourcePodscan && missingListenNotesFields(leads[i]):
			donor, err = e.lookupListenNotes(ctx, leads[i])
		default:
			continue
		}

		looked++
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if donor != nil {
			dedupe.FillMissing(&leads[i], *donor)
			filled++
		}
	}

	if looked > 0 {
		zap.L().Info("cross-provider enrichment complete",
			zap.Int("lookups", looked),
			zap.Int("filled", filled),
		)
	}
	return leads
}

// missingPodscanFields reports whether a Listen Notes lead lacks data that
// Podscan typically supplies.
func missingPodscanFields(lead model.UnifiedLead) bool {
	return lead.AudienceSize == nil ||
		lead.ItunesRatingAvg == nil ||
		lead.SpotifyRatingAvg == nil
}

// missingListenNotesFields reports whether a Podscan lead lacks data that
// Listen Notes typically supplies.
func missingListenNotesFields(lead model.UnifiedLead) bool {
	return lead.ListenScore == nil ||
		lead.ListenScoreGlobalRank == nil ||
		lead.LatestPubDateMs == nil ||
		lead.EarliestPubDateMs == nil ||
		lead.UpdateFrequencyHours == nil
}

func (e *Engine) lookupPodscan(ctx context.Context, lead model.UnifiedLead) (*model.UnifiedLead, error) {
	if err := e.crossLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	p, err := resilience.RunVal(ctx, e.psBreaker, func(ctx context.Context) (*podscan.Podcast, error) {
		if lead.ItunesID != nil {
			return e.podscan.LookupByItunesID(ctx, *lead.ItunesID)
		}
		if lead.FeedURL != nil {
			return e.podscan.LookupByFeed(ctx, *lead.FeedURL)
		}
		return nil, podscan.ErrNotFound
	})
	if err != nil {
		logCrossLookupMiss("podscan", lead, err)
		return nil, err
	}

	donor := mapper.FromPodscanPodcast(*p)
	return &donor, nil
}

func (e *Engine) lookupListenNotes(ctx context.Context, lead model.UnifiedLead) (*model.UnifiedLead, error) {
	if err := e.crossLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	p, err := resilience.RunVal(ctx, e.lnBreaker, func(ctx context.Context) (*listennotes.Podcast, error) {
		if lead.ItunesID != nil {
			return e.listenNotes.LookupByItunesID(ctx, *lead.ItunesID)
		}
		if lead.FeedURL != nil {
			return e.listenNotes.LookupByFeed(ctx, *lead.FeedURL)
		}
		return nil, listennotes.ErrNotFound
	})
	if err != nil {
		logCrossLookupMiss("listennotes", lead, err)
		return nil, err
	}

	donor := mapper.FromListenNotesPodcast(*p)
	return &donor, nil
}

func logCrossLookupMiss(provider string, lead model.UnifiedLead, err error) {
	if errors.Is(err, listennotes.ErrNotFound) || errors.Is(err, podscan.ErrNotFound) {
		zap.L().Debug("cross-provider lookup found nothing",
			zap.String("provider", provider),
			zap.String("api_id", lead.APIID),
		)
		return
	}
	zap.L().Warn("cross-provider lookup failed",
		zap.String("provider", provider),
		zap.String("api_id", lead.APIID),
		zap.Error(err),
	)
}
