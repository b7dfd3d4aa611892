package social

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/podscout/internal/model"
	"github.com/sells-group/podscout/pkg/apify"
)

type tiktokScraper struct {
	client  apify.Client
	actorID string
	limiter *rate.Limiter
}

// NewTikTokScraper creates the TikTok profile scraper. The actor handles
// one profile per run, so batches are issued sequentially with a one
// second delay between runs.
func NewTikTokScraper(client apify.Client, actorID string) Scraper {
	return &tiktokScraper{
		client:  client,
		actorID: actorID,
		limiter: rate.NewLimiter(rate.Limit(1), 1),
	}
}

func (s *tiktokScraper) Platform() Platform { return PlatformTikTok }

type tiktokInput struct {
	Profiles       []string `json:"profiles"`
	ResultsPerPage int      `json:"resultsPerPage"`
}

type tiktokItem struct {
	AuthorMeta *tiktokAuthorMeta `json:"authorMeta"`
}

type tiktokAuthorMeta struct {
	Name     string `json:"name"`
	Fans     *int64 `json:"fans"`
	Heart    *int64 `json:"heart"`
	Verified *bool  `json:"verified"`
}

func (s *tiktokScraper) Scrape(ctx context.Context, urls []string) (map[string]Stats, error) {
	out := make(map[string]Stats, len(urls))
	for _, u := range urls {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "social: scrape tiktok")
		}

		stats, ok, err := s.scrapeOne(ctx, u)
		if err != nil {
			// One failed profile does not sink the rest of the batch.
			zap.L().Warn("tiktok scrape failed for profile",
				zap.String("url", u),
				zap.Error(err),
			)
			continue
		}
		if ok {
			out[u] = stats
		}
	}

	zap.L().Debug("tiktok scrape complete",
		zap.Int("requested", len(urls)),
		zap.Int("matched", len(out)),
	)
	return out, nil
}

func (s *tiktokScraper) scrapeOne(ctx context.Context, u string) (Stats, bool, error) {
	handle := Handle(u)
	if handle == "" {
		return Stats{}, false, nil
	}

	raw, err := s.client.RunSyncGetDatasetItems(ctx, s.actorID, tiktokInput{
		Profiles:       []string{handle},
		ResultsPerPage: 1,
	})
	if err != nil {
		return Stats{}, false, err
	}
	items, err := apify.DecodeItems[tiktokItem](raw)
	if err != nil {
		return Stats{}, false, err
	}

	// Items are posts by the requested profile; author stats repeat on
	// each, so the first item with them wins.
	for _, item := range items {
		meta := item.AuthorMeta
		if meta == nil {
			continue
		}
		if ProfileURL(PlatformTikTok, meta.Name) != u {
			continue
		}
		stats := Stats{Followers: meta.Fans, Likes: meta.Heart}
		if meta.Verified != nil {
			stats.Verified = model.BoolPtr(*meta.Verified)
		}
		return stats, true, nil
	}
	return Stats{}, false, nil
}
