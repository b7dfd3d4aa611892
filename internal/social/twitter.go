package social

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/podscout/internal/model"
	"github.com/sells-group/podscout/pkg/apify"
)

// twitterMinBatch is the smallest batch the actor accepts. Shorter batches
// are padded with sentinel profiles whose results are stripped before
// returning.
const twitterMinBatch = 5

// twitterSentinels are stable, public profiles used only as batch padding.
var twitterSentinels = []string{
	"https://twitter.com/x",
	"https://twitter.com/nasa",
	"https://twitter.com/github",
	"https://twitter.com/wikipedia",
	"https://twitter.com/nytimes",
}

type twitterScraper struct {
	client  apify.Client
	actorID string
}

// NewTwitterScraper creates the Twitter/X profile scraper.
func NewTwitterScraper(client apify.Client, actorID string) Scraper {
	return &twitterScraper{client: client, actorID: actorID}
}

func (s *twitterScraper) Platform() Platform { return PlatformTwitter }

type twitterInput struct {
	StartURLs     []string `json:"startUrls"`
	GetFollowers  bool     `json:"getFollowers"`
	GetFollowing  bool     `json:"getFollowing"`
	GetRetweeters bool     `json:"getRetweeters"`
}

type twitterItem struct {
	UserName       string `json:"userName"`
	URL            string `json:"url"`
	Followers      *int64 `json:"followers"`
	IsVerified     *bool  `json:"isVerified"`
	IsBlueVerified *bool  `json:"isBlueVerified"`
}

func (s *twitterScraper) Scrape(ctx context.Context, urls []string) (map[string]Stats, error) {
	if len(urls) == 0 {
		return map[string]Stats{}, nil
	}

	requested := make(map[string]bool, len(urls))
	batch := make([]string, 0, len(urls)+twitterMinBatch)
	for _, u := range urls {
		requested[u] = true
		batch = append(batch, u)
	}
	for _, sentinel := range twitterSentinels {
		if len(batch) >= twitterMinBatch {
			break
		}
		if !requested[sentinel] {
			batch = append(batch, sentinel)
		}
	}

	raw, err := s.client.RunSyncGetDatasetItems(ctx, s.actorID, twitterInput{StartURLs: batch})
	if err != nil {
		return nil, eris.Wrap(err, "social: scrape twitter")
	}
	items, err := apify.DecodeItems[twitterItem](raw)
	if err != nil {
		return nil, eris.Wrap(err, "social: scrape twitter")
	}

	out := make(map[string]Stats, len(urls))
	for _, item := range items {
		key := s.keyOf(item)
		if key == "" || !requested[key] {
			continue
		}
		stats := Stats{Followers: item.Followers}
		if item.IsVerified != nil || item.IsBlueVerified != nil {
			verified := (item.IsVerified != nil && *item.IsVerified) ||
				(item.IsBlueVerified != nil && *item.IsBlueVerified)
			stats.Verified = model.BoolPtr(verified)
		}
		out[key] = stats
	}

	zap.L().Debug("twitter scrape complete",
		zap.Int("requested", len(urls)),
		zap.Int("padded", len(batch)-len(urls)),
		zap.Int("matched", len(out)),
	)
	return out, nil
}

// keyOf maps an item back to its canonical profile URL, preferring the
// echoed URL over one rebuilt from the handle.
func (s *twitterScraper) keyOf(item twitterItem) string {
	if item.URL != "" {
		return Canonicalize(item.URL)
	}
	if item.UserName != "" {
		return ProfileURL(PlatformTwitter, item.UserName)
	}
	return ""
}
