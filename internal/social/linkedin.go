package social

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/podscout/pkg/apify"
)

type linkedinScraper struct {
	client  apify.Client
	actorID string
}

// NewLinkedInScraper creates the LinkedIn profile scraper.
func NewLinkedInScraper(client apify.Client, actorID string) Scraper {
	return &linkedinScraper{client: client, actorID: actorID}
}

func (s *linkedinScraper) Platform() Platform { return PlatformLinkedIn }

type linkedinInput struct {
	ProfileURLs []string `json:"profileUrls"`
}

type linkedinItem struct {
	LinkedInURL string `json:"linkedinUrl"`
	InputURL    string `json:"inputUrl"`
	Connections *int64 `json:"connections"`
	Followers   *int64 `json:"followers"`
}

func (s *linkedinScraper) Scrape(ctx context.Context, urls []string) (map[string]Stats, error) {
	if len(urls) == 0 {
		return map[string]Stats{}, nil
	}

	raw, err := s.client.RunSyncGetDatasetItems(ctx, s.actorID, linkedinInput{ProfileURLs: urls})
	if err != nil {
		return nil, eris.Wrap(err, "social: scrape linkedin")
	}
	items, err := apify.DecodeItems[linkedinItem](raw)
	if err != nil {
		return nil, eris.Wrap(err, "social: scrape linkedin")
	}

	requested := make(map[string]bool, len(urls))
	for _, u := range urls {
		requested[u] = true
	}

	out := make(map[string]Stats, len(items))
	for _, item := range items {
		key := firstRequestedKey(requested, item.InputURL, item.LinkedInURL)
		if key == "" {
			continue
		}
		// Personal profiles report connections, company pages followers.
		count := item.Connections
		if count == nil {
			count = item.Followers
		}
		out[key] = Stats{Followers: count}
	}

	zap.L().Debug("linkedin scrape complete",
		zap.Int("requested", len(urls)),
		zap.Int("matched", len(out)),
	)
	return out, nil
}

// firstRequestedKey canonicalizes each candidate echo URL and returns the
// first one present in the requested set.
func firstRequestedKey(requested map[string]bool, candidates ...string) string {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if key := Canonicalize(c); requested[key] {
			return key
		}
	}
	return ""
}
