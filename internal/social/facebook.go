package social

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/podscout/pkg/apify"
)

type facebookScraper struct {
	client  apify.Client
	actorID string
}

// NewFacebookScraper creates the Facebook page scraper.
func NewFacebookScraper(client apify.Client, actorID string) Scraper {
	return &facebookScraper{client: client, actorID: actorID}
}

func (s *facebookScraper) Platform() Platform { return PlatformFacebook }

type facebookInput struct {
	StartURLs []startURL `json:"startUrls"`
}

// startURL is the {"url": ...} shape several actors take for URL lists.
type startURL struct {
	URL string `json:"url"`
}

type facebookItem struct {
	FacebookURL string `json:"facebookUrl"`
	PageURL     string `json:"pageUrl"`
	Likes       *int64 `json:"likes"`
	Followers   *int64 `json:"followers"`
}

func (s *facebookScraper) Scrape(ctx context.Context, urls []string) (map[string]Stats, error) {
	if len(urls) == 0 {
		return map[string]Stats{}, nil
	}

	input := facebookInput{StartURLs: make([]startURL, 0, len(urls))}
	requested := make(map[string]bool, len(urls))
	for _, u := range urls {
		input.StartURLs = append(input.StartURLs, startURL{URL: u})
		requested[u] = true
	}

	raw, err := s.client.RunSyncGetDatasetItems(ctx, s.actorID, input)
	if err != nil {
		return nil, eris.Wrap(err, "social: scrape facebook")
	}
	items, err := apify.DecodeItems[facebookItem](raw)
	if err != nil {
		return nil, eris.Wrap(err, "social: scrape facebook")
	}

	out := make(map[string]Stats, len(items))
	for _, item := range items {
		key := firstRequestedKey(requested, item.FacebookURL, item.PageURL)
		if key == "" {
			continue
		}
		out[key] = Stats{Likes: item.Likes, Followers: item.Followers}
	}

	zap.L().Debug("facebook scrape complete",
		zap.Int("requested", len(urls)),
		zap.Int("matched", len(out)),
	)
	return out, nil
}
