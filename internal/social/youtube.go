package social

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/podscout/pkg/apify"
)

type youtubeScraper struct {
	client  apify.Client
	actorID string
}

// NewYouTubeScraper creates the YouTube channel scraper.
func NewYouTubeScraper(client apify.Client, actorID string) Scraper {
	return &youtubeScraper{client: client, actorID: actorID}
}

func (s *youtubeScraper) Platform() Platform { return PlatformYouTube }

// youtubeInput keeps maxResults at zero so the actor returns channel info
// without crawling videos.
type youtubeInput struct {
	StartURLs        []startURL `json:"startUrls"`
	MaxResults       int        `json:"maxResults"`
	MaxResultsShorts int        `json:"maxResultsShorts"`
}

type youtubeItem struct {
	ChannelURL          string `json:"channelUrl"`
	InputChannelURL     string `json:"inputChannelUrl"`
	NumberOfSubscribers *int64 `json:"numberOfSubscribers"`
}

func (s *youtubeScraper) Scrape(ctx context.Context, urls []string) (map[string]Stats, error) {
	if len(urls) == 0 {
		return map[string]Stats{}, nil
	}

	input := youtubeInput{StartURLs: make([]startURL, 0, len(urls))}
	requested := make(map[string]bool, len(urls))
	for _, u := range urls {
		input.StartURLs = append(input.StartURLs, startURL{URL: u})
		requested[u] = true
	}

	raw, err := s.client.RunSyncGetDatasetItems(ctx, s.actorID, input)
	if err != nil {
		return nil, eris.Wrap(err, "social: scrape youtube")
	}
	items, err := apify.DecodeItems[youtubeItem](raw)
	if err != nil {
		return nil, eris.Wrap(err, "social: scrape youtube")
	}

	out := make(map[string]Stats, len(items))
	for _, item := range items {
		key := firstRequestedKey(requested, item.InputChannelURL, item.ChannelURL)
		if key == "" {
			continue
		}
		out[key] = Stats{Followers: item.NumberOfSubscribers}
	}

	zap.L().Debug("youtube scrape complete",
		zap.Int("requested", len(urls)),
		zap.Int("matched", len(out)),
	)
	return out, nil
}
