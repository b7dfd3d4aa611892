package social

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/podscout/internal/model"
	"github.com/sells-group/podscout/pkg/apify"
)

type instagramScraper struct {
	client  apify.Client
	actorID string
}

// NewInstagramScraper creates the Instagram profile scraper.
func NewInstagramScraper(client apify.Client, actorID string) Scraper {
	return &instagramScraper{client: client, actorID: actorID}
}

func (s *instagramScraper) Platform() Platform { return PlatformInstagram }

type instagramInput struct {
	Usernames []string `json:"usernames"`
}

type instagramItem struct {
	Username       string `json:"username"`
	FollowersCount *int64 `json:"followersCount"`
	Verified       *bool  `json:"verified"`
}

func (s *instagramScraper) Scrape(ctx context.Context, urls []string) (map[string]Stats, error) {
	if len(urls) == 0 {
		return map[string]Stats{}, nil
	}

	// The actor takes bare usernames; keep the URL each one came from so
	// results key back to the canonical URL.
	byHandle := make(map[string]string, len(urls))
	usernames := make([]string, 0, len(urls))
	for _, u := range urls {
		h := strings.ToLower(Handle(u))
		if h == "" {
			continue
		}
		if _, dup := byHandle[h]; !dup {
			byHandle[h] = u
			usernames = append(usernames, h)
		}
	}
	if len(usernames) == 0 {
		return map[string]Stats{}, nil
	}

	raw, err := s.client.RunSyncGetDatasetItems(ctx, s.actorID, instagramInput{Usernames: usernames})
	if err != nil {
		return nil, eris.Wrap(err, "social: scrape instagram")
	}
	items, err := apify.DecodeItems[instagramItem](raw)
	if err != nil {
		return nil, eris.Wrap(err, "social: scrape instagram")
	}

	out := make(map[string]Stats, len(items))
	for _, item := range items {
		key, ok := byHandle[strings.ToLower(strings.TrimPrefix(item.Username, "@"))]
		if !ok {
			continue
		}
		stats := Stats{Followers: item.FollowersCount}
		if item.Verified != nil {
			stats.Verified = model.BoolPtr(*item.Verified)
		}
		out[key] = stats
	}

	zap.L().Debug("instagram scrape complete",
		zap.Int("requested", len(urls)),
		zap.Int("matched", len(out)),
	)
	return out, nil
}
