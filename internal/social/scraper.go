package social

import (
	"context"

	"github.com/sells-group/podscout/pkg/apify"
)

// Stats is the reach record a platform scraper yields for one profile.
// Followers covers followers, subscribers, and connections depending on the
// platform; Likes covers page likes and TikTok hearts; Verified is set only
// on platforms that expose it.
type Stats struct {
	Followers *int64
	Likes     *int64
	Verified  *bool
}

// Scraper fetches reach stats for a batch of profile URLs on one platform.
type Scraper interface {
	Platform() Platform

	// Scrape returns stats keyed by canonical input URL. Input URLs must
	// already be canonical (see Canonicalize). URLs the provider returned
	// nothing usable for are absent from the map.
	Scrape(ctx context.Context, urls []string) (map[string]Stats, error)
}

// ActorIDs names the Apify actor backing each platform scraper.
type ActorIDs struct {
	Twitter   string
	LinkedIn  string
	Instagram string
	Facebook  string
	YouTube   string
	TikTok    string
}

// DefaultActorIDs returns the production actor set.
func DefaultActorIDs() ActorIDs {
	return ActorIDs{
		Twitter:   "apidojo~twitter-user-scraper",
		LinkedIn:  "dev_fusion~linkedin-profile-scraper",
		Instagram: "apify~instagram-profile-scraper",
		Facebook:  "apify~facebook-pages-scraper",
		YouTube:   "streamers~youtube-channel-scraper",
		TikTok:    "clockworks~tiktok-profile-scraper",
	}
}

// NewScrapers builds one scraper per platform over a shared Apify client.
func NewScrapers(client apify.Client, ids ActorIDs) map[Platform]Scraper {
	return map[Platform]Scraper{
		PlatformTwitter:   NewTwitterScraper(client, ids.Twitter),
		PlatformLinkedIn:  NewLinkedInScraper(client, ids.LinkedIn),
		PlatformInstagram: NewInstagramScraper(client, ids.Instagram),
		PlatformFacebook:  NewFacebookScraper(client, ids.Facebook),
		PlatformYouTube:   NewYouTubeScraper(client, ids.YouTube),
		PlatformTikTok:    NewTikTokScraper(client, ids.TikTok),
	}
}
