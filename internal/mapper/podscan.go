package mapper

import (
	"time"

	"github.com/sells-group/podscout/internal/model"
	"github.com/sells-group/podscout/internal/social"
	"github.com/sells-group/podscout/pkg/podscan"
)

// podscanTimeLayout is the timestamp format Podscan uses, in UTC.
const podscanTimeLayout = "2006-01-02 15:04:05"

// FromPodscanPodcast maps a Podscan record, flattening its reach block and
// routing social links to per-platform fields.
func FromPodscanPodcast(p podscan.Podcast) model.UnifiedLead {
	lead := model.UnifiedLead{
		SourceAPI:         model.SourcePodscan,
		APIID:             p.PodcastID,
		FeedURL:           strOrNil(p.RSSURL),
		SpotifyID:         strOrNil(p.PodcastSpotifyID),
		Website:           strOrNil(p.PodcastURL),
		Title:             strOrNil(p.PodcastName),
		Description:       strOrNil(p.PodcastDescription),
		ImageURL:          strOrNil(p.PodcastImageURL),
		Language:          strOrNil(p.PodcastLanguage),
		LatestPubDateMs:   msFromTimestamp(p.LastPostedAt),
		EarliestPubDateMs: msFromTimestamp(p.FirstPostedAt),
	}
	if p.PodcastItunesID != nil {
		lead.ItunesID = model.Int64Ptr(*p.PodcastItunesID)
	}
	if p.EpisodeCount != nil {
		lead.TotalEpisodes = model.IntPtr(*p.EpisodeCount)
	}

	if p.Reach != nil {
		lead.Email = strOrNil(p.Reach.Email)
		if p.Reach.AudienceSize != nil {
			lead.AudienceSize = model.Int64Ptr(*p.Reach.AudienceSize)
		}
		if it := p.Reach.Itunes; it != nil {
			if it.ItunesRatingAverage != nil {
				lead.ItunesRatingAvg = model.Float64Ptr(*it.ItunesRatingAverage)
			}
			if it.ItunesRatingCount != nil {
				lead.ItunesRatingCount = model.IntPtr(*it.ItunesRatingCount)
			}
		}
		if sp := p.Reach.Spotify; sp != nil {
			if sp.SpotifyRatingAverage != nil {
				lead.SpotifyRatingAvg = model.Float64Ptr(*sp.SpotifyRatingAverage)
			}
			if sp.SpotifyRatingCount != nil {
				lead.SpotifyRatingCount = model.IntPtr(*sp.SpotifyRatingCount)
			}
		}
		assignSocialLinks(&lead, p.Reach.SocialLinks)
	}

	return lead
}

// assignSocialLinks routes links to per-platform fields, first match wins.
// Links that match no platform land in OtherSocialURL.
func assignSocialLinks(lead *model.UnifiedLead, links []podscan.SocialLink) {
	for _, link := range links {
		if link.URL == "" {
			continue
		}
		canonical := social.Canonicalize(link.URL)

		platform, ok := platformOf(link)
		if !ok {
			if lead.OtherSocialURL == nil {
				lead.OtherSocialURL = model.StrPtr(canonical)
			}
			continue
		}

		slot := platformSlot(lead, platform)
		if *slot == nil {
			*slot = model.StrPtr(canonical)
		}
	}
}

// platformOf classifies a link by its label when Podscan provides one,
// falling back to URL host detection.
func platformOf(link podscan.SocialLink) (social.Platform, bool) {
	switch link.Platform {
	case "twitter", "x":
		return social.PlatformTwitter, true
	case "linkedin":
		return social.PlatformLinkedIn, true
	case "instagram":
		return social.PlatformInstagram, true
	case "facebook":
		return social.PlatformFacebook, true
	case "youtube":
		return social.PlatformYouTube, true
	case "tiktok":
		return social.PlatformTikTok, true
	}
	return social.DetectPlatform(link.URL)
}

func platformSlot(lead *model.UnifiedLead, p social.Platform) **string {
	switch p {
	case social.PlatformTwitter:
		return &lead.TwitterURL
	case social.PlatformLinkedIn:
		return &lead.LinkedInURL
	case social.PlatformInstagram:
		return &lead.InstagramURL
	case social.PlatformFacebook:
		return &lead.FacebookURL
	case social.PlatformYouTube:
		return &lead.YouTubeURL
	case social.PlatformTikTok:
		return &lead.TikTokURL
	default:
		return &lead.OtherSocialURL
	}
}

func msFromTimestamp(s string) *int64 {
	if s == "" {
		return nil
	}
	t, err := time.Parse(podscanTimeLayout, s)
	if err != nil {
		return nil
	}
	return model.Int64Ptr(t.UnixMilli())
}
