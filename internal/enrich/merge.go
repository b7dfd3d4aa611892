package enrich

import (
	"net/url"
	"time"

	"github.com/sells-group/podscout/internal/model"
	"github.com/sells-group/podscout/internal/rss"
	"github.com/sells-group/podscout/internal/social"
)

// hoursPerDay converts the catalog's update frequency to days.
const hoursPerDay = 24.0

// platformSlot wires one social platform through the merge: where its URL
// candidates come from, in priority order, and which profile fields its
// stats land in. Orientation is the label recorded in the data-source tag;
// LinkedIn is host-oriented because shows rarely have company pages while
// hosts have profiles.
type platformSlot struct {
	platform    social.Platform
	orientation string
	fromLead    func(*model.UnifiedLead) *string
	fromHints   func(*Hints) []*string
	setURL      func(*model.EnrichedProfile, *string)
	setStats    func(*model.EnrichedProfile, social.Stats)
}

func platformSlots() []platformSlot {
	return []platformSlot{
		{
			platform:    social.PlatformTwitter,
			orientation: "podcast",
			fromLead:    func(l *model.UnifiedLead) *string { return l.TwitterURL },
			fromHints: func(h *Hints) []*string {
				return []*string{h.PodcastTwitterURL, h.HostTwitterURL}
			},
			setURL: func(p *model.EnrichedProfile, u *string) { p.TwitterURL = u },
			setStats: func(p *model.EnrichedProfile, s social.Stats) {
				p.TwitterFollowers = s.Followers
				p.IsTwitterVerified = s.Verified
			},
		},
		{
			platform:    social.PlatformLinkedIn,
			orientation: "host",
			fromLead:    func(l *model.UnifiedLead) *string { return l.LinkedInURL },
			fromHints: func(h *Hints) []*string {
				return []*string{h.HostLinkedInURL, h.PodcastLinkedInURL}
			},
			setURL: func(p *model.EnrichedProfile, u *string) { p.LinkedInURL = u },
			setStats: func(p *model.EnrichedProfile, s social.Stats) {
				p.LinkedInConnections = s.Followers
			},
		},
		{
			platform:    social.PlatformInstagram,
			orientation: "podcast",
			fromLead:    func(l *model.UnifiedLead) *string { return l.InstagramURL },
			fromHints: func(h *Hints) []*string {
				return []*string{h.PodcastInstagramURL}
			},
			setURL: func(p *model.EnrichedProfile, u *string) { p.InstagramURL = u },
			setStats: func(p *model.EnrichedProfile, s social.Stats) {
				p.InstagramFollowers = s.Followers
			},
		},
		{
			platform:    social.PlatformFacebook,
			orientation: "podcast",
			fromLead:    func(l *model.UnifiedLead) *string { return l.FacebookURL },
			fromHints: func(h *Hints) []*string {
				return []*string{h.PodcastFacebookURL}
			},
			setURL: func(p *model.EnrichedProfile, u *string) { p.FacebookURL = u },
			setStats: func(p *model.EnrichedProfile, s social.Stats) {
				// Pages report likes; profiles only followers.
				if s.Likes != nil {
					p.FacebookLikes = s.Likes
				} else {
					p.FacebookLikes = s.Followers
				}
			},
		},
		{
			platform:    social.PlatformYouTube,
			orientation: "podcast",
			fromLead:    func(l *model.UnifiedLead) *string { return l.YouTubeURL },
			fromHints: func(h *Hints) []*string {
				return []*string{h.PodcastYouTubeURL}
			},
			setURL: func(p *model.EnrichedProfile, u *string) { p.YouTubeURL = u },
			setStats: func(p *model.EnrichedProfile, s social.Stats) {
				p.YouTubeSubscribers = s.Followers
			},
		},
		{
			platform:    social.PlatformTikTok,
			orientation: "podcast",
			fromLead:    func(l *model.UnifiedLead) *string { return l.TikTokURL },
			fromHints: func(h *Hints) []*string {
				return []*string{h.PodcastTikTokURL}
			},
			setURL: func(p *model.EnrichedProfile, u *string) { p.TikTokURL = u },
			setStats: func(p *model.EnrichedProfile, s social.Stats) {
				p.TikTokFollowers = s.Followers
				p.TikTokLikes = s.Likes
			},
		},
	}
}

// winner picks the slot's URL: the base lead's value first, then the hint
// candidates in their priority order, each subject to http(s) validity.
func (s platformSlot) winner(lead *model.UnifiedLead, hints *Hints) *string {
	if u := s.fromLead(lead); isHTTPURL(u) {
		return u
	}
	if hints == nil {
		return nil
	}
	for _, u := range s.fromHints(hints) {
		if isHTTPURL(u) {
			return u
		}
	}
	return nil
}

func isHTTPURL(s *string) bool {
	if s == nil {
		return false
	}
	u, err := url.Parse(*s)
	return err == nil && u.Host != "" && (u.Scheme == "http" || u.Scheme == "https")
}

// buildProfile merges one lead with its discovery hints, optional feed
// metadata, and the scraped platform stats into an EnrichedProfile. A reach
// counter is only ever set alongside its URL, so the profile invariant
// (counter implies URL) holds by construction.
func buildProfile(
	lead model.UnifiedLead,
	hints *Hints,
	feed *rss.Metadata,
	stats map[social.Platform]map[string]social.Stats,
	now time.Time,
) *model.EnrichedProfile {
	p := &model.EnrichedProfile{
		UnifiedLead:    lead,
		LastEnrichedAt: now.UTC(),
	}
	p.AddDataSource(searchTag(lead.SourceAPI))

	if feed != nil {
		p.RSSOwnerName = feed.OwnerName
		p.RSSOwnerEmail = feed.OwnerEmail
		p.RSSExplicit = feed.Explicit
		p.RSSCategories = feed.Categories
		if p.Language == nil {
			p.Language = feed.Language
		}
		if p.Website == nil {
			p.Website = feed.Website
		}
		p.AddDataSource(model.DataSourceRSS)
	}

	if hints != nil && len(hints.HostNames) > 0 {
		p.HostNames = hints.HostNames
		p.AddDataSource(model.DataSourceLLMHost)
	}

	for _, slot := range platformSlots() {
		winner := slot.winner(&lead, hints)
		if winner == nil {
			continue
		}
		slot.setURL(p, winner)

		platformStats := stats[slot.platform]
		if platformStats == nil {
			continue
		}
		if st, ok := platformStats[social.Canonicalize(*winner)]; ok {
			slot.setStats(p, st)
			p.AddDataSource(model.ApifySourceTag(slot.orientation, string(slot.platform)))
		}
	}

	if p.RSSOwnerEmail != nil {
		p.PrimaryEmail = p.RSSOwnerEmail
	} else {
		p.PrimaryEmail = lead.Email
	}

	if lead.EarliestPubDateMs != nil {
		t := model.MsToTime(*lead.EarliestPubDateMs)
		p.FirstEpisodeDate = &t
	}
	if lead.LatestPubDateMs != nil {
		t := model.MsToTime(*lead.LatestPubDateMs)
		p.LatestEpisodeDate = &t
	}
	p.PublishingFrequencyDays = publishingFrequency(lead)

	return p
}

// publishingFrequency derives the average days between episodes: the
// catalog's update frequency when it carries one, else the episode-date
// span divided by the interval count. The span form needs at least five
// episodes to mean anything.
func publishingFrequency(lead model.UnifiedLead) *float64 {
	if lead.UpdateFrequencyHours != nil {
		return model.Float64Ptr(*lead.UpdateFrequencyHours / hoursPerDay)
	}
	if lead.TotalEpisodes == nil || *lead.TotalEpisodes < 5 {
		return nil
	}
	if lead.EarliestPubDateMs == nil || lead.LatestPubDateMs == nil {
		return nil
	}
	span := model.MsToTime(*lead.LatestPubDateMs).Sub(model.MsToTime(*lead.EarliestPubDateMs))
	if span <= 0 {
		return nil
	}
	days := span.Hours() / hoursPerDay / float64(*lead.TotalEpisodes-1)
	return model.Float64Ptr(days)
}

func searchTag(source model.SourceAPI) string {
	switch source {
	case model.SourcePodscan:
		return model.DataSourceSearchPodscan
	default:
		return model.DataSourceSearchListenNotes
	}
}
