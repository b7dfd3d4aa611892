// Package enrich turns unified leads into enriched profiles in three
// phases: per-lead LLM discovery of hosts and social URLs, one batched
// scrape per platform across all leads, and a per-lead merge of base data,
// feed metadata, hints, and reach stats.
package enrich

import (
	"net/url"
	"strings"

	"github.com/sells-group/podscout/internal/model"
	"github.com/sells-group/podscout/internal/social"
)

// Hints is the structured outcome of per-podcast discovery: host names plus
// the eight social URL slots the extractor fills. Every field is nullable;
// the extractor is instructed to emit null rather than guess.
type Hints struct {
	HostNames []string `json:"host_names"`

	PodcastTwitterURL   *string `json:"podcast_twitter_url"`
	PodcastLinkedInURL  *string `json:"podcast_linkedin_url"`
	PodcastInstagramURL *string `json:"podcast_instagram_url"`
	PodcastFacebookURL  *string `json:"podcast_facebook_url"`
	PodcastYouTubeURL   *string `json:"podcast_youtube_url"`
	PodcastTikTokURL    *string `json:"podcast_tiktok_url"`
	HostLinkedInURL     *string `json:"host_linkedin_url"`
	HostTwitterURL      *string `json:"host_twitter_url"`
}

// target is one fact the discovery routine probes for. fromLead reports the
// value the base lead already carries, if any; platform drives @handle
// conversion during post-processing.
type target struct {
	field    string
	label    string
	platform social.Platform
	fromLead func(*model.UnifiedLead) *string
	set      func(*Hints, *string)
}

// urlTargets lists the eight URL slots in probe order.
func urlTargets() []target {
	return []target{
		{
			field:    "podcast_twitter_url",
			label:    "official Twitter/X profile URL",
			platform: social.PlatformTwitter,
			fromLead: func(l *model.UnifiedLead) *string { return l.TwitterURL },
			set:      func(h *Hints, v *string) { h.PodcastTwitterURL = v },
		},
		{
			field:    "podcast_linkedin_url",
			label:    "official LinkedIn page URL",
			platform: social.PlatformLinkedIn,
			fromLead: func(l *model.UnifiedLead) *string { return l.LinkedInURL },
			set:      func(h *Hints, v *string) { h.PodcastLinkedInURL = v },
		},
		{
			field:    "podcast_instagram_url",
			label:    "official Instagram profile URL",
			platform: social.PlatformInstagram,
			fromLead: func(l *model.UnifiedLead) *string { return l.InstagramURL },
			set:      func(h *Hints, v *string) { h.PodcastInstagramURL = v },
		},
		{
			field:    "podcast_facebook_url",
			label:    "official Facebook page URL",
			platform: social.PlatformFacebook,
			fromLead: func(l *model.UnifiedLead) *string { return l.FacebookURL },
			set:      func(h *Hints, v *string) { h.PodcastFacebookURL = v },
		},
		{
			field:    "podcast_youtube_url",
			label:    "official YouTube channel URL",
			platform: social.PlatformYouTube,
			fromLead: func(l *model.UnifiedLead) *string { return l.YouTubeURL },
			set:      func(h *Hints, v *string) { h.PodcastYouTubeURL = v },
		},
		{
			field:    "podcast_tiktok_url",
			label:    "official TikTok profile URL",
			platform: social.PlatformTikTok,
			fromLead: func(l *model.UnifiedLead) *string { return l.TikTokURL },
			set:      func(h *Hints, v *string) { h.PodcastTikTokURL = v },
		},
		{
			field:    "host_linkedin_url",
			label:    "LinkedIn profile URL of the host",
			platform: social.PlatformLinkedIn,
			fromLead: func(*model.UnifiedLead) *string { return nil },
			set:      func(h *Hints, v *string) { h.HostLinkedInURL = v },
		},
		{
			field:    "host_twitter_url",
			label:    "Twitter/X profile URL of the host",
			platform: social.PlatformTwitter,
			fromLead: func(*model.UnifiedLead) *string { return nil },
			set:      func(h *Hints, v *string) { h.HostTwitterURL = v },
		},
	}
}

// nullWords are extractor outputs that mean "no value". Compared after
// trimming and lowercasing.
var nullWords = map[string]bool{
	"":              true,
	"unknown":       true,
	"n/a":           true,
	"na":            true,
	"none":          true,
	"null":          true,
	"not found":     true,
	"not available": true,
}

// sanitizeURL post-processes one extracted URL string: trims whitespace,
// maps null-words to nil, converts bare @handles to the platform's
// canonical profile URL, prepends https:// to schemeless values, and
// validates the result as a well-formed http(s) URL. Anything that fails
// validation becomes nil.
func sanitizeURL(raw *string, platform social.Platform) *string {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if nullWords[strings.ToLower(s)] {
		return nil
	}

	if strings.HasPrefix(s, "@") {
		s = social.ProfileURL(platform, s)
		if s == "" {
			return nil
		}
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil
	}
	return model.StrPtr(s)
}

// sanitizeHints post-processes every extracted field in place.
func sanitizeHints(h *Hints) {
	var hosts []string
	for _, name := range h.HostNames {
		name = strings.TrimSpace(name)
		if name == "" || nullWords[strings.ToLower(name)] {
			continue
		}
		hosts = append(hosts, name)
	}
	h.HostNames = hosts

	for _, t := range urlTargets() {
		t.set(h, sanitizeURL(hintValue(h, t.field), t.platform))
	}
}

// hintValue reads a URL slot by field name. Kept next to sanitizeHints so
// the target table stays the single list of slots.
func hintValue(h *Hints, field string) *string {
	switch field {
	case "podcast_twitter_url":
		return h.PodcastTwitterURL
	case "podcast_linkedin_url":
		return h.PodcastLinkedInURL
	case "podcast_instagram_url":
		return h.PodcastInstagramURL
	case "podcast_facebook_url":
		return h.PodcastFacebookURL
	case "podcast_youtube_url":
		return h.PodcastYouTubeURL
	case "podcast_tiktok_url":
		return h.PodcastTikTokURL
	case "host_linkedin_url":
		return h.HostLinkedInURL
	case "host_twitter_url":
		return h.HostTwitterURL
	default:
		return nil
	}
}
