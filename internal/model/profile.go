package model

import "time"

// Data-source tags recorded in EnrichedProfile.DataSources. Search tags are
// produced by the mappers, the rest by the enrichment orchestrator.
const (
	DataSourceSearchListenNotes = "search_listennotes"
	DataSourceSearchPodscan     = "search_podscan"
	DataSourceRSS               = "rss"
	DataSourceLLMHost           = "llm_host"
)

// ApifySourceTag builds the data-source tag for a scraped platform slot,
// e.g. ("podcast", "twitter") -> "apify_podcast_twitter".
func ApifySourceTag(orientation, platform string) string {
	return "apify_" + orientation + "_" + platform
}

// EnrichedProfile is one candidate podcast after enrichment: the UnifiedLead
// fields plus host identification, RSS metadata, and per-platform reach.
// It is the contract between the Enrichment and Vetting stages.
//
// Invariant: a non-nil reach counter implies the matching social URL field
// is non-nil.
type EnrichedProfile struct {
	UnifiedLead

	// Host identification (LLM-discovered).
	HostNames []string `json:"host_names"`

	// RSS-derived metadata.
	RSSOwnerName  *string  `json:"rss_owner_name"`
	RSSOwnerEmail *string  `json:"rss_owner_email"`
	RSSExplicit   *bool    `json:"rss_explicit"`
	RSSCategories []string `json:"rss_categories"`

	// Per-platform reach.
	TwitterFollowers    *int64 `json:"twitter_followers"`
	IsTwitterVerified   *bool  `json:"is_twitter_verified"`
	LinkedInConnections *int64 `json:"linkedin_connections"`
	InstagramFollowers  *int64 `json:"instagram_followers"`
	FacebookLikes       *int64 `json:"facebook_likes"`
	YouTubeSubscribers  *int64 `json:"youtube_subscribers"`
	TikTokFollowers     *int64 `json:"tiktok_followers"`
	TikTokLikes         *int64 `json:"tiktok_likes"`

	// Derived fields.
	PrimaryEmail            *string    `json:"primary_email"`
	PublishingFrequencyDays *float64   `json:"publishing_frequency_days"`
	FirstEpisodeDate        *time.Time `json:"first_episode_date"`
	LatestEpisodeDate       *time.Time `json:"latest_episode_date"`

	// Provenance.
	DataSources    []string  `json:"data_sources"`
	LastEnrichedAt time.Time `json:"last_enriched_at"`
}

// AddDataSource appends tag to DataSources if not already present,
// preserving insertion order.
func (p *EnrichedProfile) AddDataSource(tag string) {
	for _, existing := range p.DataSources {
		if existing == tag {
			return
		}
	}
	p.DataSources = append(p.DataSources, tag)
}

// MsToTime converts a millisecond epoch timestamp to UTC time.
func MsToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
