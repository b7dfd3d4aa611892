package model

// SourceAPI identifies the catalog provider that produced a record.
type SourceAPI string

const (
	SourceListenNotes SourceAPI = "listennotes"
	SourcePodscan     SourceAPI = "podscan"
)

// UnifiedLead is one candidate podcast, normalized across catalog providers.
// It is the contract between the Search and Enrichment stages. Every field
// except SourceAPI and APIID is nullable; a nil pointer means the provider
// did not supply the value.
type UnifiedLead struct {
	// Identity.
	SourceAPI SourceAPI `json:"source_api"`
	APIID     string    `json:"api_id"`
	FeedURL   *string   `json:"feed_url"`
	ItunesID  *int64    `json:"itunes_id"`
	SpotifyID *string   `json:"spotify_id"`
	Website   *string   `json:"website"`

	// Display.
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	Language    *string `json:"language"`

	// Episode stats.
	TotalEpisodes        *int     `json:"total_episodes"`
	LatestPubDateMs      *int64   `json:"latest_pub_date_ms"`
	EarliestPubDateMs    *int64   `json:"earliest_pub_date_ms"`
	UpdateFrequencyHours *float64 `json:"update_frequency_hours"`

	// Reach.
	ListenScore           *int     `json:"listen_score"`
	ListenScoreGlobalRank *string  `json:"listen_score_global_rank"`
	AudienceSize          *int64   `json:"audience_size"`
	ItunesRatingAvg       *float64 `json:"itunes_rating_avg"`
	ItunesRatingCount     *int     `json:"itunes_rating_count"`
	SpotifyRatingAvg      *float64 `json:"spotify_rating_avg"`
	SpotifyRatingCount    *int     `json:"spotify_rating_count"`

	// Social URLs.
	TwitterURL     *string `json:"twitter_url"`
	LinkedInURL    *string `json:"linkedin_url"`
	InstagramURL   *string `json:"instagram_url"`
	FacebookURL    *string `json:"facebook_url"`
	YouTubeURL     *string `json:"youtube_url"`
	TikTokURL      *string `json:"tiktok_url"`
	OtherSocialURL *string `json:"other_social_url"`

	// Contact.
	Email *string `json:"email"`
}

// Key returns the deduplication key for the lead: the feed URL when present,
// otherwise empty (records without a key pass through deduplication
// unchanged).
func (l *UnifiedLead) Key() string {
	if l.FeedURL == nil {
		return ""
	}
	return *l.FeedURL
}

// StrPtr returns a pointer to s. Convenience for building nullable fields.
func StrPtr(s string) *string { return &s }

// IntPtr returns a pointer to i.
func IntPtr(i int) *int { return &i }

// Int64Ptr returns a pointer to i.
func Int64Ptr(i int64) *int64 { return &i }

// Float64Ptr returns a pointer to f.
func Float64Ptr(f float64) *float64 { return &f }

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }
