package podscan

// SearchRequest holds the query parameters for GET /podcasts/search.
type SearchRequest struct {
	// Query is the search term. Required.
	Query string

	// Page is the 1-based results page.
	Page int

	// PerPage sets the page size. The API default is 20.
	PerPage int

	// Language filters by ISO 639-1 language code, e.g. "en".
	Language string
}

// SearchResponse is the response from GET /podcasts/search.
type SearchResponse struct {
	Podcasts   []Podcast  `json:"podcasts"`
	Pagination Pagination `json:"pagination"`
}

// Pagination describes the page window of a search response.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// Podcast is a Podscan podcast record.
type Podcast struct {
	PodcastID          string `json:"podcast_id"`
	PodcastGUID        string `json:"podcast_guid"`
	PodcastName        string `json:"podcast_name"`
	PodcastURL         string `json:"podcast_url"`
	PodcastDescription string `json:"podcast_description"`
	PodcastImageURL    string `json:"podcast_image_url"`
	PodcastItunesID    *int64 `json:"podcast_itunes_id"`
	PodcastSpotifyID   string `json:"podcast_spotify_id"`
	PodcastLanguage    string `json:"podcast_language"`
	RSSURL             string `json:"rss_url"`
	EpisodeCount       *int   `json:"episode_count"`

	// Episode timestamps use the "2006-01-02 15:04:05" layout in UTC.
	FirstPostedAt string `json:"first_posted_at"`
	LastPostedAt  string `json:"last_posted_at"`

	Reach *Reach `json:"reach"`
}

// Reach bundles the audience and contact signals Podscan attaches to a
// podcast. All fields are optional.
type Reach struct {
	Email        string        `json:"email"`
	AudienceSize *int64        `json:"audience_size"`
	Itunes       *ItunesReach  `json:"itunes"`
	Spotify      *SpotifyReach `json:"spotify"`
	SocialLinks  []SocialLink  `json:"social_links"`
}

// ItunesReach holds Apple Podcasts rating data.
type ItunesReach struct {
	ItunesRatingAverage *float64 `json:"itunes_rating_average"`
	ItunesRatingCount   *int     `json:"itunes_rating_count"`
}

// SpotifyReach holds Spotify rating data.
type SpotifyReach struct {
	SpotifyRatingAverage *float64 `json:"spotify_rating_average"`
	SpotifyRatingCount   *int     `json:"spotify_rating_count"`
}

// SocialLink is a single social profile attached to a podcast.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// lookupResponse wraps single-podcast lookup endpoints.
type lookupResponse struct {
	Podcast *Podcast `json:"podcast"`
}

// relatedResponse is the response from GET /podcasts/{id}/related_podcasts.
type relatedResponse struct {
	RelatedPodcasts []Podcast `json:"related_podcasts"`
}
