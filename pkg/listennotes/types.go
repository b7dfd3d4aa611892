package listennotes

// SearchRequest holds the query parameters for GET /search.
type SearchRequest struct {
	// Query is the search term. Required.
	Query string

	// Type restricts results to "podcast" or "episode". Defaults to "podcast".
	Type string

	// Offset is the result offset for pagination, as returned in
	// SearchResponse.NextOffset.
	Offset int

	// Language filters by podcast language, e.g. "English".
	Language string

	// SortByDate sorts by publish date instead of relevance.
	SortByDate bool
}

// SearchResponse is the response from GET /search.
type SearchResponse struct {
	Count      int            `json:"count"`
	Total      int            `json:"total"`
	NextOffset int            `json:"next_offset"`
	Results    []SearchResult `json:"results"`
}

// SearchResult is a single podcast hit from GET /search. Full-text search
// returns the *_original field variants rather than the plain names used by
// podcast fetch endpoints.
type SearchResult struct {
	ID                    string  `json:"id"`
	RSS                   string  `json:"rss"`
	Email                 string  `json:"email"`
	Image                 string  `json:"image"`
	Website               string  `json:"website"`
	ItunesID              int64   `json:"itunes_id"`
	TitleOriginal         string  `json:"title_original"`
	PublisherOriginal     string  `json:"publisher_original"`
	DescriptionOriginal   string  `json:"description_original"`
	TotalEpisodes         int     `json:"total_episodes"`
	ListenScore           *int    `json:"listen_score"`
	ListenScoreGlobalRank string  `json:"listen_score_global_rank"`
	LatestPubDateMs       int64   `json:"latest_pub_date_ms"`
	EarliestPubDateMs     int64   `json:"earliest_pub_date_ms"`
	UpdateFrequencyHours  float64 `json:"update_frequency_hours"`
	GenreIDs              []int   `json:"genre_ids"`
	ExplicitContent       bool    `json:"explicit_content"`
}

// Podcast is a full podcast record, as returned by POST /podcasts and
// GET /podcasts/{id}/recommendations.
type Podcast struct {
	ID                    string  `json:"id"`
	RSS                   string  `json:"rss"`
	Email                 string  `json:"email"`
	Image                 string  `json:"image"`
	Title                 string  `json:"title"`
	Website               string  `json:"website"`
	Language              string  `json:"language"`
	Country               string  `json:"country"`
	ItunesID              int64   `json:"itunes_id"`
	Publisher             string  `json:"publisher"`
	Description           string  `json:"description"`
	TotalEpisodes         int     `json:"total_episodes"`
	ListenScore           *int    `json:"listen_score"`
	ListenScoreGlobalRank string  `json:"listen_score_global_rank"`
	LatestPubDateMs       int64   `json:"latest_pub_date_ms"`
	EarliestPubDateMs     int64   `json:"earliest_pub_date_ms"`
	UpdateFrequencyHours  float64 `json:"update_frequency_hours"`
	GenreIDs              []int   `json:"genre_ids"`
	ExplicitContent       bool    `json:"explicit_content"`
}

// BatchLookupRequest is the form body for POST /podcasts. At least one of
// the identifier lists must be non-empty.
type BatchLookupRequest struct {
	IDs       []string
	RSSes     []string
	ItunesIDs []int64
}

// BatchLookupResponse is the response from POST /podcasts. Identifiers that
// match nothing are silently omitted from Podcasts.
type BatchLookupResponse struct {
	Podcasts []Podcast `json:"podcasts"`
}

// RecommendationsResponse is the response from GET /podcasts/{id}/recommendations.
type RecommendationsResponse struct {
	Recommendations []Podcast `json:"recommendations"`
}
