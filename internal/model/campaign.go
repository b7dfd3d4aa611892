package model

import (
	"regexp"

	"github.com/rotisserie/eris"
)

// SearchType selects the discovery mode for a campaign.
type SearchType string

const (
	SearchTypeTopic   SearchType = "topic"
	SearchTypeRelated SearchType = "related"
)

// Campaign parameter bounds and defaults.
const (
	DefaultNumKeywords          = 10
	MaxNumKeywords              = 30
	DefaultMaxResultsPerKeyword = 50
	MaxResultsPerKeywordCap     = 200
	DefaultMaxDepth             = 2
	MaxDepthCap                 = 3
	DefaultMaxTotalResults      = 50
	MaxTotalResultsCap          = 200
)

// CampaignConfig is the sole input of a pipeline run.
type CampaignConfig struct {
	CampaignID string     `json:"campaign_id" yaml:"campaign_id"`
	SearchType SearchType `json:"search_type" yaml:"search_type"`

	// Topic mode.
	TargetAudience       string   `json:"target_audience,omitempty" yaml:"target_audience"`
	KeyMessages          []string `json:"key_messages,omitempty" yaml:"key_messages"`
	NumKeywords          int      `json:"num_keywords,omitempty" yaml:"num_keywords"`
	MaxResultsPerKeyword int      `json:"max_results_per_keyword,omitempty" yaml:"max_results_per_keyword"`

	// Related mode.
	SeedFeedURL     string `json:"seed_feed_url,omitempty" yaml:"seed_feed_url"`
	MaxDepth        int    `json:"max_depth,omitempty" yaml:"max_depth"`
	MaxTotalResults int    `json:"max_total_results,omitempty" yaml:"max_total_results"`

	// Vetting inputs, required if the vetting stage runs.
	IdealPodcastDescription string   `json:"ideal_podcast_description,omitempty" yaml:"ideal_podcast_description"`
	GuestBio                string   `json:"guest_bio,omitempty" yaml:"guest_bio"`
	GuestTalkingPoints      []string `json:"guest_talking_points,omitempty" yaml:"guest_talking_points"`
}

// ApplyDefaults fills unset numeric parameters and clamps them to their
// allowed ranges.
func (c *CampaignConfig) ApplyDefaults() {
	if c.NumKeywords <= 0 {
		c.NumKeywords = DefaultNumKeywords
	}
	if c.NumKeywords > MaxNumKeywords {
		c.NumKeywords = MaxNumKeywords
	}
	if c.MaxResultsPerKeyword <= 0 {
		c.MaxResultsPerKeyword = DefaultMaxResultsPerKeyword
	}
	if c.MaxResultsPerKeyword > MaxResultsPerKeywordCap {
		c.MaxResultsPerKeyword = MaxResultsPerKeywordCap
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.MaxDepth > MaxDepthCap {
		c.MaxDepth = MaxDepthCap
	}
	if c.MaxTotalResults <= 0 {
		c.MaxTotalResults = DefaultMaxTotalResults
	}
	if c.MaxTotalResults > MaxTotalResultsCap {
		c.MaxTotalResults = MaxTotalResultsCap
	}
}

// Validate checks the config for the selected search type. It does not
// validate vetting inputs; see ValidateVetting.
func (c *CampaignConfig) Validate() error {
	if c.CampaignID == "" {
		return eris.New("campaign: campaign_id is required")
	}
	switch c.SearchType {
	case SearchTypeTopic:
		if c.TargetAudience == "" {
			return eris.New("campaign: target_audience is required for topic search")
		}
	case SearchTypeRelated:
		if c.SeedFeedURL == "" {
			return eris.New("campaign: seed_feed_url is required for related search")
		}
	default:
		return eris.Errorf("campaign: invalid search_type %q", c.SearchType)
	}
	return nil
}

// WantsVetting reports whether the campaign carries any vetting input. A
// campaign with none ends after enrichment instead of failing vetting.
func (c *CampaignConfig) WantsVetting() bool {
	return c.IdealPodcastDescription != "" || c.GuestBio != "" || len(c.GuestTalkingPoints) > 0
}

// ValidateVetting checks the inputs the vetting stage needs.
func (c *CampaignConfig) ValidateVetting() error {
	if c.IdealPodcastDescription == "" {
		return eris.New("campaign: ideal_podcast_description is required for vetting")
	}
	if c.GuestBio == "" {
		return eris.New("campaign: guest_bio is required for vetting")
	}
	return nil
}

var campaignIDSanitizer = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// SanitizeCampaignID replaces any character outside [A-Za-z0-9_-] with an
// underscore. Used for filesystem paths derived from the campaign id.
func SanitizeCampaignID(id string) string {
	return campaignIDSanitizer.ReplaceAllString(id, "_")
}
