package model

// QualityTier is the ordinal quality bucket assigned by vetting.
type QualityTier string

const (
	TierA        QualityTier = "A"
	TierB        QualityTier = "B"
	TierC        QualityTier = "C"
	TierD        QualityTier = "D"
	TierUnvetted QualityTier = "Unvetted"
)

// Metric score keys in VettingResult.MetricScores.
const (
	MetricRecency   = "recency"
	MetricFrequency = "frequency"
	MetricLLMMatch  = "llm_match"
)

// VettingResult is the outcome of vetting one enriched profile. Exactly one
// result is produced per input profile; a processing failure yields a result
// with Error populated and tier D rather than a missing row.
type VettingResult struct {
	PodcastID string `json:"podcast_id"`

	ProgrammaticConsistencyPassed bool   `json:"programmatic_consistency_passed"`
	ProgrammaticConsistencyReason string `json:"programmatic_consistency_reason"`

	DaysSinceLastEpisode *float64 `json:"days_since_last_episode"`
	AverageFrequencyDays *float64 `json:"average_frequency_days"`

	LLMMatchScore       *int    `json:"llm_match_score"`
	LLMMatchExplanation *string `json:"llm_match_explanation"`

	CompositeScore   int         `json:"composite_score"`
	QualityTier      QualityTier `json:"quality_tier"`
	FinalExplanation string      `json:"final_explanation"`

	MetricScores map[string]float64 `json:"metric_scores"`

	Error string `json:"error,omitempty"`
}
