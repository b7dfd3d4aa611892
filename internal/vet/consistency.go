package vet

import (
	"fmt"
	"strings"
	"time"

	"github.com/sells-group/podscout/internal/model"
)

// Programmatic consistency thresholds. The recency ladder steps at half,
// one, and one-and-a-half times recencyMaxDays; frequency steps at monthly
// and bimonthly cadence.
const (
	recencyMaxDays = 120.0

	frequencyGoodDays = 30.0
	frequencyOKDays   = 60.0

	// passThreshold is the per-factor floor both scores must clear.
	passThreshold = 0.5

	// minEpisodesForSpan is the fewest episodes the date-span frequency
	// fallback accepts.
	minEpisodesForSpan = 5
)

// consistency is the outcome of the programmatic check: per-factor scores,
// the derived numerics, and a human-readable reason.
type consistency struct {
	Passed         bool
	Reason         string
	RecencyScore   float64
	FrequencyScore float64

	DaysSinceLast *float64
	AvgFrequency  *float64
}

// checkConsistency scores a profile's publishing recency and cadence from
// its episode metadata alone. Pure; now is injected for testability.
func checkConsistency(p *model.EnrichedProfile, now time.Time) consistency {
	var c consistency
	var notes []string

	if p.LatestEpisodeDate == nil {
		c.RecencyScore = 0.0
		notes = append(notes, "Recency: no latest episode date (score 0.0).")
	} else {
		days := now.Sub(*p.LatestEpisodeDate).Hours() / 24
		c.DaysSinceLast = model.Float64Ptr(days)
		switch {
		case days <= recencyMaxDays/2:
			c.RecencyScore = 1.0
		case days <= recencyMaxDays:
			c.RecencyScore = 0.6
		case days <= 1.5*recencyMaxDays:
			c.RecencyScore = 0.3
		default:
			c.RecencyScore = 0.1
		}
		notes = append(notes, fmt.Sprintf("Recency: last episode %.0f days ago (score %.1f).", days, c.RecencyScore))
	}

	if freq := averageFrequency(p); freq != nil {
		c.AvgFrequency = freq
		switch {
		case *freq <= frequencyGoodDays:
			c.FrequencyScore = 1.0
		case *freq <= frequencyOKDays:
			c.FrequencyScore = 0.7
		default:
			c.FrequencyScore = 0.3
		}
		notes = append(notes, fmt.Sprintf("Frequency: every %.1f days (score %.1f).", *freq, c.FrequencyScore))
	} else {
		c.FrequencyScore = 0.1
		notes = append(notes, "Frequency: insufficient episode data (score 0.1).")
	}

	c.Passed = c.RecencyScore >= passThreshold && c.FrequencyScore >= passThreshold
	if c.Passed {
		notes = append(notes, "Consistency check passed.")
	} else {
		notes = append(notes, "Consistency check failed.")
	}
	c.Reason = strings.Join(notes, " ")
	return c
}

// averageFrequency prefers the profile's derived publishing frequency and
// falls back to the episode-date span when the catalog carried none.
func averageFrequency(p *model.EnrichedProfile) *float64 {
	if p.PublishingFrequencyDays != nil {
		return p.PublishingFrequencyDays
	}
	if p.TotalEpisodes == nil || *p.TotalEpisodes < minEpisodesForSpan {
		return nil
	}
	if p.FirstEpisodeDate == nil || p.LatestEpisodeDate == nil {
		return nil
	}
	span := p.LatestEpisodeDate.Sub(*p.FirstEpisodeDate)
	if span <= 0 {
		return nil
	}
	return model.Float64Ptr(span.Hours() / 24 / float64(*p.TotalEpisodes-1))
}
