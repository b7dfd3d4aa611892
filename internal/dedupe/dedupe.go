// Package dedupe collapses search results that describe the same podcast.
//
// Identity is the feed URL. Records sharing one are merged into a single
// lead: the priority provider's record becomes the base and every other
// record contributes only fields the base is missing. Records without a
// feed URL cannot be matched and pass through unchanged.
package dedupe

import (
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/podscout/internal/model"
)

// DedupeAndMerge groups leads by feed URL and merges each group into one
// record. Within a group, the first record whose source matches
// prioritySource becomes the base; the rest fill only fields the base
// lacks, so non-nil values are never overwritten. Output is sorted by feed
// URL with keyless records appended in api_id order, which keeps the
// operation deterministic under concurrent producers and idempotent on
// re-application.
func DedupeAndMerge(leads []model.UnifiedLead, prioritySource model.SourceAPI) []model.UnifiedLead {
	groups := make(map[string][]model.UnifiedLead)
	var keyless []model.UnifiedLead
	for _, lead := range leads {
		key := lead.Key()
		if key == "" {
			keyless = append(keyless, lead)
			continue
		}
		groups[key] = append(groups[key], lead)
	}

	out := make([]model.UnifiedLead, 0, len(groups)+len(keyless))
	for _, group := range groups {
		out = append(out, mergeGroup(group, prioritySource))
	}

	sort.Slice(out, func(i, j int) bool {
		return *out[i].FeedURL < *out[j].FeedURL
	})
	sort.Slice(keyless, func(i, j int) bool {
		return keyless[i].APIID < keyless[j].APIID
	})
	out = append(out, keyless...)

	if dropped := len(leads) - len(out); dropped > 0 {
		zap.L().Debug("dedupe: merged duplicate leads",
			zap.Int("input", len(leads)),
			zap.Int("output", len(out)),
			zap.Int("merged_away", dropped))
	}
	return out
}

func mergeGroup(group []model.UnifiedLead, prioritySource model.SourceAPI) model.UnifiedLead {
	baseIdx := 0
	for i, lead := range group {
		if lead.SourceAPI == prioritySource {
			baseIdx = i
			break
		}
	}
	base := group[baseIdx]
	for i, lead := range group {
		if i == baseIdx {
			continue
		}
		FillMissing(&base, lead)
	}
	return base
}

// FillMissing copies each non-nil src field into dst where dst is nil. The
// record keeps dst's source_api, so a merged lead carries the priority
// provider's tag with fields contributed by the other. Cross-provider
// enrichment uses the same rule to fold lookup results into a lead.
func FillMissing(dst *model.UnifiedLead, src model.UnifiedLead) {
	fill(&dst.FeedURL, src.FeedURL)
	fill(&dst.ItunesID, src.ItunesID)
	fill(&dst.SpotifyID, src.SpotifyID)
	fill(&dst.Website, src.Website)
	fill(&dst.Title, src.Title)
	fill(&dst.Description, src.Description)
	fill(&dst.ImageURL, src.ImageURL)
	fill(&dst.Language, src.Language)
	fill(&dst.TotalEpisodes, src.TotalEpisodes)
	fill(&dst.LatestPubDateMs, src.LatestPubDateMs)
	fill(&dst.EarliestPubDateMs, src.EarliestPubDateMs)
	fill(&dst.UpdateFrequencyHours, src.UpdateFrequencyHours)
	fill(&dst.ListenScore, src.ListenScore)
	fill(&dst.ListenScoreGlobalRank, src.ListenScoreGlobalRank)
	fill(&dst.AudienceSize, src.AudienceSize)
	fill(&dst.ItunesRatingAvg, src.ItunesRatingAvg)
	fill(&dst.ItunesRatingCount, src.ItunesRatingCount)
	fill(&dst.SpotifyRatingAvg, src.SpotifyRatingAvg)
	fill(&dst.SpotifyRatingCount, src.SpotifyRatingCount)
	fill(&dst.TwitterURL, src.TwitterURL)
	fill(&dst.LinkedInURL, src.LinkedInURL)
	fill(&dst.InstagramURL, src.InstagramURL)
	fill(&dst.FacebookURL, src.FacebookURL)
	fill(&dst.YouTubeURL, src.YouTubeURL)
	fill(&dst.TikTokURL, src.TikTokURL)
	fill(&dst.OtherSocialURL, src.OtherSocialURL)
	fill(&dst.Email, src.Email)
}

// fill sets *dst to a copy of src's value when *dst is nil. Copying keeps
// merged leads independent of the records they were merged from.
func fill[T any](dst **T, src *T) {
	if *dst != nil || src == nil {
		return
	}
	v := *src
	*dst = &v
}
