// Package mapper translates provider-native podcast records into
// UnifiedLead, the normalized shape the rest of the pipeline speaks. One
// file per provider; every function is pure, and absent provider values map
// to nil rather than zero values.
package mapper

import (
	"github.com/sells-group/podscout/internal/model"
	"github.com/sells-group/podscout/pkg/listennotes"
)

// FromListenNotesSearchResult maps a full-text search hit. Search hits carry
// the *_original field variants.
func FromListenNotesSearchResult(r listennotes.SearchResult) model.UnifiedLead {
	lead := model.UnifiedLead{
		SourceAPI:             model.SourceListenNotes,
		APIID:                 r.ID,
		FeedURL:               strOrNil(r.RSS),
		Website:               strOrNil(r.Website),
		Title:                 strOrNil(r.TitleOriginal),
		Description:           strOrNil(r.DescriptionOriginal),
		ImageURL:              strOrNil(r.Image),
		Email:                 strOrNil(r.Email),
		ListenScoreGlobalRank: strOrNil(r.ListenScoreGlobalRank),
		TotalEpisodes:         intOrNil(r.TotalEpisodes),
		LatestPubDateMs:       int64OrNil(r.LatestPubDateMs),
		EarliestPubDateMs:     int64OrNil(r.EarliestPubDateMs),
		UpdateFrequencyHours:  float64OrNil(r.UpdateFrequencyHours),
	}
	if r.ItunesID != 0 {
		lead.ItunesID = model.Int64Ptr(r.ItunesID)
	}
	if r.ListenScore != nil {
		lead.ListenScore = model.IntPtr(*r.ListenScore)
	}
	return lead
}

// FromListenNotesPodcast maps a full podcast record, as returned by batch
// lookups and recommendations.
func FromListenNotesPodcast(p listennotes.Podcast) model.UnifiedLead {
	lead := model.UnifiedLead{
		SourceAPI:             model.SourceListenNotes,
		APIID:                 p.ID,
		FeedURL:               strOrNil(p.RSS),
		Website:               strOrNil(p.Website),
		Title:                 strOrNil(p.Title),
		Description:           strOrNil(p.Description),
		ImageURL:              strOrNil(p.Image),
		Language:              strOrNil(p.Language),
		Email:                 strOrNil(p.Email),
		ListenScoreGlobalRank: strOrNil(p.ListenScoreGlobalRank),
		TotalEpisodes:         intOrNil(p.TotalEpisodes),
		LatestPubDateMs:       int64OrNil(p.LatestPubDateMs),
		EarliestPubDateMs:     int64OrNil(p.EarliestPubDateMs),
		UpdateFrequencyHours:  float64OrNil(p.UpdateFrequencyHours),
	}
	if p.ItunesID != 0 {
		lead.ItunesID = model.Int64Ptr(p.ItunesID)
	}
	if p.ListenScore != nil {
		lead.ListenScore = model.IntPtr(*p.ListenScore)
	}
	return lead
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return model.StrPtr(s)
}

func intOrNil(i int) *int {
	if i == 0 {
		return nil
	}
	return model.IntPtr(i)
}

func int64OrNil(i int64) *int64 {
	if i == 0 {
		return nil
	}
	return model.Int64Ptr(i)
}

func float64OrNil(f float64) *float64 {
	if f == 0 {
		return nil
	}
	return model.Float64Ptr(f)
}
