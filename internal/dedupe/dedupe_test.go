package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/podscout/internal/model"
)

func listenNotesLead(feed string) model.UnifiedLead {
	return model.UnifiedLead{
		SourceAPI:   model.SourceListenNotes,
		APIID:       "ln-" + feed,
		FeedURL:     model.StrPtr(feed),
		Title:       model.StrPtr("LN Title"),
		ListenScore: model.IntPtr(80),
	}
}

func podscanLead(feed string) model.UnifiedLead {
	return model.UnifiedLead{
		SourceAPI:    model.SourcePodscan,
		APIID:        "ps-" + feed,
		FeedURL:      model.StrPtr(feed),
		Title:        model.StrPtr("PS Title"),
		AudienceSize: model.Int64Ptr(5000),
		Email:        model.StrPtr("host@example.com"),
	}
}

func TestDedupeAndMerge_MergesAcrossProviders(t *testing.T) {
	feed := "https://feeds.example.com/show"
	out := DedupeAndMerge(
		[]model.UnifiedLead{podscanLead(feed), listenNotesLead(feed)},
		model.SourceListenNotes,
	)

	require.Len(t, out, 1)
	merged := out[0]

	// The priority provider's record is the base even when it arrives second.
	assert.Equal(t, model.SourceListenNotes, merged.SourceAPI)
	assert.Equal(t, "ln-"+feed, merged.APIID)
	require.NotNil(t, merged.Title)
	assert.Equal(t, "LN Title", *merged.Title)

	// Fields the base lacks flow in from the other provider.
	require.NotNil(t, merged.ListenScore)
	assert.Equal(t, 80, *merged.ListenScore)
	require.NotNil(t, merged.AudienceSize)
	assert.Equal(t, int64(5000), *merged.AudienceSize)
	require.NotNil(t, merged.Email)
	assert.Equal(t, "host@example.com", *merged.Email)
}

func TestDedupeAndMerge_NonNilNeverOverwritten(t *testing.T) {
	feed := "https://feeds.example.com/show"
	base := listenNotesLead(feed)
	base.Email = model.StrPtr("base@example.com")
	other := podscanLead(feed)

	out := DedupeAndMerge([]model.UnifiedLead{base, other}, model.SourceListenNotes)

	require.Len(t, out, 1)
	require.NotNil(t, out[0].Email)
	assert.Equal(t, "base@example.com", *out[0].Email)
}

func TestDedupeAndMerge_FallbackBaseWhenPriorityAbsent(t *testing.T) {
	feed := "https://feeds.example.com/only-podscan"
	a := podscanLead(feed)
	b := podscanLead(feed)
	b.APIID = "ps-second"
	b.Description = model.StrPtr("from the second record")

	out := DedupeAndMerge([]model.UnifiedLead{a, b}, model.SourceListenNotes)

	require.Len(t, out, 1)
	assert.Equal(t, "ps-"+feed, out[0].APIID)
	require.NotNil(t, out[0].Description)
	assert.Equal(t, "from the second record", *out[0].Description)
}

func TestDedupeAndMerge_KeylessPassThrough(t *testing.T) {
	keyless := model.UnifiedLead{SourceAPI: model.SourcePodscan, APIID: "ps-nofeed"}
	keyed := listenNotesLead("https://feeds.example.com/a")

	out := DedupeAndMerge([]model.UnifiedLead{keyless, keyed}, model.SourceListenNotes)

	require.Len(t, out, 2)
	assert.Equal(t, "https://feeds.example.com/a", *out[0].FeedURL)
	assert.Equal(t, "ps-nofeed", out[1].APIID)
	assert.Nil(t, out[1].FeedURL)
}

func TestDedupeAndMerge_DeterministicOrder(t *testing.T) {
	leads := []model.UnifiedLead{
		listenNotesLead("https://feeds.example.com/c"),
		{SourceAPI: model.SourcePodscan, APIID: "z-keyless"},
		listenNotesLead("https://feeds.example.com/a"),
		{SourceAPI: model.SourcePodscan, APIID: "a-keyless"},
		listenNotesLead("https://feeds.example.com/b"),
	}

	out := DedupeAndMerge(leads, model.SourceListenNotes)

	require.Len(t, out, 5)
	assert.Equal(t, "https://feeds.example.com/a", *out[0].FeedURL)
	assert.Equal(t, "https://feeds.example.com/b", *out[1].FeedURL)
	assert.Equal(t, "https://feeds.example.com/c", *out[2].FeedURL)
	assert.Equal(t, "a-keyless", out[3].APIID)
	assert.Equal(t, "z-keyless", out[4].APIID)
}

func TestDedupeAndMerge_Idempotent(t *testing.T) {
	feed := "https://feeds.example.com/show"
	leads := []model.UnifiedLead{
		listenNotesLead(feed),
		podscanLead(feed),
		{SourceAPI: model.SourcePodscan, APIID: "ps-nofeed"},
	}

	once := DedupeAndMerge(leads, model.SourceListenNotes)
	twice := DedupeAndMerge(once, model.SourceListenNotes)

	assert.Equal(t, once, twice)
}

func TestDedupeAndMerge_MergedRecordIsIndependent(t *testing.T) {
	feed := "https://feeds.example.com/show"
	donor := podscanLead(feed)
	out := DedupeAndMerge([]model.UnifiedLead{listenNotesLead(feed), donor}, model.SourceListenNotes)

	require.Len(t, out, 1)
	*donor.AudienceSize = 1
	assert.Equal(t, int64(5000), *out[0].AudienceSize)
}

func TestDedupeAndMerge_Empty(t *testing.T) {
	assert.Empty(t, DedupeAndMerge(nil, model.SourceListenNotes))
}
