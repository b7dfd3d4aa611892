package search

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/podscout/pkg/listennotes"
	"github.com/sells-group/podscout/pkg/podscan"
)

// --- Listen Notes mock ---

type mockListenNotes struct {
	mock.Mock
}

func (m *mockListenNotes) Search(ctx context.Context, req listennotes.SearchRequest) (*listennotes.SearchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listennotes.SearchResponse), args.Error(1)
}

func (m *mockListenNotes) BatchLookup(ctx context.Context, req listennotes.BatchLookupRequest) (*listennotes.BatchLookupResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listennotes.BatchLookupResponse), args.Error(1)
}

func (m *mockListenNotes) LookupByFeed(ctx context.Context, feedURL string) (*listennotes.Podcast, error) {
	args := m.Called(ctx, feedURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listennotes.Podcast), args.Error(1)
}

func (m *mockListenNotes) LookupByItunesID(ctx context.Context, itunesID int64) (*listennotes.Podcast, error) {
	args := m.Called(ctx, itunesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listennotes.Podcast), args.Error(1)
}

func (m *mockListenNotes) Recommendations(ctx context.Context, podcastID string) (*listennotes.RecommendationsResponse, error) {
	args := m.Called(ctx, podcastID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listennotes.RecommendationsResponse), args.Error(1)
}

// --- Podscan mock ---

type mockPodscan struct {
	mock.Mock
}

func (m *mockPodscan) Search(ctx context.Context, req podscan.SearchRequest) (*podscan.SearchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*podscan.SearchResponse), args.Error(1)
}

func (m *mockPodscan) LookupByFeed(ctx context.Context, feedURL string) (*podscan.Podcast, error) {
	args := m.Called(ctx, feedURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*podscan.Podcast), args.Error(1)
}

func (m *mockPodscan) LookupByItunesID(ctx context.Context, itunesID int64) (*podscan.Podcast, error) {
	args := m.Called(ctx, itunesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*podscan.Podcast), args.Error(1)
}

func (m *mockPodscan) RelatedPodcasts(ctx context.Context, podcastID string) ([]podscan.Podcast, error) {
	args := m.Called(ctx, podcastID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]podscan.Podcast), args.Error(1)
}
