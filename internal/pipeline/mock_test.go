package pipeline

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/podscout/internal/artifact"
	"github.com/sells-group/podscout/internal/metrics"
	"github.com/sells-group/podscout/internal/model"
)

type mockKeywords struct {
	mock.Mock
}

func (m *mockKeywords) Generate(ctx context.Context, cfg model.CampaignConfig) ([]string, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) SearchByTopic(ctx context.Context, keywords []string, maxPerKeyword int) ([]model.UnifiedLead, error) {
	args := m.Called(ctx, keywords, maxPerKeyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UnifiedLead), args.Error(1)
}

func (m *mockSearcher) SearchRelated(ctx context.Context, seedFeedURL string, maxDepth, maxTotal int) ([]model.UnifiedLead, error) {
	args := m.Called(ctx, seedFeedURL, maxDepth, maxTotal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UnifiedLead), args.Error(1)
}

type mockEnricher struct {
	mock.Mock
}

func (m *mockEnricher) EnrichAll(ctx context.Context, leads []model.UnifiedLead) ([]*model.EnrichedProfile, error) {
	args := m.Called(ctx, leads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.EnrichedProfile), args.Error(1)
}

type mockVetter struct {
	mock.Mock
}

func (m *mockVetter) VetAll(ctx context.Context, cfg model.CampaignConfig, profiles []*model.EnrichedProfile) ([]model.VettingResult, error) {
	args := m.Called(ctx, cfg, profiles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VettingResult), args.Error(1)
}

type mockArtifacts struct {
	mock.Mock
}

func (m *mockArtifacts) WriteSearchResults(campaignID string, searchType model.SearchType, leads []model.UnifiedLead) (*artifact.Artifact, error) {
	args := m.Called(campaignID, searchType, leads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*artifact.Artifact), args.Error(1)
}

func (m *mockArtifacts) WriteEnrichedProfiles(campaignID string, profiles []*model.EnrichedProfile) (*artifact.Artifact, error) {
	args := m.Called(campaignID, profiles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*artifact.Artifact), args.Error(1)
}

func (m *mockArtifacts) WriteVettingResults(campaignID string, results []model.VettingResult) (*artifact.Artifact, error) {
	args := m.Called(campaignID, results)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*artifact.Artifact), args.Error(1)
}

// captureSink records every event for assertions.
type captureSink struct {
	mu     sync.Mutex
	events []metrics.Event
}

func (c *captureSink) Event(e metrics.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *captureSink) names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, len(c.events))
	for i, e := range c.events {
		names[i] = e.Name
	}
	return names
}
