// Package pipeline sequences the campaign stages: keyword generation and
// catalog search, enrichment, and vetting. The driver owns all records for
// the duration of a run, maps every failure onto the closed execution-status
// set, writes per-stage CSV artifacts, and reports stage events to a
// metrics sink. It never retries a stage; operators re-run the campaign.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/podscout/internal/artifact"
	"github.com/sells-group/podscout/internal/cost"
	"github.com/sells-group/podscout/internal/metrics"
	"github.com/sells-group/podscout/internal/model"
)

// KeywordGenerator turns a topic campaign's audience description into
// catalog search phrases.
type KeywordGenerator interface {
	Generate(ctx context.Context, cfg model.CampaignConfig) ([]string, error)
}

// Searcher is the Search stage surface.
type Searcher interface {
	SearchByTopic(ctx context.Context, keywords []string, maxPerKeyword int) ([]model.UnifiedLead, error)
	SearchRelated(ctx context.Context, seedFeedURL string, maxDepth, maxTotal int) ([]model.UnifiedLead, error)
}

// Enricher is the Enrichment stage surface. It returns one profile per
// input lead, nil where enrichment of that lead failed.
type Enricher interface {
	EnrichAll(ctx context.Context, leads []model.UnifiedLead) ([]*model.EnrichedProfile, error)
}

// Vetter is the Vetting stage surface. It returns one result per non-nil
// input profile, in order.
type Vetter interface {
	VetAll(ctx context.Context, cfg model.CampaignConfig, profiles []*model.EnrichedProfile) ([]model.VettingResult, error)
}

// ArtifactWriter writes the per-stage CSV outputs.
type ArtifactWriter interface {
	WriteSearchResults(campaignID string, searchType model.SearchType, leads []model.UnifiedLead) (*artifact.Artifact, error)
	WriteEnrichedProfiles(campaignID string, profiles []*model.EnrichedProfile) (*artifact.Artifact, error)
	WriteVettingResults(campaignID string, results []model.VettingResult) (*artifact.Artifact, error)
}

// Pipeline drives a campaign run through its stages.
type Pipeline struct {
	keywords  KeywordGenerator
	search    Searcher
	enrich    Enricher
	vet       Vetter
	artifacts ArtifactWriter
	sink      metrics.Sink
	costs     *cost.Tracker
}

// Option configures the pipeline.
type Option func(*Pipeline)

// WithMetricsSink replaces the default no-op sink.
func WithMetricsSink(s metrics.Sink) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.sink = s
		}
	}
}

// WithArtifactWriter enables CSV artifact output.
func WithArtifactWriter(w ArtifactWriter) Option {
	return func(p *Pipeline) {
		p.artifacts = w
	}
}

// WithCostTracker attaches the tracker's spend summary to the run result.
// The tracker must be the same one the llm client reports into.
func WithCostTracker(t *cost.Tracker) Option {
	return func(p *Pipeline) {
		p.costs = t
	}
}

// New creates a pipeline over the stage implementations. Any stage
// dependency may be nil; a run requiring it fails with the matching status
// instead of panicking.
func New(kw KeywordGenerator, s Searcher, e Enricher, v Vetter, opts ...Option) *Pipeline {
	p := &Pipeline{
		keywords: kw,
		search:   s,
		enrich:   e,
		vet:      v,
		sink:     metrics.NopSink{},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run executes the campaign end to end. It always returns a Result; every
// failure mode is expressed as an execution status plus error message,
// never a panic or a lost run.
func (p *Pipeline) Run(ctx context.Context, cfg model.CampaignConfig) *Result {
	cfg.ApplyDefaults()

	result := &Result{
		RunID:      uuid.NewString(),
		CampaignID: cfg.CampaignID,
		SearchType: cfg.SearchType,
		Status:     model.StatusPending,
		Artifacts:  map[string]*artifact.Artifact{},
	}

	log := zap.L().With(
		zap.String("campaign_id", cfg.CampaignID),
		zap.String("run_id", result.RunID),
	)
	log.Info("pipeline: starting campaign run",
		zap.String("search_type", string(cfg.SearchType)),
	)
	start := time.Now()

	result.Status = model.StatusSearchRunning
	result.Status = p.track(result, StageSearch, func() model.ExecutionStatus {
		return p.searchStage(ctx, cfg, result)
	})
	if result.Status != model.StatusSearchComplete {
		return p.finish(log, result, start)
	}

	result.Status = model.StatusEnrichmentRunning
	result.Status = p.track(result, StageEnrichment, func() model.ExecutionStatus {
		return p.enrichmentStage(ctx, cfg, result)
	})
	if result.Status.Terminal() {
		return p.finish(log, result, start)
	}
	if !cfg.WantsVetting() {
		log.Info("pipeline: campaign has no vetting inputs, skipping vetting")
		return p.finish(log, result, start)
	}

	result.Status = model.StatusVettingRunning
	result.Status = p.track(result, StageVetting, func() model.ExecutionStatus {
		return p.vettingStage(ctx, cfg, result)
	})
	return p.finish(log, result, start)
}

// track runs one stage under metrics events and panic containment. A panic
// escaping the stage code is the stage-level catastrophic path: the run
// transitions to the error state with the message preserved.
func (p *Pipeline) track(result *Result, stage string, fn func() model.ExecutionStatus) model.ExecutionStatus {
	p.sink.Event(metrics.Event{
		Name:       stage + "_started",
		Stage:      stage,
		CampaignID: result.CampaignID,
	})

	start := time.Now()
	status := func() (st model.ExecutionStatus) {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("pipeline: stage panicked",
					zap.String("campaign_id", result.CampaignID),
					zap.String("stage", stage),
					zap.Any("panic", r),
				)
				result.ErrorMessage = fmt.Sprintf("%s stage panicked: %v", stage, r)
				st = model.StatusError
			}
		}()
		return fn()
	}()
	duration := time.Since(start)

	sr := StageResult{
		Name:       stage,
		Status:     status,
		DurationMs: duration.Milliseconds(),
		Records:    result.recordsFor(stage),
	}

	event := stage + "_completed"
	md := map[string]any{"records": sr.Records}
	if status.Failed() {
		event = stage + "_failed"
		sr.Error = result.ErrorMessage
		md["error"] = result.ErrorMessage
	} else if a := result.Artifacts[stage]; a != nil {
		md["artifact"] = a.WebPath
	}

	p.sink.Event(metrics.Event{
		Name:       event,
		Stage:      stage,
		CampaignID: result.CampaignID,
		Duration:   duration,
		Metadata:   md,
	})
	result.Stages = append(result.Stages, sr)
	return status
}

func (p *Pipeline) finish(log *zap.Logger, result *Result, start time.Time) *Result {
	fields := []zap.Field{
		zap.String("status", string(result.Status)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		zap.Int("leads", len(result.Leads)),
		zap.Int("profiles", result.recordsFor(StageEnrichment)),
		zap.Int("vetted", len(result.Vetting)),
	}
	if p.costs != nil {
		sum := p.costs.Summary()
		result.Cost = &sum
		fields = append(fields, zap.Float64("estimated_cost_usd", sum.EstimatedUSD))
	}
	if result.Status.Failed() {
		log.Error("pipeline: campaign run failed", append(fields, zap.String("error", result.ErrorMessage))...)
	} else {
		log.Info("pipeline: campaign run finished", fields...)
	}
	return result
}
