// Package vet scores enriched profiles against a campaign's guest profile.
// Each profile gets a programmatic consistency check (publishing recency and
// cadence) and one structured LLM content-match call; the two combine into a
// 0-100 composite score and a quality tier.
package vet

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/podscout/internal/llm"
	"github.com/sells-group/podscout/internal/model"
)

const defaultWorkers = 8

// Composite weighting. The LLM judgment dominates; the programmatic check
// contributes a floor of 0.3 even when it fails so a strong content match on
// a dormant show still surfaces as tier C.
const (
	weightProgrammatic = 0.4
	weightLLM          = 0.6

	programmaticPassContribution = 1.0
	programmaticFailContribution = 0.3
)

// Tier cut-offs over the composite score.
const (
	tierAMin = 85
	tierBMin = 70
	tierCMin = 50
)

// Engine vets profiles concurrently, one task per profile.
type Engine struct {
	llm     llm.Client
	workers int
	now     func() time.Time
}

// Option configures the engine.
type Option func(*Engine)

// WithWorkers bounds concurrent vetting tasks.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// New creates a vetting engine over the given LLM client.
func New(client llm.Client, opts ...Option) *Engine {
	e := &Engine{
		llm:     client,
		workers: defaultWorkers,
		now:     time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// VetAll vets every non-nil profile and returns exactly one result per
// profile, in input order. A profile whose processing fails still yields a
// result, with Error populated and tier D. The only error returned is
// context cancellation.
func (e *Engine) VetAll(ctx context.Context, cfg model.CampaignConfig, profiles []*model.EnrichedProfile) ([]model.VettingResult, error) {
	kept := make([]*model.EnrichedProfile, 0, len(profiles))
	for _, p := range profiles {
		if p != nil {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return []model.VettingResult{}, nil
	}

	results := make([]model.VettingResult, len(kept))

	// The first profile is vetted alone so its call writes the shared system
	// prompt into the provider cache; the concurrent remainder reads it warm.
	results[0] = e.vetOne(ctx, cfg, kept[0])
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, p := range kept[1:] {
		g.Go(func() error {
			results[i+1] = e.vetOne(gCtx, cfg, p)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.logTierSummary(cfg.CampaignID, results)
	return results, nil
}

// vetOne produces the result for a single profile. Panics are contained
// here so one bad profile cannot take down the batch.
func (e *Engine) vetOne(ctx context.Context, cfg model.CampaignConfig, p *model.EnrichedProfile) (result model.VettingResult) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("vetting panicked",
				zap.String("podcast_id", p.APIID),
				zap.Any("panic", r),
			)
			result = model.VettingResult{
				PodcastID:                     p.APIID,
				ProgrammaticConsistencyReason: "Vetting aborted.",
				QualityTier:                   model.TierD,
				FinalExplanation:              "Vetting aborted.",
				MetricScores:                  map[string]float64{},
				Error:                         fmt.Sprintf("panic: %v", r),
			}
		}
	}()

	c := checkConsistency(p, e.now())
	match := matchProfile(ctx, e.llm, cfg, p)

	prog := programmaticFailContribution
	if c.Passed {
		prog = programmaticPassContribution
	}
	llmContribution := 0.0
	if match.Score != nil {
		llmContribution = float64(*match.Score) / 100
	}
	composite := clampScore(math.Round((weightProgrammatic*prog + weightLLM*llmContribution) * 100))

	tier := tierFor(composite)
	if match.Score == nil {
		tier = model.TierUnvetted
	}

	return model.VettingResult{
		PodcastID:                     p.APIID,
		ProgrammaticConsistencyPassed: c.Passed,
		ProgrammaticConsistencyReason: c.Reason,
		DaysSinceLastEpisode:          c.DaysSinceLast,
		AverageFrequencyDays:          c.AvgFrequency,
		LLMMatchScore:                 match.Score,
		LLMMatchExplanation:           match.Explanation,
		CompositeScore:                composite,
		QualityTier:                   tier,
		FinalExplanation: strings.Join([]string{
			c.Reason,
			match.Note,
			fmt.Sprintf("Composite score %d, tier %s.", composite, tier),
		}, " "),
		MetricScores: map[string]float64{
			model.MetricRecency:   c.RecencyScore,
			model.MetricFrequency: c.FrequencyScore,
			model.MetricLLMMatch:  llmContribution,
		},
	}
}

func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

func tierFor(composite int) model.QualityTier {
	switch {
	case composite >= tierAMin:
		return model.TierA
	case composite >= tierBMin:
		return model.TierB
	case composite >= tierCMin:
		return model.TierC
	default:
		return model.TierD
	}
}

func (e *Engine) logTierSummary(campaignID string, results []model.VettingResult) {
	tiers := map[model.QualityTier]int{}
	failed := 0
	for _, r := range results {
		tiers[r.QualityTier]++
		if r.Error != "" {
			failed++
		}
	}
	zap.L().Info("vetting complete",
		zap.String("campaign_id", campaignID),
		zap.Int("profiles", len(results)),
		zap.Int("tier_a", tiers[model.TierA]),
		zap.Int("tier_b", tiers[model.TierB]),
		zap.Int("tier_c", tiers[model.TierC]),
		zap.Int("tier_d", tiers[model.TierD]),
		zap.Int("unvetted", tiers[model.TierUnvetted]),
		zap.Int("failed", failed),
	)
}
