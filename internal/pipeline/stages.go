package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/podscout/internal/model"
	"github.com/sells-group/podscout/internal/resilience"
)

// searchStage validates the campaign, discovers leads in the configured
// mode, and writes the search artifact. Zero keywords and zero leads are
// clean terminal outcomes, not failures.
func (p *Pipeline) searchStage(ctx context.Context, cfg model.CampaignConfig, result *Result) model.ExecutionStatus {
	if err := cfg.Validate(); err != nil {
		return result.fail(model.StatusSearchFailedConfig, err)
	}
	if p.search == nil {
		return result.fail(model.StatusSearchFailedDependency, eris.New("pipeline: search engine not configured"))
	}

	var leads []model.UnifiedLead
	switch cfg.SearchType {
	case model.SearchTypeTopic:
		if p.keywords == nil {
			return result.fail(model.StatusSearchFailedDependency, eris.New("pipeline: keyword generator not configured"))
		}
		kws, err := p.keywords.Generate(ctx, cfg)
		if err != nil {
			if resilience.IsConfig(err) {
				return result.fail(model.StatusSearchFailedConfig, err)
			}
			return result.fail(model.StatusSearchFailedDependency, err)
		}
		result.Keywords = kws
		if len(kws) == 0 {
			zap.L().Warn("pipeline: no keywords generated, ending run",
				zap.String("campaign_id", cfg.CampaignID),
			)
			return model.StatusSearchNoKeywords
		}

		leads, err = p.search.SearchByTopic(ctx, kws, cfg.MaxResultsPerKeyword)
		if err != nil {
			return result.fail(model.StatusSearchFailedInternal, err)
		}
	case model.SearchTypeRelated:
		var err error
		leads, err = p.search.SearchRelated(ctx, cfg.SeedFeedURL, cfg.MaxDepth, cfg.MaxTotalResults)
		if err != nil {
			return result.fail(model.StatusSearchFailedInternal, err)
		}
	}

	result.Leads = leads
	if len(leads) == 0 {
		return model.StatusSearchCompleteNoResults
	}

	if p.artifacts != nil {
		a, err := p.artifacts.WriteSearchResults(cfg.CampaignID, cfg.SearchType, leads)
		if err != nil {
			return result.fail(model.StatusSearchFailedInternal, err)
		}
		result.Artifacts[StageSearch] = a
	}
	return model.StatusSearchComplete
}

// enrichmentStage enriches every lead. Per-lead failures surface as nil
// profiles and downgrade the status to complete-with-errors; only a missing
// orchestrator or a cancelled context is catastrophic. An artifact write
// failure here does not end the run: the profiles are still in memory and
// vetting can proceed.
func (p *Pipeline) enrichmentStage(ctx context.Context, cfg model.CampaignConfig, result *Result) model.ExecutionStatus {
	if p.enrich == nil {
		result.ErrorMessage = "pipeline: enrichment orchestrator not configured"
		return model.StatusError
	}

	profiles, err := p.enrich.EnrichAll(ctx, result.Leads)
	if err != nil {
		result.ErrorMessage = err.Error()
		return model.StatusError
	}
	result.Profiles = profiles

	withErrors := false
	for _, profile := range profiles {
		if profile == nil {
			withErrors = true
			break
		}
	}

	if p.artifacts != nil {
		a, err := p.artifacts.WriteEnrichedProfiles(cfg.CampaignID, profiles)
		if err != nil {
			zap.L().Error("pipeline: enrichment artifact write failed",
				zap.String("campaign_id", cfg.CampaignID),
				zap.Error(err),
			)
			withErrors = true
		} else {
			result.Artifacts[StageEnrichment] = a
		}
	}

	if withErrors {
		return model.StatusEnrichmentCompleteWithErrors
	}
	return model.StatusEnrichmentComplete
}

// vettingStage scores the enriched profiles and writes the vetting
// artifact. An empty profile list short-circuits to completion.
func (p *Pipeline) vettingStage(ctx context.Context, cfg model.CampaignConfig, result *Result) model.ExecutionStatus {
	if result.recordsFor(StageEnrichment) == 0 {
		zap.L().Info("pipeline: no profiles to vet",
			zap.String("campaign_id", cfg.CampaignID),
		)
		result.Vetting = []model.VettingResult{}
		return model.StatusVettingComplete
	}

	if p.vet == nil {
		return result.fail(model.StatusVettingFailedConfig, eris.New("pipeline: vetting engine not configured"))
	}
	if err := cfg.ValidateVetting(); err != nil {
		return result.fail(model.StatusVettingFailedConfig, err)
	}

	results, err := p.vet.VetAll(ctx, cfg, result.Profiles)
	if err != nil {
		return result.fail(model.StatusVettingFailedInternal, err)
	}
	result.Vetting = results

	if p.artifacts != nil {
		a, err := p.artifacts.WriteVettingResults(cfg.CampaignID, results)
		if err != nil {
			return result.fail(model.StatusVettingFailedInternal, err)
		}
		result.Artifacts[StageVetting] = a
	}
	return model.StatusVettingComplete
}
