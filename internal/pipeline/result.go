package pipeline

import (
	"go.uber.org/zap"

	"github.com/sells-group/podscout/internal/artifact"
	"github.com/sells-group/podscout/internal/cost"
	"github.com/sells-group/podscout/internal/model"
)

// Stage names used in results, metrics events, and artifact keys.
const (
	StageSearch     = "search"
	StageEnrichment = "enrichment"
	StageVetting    = "vetting"
)

// Result is the full outcome of one campaign run: final status, the
// in-memory records of every stage that ran, and the artifacts written.
type Result struct {
	RunID      string           `json:"run_id"`
	CampaignID string           `json:"campaign_id"`
	SearchType model.SearchType `json:"search_type"`

	Status       model.ExecutionStatus `json:"execution_status"`
	ErrorMessage string                `json:"error_message,omitempty"`

	Keywords []string                 `json:"keywords,omitempty"`
	Leads    []model.UnifiedLead      `json:"leads,omitempty"`
	Profiles []*model.EnrichedProfile `json:"profiles,omitempty"`
	Vetting  []model.VettingResult    `json:"vetting_results,omitempty"`

	// Artifacts is keyed by stage name.
	Artifacts map[string]*artifact.Artifact `json:"artifacts,omitempty"`

	Stages []StageResult `json:"stages"`

	// Cost is the estimated LLM spend of the run, present when the pipeline
	// was built with a cost tracker.
	Cost *cost.Summary `json:"cost,omitempty"`
}

// StageResult summarizes one executed stage.
type StageResult struct {
	Name       string                `json:"name"`
	Status     model.ExecutionStatus `json:"status"`
	DurationMs int64                 `json:"duration_ms"`
	Records    int                   `json:"records"`
	Error      string                `json:"error,omitempty"`
}

// fail records the error message and passes the failure status through, so
// stage code reads `return r.fail(status, err)`.
func (r *Result) fail(status model.ExecutionStatus, err error) model.ExecutionStatus {
	r.ErrorMessage = err.Error()
	zap.L().Error("pipeline: stage failed",
		zap.String("campaign_id", r.CampaignID),
		zap.String("status", string(status)),
		zap.Error(err),
	)
	return status
}

// recordsFor returns the record count a stage produced, for metrics and
// stage summaries.
func (r *Result) recordsFor(stage string) int {
	switch stage {
	case StageSearch:
		return len(r.Leads)
	case StageEnrichment:
		n := 0
		for _, p := range r.Profiles {
			if p != nil {
				n++
			}
		}
		return n
	case StageVetting:
		return len(r.Vetting)
	}
	return 0
}
