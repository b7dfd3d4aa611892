package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/podscout/internal/artifact"
	"github.com/sells-group/podscout/internal/cost"
	"github.com/sells-group/podscout/internal/model"
)

var searchCampaignPath string

// searchOutput is the stdout payload of the search subcommand.
type searchOutput struct {
	CampaignID string              `json:"campaign_id"`
	SearchType model.SearchType    `json:"search_type"`
	Keywords   []string            `json:"keywords,omitempty"`
	Leads      []model.UnifiedLead `json:"leads"`
	Artifact   *artifact.Artifact  `json:"artifact,omitempty"`
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run the search stage only for a campaign",
	Long:  "Generates keywords (topic mode), queries the podcast catalogs, deduplicates, and writes the search CSV without enriching or vetting.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		campaign, err := loadCampaign(searchCampaignPath)
		if err != nil {
			return err
		}
		campaign.ApplyDefaults()
		if err := campaign.Validate(); err != nil {
			return err
		}

		if err := cfg.ValidateSearchKeys(); err != nil {
			return err
		}
		if campaign.SearchType == model.SearchTypeTopic {
			if err := cfg.ValidateKeywordKeys(); err != nil {
				return err
			}
		}

		log := zap.L().With(
			zap.String("command", "search"),
			zap.String("campaign_id", campaign.CampaignID),
		)

		engine := newSearchEngine()
		out := searchOutput{
			CampaignID: campaign.CampaignID,
			SearchType: campaign.SearchType,
			Leads:      []model.UnifiedLead{},
		}

		switch campaign.SearchType {
		case model.SearchTypeTopic:
			tracker := cost.NewTracker(cost.DefaultRates())
			gen := newKeywordGenerator(newLLMClient(tracker))
			out.Keywords, err = gen.Generate(ctx, *campaign)
			if err != nil {
				return eris.Wrap(err, "generate keywords")
			}
			log.Info("keywords generated",
				zap.Int("count", len(out.Keywords)),
				zap.Float64("estimated_cost_usd", tracker.Summary().EstimatedUSD),
			)
			if len(out.Keywords) == 0 {
				log.Warn("no keywords generated, nothing to search")
				break
			}
			out.Leads, err = engine.SearchByTopic(ctx, out.Keywords, campaign.MaxResultsPerKeyword)
		case model.SearchTypeRelated:
			out.Leads, err = engine.SearchRelated(ctx, campaign.SeedFeedURL, campaign.MaxDepth, campaign.MaxTotalResults)
		}
		if err != nil {
			return eris.Wrap(err, "search")
		}

		if len(out.Leads) > 0 {
			out.Artifact, err = artifact.NewWriter(cfg.Artifacts.DataDir).
				WriteSearchResults(campaign.CampaignID, campaign.SearchType, out.Leads)
			if err != nil {
				return eris.Wrap(err, "write search artifact")
			}
			log.Info("search complete",
				zap.Int("leads", len(out.Leads)),
				zap.String("artifact", out.Artifact.Path),
			)
		} else {
			log.Info("search complete, no leads found")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchCampaignPath, "campaign", "", "campaign definition file, JSON or YAML (required)")
	_ = searchCmd.MarkFlagRequired("campaign")
	rootCmd.AddCommand(searchCmd)
}
