package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/podscout/internal/cost"
)

var keywordsCampaignPath string

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Generate search keywords for a campaign without searching",
	Long:  "Runs only the keyword generator so the audience description can be iterated on before paying for a full catalog search.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		campaign, err := loadCampaign(keywordsCampaignPath)
		if err != nil {
			return err
		}
		campaign.ApplyDefaults()

		if campaign.TargetAudience == "" {
			return eris.New("campaign: target_audience is required for keyword generation")
		}
		if err := cfg.ValidateKeywordKeys(); err != nil {
			return err
		}

		tracker := cost.NewTracker(cost.DefaultRates())
		kws, err := newKeywordGenerator(newLLMClient(tracker)).Generate(ctx, *campaign)
		if err != nil {
			return eris.Wrap(err, "generate keywords")
		}

		zap.L().Info("keywords generated",
			zap.String("campaign_id", campaign.CampaignID),
			zap.Int("count", len(kws)),
			zap.Float64("estimated_cost_usd", tracker.Summary().EstimatedUSD),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"campaign_id": campaign.CampaignID,
			"keywords":    kws,
		})
	},
}

func init() {
	keywordsCmd.Flags().StringVar(&keywordsCampaignPath, "campaign", "", "campaign definition file, JSON or YAML (required)")
	_ = keywordsCmd.MarkFlagRequired("campaign")
	rootCmd.AddCommand(keywordsCmd)
}
