package main

import (
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/podscout/internal/artifact"
	"github.com/sells-group/podscout/internal/cost"
	"github.com/sells-group/podscout/internal/metrics"
	"github.com/sells-group/podscout/internal/pipeline"
)

var runCampaignPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline for one campaign",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.ValidatePipelineKeys(); err != nil {
			return err
		}

		campaign, err := loadCampaign(runCampaignPath)
		if err != nil {
			return err
		}

		if cfg.Metrics.Enabled && cfg.Metrics.Addr != "" {
			srv := metrics.NewServer(cfg.Metrics.Addr)
			go func() {
				if err := srv.Start(ctx); err != nil {
					zap.L().Warn("metrics server exited", zap.Error(err))
				}
			}()
		}

		// Init clients
		tracker := cost.NewTracker(cost.DefaultRates())
		llmClient := newLLMClient(tracker)

		// Build pipeline
		p := pipeline.New(
			newKeywordGenerator(llmClient),
			newSearchEngine(),
			newEnricher(llmClient),
			newVetter(llmClient),
			pipeline.WithArtifactWriter(artifact.NewWriter(cfg.Artifacts.DataDir)),
			pipeline.WithMetricsSink(newMetricsSink()),
			pipeline.WithCostTracker(tracker),
		)

		result := p.Run(ctx, *campaign)

		zap.L().Info("campaign run complete",
			zap.String("campaign_id", result.CampaignID),
			zap.String("status", string(result.Status)),
			zap.Int("leads", len(result.Leads)),
			zap.Int("vetted", len(result.Vetting)),
		)

		if err := writeRunResult(os.Stdout, result); err != nil {
			return eris.Wrap(err, "write result")
		}

		if result.Status.Failed() {
			return eris.Errorf("campaign %s ended with status %s: %s",
				result.CampaignID, result.Status, result.ErrorMessage)
		}
		return nil
	},
}

// writeRunResult prints the run result as indented JSON.
func writeRunResult(w io.Writer, result *pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func init() {
	runCmd.Flags().StringVar(&runCampaignPath, "campaign", "", "campaign definition file, JSON or YAML (required)")
	_ = runCmd.MarkFlagRequired("campaign")
	rootCmd.AddCommand(runCmd)
}
