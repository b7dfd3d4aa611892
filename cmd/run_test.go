package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/podscout/internal/config"
	"github.com/sells-group/podscout/internal/model"
	"github.com/sells-group/podscout/internal/pipeline"
)

func pipelineConfig() *config.Config {
	return &config.Config{
		ListenNotes: config.ListenNotesConfig{Key: "ln-key"},
		Podscan:     config.PodscanConfig{Token: "ps-token"},
		Anthropic:   config.AnthropicConfig{Key: "ant-key"},
		Perplexity:  config.PerplexityConfig{Key: "pplx-key"},
		Apify:       config.ApifyConfig{Token: "apify-token"},
	}
}

func TestRunCmd_RunE_FailsOnMissingKeys(t *testing.T) {
	cfg = &config.Config{}
	runCmd.SetContext(context.Background())

	err := runCmd.RunE(runCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required keys")
}

func TestRunCmd_RunE_FailsOnMissingCampaignFile(t *testing.T) {
	cfg = pipelineConfig()
	runCmd.SetContext(context.Background())

	runCampaignPath = "/nonexistent/campaign.yaml"
	defer func() { runCampaignPath = "" }()

	err := runCmd.RunE(runCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read campaign file")
}

func TestWriteRunResult_PrettyPrinted(t *testing.T) {
	var buf bytes.Buffer
	result := &pipeline.Result{
		RunID:      "run-1",
		CampaignID: "camp-1",
		Status:     model.StatusVettingComplete,
	}

	require.NoError(t, writeRunResult(&buf, result))
	assert.Contains(t, buf.String(), "  ")

	var decoded pipeline.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "camp-1", decoded.CampaignID)
	assert.Equal(t, model.StatusVettingComplete, decoded.Status)
}
