// Package keywords turns a campaign's audience description into short
// catalog search phrases via a single LLM call.
package keywords

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/podscout/internal/llm"
	"github.com/sells-group/podscout/internal/model"
)

const systemPrompt = `You generate podcast search keywords for a lead-generation campaign.

Rules:
- Return exactly the requested number of keyword phrases
- Each phrase is 2-4 words, suitable as a podcast directory search query
- One phrase per line, no numbering, no bullets, no commentary
- Phrases must be distinct from each other and specific to the audience described`

// Generator produces search keywords for topic campaigns.
type Generator struct {
	llm llm.Client
}

// NewGenerator creates a keyword generator over the given LLM client.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{llm: client}
}

// Generate asks the model for cfg.NumKeywords phrases describing where the
// campaign's target audience listens. The response is parsed line-wise and
// clipped to the requested count. An empty or blocked response yields an
// empty slice and no error; the caller decides whether that ends the run.
func (g *Generator) Generate(ctx context.Context, cfg model.CampaignConfig) ([]string, error) {
	text, err := g.llm.Generate(ctx, llm.GenerateRequest{
		System: systemPrompt,
		Prompt: buildPrompt(cfg),
	})
	if err != nil {
		return nil, eris.Wrap(err, "keywords: generate")
	}

	kws := parseKeywords(text, cfg.NumKeywords)
	zap.L().Info("keywords generated",
		zap.String("campaign_id", cfg.CampaignID),
		zap.Int("requested", cfg.NumKeywords),
		zap.Int("returned", len(kws)),
	)
	return kws, nil
}

func buildPrompt(cfg model.CampaignConfig) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate %d podcast search keyword phrases for the following campaign.\n\n", cfg.NumKeywords)
	fmt.Fprintf(&sb, "Target audience:\n%s\n", cfg.TargetAudience)
	if len(cfg.KeyMessages) > 0 {
		sb.WriteString("\nKey messages the guest wants to land:\n")
		for _, m := range cfg.KeyMessages {
			fmt.Fprintf(&sb, "- %s\n", m)
		}
	}
	return sb.String()
}

// listMarker strips numbering and bullets the model sometimes adds despite
// instructions, e.g. "1. ", "2) ", "- ", "* ".
var listMarker = regexp.MustCompile(`^(?:\d+[.)]\s*|[-*•]\s*)`)

func parseKeywords(text string, n int) []string {
	var kws []string
	for _, line := range strings.Split(text, "\n") {
		kw := strings.TrimSpace(listMarker.ReplaceAllString(strings.TrimSpace(line), ""))
		kw = strings.Trim(kw, `"`)
		if kw == "" {
			continue
		}
		kws = append(kws, kw)
		if len(kws) == n {
			break
		}
	}
	return kws
}
