package vet

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/podscout/internal/llm"
	"github.com/sells-group/podscout/internal/model"
)

const matchSystemPrompt = `You assess how well a podcast fits a prospective guest.

You will be given the podcast's metadata and the guest's profile. Judge topical
fit, audience overlap, and whether the show format suits a guest appearance.
Score 0-100 where 100 is a perfect fit. Be decisive: reserve scores above 80
for clear, specific alignment.`

const maxDescriptionChars = 800

// matchOutcome carries the content-match result plus the note woven into the
// final explanation. Score and Explanation are both nil when the call failed
// or returned an unusable value.
type matchOutcome struct {
	Score       *int
	Explanation *string
	Note        string
}

// matchResult is the forced tool output of the content-match call.
type matchResult struct {
	MatchScore  *int    `json:"match_score"`
	Explanation *string `json:"explanation"`
}

func matchTool() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        "record_match_assessment",
		Description: "Record the podcast/guest fit assessment.",
		Properties: map[string]any{
			"match_score": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     100,
				"description": "Fit score from 0 (no fit) to 100 (perfect fit).",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "One or two sentences justifying the score.",
			},
		},
		Required: []string{"match_score", "explanation"},
	}
}

// matchProfile runs the single structured content-match call. It fails
// closed: any transport error, missing score, or out-of-range score yields
// nil score and explanation with a failure note, never a fabricated value.
func matchProfile(ctx context.Context, client llm.Client, cfg model.CampaignConfig, p *model.EnrichedProfile) matchOutcome {
	var res matchResult
	err := client.ExtractStructured(ctx, llm.ExtractRequest{
		System:      matchSystemPrompt,
		Prompt:      buildMatchPrompt(cfg, p),
		Tool:        matchTool(),
		CacheSystem: true,
	}, &res)
	if err != nil {
		zap.L().Warn("llm match failed",
			zap.String("podcast_id", p.APIID),
			zap.Error(err),
		)
		return matchOutcome{Note: "LLM match unavailable: call failed."}
	}
	if res.MatchScore == nil {
		return matchOutcome{Note: "LLM match unavailable: no score returned."}
	}
	if *res.MatchScore < 0 || *res.MatchScore > 100 {
		zap.L().Warn("llm match score out of range",
			zap.String("podcast_id", p.APIID),
			zap.Int("score", *res.MatchScore),
		)
		return matchOutcome{Note: "LLM match unavailable: score out of range."}
	}

	explanation := ""
	if res.Explanation != nil {
		explanation = strings.TrimSpace(*res.Explanation)
	}
	note := fmt.Sprintf("LLM match: %d/100.", *res.MatchScore)
	if explanation != "" {
		note = fmt.Sprintf("LLM match: %d/100 (%s)", *res.MatchScore, explanation)
	}
	return matchOutcome{
		Score:       res.MatchScore,
		Explanation: model.StrPtr(explanation),
		Note:        note,
	}
}

func buildMatchPrompt(cfg model.CampaignConfig, p *model.EnrichedProfile) string {
	var sb strings.Builder
	sb.WriteString("Assess the fit between this podcast and this guest.\n\n")

	sb.WriteString("## Podcast\n")
	if p.Title != nil {
		fmt.Fprintf(&sb, "Title: %s\n", *p.Title)
	}
	if p.Description != nil {
		fmt.Fprintf(&sb, "Description: %s\n", clip(*p.Description, maxDescriptionChars))
	}
	if len(p.RSSCategories) > 0 {
		fmt.Fprintf(&sb, "Categories: %s\n", strings.Join(p.RSSCategories, ", "))
	}
	if len(p.HostNames) > 0 {
		fmt.Fprintf(&sb, "Hosts: %s\n", strings.Join(p.HostNames, ", "))
	}
	if p.TotalEpisodes != nil {
		fmt.Fprintf(&sb, "Total episodes: %d\n", *p.TotalEpisodes)
	}

	sb.WriteString("\n## Guest\n")
	fmt.Fprintf(&sb, "Bio: %s\n", cfg.GuestBio)
	if len(cfg.GuestTalkingPoints) > 0 {
		sb.WriteString("Talking points:\n")
		for _, tp := range cfg.GuestTalkingPoints {
			fmt.Fprintf(&sb, "- %s\n", tp)
		}
	}

	sb.WriteString("\n## Ideal podcast\n")
	sb.WriteString(cfg.IdealPodcastDescription)
	sb.WriteString("\n")
	return sb.String()
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
