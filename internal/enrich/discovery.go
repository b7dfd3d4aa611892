package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/podscout/internal/llm"
	"github.com/sells-group/podscout/internal/model"
)

// defaultProbeInterval spaces grounded-search probes across all concurrent
// discovery tasks; the LLM provider's rate limit is the only coupling
// between them.
const defaultProbeInterval = 200 * time.Millisecond

const extractorSystemPrompt = `You extract podcast host names and social media profile URLs from research notes.

Rules:
- Only report values that are clearly present in the notes
- Emit null for any field the notes do not clearly establish; never guess
- Report URLs exactly as they appear, one URL per field
- host_names lists the people who host the show, not guests or producers`

// Discoverer produces enrichment hints for one lead.
type Discoverer interface {
	Discover(ctx context.Context, lead model.UnifiedLead) (*Hints, error)
}

// DiscovererOption configures the LLM-backed discoverer.
type DiscovererOption func(*llmDiscoverer)

// WithProbeInterval overrides the delay between grounded-search probes.
func WithProbeInterval(d time.Duration) DiscovererOption {
	return func(l *llmDiscoverer) {
		l.probeLimiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

type llmDiscoverer struct {
	llm          llm.Client
	probeLimiter *rate.Limiter
}

// NewDiscoverer creates a discoverer that probes the web for each missing
// fact and assembles the results with one structured extraction call.
func NewDiscoverer(client llm.Client, opts ...DiscovererOption) Discoverer {
	d := &llmDiscoverer{
		llm:          client,
		probeLimiter: rate.NewLimiter(rate.Every(defaultProbeInterval), 1),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Discover probes one grounded query per missing target field, then runs a
// single structured extraction over the combined notes. Fields the lead
// already carries are not probed; a probe that fails just leaves its fact
// out of the notes.
func (d *llmDiscoverer) Discover(ctx context.Context, lead model.UnifiedLead) (*Hints, error) {
	title := ""
	if lead.Title != nil {
		title = *lead.Title
	}
	if title == "" {
		// Without a title there is nothing to search by.
		return &Hints{}, nil
	}

	log := zap.L().With(
		zap.String("api_id", lead.APIID),
		zap.String("title", title),
	)

	var notes strings.Builder
	probed := 0
	for _, t := range urlTargets() {
		if t.fromLead(&lead) != nil {
			fmt.Fprintf(&notes, "Already known %s: %s\n\n", t.label, *t.fromLead(&lead))
			continue
		}
		answer := d.probe(ctx, log, fmt.Sprintf("%s for the podcast %q", t.label, title))
		if answer != "" {
			fmt.Fprintf(&notes, "Research on the %s:\n%s\n\n", t.label, answer)
			probed++
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	hostAnswer := d.probe(ctx, log, fmt.Sprintf("Who hosts the podcast %q? Give the host names.", title))
	if hostAnswer != "" {
		fmt.Fprintf(&notes, "Research on the hosts:\n%s\n\n", hostAnswer)
		probed++
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hints, err := d.extract(ctx, title, lead, notes.String())
	if err != nil {
		return nil, err
	}
	sanitizeHints(hints)

	log.Debug("discovery complete",
		zap.Int("probes_answered", probed),
		zap.Int("hosts", len(hints.HostNames)),
	)
	return hints, nil
}

// probe issues one grounded query behind the shared limiter. Failures are
// logged and yield "", thinning the notes rather than failing discovery.
func (d *llmDiscoverer) probe(ctx context.Context, log *zap.Logger, query string) string {
	if err := d.probeLimiter.Wait(ctx); err != nil {
		return ""
	}

	answer, err := d.llm.GroundedSearch(ctx, llm.GroundedRequest{Prompt: query})
	if err != nil {
		log.Warn("grounded probe failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return ""
	}

	text := strings.TrimSpace(answer.Text)
	if text == "" && len(answer.Citations) > 0 {
		// No direct answer; fall back to the source list as snippets.
		text = "Sources found: " + strings.Join(answer.Citations, ", ")
	}
	return text
}

func (d *llmDiscoverer) extract(ctx context.Context, title string, lead model.UnifiedLead, notes string) (*Hints, error) {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Podcast: %s\n", title)
	if lead.Description != nil {
		fmt.Fprintf(&prompt, "Description: %s\n", clip(*lead.Description, 600))
	}
	prompt.WriteString("\nResearch notes:\n\n")
	if notes == "" {
		prompt.WriteString("(no research results)\n")
	} else {
		prompt.WriteString(notes)
	}
	prompt.WriteString("\nExtract the host names and social profile URLs established by these notes.")

	var hints Hints
	err := d.llm.ExtractStructured(ctx, llm.ExtractRequest{
		System: extractorSystemPrompt,
		Prompt: prompt.String(),
		Tool:   hintsTool(),
	}, &hints)
	if err != nil {
		return nil, eris.Wrap(err, "enrich: extract hints")
	}
	return &hints, nil
}

// hintsTool is the extraction schema: every URL slot nullable, host names
// an array of strings.
func hintsTool() llm.ToolSpec {
	properties := map[string]any{
		"host_names": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Names of the people hosting the podcast",
		},
	}
	for _, t := range urlTargets() {
		properties[t.field] = map[string]any{
			"type":        []string{"string", "null"},
			"description": "The " + t.label + ", or null if not clearly present",
		}
	}
	return llm.ToolSpec{
		Name:        "record_enrichment_hints",
		Description: "Record the host names and social profile URLs found for a podcast",
		Properties:  properties,
	}
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
