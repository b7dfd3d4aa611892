package cost

import "sync"

// Summary is the accumulated spend of one run.
type Summary struct {
	ClaudeCalls            int     `json:"claude_calls"`
	ClaudeInputTokens      int64   `json:"claude_input_tokens"`
	ClaudeOutputTokens     int64   `json:"claude_output_tokens"`
	ClaudeCacheWriteTokens int64   `json:"claude_cache_write_tokens"`
	ClaudeCacheReadTokens  int64   `json:"claude_cache_read_tokens"`
	PerplexityQueries      int     `json:"perplexity_queries"`
	EstimatedUSD           float64 `json:"estimated_usd"`
}

// Tracker accumulates provider usage across concurrent stages. Create one
// per run with NewTracker and share it through the llm client.
type Tracker struct {
	mu   sync.Mutex
	calc *Calculator
	sum  Summary
}

// NewTracker creates a Tracker pricing usage at the given rates.
func NewTracker(rates Rates) *Tracker {
	return &Tracker{calc: NewCalculator(rates)}
}

// RecordClaude adds one Anthropic call's token usage.
func (t *Tracker) RecordClaude(model string, input, output, cacheWrite, cacheRead int64) {
	usd := t.calc.Claude(model, input, output, cacheWrite, cacheRead)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.sum.ClaudeCalls++
	t.sum.ClaudeInputTokens += input
	t.sum.ClaudeOutputTokens += output
	t.sum.ClaudeCacheWriteTokens += cacheWrite
	t.sum.ClaudeCacheReadTokens += cacheRead
	t.sum.EstimatedUSD += usd
}

// RecordGroundedQuery adds one Perplexity query.
func (t *Tracker) RecordGroundedQuery() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sum.PerplexityQueries++
	t.sum.EstimatedUSD += t.calc.PerplexityQuery()
}

// Summary returns a copy of the accumulated totals.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sum
}
