package cost

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRates() Rates {
	return Rates{
		Anthropic: map[string]ModelRate{
			"sonnet": {
				Input: 3.00, Output: 15.00,
				CacheWriteMul: 1.25, CacheReadMul: 0.1,
			},
		},
		Perplexity: PerplexityRate{PerQuery: 0.005},
	}
}

func TestCalculator_Claude(t *testing.T) {
	c := NewCalculator(testRates())

	// 1M input + 1M output at sonnet rates.
	got := c.Claude("sonnet", 1_000_000, 1_000_000, 0, 0)
	assert.InDelta(t, 18.00, got, 1e-9)
}

func TestCalculator_Claude_CacheMultipliers(t *testing.T) {
	c := NewCalculator(testRates())

	// 1M cache write: input rate * 1.25. 1M cache read: input rate * 0.1.
	assert.InDelta(t, 3.75, c.Claude("sonnet", 0, 0, 1_000_000, 0), 1e-9)
	assert.InDelta(t, 0.30, c.Claude("sonnet", 0, 0, 0, 1_000_000), 1e-9)
}

func TestCalculator_Claude_UnknownModel(t *testing.T) {
	c := NewCalculator(testRates())
	assert.Zero(t, c.Claude("unknown-model", 1_000_000, 1_000_000, 0, 0))
}

func TestCalculator_PerplexityQuery(t *testing.T) {
	c := NewCalculator(testRates())
	assert.InDelta(t, 0.005, c.PerplexityQuery(), 1e-9)
}

func TestDefaultRates_CoverKnownModels(t *testing.T) {
	rates := DefaultRates()
	assert.Contains(t, rates.Anthropic, "claude-sonnet-4-5-20250929")
	assert.Contains(t, rates.Anthropic, "claude-haiku-4-5-20251001")
	assert.Positive(t, rates.Perplexity.PerQuery)
}

func TestTracker_Accumulates(t *testing.T) {
	tr := NewTracker(testRates())

	tr.RecordClaude("sonnet", 1000, 500, 0, 0)
	tr.RecordClaude("sonnet", 2000, 1000, 200, 100)
	tr.RecordGroundedQuery()
	tr.RecordGroundedQuery()

	sum := tr.Summary()
	assert.Equal(t, 2, sum.ClaudeCalls)
	assert.Equal(t, int64(3000), sum.ClaudeInputTokens)
	assert.Equal(t, int64(1500), sum.ClaudeOutputTokens)
	assert.Equal(t, int64(200), sum.ClaudeCacheWriteTokens)
	assert.Equal(t, int64(100), sum.ClaudeCacheReadTokens)
	assert.Equal(t, 2, sum.PerplexityQueries)
	assert.Greater(t, sum.EstimatedUSD, 0.01)
}

func TestTracker_ConcurrentRecords(t *testing.T) {
	tr := NewTracker(testRates())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.RecordClaude("sonnet", 100, 50, 0, 0)
			tr.RecordGroundedQuery()
		}()
	}
	wg.Wait()

	sum := tr.Summary()
	assert.Equal(t, 50, sum.ClaudeCalls)
	assert.Equal(t, int64(5000), sum.ClaudeInputTokens)
	assert.Equal(t, 50, sum.PerplexityQueries)
}
