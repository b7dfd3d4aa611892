package perplexity

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/podscout/internal/resilience"
)

func newTestClient(baseURL string) Client {
	return NewClient("test-key",
		WithBaseURL(baseURL),
		WithRetryConfig(resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     5 * time.Millisecond,
		}),
	)
}

func TestChatCompletion(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req ChatCompletionRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "sonar-pro", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "ppx-1",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": "The host is Jane Doe."}},
			},
			"citations": []string{
				"https://example.com/about",
				"https://podcasts.apple.com/us/podcast/example",
			},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 12},
		})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	resp, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "Who hosts the Example podcast?"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "The host is Jane Doe.", resp.Answer())
	require.Len(t, resp.Citations, 2)
	assert.Equal(t, "https://example.com/about", resp.Citations[0])
	assert.Equal(t, 40, resp.Usage.PromptTokens)
}

func TestChatCompletion_ModelOverride(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req ChatCompletionRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "sonar", req.Model)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "ppx-2", "choices": []any{}})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	resp, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
		Model:    "sonar",
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Answer())
}

func TestChatCompletion_SearchFilters(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var raw map[string]any
		require.NoError(t, json.Unmarshal(body, &raw))
		assert.Equal(t, "month", raw["search_recency_filter"])
		assert.Equal(t, []any{"linkedin.com"}, raw["search_domain_filter"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "ppx-3", "choices": []any{}})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages:            []Message{{Role: "user", Content: "find the host"}},
		SearchRecencyFilter: "month",
		SearchDomainFilter:  []string{"linkedin.com"},
	})
	require.NoError(t, err)
}

func TestChatCompletion_OmitsEmptyFilters(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var raw map[string]any
		require.NoError(t, json.Unmarshal(body, &raw))
		_, hasRecency := raw["search_recency_filter"]
		_, hasDomains := raw["search_domain_filter"]
		assert.False(t, hasRecency)
		assert.False(t, hasDomains)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "ppx-4", "choices": []any{}})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
}

func TestChatCompletion_RetriesOverload(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"overloaded"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "ppx-5",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": "ok"}},
			},
		})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	resp, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Answer())
	assert.Equal(t, int32(2), calls.Load())
}

func TestChatCompletion_BadKeyFailsFast(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.Error(t, err)
	assert.True(t, resilience.IsConfig(err))
	assert.Equal(t, int32(1), calls.Load())
}
