package podscan

import (
	"context"
	"encoding/json"
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
	return NewClient("test-token",
		WithBaseURL(baseURL),
		WithRetryConfig(resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     5 * time.Millisecond,
		}),
		WithRateLimit(1000, 1000),
	)
}

func TestSearch_SendsBearerAndParams(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/podcasts/search", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		q := r.URL.Query()
		assert.Equal(t, "founder interviews", q.Get("query"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "en", q.Get("language"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"podcasts": []map[string]any{
				{
					"podcast_id":   "ps-1",
					"podcast_name": "Founder Stories",
					"rss_url":      "https://feeds.example.com/founders",
					"reach": map[string]any{
						"audience_size": 5000,
						"itunes": map[string]any{
							"itunes_rating_average": 4.7,
							"itunes_rating_count":   210,
						},
						"social_links": []map[string]any{
							{"platform": "twitter", "url": "https://twitter.com/founders"},
						},
					},
				},
			},
			"pagination": map[string]any{
				"current_page": 2,
				"last_page":    4,
				"per_page":     20,
				"total":        68,
			},
		})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	resp, err := client.Search(context.Background(), SearchRequest{
		Query:    "founder interviews",
		Page:     2,
		Language: "en",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Pagination.CurrentPage)
	assert.Equal(t, 4, resp.Pagination.LastPage)
	require.Len(t, resp.Podcasts, 1)

	p := resp.Podcasts[0]
	assert.Equal(t, "Founder Stories", p.PodcastName)
	require.NotNil(t, p.Reach)
	require.NotNil(t, p.Reach.AudienceSize)
	assert.Equal(t, int64(5000), *p.Reach.AudienceSize)
	require.NotNil(t, p.Reach.Itunes)
	assert.InDelta(t, 4.7, *p.Reach.Itunes.ItunesRatingAverage, 0.001)
	require.Len(t, p.Reach.SocialLinks, 1)
	assert.Equal(t, "twitter", p.Reach.SocialLinks[0].Platform)
}

func TestSearch_EmptyResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"podcasts":   []any{},
			"pagination": map[string]any{"current_page": 1, "last_page": 1, "per_page": 20, "total": 0},
		})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	resp, err := client.Search(context.Background(), SearchRequest{Query: "no matches"})
	require.NoError(t, err)
	assert.Empty(t, resp.Podcasts)
	assert.Equal(t, 1, resp.Pagination.LastPage)
}

func TestLookupByFeed_Found(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/podcasts/search/by/rssurl", r.URL.Path)
		assert.Equal(t, "https://feeds.example.com/founders", r.URL.Query().Get("rss_url"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"podcast": map[string]any{
				"podcast_id":     "ps-1",
				"podcast_name":   "Founder Stories",
				"rss_url":        "https://feeds.example.com/founders",
				"last_posted_at": "2026-08-01 09:30:00",
			},
		})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	p, err := client.LookupByFeed(context.Background(), "https://feeds.example.com/founders")
	require.NoError(t, err)
	assert.Equal(t, "ps-1", p.PodcastID)
	assert.Equal(t, "2026-08-01 09:30:00", p.LastPostedAt)
}

func TestLookupByFeed_NotFound404(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"No podcast found"}`))
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	_, err := client.LookupByFeed(context.Background(), "https://feeds.example.com/unknown")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLookupByFeed_NullPodcast(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"podcast": nil})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	_, err := client.LookupByFeed(context.Background(), "https://feeds.example.com/unknown")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLookupByItunesID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/podcasts/search/by/itunesid", r.URL.Path)
		assert.Equal(t, "111222", r.URL.Query().Get("itunes_id"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"podcast": map[string]any{
				"podcast_id":        "ps-2",
				"podcast_name":      "Growth Talk",
				"podcast_itunes_id": 111222,
			},
		})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	p, err := client.LookupByItunesID(context.Background(), 111222)
	require.NoError(t, err)
	require.NotNil(t, p.PodcastItunesID)
	assert.Equal(t, int64(111222), *p.PodcastItunesID)
}

func TestRelatedPodcasts(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/podcasts/ps-seed/related_podcasts", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"related_podcasts": []map[string]any{
				{"podcast_id": "ps-r1", "podcast_name": "Adjacent One", "rss_url": "https://feeds.example.com/r1"},
				{"podcast_id": "ps-r2", "podcast_name": "Adjacent Two", "rss_url": "https://feeds.example.com/r2"},
			},
		})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	related, err := client.RelatedPodcasts(context.Background(), "ps-seed")
	require.NoError(t, err)
	require.Len(t, related, 2)
	assert.Equal(t, "Adjacent One", related[0].PodcastName)
}

func TestRelatedPodcasts_UnknownSeed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"No podcast found"}`))
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	_, err := client.RelatedPodcasts(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSearch_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"podcasts":   []any{},
			"pagination": map[string]any{"current_page": 1, "last_page": 1, "per_page": 20, "total": 0},
		})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	_, err := client.Search(context.Background(), SearchRequest{Query: "throttled"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSearch_BadTokenFailsFast(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Unauthenticated."}`))
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	_, err := client.Search(context.Background(), SearchRequest{Query: "anything"})
	require.Error(t, err)
	assert.True(t, resilience.IsConfig(err))
	assert.Equal(t, int32(1), calls.Load())
}
