// Package podscan is a client for the Podscan podcast database API.
package podscan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/podscout/internal/resilience"
)

const defaultBaseURL = "https://podscan.fm/api/v1"

// ErrNotFound is returned when a lookup matches no podcast.
var ErrNotFound = eris.New("podscan: podcast not found")

// Client defines the Podscan API operations used by the pipeline.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
	LookupByFeed(ctx context.Context, feedURL string) (*Podcast, error)
	LookupByItunesID(ctx context.Context, itunesID int64) (*Podcast, error)
	RelatedPodcasts(ctx context.Context, podcastID string) ([]Podcast, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRetryConfig overrides the default retry policy.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

// WithRateLimit overrides the default client-side rate limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
	retry   resilience.RetryConfig
	limiter *rate.Limiter
}

// NewClient creates a Podscan API client.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		retry:   resilience.DefaultRetryConfig(),
		limiter: rate.NewLimiter(rate.Limit(5), 2),
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	query := url.Values{}
	query.Set("query", req.Query)
	if req.Page > 0 {
		query.Set("page", strconv.Itoa(req.Page))
	}
	if req.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(req.PerPage))
	}
	if req.Language != "" {
		query.Set("language", req.Language)
	}

	var resp SearchResponse
	if err := c.get(ctx, "/podcasts/search", query, &resp); err != nil {
		return nil, eris.Wrap(err, "podscan: search")
	}
	return &resp, nil
}

func (c *httpClient) LookupByFeed(ctx context.Context, feedURL string) (*Podcast, error) {
	query := url.Values{}
	query.Set("rss_url", feedURL)

	var resp lookupResponse
	if err := c.get(ctx, "/podcasts/search/by/rssurl", query, &resp); err != nil {
		if isNotFoundStatus(err) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "podscan: lookup by feed")
	}
	if resp.Podcast == nil {
		return nil, ErrNotFound
	}
	return resp.Podcast, nil
}

func (c *httpClient) LookupByItunesID(ctx context.Context, itunesID int64) (*Podcast, error) {
	query := url.Values{}
	query.Set("itunes_id", strconv.FormatInt(itunesID, 10))

	var resp lookupResponse
	if err := c.get(ctx, "/podcasts/search/by/itunesid", query, &resp); err != nil {
		if isNotFoundStatus(err) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "podscan: lookup by itunes id")
	}
	if resp.Podcast == nil {
		return nil, ErrNotFound
	}
	return resp.Podcast, nil
}

func (c *httpClient) RelatedPodcasts(ctx context.Context, podcastID string) ([]Podcast, error) {
	var resp relatedResponse
	err := c.get(ctx, fmt.Sprintf("/podcasts/%s/related_podcasts", url.PathEscape(podcastID)), nil, &resp)
	if err != nil {
		if isNotFoundStatus(err) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, fmt.Sprintf("podscan: related podcasts for %s", podcastID))
	}
	return resp.RelatedPodcasts, nil
}

func (c *httpClient) get(ctx context.Context, path string, query url.Values, out any) error {
	return resilience.Do(ctx, c.retry, func(ctx context.Context) error {
		return c.doOnce(ctx, path, query, out)
	})
}

func (c *httpClient) doOnce(ctx context.Context, path string, query url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "wait for rate limiter")
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resilience.HTTPError(resp.StatusCode, string(data), resp.Header)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrap(err, "decode response")
	}
	return nil
}

func isNotFoundStatus(err error) bool {
	var pe *resilience.PermanentError
	return errors.As(err, &pe) && pe.StatusCode == http.StatusNotFound
}
