// Package listennotes is a client for the Listen Notes podcast API v2.
package listennotes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/podscout/internal/resilience"
)

const defaultBaseURL = "https://listen-api.listennotes.com/api/v2"

// ErrNotFound is returned when a lookup matches no podcast.
var ErrNotFound = eris.New("listennotes: podcast not found")

// Client defines the Listen Notes API operations used by the pipeline.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
	BatchLookup(ctx context.Context, req BatchLookupRequest) (*BatchLookupResponse, error)
	LookupByFeed(ctx context.Context, feedURL string) (*Podcast, error)
	LookupByItunesID(ctx context.Context, itunesID int64) (*Podcast, error)
	Recommendations(ctx context.Context, podcastID string) (*RecommendationsResponse, error)
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
	apiKey  string
	baseURL string
	http    *http.Client
	retry   resilience.RetryConfig
	limiter *rate.Limiter
}

// NewClient creates a Listen Notes API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		retry:   resilience.DefaultRetryConfig(),
		limiter: rate.NewLimiter(rate.Limit(10), 5),
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
	query.Set("q", req.Query)
	if req.Type == "" {
		req.Type = "podcast"
	}
	query.Set("type", req.Type)
	if req.Offset > 0 {
		query.Set("offset", strconv.Itoa(req.Offset))
	}
	if req.Language != "" {
		query.Set("language", req.Language)
	}
	if req.SortByDate {
		query.Set("sort_by_date", "1")
	}

	var resp SearchResponse
	if err := c.get(ctx, "/search", query, &resp); err != nil {
		return nil, eris.Wrap(err, "listennotes: search")
	}
	return &resp, nil
}

func (c *httpClient) BatchLookup(ctx context.Context, req BatchLookupRequest) (*BatchLookupResponse, error) {
	form := url.Values{}
	if len(req.IDs) > 0 {
		form.Set("ids", strings.Join(req.IDs, ","))
	}
	if len(req.RSSes) > 0 {
		form.Set("rsses", strings.Join(req.RSSes, ","))
	}
	if len(req.ItunesIDs) > 0 {
		ids := make([]string, len(req.ItunesIDs))
		for i, id := range req.ItunesIDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		form.Set("itunes_ids", strings.Join(ids, ","))
	}
	if len(form) == 0 {
		return nil, eris.New("listennotes: batch lookup requires at least one identifier")
	}

	var resp BatchLookupResponse
	if err := c.postForm(ctx, "/podcasts", form, &resp); err != nil {
		return nil, eris.Wrap(err, "listennotes: batch lookup")
	}
	return &resp, nil
}

func (c *httpClient) LookupByFeed(ctx context.Context, feedURL string) (*Podcast, error) {
	resp, err := c.BatchLookup(ctx, BatchLookupRequest{RSSes: []string{feedURL}})
	if err != nil {
		return nil, err
	}
	if len(resp.Podcasts) == 0 {
		return nil, ErrNotFound
	}
	return &resp.Podcasts[0], nil
}

func (c *httpClient) LookupByItunesID(ctx context.Context, itunesID int64) (*Podcast, error) {
	resp, err := c.BatchLookup(ctx, BatchLookupRequest{ItunesIDs: []int64{itunesID}})
	if err != nil {
		return nil, err
	}
	if len(resp.Podcasts) == 0 {
		return nil, ErrNotFound
	}
	return &resp.Podcasts[0], nil
}

func (c *httpClient) Recommendations(ctx context.Context, podcastID string) (*RecommendationsResponse, error) {
	var resp RecommendationsResponse
	err := c.get(ctx, fmt.Sprintf("/podcasts/%s/recommendations", url.PathEscape(podcastID)), nil, &resp)
	if err != nil {
		if isNotFoundStatus(err) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, fmt.Sprintf("listennotes: recommendations for %s", podcastID))
	}
	return &resp, nil
}

func (c *httpClient) get(ctx context.Context, path string, query url.Values, out any) error {
	return resilience.Do(ctx, c.retry, func(ctx context.Context) error {
		return c.doOnce(ctx, http.MethodGet, path, query, nil, "", out)
	})
}

func (c *httpClient) postForm(ctx context.Context, path string, form url.Values, out any) error {
	body := []byte(form.Encode())
	return resilience.Do(ctx, c.retry, func(ctx context.Context) error {
		return c.doOnce(ctx, http.MethodPost, path, nil, body, "application/x-www-form-urlencoded", out)
	})
}

func (c *httpClient) doOnce(ctx context.Context, method, path string, query url.Values, body []byte, contentType string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "wait for rate limiter")
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("X-ListenAPI-Key", c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

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
