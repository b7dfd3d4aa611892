// Package apify is a client for running Apify actors synchronously and
// collecting their default dataset items.
package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/podscout/internal/resilience"
)

const (
	defaultBaseURL = "https://api.apify.com/v2"

	// defaultRunTimeoutSecs is passed to the actor run. The HTTP client
	// timeout is kept above it so the run can finish server-side.
	defaultRunTimeoutSecs = 300
)

// Client runs Apify actors.
type Client interface {
	// RunSyncGetDatasetItems starts an actor run with the given JSON input,
	// waits for it to finish, and returns the items of its default dataset.
	// Actor IDs use the "user~actor-name" form.
	RunSyncGetDatasetItems(ctx context.Context, actorID string, input any, opts ...RunOption) ([]json.RawMessage, error)
}

// RunOption adjusts a single actor run.
type RunOption func(*runParams)

type runParams struct {
	timeoutSecs int
	memoryMB    int
	build       string
}

// WithRunTimeout sets the actor run timeout in seconds.
func WithRunTimeout(seconds int) RunOption {
	return func(p *runParams) {
		p.timeoutSecs = seconds
	}
}

// WithMemory sets the actor run memory limit in megabytes.
func WithMemory(mb int) RunOption {
	return func(p *runParams) {
		p.memoryMB = mb
	}
}

// WithBuild pins the actor build tag, e.g. "latest" or "beta".
func WithBuild(build string) RunOption {
	return func(p *runParams) {
		p.build = build
	}
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

// WithRateLimit adds a client-side rate limit. There is none by default;
// actor runs are few and long.
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

// NewClient creates an Apify API client.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		retry:   resilience.DefaultRetryConfig(),
		http: &http.Client{
			// Above the run timeout so synchronous runs can complete.
			Timeout: (defaultRunTimeoutSecs + 60) * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) RunSyncGetDatasetItems(ctx context.Context, actorID string, input any, opts ...RunOption) ([]json.RawMessage, error) {
	params := runParams{timeoutSecs: defaultRunTimeoutSecs}
	for _, opt := range opts {
		opt(&params)
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, eris.Wrap(err, "apify: marshal actor input")
	}

	query := url.Values{}
	query.Set("timeout", strconv.Itoa(params.timeoutSecs))
	if params.memoryMB > 0 {
		query.Set("memory", strconv.Itoa(params.memoryMB))
	}
	if params.build != "" {
		query.Set("build", params.build)
	}

	path := "/acts/" + url.PathEscape(actorID) + "/run-sync-get-dataset-items?" + query.Encode()

	items, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]json.RawMessage, error) {
		return c.runOnce(ctx, path, body)
	})
	if err != nil {
		return nil, eris.Wrap(err, "apify: run actor "+actorID)
	}
	return items, nil
}

func (c *httpClient) runOnce(ctx context.Context, path string, body []byte) ([]json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "wait for rate limiter")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resilience.HTTPError(resp.StatusCode, string(data), resp.Header)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, eris.Wrap(err, "decode dataset items")
	}
	return items, nil
}

// DecodeItems unmarshals raw dataset items into typed records. Items that
// fail to decode abort with an error rather than being dropped.
func DecodeItems[T any](items []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(items))
	for i, raw := range items {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, eris.Wrap(err, "apify: decode dataset item "+strconv.Itoa(i))
		}
		out = append(out, item)
	}
	return out, nil
}
