// Package rss probes a podcast's feed for owner and category metadata the
// catalog providers do not carry.
package rss

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rotisserie/eris"

	"github.com/sells-group/podscout/internal/model"
	"github.com/sells-group/podscout/internal/resilience"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "podscout/1.0"
)

// Metadata is what a feed probe yields. Every field is optional; feeds
// routinely omit the itunes extension entirely.
type Metadata struct {
	OwnerName  *string
	OwnerEmail *string
	Explicit   *bool
	Categories []string
	Language   *string
	Website    *string
}

// Parser fetches and parses podcast feeds.
type Parser struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	userAgent  string
}

// Option configures the parser.
type Option func(*Parser)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Parser) {
		p.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent to feed hosts.
func WithUserAgent(ua string) Option {
	return func(p *Parser) {
		p.userAgent = ua
	}
}

// NewParser creates a feed parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		httpClient: &http.Client{Timeout: defaultTimeout},
		parser:     gofeed.NewParser(),
		userAgent:  defaultUserAgent,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Fetch downloads and parses the feed at feedURL. Itunes-extension fields
// win over plain channel fields when both are present.
func (p *Parser) Fetch(ctx context.Context, feedURL string) (*Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "rss: build request")
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "rss: fetch feed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Wrap(resilience.HTTPError(resp.StatusCode, "", resp.Header), "rss: fetch feed")
	}

	feed, err := p.parser.Parse(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "rss: parse feed")
	}

	return extract(feed), nil
}

func extract(feed *gofeed.Feed) *Metadata {
	md := &Metadata{
		Categories: categories(feed),
	}
	if feed.Language != "" {
		md.Language = model.StrPtr(feed.Language)
	}
	if feed.Link != "" {
		md.Website = model.StrPtr(feed.Link)
	}

	if it := feed.ITunesExt; it != nil {
		if it.Owner != nil {
			if it.Owner.Name != "" {
				md.OwnerName = model.StrPtr(it.Owner.Name)
			}
			if it.Owner.Email != "" {
				md.OwnerEmail = model.StrPtr(it.Owner.Email)
			}
		}
		if md.OwnerName == nil && it.Author != "" {
			md.OwnerName = model.StrPtr(it.Author)
		}
		if it.Explicit != "" {
			md.Explicit = model.BoolPtr(isExplicit(it.Explicit))
		}
	}

	// Channel managingEditor surfaces as the feed author.
	if len(feed.Authors) > 0 && feed.Authors[0] != nil {
		a := feed.Authors[0]
		if md.OwnerName == nil && a.Name != "" {
			md.OwnerName = model.StrPtr(a.Name)
		}
		if md.OwnerEmail == nil && a.Email != "" {
			md.OwnerEmail = model.StrPtr(a.Email)
		}
	}

	return md
}

// categories merges channel categories with itunes categories and their
// subcategories, first occurrence wins.
func categories(feed *gofeed.Feed) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(c string) {
		c = strings.TrimSpace(c)
		if c == "" || seen[strings.ToLower(c)] {
			return
		}
		seen[strings.ToLower(c)] = true
		out = append(out, c)
	}

	for _, c := range feed.Categories {
		add(c)
	}
	if feed.ITunesExt != nil {
		for _, c := range feed.ITunesExt.Categories {
			if c == nil {
				continue
			}
			add(c.Text)
			if c.Subcategory != nil {
				add(c.Subcategory.Text)
			}
		}
	}
	return out
}

func isExplicit(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "explicit":
		return true
	default:
		return false
	}
}
