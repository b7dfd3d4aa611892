// Package social resolves and scrapes social profiles for podcasts and
// their hosts. Platform adapters wrap Apify actors behind one Scraper
// interface; this file holds the URL canonicalization and platform
// detection shared by mappers, dedup, and the adapters.
package social

import (
	"net/url"
	"strings"
)

// Platform names a supported social network.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
)

// AllPlatforms lists the supported platforms in scrape order.
func AllPlatforms() []Platform {
	return []Platform{
		PlatformTwitter,
		PlatformLinkedIn,
		PlatformInstagram,
		PlatformFacebook,
		PlatformYouTube,
		PlatformTikTok,
	}
}

// Canonicalize normalizes a social profile URL into its canonical form:
// https scheme, lowercased bare host (www/m/mobile stripped, x.com folded
// into twitter.com), no query or fragment, no trailing slash. Handle paths
// are lowercased on platforms with case-insensitive handles. The function
// is idempotent; unparseable input is returned trimmed but otherwise
// untouched.
func Canonicalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}
	if u.Host == "" {
		// Scheme-less input like "twitter.com/handle" parses as a bare path.
		u, err = url.Parse("https://" + trimmed)
		if err != nil || u.Host == "" {
			return trimmed
		}
	}

	u.Scheme = "https"
	u.Host = cleanHost(u.Host)
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")

	if p, ok := detectHost(u.Host); ok {
		switch p {
		case PlatformTwitter, PlatformInstagram, PlatformTikTok:
			// Handles are case-insensitive there; channel and slug paths
			// elsewhere (YouTube IDs, LinkedIn slugs) must keep their case.
			u.Path = strings.ToLower(u.Path)
		}
	}

	return u.String()
}

// DetectPlatform reports which platform a profile URL belongs to.
func DetectPlatform(raw string) (Platform, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", false
	}
	if u.Host == "" {
		u, err = url.Parse("https://" + trimmed)
		if err != nil || u.Host == "" {
			return "", false
		}
	}

	return detectHost(cleanHost(u.Host))
}

// ProfileURL builds the canonical profile URL for a bare handle. Only
// platforms whose profiles live at a flat handle path are supported;
// others return "" because a handle alone cannot name a profile there.
func ProfileURL(p Platform, handle string) string {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return ""
	}
	switch p {
	case PlatformTwitter:
		return "https://twitter.com/" + strings.ToLower(handle)
	case PlatformInstagram:
		return "https://instagram.com/" + strings.ToLower(handle)
	case PlatformTikTok:
		return "https://tiktok.com/@" + strings.ToLower(handle)
	default:
		return ""
	}
}

// Handle extracts the profile handle or slug from a social URL: the last
// path segment with any leading "@" removed. Returns "" when the URL has
// no path.
func Handle(raw string) string {
	u, err := url.Parse(Canonicalize(raw))
	if err != nil {
		return ""
	}

	path := strings.Trim(u.Path, "/")
	if path == "" {
		return ""
	}
	segs := strings.Split(path, "/")
	return strings.TrimPrefix(segs[len(segs)-1], "@")
}

func cleanHost(host string) string {
	host = strings.ToLower(host)
	for _, p := range []string{"www.", "mobile.", "m."} {
		host = strings.TrimPrefix(host, p)
	}
	switch host {
	case "x.com":
		host = "twitter.com"
	case "fb.com":
		host = "facebook.com"
	}
	return host
}

func detectHost(host string) (Platform, bool) {
	switch {
	case hostIs(host, "twitter.com"), hostIs(host, "x.com"):
		return PlatformTwitter, true
	case hostIs(host, "linkedin.com"):
		return PlatformLinkedIn, true
	case hostIs(host, "instagram.com"):
		return PlatformInstagram, true
	case hostIs(host, "facebook.com"), hostIs(host, "fb.com"):
		return PlatformFacebook, true
	case hostIs(host, "youtube.com"), hostIs(host, "youtu.be"):
		return PlatformYouTube, true
	case hostIs(host, "tiktok.com"):
		return PlatformTikTok, true
	default:
		return "", false
	}
}

func hostIs(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
