package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/podscout/internal/model"
	"github.com/sells-group/podscout/internal/social"
)

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name     string
		in       *string
		platform social.Platform
		want     *string
	}{
		{"nil passes through", nil, social.PlatformTwitter, nil},
		{"empty", model.StrPtr(""), social.PlatformTwitter, nil},
		{"whitespace", model.StrPtr("   "), social.PlatformTwitter, nil},
		{"null word", model.StrPtr("unknown"), social.PlatformTwitter, nil},
		{"null word cased", model.StrPtr(" N/A "), social.PlatformTwitter, nil},
		{"not found", model.StrPtr("Not Found"), social.PlatformTwitter, nil},
		{
			"valid URL untouched",
			model.StrPtr("https://instagram.com/theshow"),
			social.PlatformInstagram,
			model.StrPtr("https://instagram.com/theshow"),
		},
		{
			"schemeless gains https",
			model.StrPtr("twitter.com/JaneHost"),
			social.PlatformTwitter,
			model.StrPtr("https://twitter.com/JaneHost"),
		},
		{
			"twitter handle becomes profile URL",
			model.StrPtr("@JaneHost"),
			social.PlatformTwitter,
			model.StrPtr("https://twitter.com/janehost"),
		},
		{
			"tiktok handle keeps at-sign path",
			model.StrPtr("@theshow"),
			social.PlatformTikTok,
			model.StrPtr("https://tiktok.com/@theshow"),
		},
		{
			"handle on handleless platform rejected",
			model.StrPtr("@jane-host"),
			social.PlatformLinkedIn,
			nil,
		},
		{"non-http scheme rejected", model.StrPtr("ftp://example.com/feed"), social.PlatformTwitter, nil},
		{"garbage rejected", model.StrPtr("not a url at all"), social.PlatformTwitter, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeURL(tt.in, tt.platform)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestSanitizeHints(t *testing.T) {
	h := &Hints{
		HostNames:           []string{"  Jane Doe ", "", "Unknown", "Sam Lee"},
		PodcastTwitterURL:   model.StrPtr("@TheShow"),
		PodcastLinkedInURL:  model.StrPtr("n/a"),
		PodcastInstagramURL: model.StrPtr("instagram.com/theshow"),
		HostLinkedInURL:     model.StrPtr("https://linkedin.com/in/jane-doe"),
		HostTwitterURL:      model.StrPtr("none"),
	}

	sanitizeHints(h)

	assert.Equal(t, []string{"Jane Doe", "Sam Lee"}, h.HostNames)
	require.NotNil(t, h.PodcastTwitterURL)
	assert.Equal(t, "https://twitter.com/theshow", *h.PodcastTwitterURL)
	assert.Nil(t, h.PodcastLinkedInURL)
	require.NotNil(t, h.PodcastInstagramURL)
	assert.Equal(t, "https://instagram.com/theshow", *h.PodcastInstagramURL)
	require.NotNil(t, h.HostLinkedInURL)
	assert.Equal(t, "https://linkedin.com/in/jane-doe", *h.HostLinkedInURL)
	assert.Nil(t, h.HostTwitterURL)
	assert.Nil(t, h.PodcastFacebookURL)
}

func TestHintsTool_CoversEverySlot(t *testing.T) {
	tool := hintsTool()

	assert.Equal(t, "record_enrichment_hints", tool.Name)
	assert.Contains(t, tool.Properties, "host_names")
	for _, target := range urlTargets() {
		assert.Contains(t, tool.Properties, target.field)
	}
}
