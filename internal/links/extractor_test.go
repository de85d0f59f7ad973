package links

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatdigest/link-digest-service/internal/model"
)

func msg(text string) model.Message {
	return model.Message{
		RawText:   text,
		Timestamp: time.Date(2024, 3, 25, 14, 30, 45, 0, time.UTC),
		Sender:    "Dana",
		GroupName: "Gadgets",
	}
}

func TestExtract_SingleURLCarriesMessageFields(t *testing.T) {
	records := Extract(msg("Check this https://example.com/tool it changed how I work"))
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "https://example.com/tool", r.URL)
	assert.Equal(t, "Check this https://example.com/tool it changed how I work", r.MessageContext)
	assert.Equal(t, "Dana", r.Sender)
	assert.Equal(t, "Gadgets", r.GroupName)
	assert.Equal(t, time.Date(2024, 3, 25, 14, 30, 45, 0, time.UTC), r.Timestamp)
}

func TestExtract_OneRecordPerOccurrence(t *testing.T) {
	records := Extract(msg("https://a.com/x then https://b.com/y and again https://a.com/x"))
	require.Len(t, records, 3)
	assert.Equal(t, "https://a.com/x", records[0].URL)
	assert.Equal(t, "https://b.com/y", records[1].URL)
	assert.Equal(t, "https://a.com/x", records[2].URL)
}

func TestExtract_BareDomains(t *testing.T) {
	tests := []struct {
		name string
		text string
		urls []string
	}{
		{"bare domain with path", "try example.com/pricing today", []string{"example.com/pricing"}},
		{"bare domain alone", "docs at golang.org", []string{"golang.org"}},
		{"version number is not a domain", "released v1.2 yesterday", nil},
		{"long suffix is not a tld", "see notes.whatever-section for details", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := Extract(msg(tt.text))
			require.Len(t, records, len(tt.urls))
			for i, want := range tt.urls {
				assert.Equal(t, want, records[i].URL)
			}
		})
	}
}

func TestExtract_TrailingPunctuationTrimmed(t *testing.T) {
	records := Extract(msg(`did you see https://example.com/a?`))
	require.Len(t, records, 1)
	assert.Equal(t, "https://example.com/a", records[0].URL)

	records = Extract(msg(`(it's https://example.com/b).`))
	require.Len(t, records, 1)
	assert.Equal(t, "https://example.com/b", records[0].URL)
}

func TestExtract_ContextClippedToRadius(t *testing.T) {
	pad := strings.Repeat("a", 150)
	text := pad + " https://example.com/x " + pad
	records := Extract(msg(text))
	require.Len(t, records, 1)

	ctx := records[0].MessageContext
	assert.Contains(t, ctx, "https://example.com/x")
	// 100 chars on each side of the URL.
	assert.Len(t, ctx, 100+len("https://example.com/x")+100)
	assert.Equal(t, text, records[0].FullMessage)
}

func TestExtract_ContextRadiusCountsRunesNotBytes(t *testing.T) {
	pad := strings.Repeat("ש", 150)
	text := pad + " https://example.com/x " + pad
	records := Extract(msg(text))
	require.Len(t, records, 1)

	ctx := records[0].MessageContext
	require.True(t, utf8.ValidString(ctx))
	assert.Contains(t, ctx, "https://example.com/x")
	assert.Equal(t, 100+len("https://example.com/x")+100, utf8.RuneCountInString(ctx))
}

func TestExtract_SpecialDomainNotDoubleCounted(t *testing.T) {
	records := Extract(msg("new drop on get-zenith.com today"))
	require.Len(t, records, 1)
	assert.Equal(t, "get-zenith.com", records[0].URL)
}

func TestExtract_SpecialDomainRescuedWhenPatternMisses(t *testing.T) {
	// An underscore glues to the token, so the general pattern only sees the
	// tail past the hyphen. The substring check recovers the full mention.
	records := Extract(msg("promo via _get-zenith.com right now"))
	require.Len(t, records, 2)
	assert.Equal(t, "zenith.com", records[0].URL)
	assert.Contains(t, strings.ToLower(records[1].URL), "get-zenith.com")
}

func TestExtract_ContextSpansContinuationLines(t *testing.T) {
	records := Extract(msg("check this\nhttps://x.co\nmore info"))
	require.Len(t, records, 1)
	assert.Equal(t, "https://x.co", records[0].URL)
	assert.Equal(t, "check this\nhttps://x.co\nmore info", records[0].MessageContext)
}

func TestExtract_NoURLs(t *testing.T) {
	assert.Empty(t, Extract(msg("lunch at noon?")))
	assert.Empty(t, Extract(msg("")))
}
