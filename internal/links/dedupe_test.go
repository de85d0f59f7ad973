package links

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatdigest/link-digest-service/internal/model"
)

func rec(url, sender string, minute int) model.LinkRecord {
	return model.LinkRecord{
		URL:            url,
		MessageContext: "context for " + url,
		Timestamp:      time.Date(2024, 3, 25, 14, minute, 0, 0, time.UTC),
		GroupName:      "Gadgets",
		Sender:         sender,
	}
}

func TestDedupe_FirstOccurrenceWins(t *testing.T) {
	in := []model.LinkRecord{
		rec("https://a.com/x", "Dana", 0),
		rec("https://b.com/y", "Omer", 1),
		rec("https://a.com/x", "Noa", 2),
	}

	out := Dedupe(in)
	require.Len(t, out, 2)
	assert.Equal(t, "https://a.com/x", out[0].URL)
	assert.Equal(t, "Dana", out[0].Sender)
	assert.Equal(t, "https://b.com/y", out[1].URL)
}

func TestDedupe_Idempotent(t *testing.T) {
	in := []model.LinkRecord{
		rec("https://a.com/x", "Dana", 0),
		rec("https://a.com/x", "Omer", 1),
		rec("https://b.com/y", "Noa", 2),
	}

	once := Dedupe(in)
	twice := Dedupe(once)
	assert.Equal(t, once, twice)
}

func TestDedupe_LeavesInputAlone(t *testing.T) {
	in := []model.LinkRecord{
		rec("https://a.com/x", "Dana", 0),
		rec("https://a.com/x", "Omer", 1),
	}

	_ = Dedupe(in)
	require.Len(t, in, 2)
	assert.Equal(t, "Omer", in[1].Sender)
}

func TestBudget_MaxLinksKeepsPrefix(t *testing.T) {
	in := []model.LinkRecord{
		rec("https://a.com/1", "Dana", 0),
		rec("https://a.com/2", "Dana", 1),
		rec("https://a.com/3", "Dana", 2),
	}

	out := Budget{MaxLinks: 2}.Apply(in)
	require.Len(t, out, 2)
	assert.Equal(t, "https://a.com/1", out[0].URL)
	assert.Equal(t, "https://a.com/2", out[1].URL)
}

func TestBudget_MaxCharsStopsAtFirstBreach(t *testing.T) {
	small := rec("https://a.com/1", "Dana", 0)
	big := rec("https://a.com/2", "Dana", 1)
	big.MessageContext = strings.Repeat("x", 500)
	after := rec("https://a.com/3", "Dana", 2)

	cost := len(small.URL) + len(small.MessageContext)
	out := Budget{MaxChars: cost + 10}.Apply([]model.LinkRecord{small, big, after})
	require.Len(t, out, 1)
	assert.Equal(t, "https://a.com/1", out[0].URL)
}

func TestBudget_ZeroValuesAreUnlimited(t *testing.T) {
	in := []model.LinkRecord{
		rec("https://a.com/1", "Dana", 0),
		rec("https://a.com/2", "Dana", 1),
	}
	out := Budget{}.Apply(in)
	assert.Equal(t, in, out)
}
