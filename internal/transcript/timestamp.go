// Package transcript turns raw WhatsApp export text into discrete messages.
package transcript

import (
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/chatdigest/link-digest-service/pkg/logger"
)

// timestampPattern recognizes the leading timestamp of a message line across
// the export variants seen in the wild: an optional opening bracket,
// day/month/year (or a four-digit-year-first form) with `.`, `/` or `-`
// separators, a comma, hour:minute with optional seconds and optional AM/PM,
// an optional closing bracket, and an optional trailing dash.
var timestampPattern = regexp.MustCompile(
	`^\[?(\d{1,4})[./-](\d{1,2})[./-](\d{1,4}),\s*(\d{1,2}):(\d{2})(?::(\d{2}))?\s*([AaPp]\.?[Mm]\.?)?\]?\s*(?:-\s*)?`,
)

// nowFunc is swapped in tests to pin the recency window.
var nowFunc = time.Now

// Match describes a timestamp found at the start of a line.
type Match struct {
	// When is the parsed instant in UTC. Zero when Valid is false.
	When time.Time

	// End is the byte offset just past the matched prefix, i.e. where the
	// message header (sender and body) begins.
	End int

	// Valid is false when the line is timestamp-shaped but the components
	// fail validation. Such lines still open (and immediately drop) a
	// message boundary.
	Valid bool
}

// MatchTimestamp reports whether line opens a new message. The second return
// value is false when no timestamp shape is present at all, in which case
// the line is a continuation of the previous message.
func MatchTimestamp(line string) (Match, bool) {
	idx := timestampPattern.FindStringSubmatchIndex(line)
	if idx == nil || idx[0] != 0 {
		return Match{}, false
	}

	group := func(n int) string {
		if idx[2*n] < 0 {
			return ""
		}
		return line[idx[2*n]:idx[2*n+1]]
	}

	when, ok := resolveTimestamp(
		group(1), group(2), group(3),
		group(4), group(5), group(6), group(7),
	)

	return Match{When: when, End: idx[1], Valid: ok}, true
}

// resolveTimestamp validates and assembles the captured components. It
// returns ok=false on any validation failure; it never panics or errors.
func resolveTimestamp(first, second, third, hourS, minS, secS, meridiem string) (time.Time, bool) {
	a, _ := strconv.Atoi(first)
	b, _ := strconv.Atoi(second)
	c, _ := strconv.Atoi(third)

	var year, month, day int
	if len(first) == 4 {
		// ISO-like export form: 2023-12-31.
		year, month, day = a, b, c
	} else {
		// Predominant export locale is day-first. When the month reads out
		// of range under that assumption we reject the line rather than
		// silently reinterpreting it as month-first.
		day, month, year = a, b, normalizeYear(c, len(third))
		if month < 1 || month > 12 {
			logger.Global().Warn("timestamp month out of range under day-first parsing",
				zap.Int("day", day),
				zap.Int("month", month),
				zap.Int("year", year),
			)
			return time.Time{}, false
		}
	}

	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	if day < 1 || day > daysIn(month, year) {
		return time.Time{}, false
	}

	hour, _ := strconv.Atoi(hourS)
	min, _ := strconv.Atoi(minS)
	sec := 0
	if secS != "" {
		sec, _ = strconv.Atoi(secS)
	}

	if meridiem != "" {
		if hour < 1 || hour > 12 {
			return time.Time{}, false
		}
		switch meridiem[0] {
		case 'p', 'P':
			if hour != 12 {
				hour += 12
			}
		case 'a', 'A':
			if hour == 12 {
				hour = 0
			}
		}
	}

	if hour < 0 || hour > 23 || min < 0 || min > 59 || sec < 0 || sec > 59 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC)

	// Recency window: exports reference the recent past, never the future.
	now := nowFunc().UTC()
	if t.After(now) || t.Before(now.AddDate(-5, 0, 0)) {
		return time.Time{}, false
	}

	return t, true
}

// normalizeYear maps two-digit years onto the 1950–2049 window.
func normalizeYear(y, digits int) int {
	if digits > 2 {
		return y
	}
	if y <= 49 {
		return 2000 + y
	}
	return 1900 + y
}

func daysIn(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
