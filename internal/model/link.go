// Package model defines data structures for the link digest pipeline.
package model

import (
	"fmt"
	"time"
)

// ChatFile is an archive entry classified as a WhatsApp transcript.
type ChatFile struct {
	// Name is the entry name inside the archive, kept for diagnostics.
	Name string

	// Content is the full transcript text.
	Content string

	// GroupName is derived from export naming conventions; empty when no
	// convention matched.
	GroupName string
}

// Message is a single tokenized transcript message. A Message always carries
// a parsed timestamp; boundary lines whose timestamp fails validation never
// become Messages.
type Message struct {
	// RawText is the opening line's body plus all continuation lines,
	// joined by single newlines.
	RawText string

	Timestamp time.Time

	// Sender is empty for system/service messages.
	Sender string

	GroupName string
}

// LinkRecord is one extracted URL occurrence with its surrounding metadata.
// The JSON shape is the collaborator wire contract.
type LinkRecord struct {
	URL            string    `json:"url"`
	MessageContext string    `json:"messageContext"`
	FullMessage    string    `json:"-"`
	Timestamp      time.Time `json:"timestamp"`
	GroupName      string    `json:"groupName,omitempty"`
	Sender         string    `json:"sender,omitempty"`
}

// DateRange is an optional inclusive calendar-day filter. Bounds are
// normalized to the start and end instants of their day in UTC.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

const dateLayout = "2006-01-02"

// ParseDateRange builds a DateRange from optional ISO-8601 calendar-day
// strings. Empty strings leave the corresponding bound open.
func ParseDateRange(startDate, endDate string) (DateRange, error) {
	var r DateRange

	if startDate != "" {
		t, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid startDate %q: %w", startDate, err)
		}
		r.Start = &t
	}

	if endDate != "" {
		t, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid endDate %q: %w", endDate, err)
		}
		// Inclusive bound: last instant of the calendar day.
		eod := t.Add(24*time.Hour - time.Nanosecond)
		r.End = &eod
	}

	if r.Start != nil && r.End != nil && r.End.Before(*r.Start) {
		return DateRange{}, fmt.Errorf("endDate %s precedes startDate %s", endDate, startDate)
	}

	return r, nil
}

// Active reports whether any bound is set.
func (r DateRange) Active() bool {
	return r.Start != nil || r.End != nil
}

// Contains reports whether t falls inside the range. Open bounds always pass.
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}
