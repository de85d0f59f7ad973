// Package digest renders the categorized collaborator output into the
// display text posted back to the group.
package digest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chatdigest/link-digest-service/internal/model"
)

// Placeholder text substituted for fields the collaborator omitted. The
// formatter never fails on a missing field.
const (
	unknownName   = "unknown name"
	noDescription = "no description"
	noURL         = "no url"
)

// Render turns a parsed digest into display text. Categories are emitted in
// sorted order so the same digest always renders the same way.
func Render(d model.ParsedDigest) string {
	categories := make([]string, 0, len(d))
	for cat := range d {
		if len(d[cat]) > 0 {
			categories = append(categories, cat)
		}
	}
	sort.Strings(categories)

	var b strings.Builder
	b.WriteString("🔗 Link Digest\n")

	for _, cat := range categories {
		b.WriteString("\n*")
		b.WriteString(cat)
		b.WriteString("*\n")
		for _, entry := range d[cat] {
			writeEntry(&b, entry)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeEntry(b *strings.Builder, e model.DigestEntry) {
	name := orElse(e.Name, unknownName)
	if e.Type != "" {
		name = fmt.Sprintf("%s (%s)", name, e.Type)
	}
	fmt.Fprintf(b, "• %s\n", name)
	fmt.Fprintf(b, "  %s\n", orElse(e.Description, noDescription))

	for _, point := range e.KeyPoints {
		if point != "" {
			fmt.Fprintf(b, "  - %s\n", point)
		}
	}
	if e.UserValue != "" {
		fmt.Fprintf(b, "  Why it matters: %s\n", e.UserValue)
	}
	if e.Complexity != "" {
		fmt.Fprintf(b, "  Complexity: %s\n", e.Complexity)
	}
	fmt.Fprintf(b, "  %s\n", orElse(e.URL, noURL))
}

// RenderRawLinks is the last rung of the degradation ladder: a plain listing
// of the surviving links with no categorization.
func RenderRawLinks(records []model.LinkRecord) string {
	var b strings.Builder
	b.WriteString("🔗 Links shared in the group\n\n")
	for _, r := range records {
		b.WriteString("• ")
		b.WriteString(r.URL)
		var meta []string
		if r.Sender != "" {
			meta = append(meta, r.Sender)
		}
		if r.GroupName != "" {
			meta = append(meta, r.GroupName)
		}
		if !r.Timestamp.IsZero() {
			meta = append(meta, r.Timestamp.Format("2006-01-02"))
		}
		if len(meta) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(meta, ", "))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func orElse(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
