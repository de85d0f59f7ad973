package links

import "github.com/chatdigest/link-digest-service/internal/model"

// Budget bounds what is forwarded to the summarization collaborator. Zero
// values leave the corresponding ceiling open.
type Budget struct {
	// MaxLinks caps the record count.
	MaxLinks int

	// MaxChars caps the cumulative size of url plus clipped context.
	MaxChars int
}

// Dedupe collapses records sharing a URL to the first-encountered one,
// preserving order. Applying it twice yields the same result as once.
func Dedupe(records []model.LinkRecord) []model.LinkRecord {
	seen := make(map[string]struct{}, len(records))
	out := records[:0:0]
	for _, r := range records {
		if _, dup := seen[r.URL]; dup {
			continue
		}
		seen[r.URL] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Apply truncates records to the budget. Records beyond either ceiling are
// silently dropped; first seen survives first.
func (b Budget) Apply(records []model.LinkRecord) []model.LinkRecord {
	out := records[:0:0]
	chars := 0
	for _, r := range records {
		if b.MaxLinks > 0 && len(out) >= b.MaxLinks {
			break
		}
		cost := len(r.URL) + len(r.MessageContext)
		if b.MaxChars > 0 && chars+cost > b.MaxChars {
			break
		}
		chars += cost
		out = append(out, r)
	}
	return out
}
