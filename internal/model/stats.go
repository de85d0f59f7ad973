package model

// Stats accumulates per-request pipeline diagnostics. It carries enough to
// reconstruct why a request produced zero links without exposing chat
// content or credentials.
type Stats struct {
	Archives      int      `json:"archives"`
	Transcripts   int      `json:"transcripts"`
	EmptyArchives []string `json:"emptyArchives,omitempty"`
	Messages      int      `json:"messages"`
	DroppedLines  int      `json:"droppedLines"`
	FilteredOut   int      `json:"filteredOut"`
	RawLinks      int      `json:"rawLinks"`
	UniqueLinks   int      `json:"uniqueLinks"`
	SentLinks     int      `json:"sentLinks"`
	StartDate     string   `json:"startDate,omitempty"`
	EndDate       string   `json:"endDate,omitempty"`
	ElapsedMs     int64    `json:"elapsedMs"`

	// Degradation records how far down the fallback ladder the request
	// went: "full", "reduced", or "raw".
	Degradation string `json:"degradation,omitempty"`
}
