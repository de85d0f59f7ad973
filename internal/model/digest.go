package model

// DigestEntry is one categorized link in the collaborator's reply. The key
// set is the rendering contract: the formatter substitutes placeholder text
// for missing fields instead of failing.
type DigestEntry struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Context     string   `json:"context,omitempty"`
	KeyPoints   []string `json:"keyPoints"`
	UserValue   string   `json:"userValue"`
	Complexity  string   `json:"complexity,omitempty"`
	URL         string   `json:"url"`
}

// ParsedDigest maps category labels to their entries.
type ParsedDigest map[string][]DigestEntry

// DigestResponse is the success wire response.
type DigestResponse struct {
	Summary string `json:"summary"`
}

// ErrorResponse is the failure wire response.
type ErrorResponse struct {
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}
