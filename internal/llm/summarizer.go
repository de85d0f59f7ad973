package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chatdigest/link-digest-service/internal/model"
)

const fullInstruction = `You organize links shared in a WhatsApp group into a digest.
Categorize the links below into sensible groups such as "Tools", "Articles & Guides",
"Videos", "Discussions" and "Other". Use the message context, sender and group name
to understand what each link is.

Respond with JSON only, no prose and no markdown fences, in this exact shape:
{"<category>": [{"name": "...", "type": "...", "description": "...", "context": "...",
"keyPoints": ["..."], "userValue": "...", "complexity": "...", "url": "..."}]}`

const reducedInstruction = `Categorize these links into a JSON object whose keys are
category names and whose values are arrays of {"name","type","description",
"keyPoints","userValue","url"}. JSON only.`

// Reply is the tagged result of a collaborator call: either a digest that
// passed shape validation, or the raw text that failed it.
type Reply struct {
	Parsed    model.ParsedDigest
	Raw       string
	Malformed bool
	TokensIn  int
	TokensOut int
}

// Summarizer builds categorization requests and validates replies.
type Summarizer struct {
	client Client
	model  string
}

// NewSummarizer creates a summarizer over the given provider client.
func NewSummarizer(client Client, model string) *Summarizer {
	return &Summarizer{client: client, model: model}
}

// Provider returns the underlying provider name, or "none".
func (s *Summarizer) Provider() string {
	if s.client == nil {
		return "none"
	}
	return s.client.Name()
}

// Categorize sends the surviving link records to the collaborator and
// parses the reply. reduced selects the smaller fallback prompt.
func (s *Summarizer) Categorize(ctx context.Context, records []model.LinkRecord, reduced bool) (*Reply, error) {
	if s.client == nil {
		return nil, fmt.Errorf("no collaborator configured")
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("serialize link records: %w", err)
	}

	instruction := fullInstruction
	maxTokens := 4096
	if reduced {
		instruction = reducedInstruction
		maxTokens = 2048
	}

	resp, err := s.client.Complete(ctx, &CompletionRequest{
		Model: s.model,
		Messages: []ChatMessage{
			{Role: "user", Content: instruction + "\n\nLinks:\n" + string(payload)},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, err
	}

	reply := &Reply{Raw: resp.Content, TokensIn: resp.TokensIn, TokensOut: resp.TokensOut}
	parsed, ok := ParseDigestReply(resp.Content)
	if !ok {
		reply.Malformed = true
		return reply, nil
	}
	reply.Parsed = parsed
	return reply, nil
}

// ParseDigestReply validates the collaborator's reply against the digest
// contract. Fenced code blocks around the JSON are tolerated. ok is false
// when the reply does not decode to a non-empty category map.
func ParseDigestReply(raw string) (model.ParsedDigest, bool) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var parsed model.ParsedDigest
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, false
	}

	entries := 0
	for _, list := range parsed {
		entries += len(list)
	}
	if entries == 0 {
		return nil, false
	}

	return parsed, true
}
