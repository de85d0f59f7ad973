package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatdigest/link-digest-service/internal/model"
)

type stubClient struct {
	reply   string
	err     error
	lastReq *CompletionRequest
}

func (c *stubClient) Complete(_ context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	c.lastReq = req
	if c.err != nil {
		return nil, c.err
	}
	return &CompletionResponse{Content: c.reply, TokensIn: 120, TokensOut: 80}, nil
}

func (c *stubClient) Name() string { return "stub" }

const validReply = `{"Tools": [{"name": "Zenith", "description": "design workspace", "url": "https://get-zenith.com"}]}`

func sampleRecords() []model.LinkRecord {
	return []model.LinkRecord{
		{URL: "https://get-zenith.com", MessageContext: "try get-zenith.com", Sender: "Dana"},
	}
}

func TestParseDigestReply(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"plain json", validReply, true},
		{"fenced json", "```json\n" + validReply + "\n```", true},
		{"bare fence", "```\n" + validReply + "\n```", true},
		{"prose", "here are your links, nicely organized!", false},
		{"empty object", `{}`, false},
		{"empty categories", `{"Tools": [], "Other": []}`, false},
		{"wrong shape", `["just", "an", "array"]`, false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, ok := ParseDigestReply(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				require.NotEmpty(t, parsed)
			} else {
				assert.Nil(t, parsed)
			}
		})
	}
}

func TestCategorize_ValidReply(t *testing.T) {
	stub := &stubClient{reply: validReply}
	s := NewSummarizer(stub, "test-model")

	reply, err := s.Categorize(context.Background(), sampleRecords(), false)
	require.NoError(t, err)
	assert.False(t, reply.Malformed)
	require.Contains(t, reply.Parsed, "Tools")
	assert.Equal(t, "Zenith", reply.Parsed["Tools"][0].Name)
	assert.Equal(t, 120, reply.TokensIn)
	assert.Equal(t, 80, reply.TokensOut)

	require.NotNil(t, stub.lastReq)
	assert.Equal(t, "test-model", stub.lastReq.Model)
	require.Len(t, stub.lastReq.Messages, 1)
	assert.Contains(t, stub.lastReq.Messages[0].Content, "https://get-zenith.com")
	assert.Equal(t, 4096, stub.lastReq.MaxTokens)
}

func TestCategorize_ReducedUsesSmallerPrompt(t *testing.T) {
	stub := &stubClient{reply: validReply}
	s := NewSummarizer(stub, "")

	_, err := s.Categorize(context.Background(), sampleRecords(), true)
	require.NoError(t, err)
	assert.Equal(t, 2048, stub.lastReq.MaxTokens)
	assert.NotContains(t, stub.lastReq.Messages[0].Content, "no markdown fences")
}

func TestCategorize_MalformedReplyIsNotAnError(t *testing.T) {
	stub := &stubClient{reply: "sure! here you go:"}
	s := NewSummarizer(stub, "")

	reply, err := s.Categorize(context.Background(), sampleRecords(), false)
	require.NoError(t, err)
	assert.True(t, reply.Malformed)
	assert.Nil(t, reply.Parsed)
	assert.Equal(t, "sure! here you go:", reply.Raw)
}

func TestCategorize_ProviderErrorPropagates(t *testing.T) {
	stub := &stubClient{err: errors.New("rate limited")}
	s := NewSummarizer(stub, "")

	_, err := s.Categorize(context.Background(), sampleRecords(), false)
	require.Error(t, err)
}

func TestCategorize_NoClient(t *testing.T) {
	s := NewSummarizer(nil, "")
	assert.Equal(t, "none", s.Provider())

	_, err := s.Categorize(context.Background(), sampleRecords(), false)
	require.Error(t, err)
}

func TestCategorize_PayloadOmitsFullMessage(t *testing.T) {
	stub := &stubClient{reply: validReply}
	s := NewSummarizer(stub, "")

	records := sampleRecords()
	records[0].FullMessage = "SECRET-FULL-MESSAGE-BODY"

	_, err := s.Categorize(context.Background(), records, false)
	require.NoError(t, err)
	assert.NotContains(t, stub.lastReq.Messages[0].Content, "SECRET-FULL-MESSAGE-BODY")
}
