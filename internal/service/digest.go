// Package service provides the digest pipeline orchestration.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/chatdigest/link-digest-service/internal/archive"
	"github.com/chatdigest/link-digest-service/internal/digest"
	"github.com/chatdigest/link-digest-service/internal/links"
	"github.com/chatdigest/link-digest-service/internal/llm"
	"github.com/chatdigest/link-digest-service/internal/middleware"
	"github.com/chatdigest/link-digest-service/internal/model"
	natsclient "github.com/chatdigest/link-digest-service/internal/nats"
	"github.com/chatdigest/link-digest-service/internal/transcript"
	"github.com/chatdigest/link-digest-service/pkg/logger"
	"github.com/chatdigest/link-digest-service/pkg/metrics"
)

// ErrNoFiles means the request carried no archives at all.
var ErrNoFiles = errors.New("no archives provided")

// NoLinksError is the zero-result outcome: nothing survived extraction and
// filtering. It is not a processing failure; FilterActive changes the
// user-facing message and Stats explains how the request got to zero.
type NoLinksError struct {
	FilterActive bool
	Stats        model.Stats
}

func (e *NoLinksError) Error() string {
	if e.FilterActive {
		return "no links found in the selected date range"
	}
	return "no links found in the uploaded chats"
}

// DigestService runs uploads through the extraction pipeline and the
// summarization collaborator.
type DigestService struct {
	summarizer *llm.Summarizer
	events     *natsclient.Publisher
	logger     *logger.Logger
	budget     links.Budget
	llmTimeout time.Duration
}

// NewDigestService creates a new digest service. events may be nil.
func NewDigestService(
	summarizer *llm.Summarizer,
	events *natsclient.Publisher,
	log *logger.Logger,
	budget links.Budget,
	llmTimeout time.Duration,
) *DigestService {
	return &DigestService{
		summarizer: summarizer,
		events:     events,
		logger:     log,
		budget:     budget,
		llmTimeout: llmTimeout,
	}
}

// Healthcheck verifies at startup that the service can reach a usable
// collaborator configuration. It returns a result instead of logging as a
// side effect; main decides what to do with it.
func (s *DigestService) Healthcheck() error {
	if s.summarizer == nil || s.summarizer.Provider() == "none" {
		return errors.New("no summarization provider configured")
	}
	return nil
}

// Process is the whole request: archives in, rendered digest out.
func (s *DigestService) Process(ctx context.Context, uploads []archive.Upload, dr model.DateRange) (string, model.Stats, error) {
	start := time.Now()
	stats := model.Stats{Archives: len(uploads)}
	if dr.Start != nil {
		stats.StartDate = dr.Start.Format("2006-01-02")
	}
	if dr.End != nil {
		stats.EndDate = dr.End.Format("2006-01-02")
	}

	if len(uploads) == 0 {
		return "", stats, ErrNoFiles
	}

	deduped, err := s.collect(uploads, dr, &stats)
	if err != nil {
		s.publish(ctx, "digest.failed", stats, err)
		return "", stats, err
	}

	// Zero-result signalling keys off the deduplicated list: an aggressive
	// budget empties the collaborator payload, but the links still exist.
	if len(deduped) == 0 {
		stats.ElapsedMs = time.Since(start).Milliseconds()
		noLinks := &NoLinksError{FilterActive: dr.Active(), Stats: stats}
		s.publish(ctx, "digest.failed", stats, noLinks)
		return "", stats, noLinks
	}

	capped := s.budget.Apply(deduped)
	stats.SentLinks = len(capped)
	metrics.LinksForwarded.Add(float64(stats.SentLinks))

	summary := s.summarize(ctx, capped, deduped, &stats)

	stats.ElapsedMs = time.Since(start).Milliseconds()
	s.logger.Info("digest produced",
		zap.Int("archives", stats.Archives),
		zap.Int("transcripts", stats.Transcripts),
		zap.Int("messages", stats.Messages),
		zap.Int("unique_links", stats.UniqueLinks),
		zap.Int("sent_links", stats.SentLinks),
		zap.String("degradation", stats.Degradation),
		zap.Int64("elapsed_ms", stats.ElapsedMs),
	)
	s.publish(ctx, "digest.completed", stats, nil)

	return summary, stats, nil
}

// collect runs the deterministic half of the pipeline: archives to a
// deduplicated list of link records. The forwarding budget is applied by the
// caller, after the zero-result check.
func (s *DigestService) collect(uploads []archive.Upload, dr model.DateRange, stats *model.Stats) ([]model.LinkRecord, error) {
	chatFiles, empty, err := archive.ReadChatFiles(uploads)
	if err != nil {
		return nil, err
	}
	stats.Transcripts = len(chatFiles)
	stats.EmptyArchives = empty
	metrics.ArchivesProcessed.Add(float64(len(uploads)))
	metrics.TranscriptsFound.Add(float64(len(chatFiles)))

	var all []model.LinkRecord
	for _, file := range chatFiles {
		messages, dropped := transcript.Tokenize(file)
		stats.Messages += len(messages)
		stats.DroppedLines += dropped

		for _, msg := range messages {
			if dr.Active() && !dr.Contains(msg.Timestamp) {
				stats.FilteredOut++
				continue
			}
			if transcript.IsSystemMessage(msg.RawText) {
				continue
			}
			all = append(all, links.Extract(msg)...)
		}
	}
	metrics.MessagesTokenized.Add(float64(stats.Messages))
	metrics.LinesDropped.Add(float64(stats.DroppedLines))

	stats.RawLinks = len(all)
	deduped := links.Dedupe(all)
	stats.UniqueLinks = len(deduped)
	metrics.LinksExtracted.Add(float64(stats.RawLinks))

	return deduped, nil
}

// summarize walks the degradation ladder: full request, then one reduced
// request, then a raw listing of the links. It always returns display text.
// When the budget left nothing to forward, the collaborator is skipped and
// the deduplicated links are listed directly.
func (s *DigestService) summarize(ctx context.Context, records, deduped []model.LinkRecord, stats *model.Stats) string {
	if len(records) == 0 {
		stats.Degradation = "raw"
		metrics.DegradationTotal.WithLabelValues("raw").Inc()
		return digest.RenderRawLinks(deduped)
	}

	if text, ok := s.tryCategorize(ctx, records, false); ok {
		stats.Degradation = "full"
		metrics.DegradationTotal.WithLabelValues("full").Inc()
		return text
	}

	reduced := records
	if len(reduced) > 1 {
		reduced = reduced[:len(reduced)/2]
	}
	if text, ok := s.tryCategorize(ctx, reduced, true); ok {
		stats.Degradation = "reduced"
		metrics.DegradationTotal.WithLabelValues("reduced").Inc()
		return text
	}

	stats.Degradation = "raw"
	metrics.DegradationTotal.WithLabelValues("raw").Inc()
	return digest.RenderRawLinks(records)
}

func (s *DigestService) tryCategorize(ctx context.Context, records []model.LinkRecord, reduced bool) (string, bool) {
	callCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	callStart := time.Now()
	reply, err := s.summarizer.Categorize(callCtx, records, reduced)
	status := "success"
	switch {
	case err != nil:
		status = "error"
	case reply.Malformed:
		status = "malformed"
	}
	metrics.LLMCallDuration.WithLabelValues(s.summarizer.Provider(), status).
		Observe(time.Since(callStart).Seconds())

	if err == nil {
		metrics.RecordLLMTokens(s.summarizer.Provider(), reply.TokensIn, reply.TokensOut)
	}

	if err != nil {
		s.logger.Warn("collaborator call failed",
			zap.Bool("reduced", reduced),
			zap.Int("links", len(records)),
			zap.Error(err),
		)
		return "", false
	}
	if reply.Malformed {
		s.logger.Warn("collaborator reply failed shape validation",
			zap.Bool("reduced", reduced),
			zap.Int("reply_bytes", len(reply.Raw)),
		)
		return "", false
	}

	return digest.Render(reply.Parsed), true
}

// buildEvent assembles the audit record for one request outcome, carrying
// the correlation ID of the request that produced it.
func (s *DigestService) buildEvent(ctx context.Context, stats model.Stats, cause error) natsclient.DigestEvent {
	event := natsclient.DigestEvent{
		CorrelationID: middleware.GetCorrelationID(ctx),
		Stats:         stats,
	}
	if cause != nil {
		event.Reason = cause.Error()
	}
	return event
}

func (s *DigestService) publish(ctx context.Context, subject string, stats model.Stats, cause error) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(subject, s.buildEvent(ctx, stats, cause)); err != nil {
		s.logger.Debug("audit event publish failed", zap.Error(err))
	}
}
