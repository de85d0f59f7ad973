// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ArchivesProcessed tracks zip archives decompressed.
	ArchivesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "digest_archives_processed_total",
			Help: "Zip archives decompressed",
		},
	)

	// TranscriptsFound tracks transcript files classified inside archives.
	TranscriptsFound = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "digest_transcripts_found_total",
			Help: "Transcript files found inside archives",
		},
	)

	// MessagesTokenized tracks messages produced by the tokenizer.
	MessagesTokenized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "digest_messages_tokenized_total",
			Help: "Transcript messages tokenized",
		},
	)

	// LinesDropped tracks boundary lines whose timestamp failed validation.
	LinesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "digest_lines_dropped_total",
			Help: "Transcript lines dropped for unparseable timestamps",
		},
	)

	// LinksExtracted tracks raw URL occurrences before deduplication.
	LinksExtracted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "digest_links_extracted_total",
			Help: "URL occurrences extracted from messages",
		},
	)

	// LinksForwarded tracks links surviving dedupe and the size budget.
	LinksForwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "digest_links_forwarded_total",
			Help: "Links forwarded to the summarization collaborator",
		},
	)

	// LLMCallDuration tracks collaborator call duration.
	LLMCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_call_duration_seconds",
			Help:    "Summarization collaborator call duration",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 45, 60},
		},
		[]string{"provider", "status"},
	)

	// LLMTokensTotal tracks collaborator tokens processed.
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Collaborator tokens processed",
		},
		[]string{"provider", "direction"},
	)

	// DegradationTotal tracks which rung of the fallback ladder served each
	// request: full, reduced, or raw.
	DegradationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_degradation_total",
			Help: "Requests served per degradation level",
		},
		[]string{"level"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordLLMTokens records collaborator token usage.
func RecordLLMTokens(provider string, tokensIn, tokensOut int) {
	LLMTokensTotal.WithLabelValues(provider, "in").Add(float64(tokensIn))
	LLMTokensTotal.WithLabelValues(provider, "out").Add(float64(tokensOut))
}
