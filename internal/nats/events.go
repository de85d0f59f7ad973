package nats

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chatdigest/link-digest-service/internal/model"
)

// SubjectPrefix is the prefix for all digest audit subjects.
const SubjectPrefix = "digest"

// DigestEvent is the fire-and-forget audit record published per request.
// It carries counts and timings only, never chat content.
type DigestEvent struct {
	ID            string      `json:"id"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	Stats         model.Stats `json:"stats"`
	Reason        string      `json:"reason,omitempty"`
	EmittedAt     time.Time   `json:"emitted_at"`
}

// Publisher publishes digest audit events over core NATS.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher over an established client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish sends one event. The subject is e.g. "digest.completed" or
// "digest.failed". Delivery is best effort; callers treat failure as a
// diagnostic, not a request error.
func (p *Publisher) Publish(subject string, event DigestEvent) error {
	if p == nil || p.client == nil || !p.client.IsConnected() {
		return nil
	}

	if event.ID == "" {
		event.ID = uuid.Must(uuid.NewV7()).String()
	}
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.client.Conn().Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}
