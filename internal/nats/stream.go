package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/scootcare/support-platform/internal/model"
)

const (
	// StreamName is the name of the session-updates stream.
	StreamName = "SUPPORT_SESSIONS"

	// SubjectPrefix is the prefix for all session subjects.
	SubjectPrefix = "support"
)

// SessionPublisher is the seam the chat service uses to fan out updates.
type SessionPublisher interface {
	PublishSessionUpdate(ctx context.Context, event *model.SessionUpdateEvent) (uint64, error)
}

// StreamManager handles JetStream stream operations.
type StreamManager struct {
	client *Client
}

// NewStreamManager creates a new stream manager.
func NewStreamManager(client *Client) *StreamManager {
	return &StreamManager{client: client}
}

// EnsureStream ensures the session-updates stream exists.
func (m *StreamManager) EnsureStream(ctx context.Context) error {
	js := m.client.JetStream()

	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      30 * 24 * time.Hour, // matches session retention
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Description: "Chat session update events",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// SessionSubject returns the subject for one session's updates.
func SessionSubject(sessionID string) string {
	return fmt.Sprintf("%s.session.%s.updated", SubjectPrefix, sessionID)
}

// PublishSessionUpdate publishes a session-update event. Each event carries
// the session's full message log; subscribers replace their local view.
func (m *StreamManager) PublishSessionUpdate(ctx context.Context, event *model.SessionUpdateEvent) (uint64, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal event: %w", err)
	}

	ack, err := m.client.JetStream().Publish(ctx, SessionSubject(event.SessionID), data)
	if err != nil {
		return 0, fmt.Errorf("failed to publish event: %w", err)
	}

	return ack.Sequence, nil
}

// GetSessionUpdates fetches events for a session after a stream sequence.
// Used by the SSE handler for replay and tailing.
func (m *StreamManager) GetSessionUpdates(ctx context.Context, sessionID string, afterSequence uint64, limit int) ([]model.SessionUpdateEvent, uint64, error) {
	js := m.client.JetStream()

	consumerConfig := jetstream.ConsumerConfig{
		FilterSubject: SessionSubject(sessionID),
		AckPolicy:     jetstream.AckNonePolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	}
	if afterSequence > 0 {
		consumerConfig.DeliverPolicy = jetstream.DeliverByStartSequencePolicy
		consumerConfig.OptStartSeq = afterSequence + 1
	}

	consumer, err := js.CreateConsumer(ctx, StreamName, consumerConfig)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create consumer: %w", err)
	}

	batch, err := consumer.Fetch(limit, jetstream.FetchMaxWait(2*time.Second))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch events: %w", err)
	}

	var events []model.SessionUpdateEvent
	lastSequence := afterSequence

	for msg := range batch.Messages() {
		var event model.SessionUpdateEvent
		if err := json.Unmarshal(msg.Data(), &event); err != nil {
			continue
		}
		if meta, err := msg.Metadata(); err == nil {
			event.Sequence = meta.Sequence.Stream
			lastSequence = meta.Sequence.Stream
		}
		events = append(events, event)
	}

	if batch.Error() != nil && batch.Error() != context.DeadlineExceeded {
		return nil, 0, fmt.Errorf("batch error: %w", batch.Error())
	}

	return events, lastSequence, nil
}
