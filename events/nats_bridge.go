package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

const (
	// SubjectPrefix prefixes every mirrored economy event subject
	SubjectPrefix = "economy"

	// StreamName is the JetStream stream holding economy events
	StreamName = "economy_events"

	sourceService  = "mikune"
	publishTimeout = 5 * time.Second
)

// Envelope wraps an event for transport
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     EventType       `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope serializes an event into an envelope with a fresh id
func NewEnvelope(event Event, now time.Time) (*Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return &Envelope{
		EventID:       uuid.New().String(),
		EventType:     event.Type(),
		Timestamp:     now.UTC(),
		SourceService: sourceService,
		Payload:       payload,
	}, nil
}

// Subject maps an event type to its NATS subject
func Subject(eventType EventType) string {
	return SubjectPrefix + "." + string(eventType)
}

// NATSBridge mirrors bus events to JetStream
type NATSBridge struct {
	servers              string
	nc                   *nats.Conn
	js                   nats.JetStreamContext
	mu                   sync.RWMutex
	reconnectDelay       time.Duration
	maxReconnectAttempts int
	onPublished          func(EventType)
}

// NewNATSBridge creates a bridge for the given server list
func NewNATSBridge(servers string) *NATSBridge {
	return &NATSBridge{
		servers:              servers,
		reconnectDelay:       2 * time.Second,
		maxReconnectAttempts: 10,
	}
}

// OnPublished registers a callback run after each successful publish
func (b *NATSBridge) OnPublished(fn func(EventType)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onPublished = fn
}

// Connect establishes a connection to NATS with JetStream
func (b *NATSBridge) Connect() error {
	opts := []nats.Option{
		nats.Name(sourceService),
		nats.MaxReconnects(b.maxReconnectAttempts),
		nats.ReconnectWait(b.reconnectDelay),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Error("NATS disconnected with error")
			} else {
				log.Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(b.servers, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	b.mu.Lock()
	b.nc = nc
	b.js = js
	b.mu.Unlock()

	log.WithField("servers", b.servers).Info("Connected to NATS with JetStream")
	return nil
}

// EnsureStream creates the economy stream when it does not exist yet
func (b *NATSBridge) EnsureStream() error {
	b.mu.RLock()
	js := b.js
	b.mu.RUnlock()

	if js == nil {
		return fmt.Errorf("not connected to NATS JetStream")
	}

	if _, err := js.StreamInfo(StreamName); err == nil {
		log.WithField("stream", StreamName).Info("JetStream stream already exists")
		return nil
	}

	cfg := &nats.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{SubjectPrefix + ".*"},
		Retention:   nats.LimitsPolicy,
		MaxAge:      7 * 24 * time.Hour,
		Storage:     nats.FileStorage,
		Replicas:    1,
		Description: "Economy ledger and lifecycle events",
	}
	if _, err := js.AddStream(cfg); err != nil {
		return fmt.Errorf("failed to create stream %s: %w", StreamName, err)
	}

	log.WithField("stream", StreamName).Info("Created JetStream stream")
	return nil
}

// Attach subscribes the bridge to every event type on bus
func (b *NATSBridge) Attach(bus *Bus) {
	bus.SubscribeAll(func(ctx context.Context, event Event) {
		if err := b.Publish(ctx, event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Failed to mirror event to NATS")
		}
	})
}

// Publish sends one event to its subject
func (b *NATSBridge) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	js, onPublished := b.js, b.onPublished
	b.mu.RUnlock()

	if js == nil {
		return fmt.Errorf("not connected to NATS JetStream")
	}

	envelope, err := NewEnvelope(event, time.Now())
	if err != nil {
		return err
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	// JetStream acks need a deadline
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	subject := Subject(event.Type())
	if _, err := js.Publish(subject, data, nats.Context(ctx), nats.MsgId(envelope.EventID)); err != nil {
		// No stream bound to the subject; nothing is listening
		if strings.Contains(err.Error(), "no response from stream") {
			return nil
		}
		return fmt.Errorf("failed to publish event to %s: %w", subject, err)
	}

	if onPublished != nil {
		onPublished(event.Type())
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Published event to NATS")
	return nil
}

// Close drains and closes the connection
func (b *NATSBridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.nc == nil {
		return nil
	}
	err := b.nc.Drain()
	b.nc = nil
	b.js = nil
	log.Info("NATS connection closed")
	return err
}
