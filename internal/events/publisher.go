// Package events publishes activity notifications for downstream consumers
// (reminders, analytics). Publishing is best effort for callers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/AnshRaj112/serenify-companion/internal/models"
)

// ActivityRecorded is emitted after an activity record is stored.
type ActivityRecorded struct {
	ActivityID string    `json:"activityId"`
	UserID     string    `json:"userId"`
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Duration   float64   `json:"duration"`
	Date       time.Time `json:"date"`
	RecordedAt time.Time `json:"recordedAt"`
}

// NewActivityRecorded builds the event payload for a stored record.
func NewActivityRecorded(rec models.ActivityRecord) ActivityRecorded {
	return ActivityRecorded{
		ActivityID: rec.ID,
		UserID:     rec.UserID,
		Type:       rec.Type,
		Name:       rec.Name,
		Duration:   rec.Duration,
		Date:       rec.Date,
		RecordedAt: rec.CreatedAt,
	}
}

type Publisher interface {
	PublishActivity(ctx context.Context, evt ActivityRecorded) error
	Close() error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishActivity(context.Context, ActivityRecorded) error { return nil }
func (NoopPublisher) Close() error                                           { return nil }

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher lazily manages one writer per topic.
type KafkaPublisher struct {
	brokers       []string
	activityTopic string

	mu        sync.Mutex
	writers   map[string]messageWriter
	newWriter func(topic string) messageWriter
}

// NewKafkaPublisher creates a KafkaPublisher writing activity events to activityTopic.
func NewKafkaPublisher(brokers []string, activityTopic string) *KafkaPublisher {
	p := &KafkaPublisher{
		brokers:       brokers,
		activityTopic: activityTopic,
		writers:       make(map[string]messageWriter),
	}
	p.newWriter = p.kafkaWriter
	return p
}

// PublishActivity writes evt keyed by user so one user's events stay ordered.
func (p *KafkaPublisher) PublishActivity(ctx context.Context, evt ActivityRecorded) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode activity event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.UserID),
		Value: payload,
		Time:  evt.RecordedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("activity.recorded")},
		},
	}
	if err := p.writerForTopic(p.activityTopic).WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish activity %s: %w", evt.ActivityID, err)
	}
	return nil
}

func (p *KafkaPublisher) writerForTopic(topic string) messageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if writer, ok := p.writers[topic]; ok {
		return writer
	}
	writer := p.newWriter(topic)
	p.writers[topic] = writer
	return writer
}

func (p *KafkaPublisher) kafkaWriter(topic string) messageWriter {
	return &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		Async:        false,
	}
}

// Close releases all writers.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.writers, topic)
	}
	return firstErr
}
