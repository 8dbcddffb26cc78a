// Package events announces committed generations to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"tandem/internal/recommend/models"
)

const contentType = "application/json"

type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaPublisher writes one record per generation, keyed by user id so a
// user's generations stay ordered within a partition.
type KafkaPublisher struct {
	client  producer
	topic   string
	timeout time.Duration
}

type Option func(*KafkaPublisher)

// WithTimeout bounds each produce call.
func WithTimeout(d time.Duration) Option {
	return func(p *KafkaPublisher) {
		p.timeout = d
	}
}

func NewKafkaPublisher(client producer, topic string, opts ...Option) *KafkaPublisher {
	p := &KafkaPublisher{client: client, topic: topic}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *KafkaPublisher) PublishGenerated(ctx context.Context, ev *models.GenerationEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode generation event: %w", err)
	}
	rec := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(ev.UserID.String()),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "content-type", Value: []byte(contentType)},
			{Key: "cadence", Value: []byte(ev.Cadence)},
			{Key: "source", Value: []byte(ev.Source)},
		},
		Timestamp: ev.GeneratedAt,
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce generation event: %w", err)
	}
	return nil
}

// LogPublisher records generations in the service log when no broker is
// configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishGenerated(ctx context.Context, ev *models.GenerationEvent) error {
	if p.logger == nil {
		return nil
	}
	p.logger.InfoContext(ctx, "recommendations generated",
		"generation_id", ev.GenerationID.String(),
		"user_id", ev.UserID.String(),
		"cadence", string(ev.Cadence),
		"slot", string(ev.Slot),
		"source", string(ev.Source),
		"count", len(ev.Recommended),
	)
	return nil
}
