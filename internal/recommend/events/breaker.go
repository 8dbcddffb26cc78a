package events

import (
	"context"
	"fmt"
	"log/slog"

	"tandem/internal/recommend/models"
	"tandem/pkg/platform/circuit"
	"tandem/pkg/platform/sentinel"
)

// Publisher is the shape shared by every publisher in this package.
type Publisher interface {
	PublishGenerated(ctx context.Context, ev *models.GenerationEvent) error
}

// BreakerPublisher stops calling a failing broker once the circuit opens.
// While open, events go to the fallback and the call reports
// sentinel.ErrUnavailable without waiting on the broker.
type BreakerPublisher struct {
	primary  Publisher
	fallback Publisher
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewBreakerPublisher(primary, fallback Publisher, breaker *circuit.Breaker, logger *slog.Logger) *BreakerPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &BreakerPublisher{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (p *BreakerPublisher) PublishGenerated(ctx context.Context, ev *models.GenerationEvent) error {
	if !p.breaker.Allow() {
		_ = p.fallback.PublishGenerated(ctx, ev)
		return fmt.Errorf("%w: %s circuit open", sentinel.ErrUnavailable, p.breaker.Name())
	}

	if err := p.primary.PublishGenerated(ctx, ev); err != nil {
		useFallback, change := p.breaker.RecordFailure()
		if change.Opened {
			p.logger.WarnContext(ctx, "event publisher circuit opened", "breaker", p.breaker.Name(), "error", err)
		}
		if useFallback {
			_ = p.fallback.PublishGenerated(ctx, ev)
		}
		return err
	}

	if _, change := p.breaker.RecordSuccess(); change.Closed {
		p.logger.InfoContext(ctx, "event publisher circuit closed", "breaker", p.breaker.Name())
	}
	return nil
}
