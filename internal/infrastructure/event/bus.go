// Package event delivers leasing domain events (contract created, receipt
// issued, proof approved and so on) to in-process subscribers such as the
// business metrics recorder.
package event

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hirepurchase/backend/internal/domain/shared"
	"github.com/hirepurchase/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// InMemoryEventBus dispatches events synchronously after the publishing
// transaction has committed. A failing or panicking handler is logged and
// never affects the caller or the other handlers.
type InMemoryEventBus struct {
	subs    *subscriptions
	logger  *zap.Logger
	running atomic.Bool
}

// NewInMemoryEventBus creates a stopped bus; call Start before publishing.
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{
		subs:   newSubscriptions(),
		logger: logger,
	}
}

// Publish delivers each event to its subscribers in registration order.
// Events published while the bus is stopped are dropped with a warning.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if !b.running.Load() {
		for _, evt := range events {
			b.logger.Warn("event bus not running, dropping event",
				zap.String("event_type", evt.EventType()),
				zap.String("event_id", evt.EventID().String()),
			)
		}
		return nil
	}

	for _, evt := range events {
		for _, handler := range b.subs.forType(evt.EventType()) {
			start := time.Now()
			if err := b.dispatch(ctx, handler, evt); err != nil {
				b.logger.Error("event handler failed",
					zap.String("event_type", evt.EventType()),
					zap.String("event_id", evt.EventID().String()),
					zap.String("aggregate_id", evt.AggregateID().String()),
					zap.String("handler", handlerName(handler)),
					zap.Error(err),
				)
				continue
			}
			b.logger.Debug("event handled",
				zap.String("event_type", evt.EventType()),
				zap.String("handler", handlerName(handler)),
				zap.Duration("duration", time.Since(start)),
			)
		}
	}
	return nil
}

// Subscribe registers handler for the given types, falling back to the
// handler's own EventTypes. Both empty means every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.subs.add(handler, eventTypes...)
	b.logger.Debug("event handler subscribed",
		zap.String("handler", handlerName(handler)),
		zap.Strings("event_types", eventTypes),
	)
}

// Unsubscribe removes handler from every event type.
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.subs.remove(handler)
}

// HandlerCount reports the number of distinct subscribed handlers.
func (b *InMemoryEventBus) HandlerCount() int {
	return b.subs.count()
}

// Start enables delivery.
func (b *InMemoryEventBus) Start(_ context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started", zap.Int("handlers", b.subs.count()))
	return nil
}

// Stop disables delivery. Dispatch is synchronous so no work is in flight
// once the publishing calls have returned.
func (b *InMemoryEventBus) Stop(_ context.Context) error {
	b.running.Store(false)
	b.logger.Info("event bus stopped")
	return nil
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, evt shared.DomainEvent) (err error) {
	ctx, span := otel.Tracer(telemetry.TracerName).Start(ctx, "event."+evt.EventType())
	span.SetAttributes(
		attribute.String("event.id", evt.EventID().String()),
		attribute.String("event.aggregate_type", evt.AggregateType()),
		attribute.String("event.handler", handlerName(handler)),
	)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	return handler.Handle(ctx, evt)
}

func handlerName(handler shared.EventHandler) string {
	return fmt.Sprintf("%T", handler)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
