// Package event publishes catalog mutation events. Publishing is best
// effort: a broker failure is logged and never fails the mutation that
// triggered it.
package event

import (
	"context"
	"log/slog"

	"github.com/sareehouse/storefront/pkg/kafka"
	"github.com/sareehouse/storefront/pkg/logger"
)

const source = "storefront"

// Event types for catalog mutations.
const (
	TypeProductCreated  = "product.created"
	TypeProductDeleted  = "product.deleted"
	TypeCategoryCreated = "category.created"
	TypeCategoryDeleted = "category.deleted"
	TypeTemplateCreated = "template.created"
	TypeTemplateDeleted = "template.deleted"
)

// Publisher sends an event to a topic. Satisfied by kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// Producer publishes catalog mutation events to a single topic.
type Producer struct {
	publisher Publisher
	topic     string
	logger    *slog.Logger
}

// NewProducer creates a mutation event producer. A nil publisher disables
// publishing entirely, which keeps local development broker-free.
func NewProducer(publisher Publisher, topic string, log *slog.Logger) *Producer {
	return &Producer{publisher: publisher, topic: topic, logger: log}
}

// Publish emits a mutation event for the given aggregate. Failures are
// logged and swallowed.
func (p *Producer) Publish(ctx context.Context, eventType, aggregateType, aggregateID string, data any) {
	if p.publisher == nil {
		return
	}

	evt, err := kafka.NewEvent(eventType, aggregateID, aggregateType, source, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build mutation event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt.WithCorrelationID(cid)
	}

	if err := p.publisher.Publish(ctx, p.topic, evt); err != nil {
		p.logger.WarnContext(ctx, "mutation event publish failed",
			slog.String("event_type", eventType),
			slog.String("aggregate_id", aggregateID),
			slog.String("error", err.Error()),
		)
	}
}

// ProductCreated emits a product.created event.
func (p *Producer) ProductCreated(ctx context.Context, id string, data any) {
	p.Publish(ctx, TypeProductCreated, "product", id, data)
}

// ProductDeleted emits a product.deleted event.
func (p *Producer) ProductDeleted(ctx context.Context, id string) {
	p.Publish(ctx, TypeProductDeleted, "product", id, map[string]string{"id": id})
}

// CategoryCreated emits a category.created event.
func (p *Producer) CategoryCreated(ctx context.Context, id string, data any) {
	p.Publish(ctx, TypeCategoryCreated, "category", id, data)
}

// CategoryDeleted emits a category.deleted event.
func (p *Producer) CategoryDeleted(ctx context.Context, id string) {
	p.Publish(ctx, TypeCategoryDeleted, "category", id, map[string]string{"id": id})
}

// TemplateCreated emits a template.created event.
func (p *Producer) TemplateCreated(ctx context.Context, id string, data any) {
	p.Publish(ctx, TypeTemplateCreated, "template", id, data)
}

// TemplateDeleted emits a template.deleted event.
func (p *Producer) TemplateDeleted(ctx context.Context, id string) {
	p.Publish(ctx, TypeTemplateDeleted, "template", id, map[string]string{"id": id})
}
