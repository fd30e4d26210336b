package event

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sareehouse/storefront/pkg/kafka"
)

type capturingPublisher struct {
	events []*kafka.Event
	topics []string
	err    error
}

func (p *capturingPublisher) Publish(ctx context.Context, topic string, event *kafka.Event) error {
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return p.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProductCreatedEventShape(t *testing.T) {
	pub := &capturingPublisher{}
	p := NewProducer(pub, "catalog-events", testLogger())

	p.ProductCreated(context.Background(), "p1", map[string]string{"name": "Kanchipuram"})

	require.Len(t, pub.events, 1)
	evt := pub.events[0]
	assert.Equal(t, TypeProductCreated, evt.EventType)
	assert.Equal(t, "p1", evt.AggregateID)
	assert.Equal(t, "product", evt.AggregateType)
	assert.Equal(t, "storefront", evt.Source)
	assert.NotEmpty(t, evt.EventID)
	assert.Equal(t, []string{"catalog-events"}, pub.topics)
}

func TestPublishFailureIsSwallowed(t *testing.T) {
	pub := &capturingPublisher{err: errors.New("broker down")}
	p := NewProducer(pub, "catalog-events", testLogger())

	// Must not panic or surface the error; mutations never fail on events.
	p.CategoryDeleted(context.Background(), "c1")

	assert.Len(t, pub.events, 1)
}

func TestNilPublisherDisablesPublishing(t *testing.T) {
	p := NewProducer(nil, "catalog-events", testLogger())

	assert.NotPanics(t, func() {
		p.TemplateCreated(context.Background(), "t1", nil)
	})
}
