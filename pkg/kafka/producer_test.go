package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/storefront/pkg/logger"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func headerMap(msg kafka.Message) map[string]string {
	out := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		out[h.Key] = string(h.Value)
	}
	return out
}

// --- Event ---

func TestNewEvent_Fields(t *testing.T) {
	type reviewData struct {
		ProductID string `json:"product_id"`
		Rating    int    `json:"rating"`
	}

	data := reviewData{ProductID: "prod-1", Rating: 4}
	event, err := NewEvent("review.created", "prod-1", "product", data)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "review.created", event.EventType)
	assert.Equal(t, 1, event.Version)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, 2*time.Second)

	var got reviewData
	require.NoError(t, event.UnmarshalData(&got))
	assert.Equal(t, data, got)
}

func TestNewEvent_UnserializablePayload(t *testing.T) {
	_, err := NewEvent("x", "1", "y", make(chan int))
	require.Error(t, err)
}

func TestEvent_MarshalKeepsMetadata(t *testing.T) {
	ev, err := NewEvent("newsletter.subscribed", "sub-1", "subscriber", map[string]string{"email": "a@b.c"})
	require.NoError(t, err)
	ev.WithMetadata("channel", "footer")

	raw, err := ev.Marshal()
	require.NoError(t, err)

	var restored Event
	require.NoError(t, json.Unmarshal(raw, &restored))
	assert.Equal(t, ev.EventID, restored.EventID)
	assert.Equal(t, "footer", restored.Metadata["channel"])
}

// --- Producer ---

func TestProducer_Publish_FillsEnvelopeAndHeaders(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	w := new(mockWriter)
	p := NewProducerWithWriter(w, nil, "storefront", testLogger())

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled,
	}))
	ctx = logger.WithCorrelationID(ctx, "corr-1")
	ctx = logger.WithUserID(ctx, "user-42")

	var sent kafka.Message
	w.On("WriteMessages", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).([]kafka.Message)[0]
	}).Return(nil)

	ev, err := NewEvent("product.created", "prod-9", "product", map[string]string{"name": "Mug"})
	require.NoError(t, err)
	require.NoError(t, p.Publish(ctx, "storefront.product.created", ev))

	assert.Equal(t, "storefront.product.created", sent.Topic)
	assert.Equal(t, "prod-9", string(sent.Key))

	headers := headerMap(sent)
	assert.Equal(t, "product.created", headers["event_type"])
	assert.Equal(t, "storefront", headers["source"])
	assert.Equal(t, "corr-1", headers["correlation_id"])
	assert.Contains(t, headers["traceparent"], "4bf92f3577b34da6a3ce929d0e0e4736")

	var envelope Event
	require.NoError(t, json.Unmarshal(sent.Value, &envelope))
	assert.Equal(t, "storefront", envelope.Source)
	assert.Equal(t, "corr-1", envelope.CorrelationID)
	assert.Equal(t, "user-42", envelope.Metadata["user_id"])

	published := eventsPublished.WithLabelValues("storefront.product.created", "product.created")
	assert.GreaterOrEqual(t, testutil.ToFloat64(published), float64(1))
	w.AssertExpectations(t)
}

func TestProducer_Publish_WriterError(t *testing.T) {
	w := new(mockWriter)
	p := NewProducerWithWriter(w, nil, "storefront", testLogger())
	w.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("leader not available"))

	ev, err := NewEvent("contact.submitted", "c-1", "contact", struct{}{})
	require.NoError(t, err)

	err = p.Publish(context.Background(), "storefront.contact.submitted", ev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")

	failed := eventPublishErrors.WithLabelValues("storefront.contact.submitted", "contact.submitted")
	assert.GreaterOrEqual(t, testutil.ToFloat64(failed), float64(1))
}

func TestProducer_Close(t *testing.T) {
	w := new(mockWriter)
	w.On("Close").Return(nil)
	require.NoError(t, NewProducerWithWriter(w, nil, "storefront", testLogger()).Close())
	w.AssertExpectations(t)
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	err := PingBrokers(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no brokers")
}
