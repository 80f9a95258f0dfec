package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/httpclient"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleContact() *domain.Contact {
	return &domain.Contact{
		ID:      "c-1",
		Name:    "Jo Bloggs",
		Email:   "jo@example.com",
		Subject: "Late order",
		Message: "My order has not arrived.",
	}
}

func TestWebhookMailer_PostsMessage(t *testing.T) {
	var (
		got  Message
		auth string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := httpclient.New(httpclient.DefaultConfig())
	m := NewWebhookMailer(client, srv.URL, "relay-token", "owner@example.com", testLogger())

	require.NoError(t, m.SendContact(context.Background(), sampleContact()))
	assert.Equal(t, "Bearer relay-token", auth)
	assert.Equal(t, "owner@example.com", got.To)
	assert.Equal(t, "jo@example.com", got.ReplyTo)
	assert.Equal(t, "[Contact] Late order", got.Subject)
	assert.Contains(t, got.Text, "My order has not arrived.")
}

func TestWebhookMailer_RelayRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := NewWebhookMailer(httpclient.New(httpclient.DefaultConfig()), srv.URL, "", "owner@example.com", testLogger())

	err := m.SendContact(context.Background(), sampleContact())
	var se *httpclient.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
}

func TestWebhookMailer_ThroughCircuitBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := httpclient.New(httpclient.Config{Timeout: time.Second})
	cb := httpclient.NewCircuitBreakerClient(client, httpclient.DefaultCircuitBreakerConfig("mailer-test"), testLogger())
	m := NewWebhookMailer(cb, srv.URL, "", "owner@example.com", testLogger())

	for i := 0; i < 3; i++ {
		assert.Error(t, m.SendContact(context.Background(), sampleContact()))
	}
	err := m.SendContact(context.Background(), sampleContact())
	assert.ErrorIs(t, err, httpclient.ErrCircuitOpen)
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, m.SendContact(context.Background(), sampleContact()))
	assert.Contains(t, buf.String(), "contact message received")
	assert.Contains(t, buf.String(), "jo@example.com")
}
