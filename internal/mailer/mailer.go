// Package mailer forwards contact form messages to the store inbox.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/httpclient"
)

// Mailer delivers a contact message to the store owner.
type Mailer interface {
	SendContact(ctx context.Context, contact *domain.Contact) error
}

// LogMailer writes contact messages to the log. It is used when no mail
// webhook is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a mailer that only logs.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendContact logs the message.
func (m *LogMailer) SendContact(ctx context.Context, c *domain.Contact) error {
	m.logger.InfoContext(ctx, "contact message received",
		slog.String("contact_id", c.ID),
		slog.String("from", c.Email),
		slog.String("subject", c.Subject),
	)
	return nil
}

// Message is the JSON body posted to the mail webhook.
type Message struct {
	To      string `json:"to"`
	ReplyTo string `json:"reply_to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// WebhookMailer posts contact messages to an HTTP mail relay.
type WebhookMailer struct {
	client httpclient.Doer
	url    string
	token  string
	to     string
	logger *slog.Logger
}

// NewWebhookMailer creates a mailer that posts to url. When token is set it
// is sent as a bearer token.
func NewWebhookMailer(client httpclient.Doer, url, token, to string, logger *slog.Logger) *WebhookMailer {
	return &WebhookMailer{
		client: client,
		url:    url,
		token:  token,
		to:     to,
		logger: logger,
	}
}

// SendContact posts the message to the relay.
func (m *WebhookMailer) SendContact(ctx context.Context, c *domain.Contact) error {
	body, err := json.Marshal(Message{
		To:      m.to,
		ReplyTo: c.Email,
		Subject: "[Contact] " + c.Subject,
		Text:    fmt.Sprintf("From: %s <%s>\n\n%s", c.Name, c.Email, c.Message),
	})
	if err != nil {
		return fmt.Errorf("marshal mail message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}

	resp, err := m.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	if err := httpclient.CheckResponse(resp); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	_ = resp.Body.Close()

	m.logger.DebugContext(ctx, "contact message relayed", slog.String("contact_id", c.ID))
	return nil
}
