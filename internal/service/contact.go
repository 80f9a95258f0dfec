package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/mailer"
	"github.com/utafrali/storefront/internal/repository"
)

// ContactService stores contact messages and newsletter signups.
type ContactService struct {
	contacts    repository.ContactRepository
	subscribers repository.SubscriberRepository
	mailer      mailer.Mailer
	producer    *event.Producer
	logger      *slog.Logger
}

// NewContactService creates a new contact service.
func NewContactService(
	contacts repository.ContactRepository,
	subscribers repository.SubscriberRepository,
	m mailer.Mailer,
	producer *event.Producer,
	logger *slog.Logger,
) *ContactService {
	return &ContactService{
		contacts:    contacts,
		subscribers: subscribers,
		mailer:      m,
		producer:    producer,
		logger:      logger,
	}
}

// ContactInput holds a submitted contact form.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// SubmitContact stores the message, then notifies the store owner. A failed
// notification is logged; the message is already saved.
func (s *ContactService) SubmitContact(ctx context.Context, in ContactInput) (*domain.Contact, error) {
	contact := &domain.Contact{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Subject:   strings.TrimSpace(in.Subject),
		Message:   in.Message,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	if err := s.producer.PublishContactSubmitted(ctx, contact); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish contact.submitted event",
			slog.String("contact_id", contact.ID),
			slog.String("error", err.Error()),
		)
	}

	relay := "sent"
	if s.mailer != nil {
		if err := s.mailer.SendContact(ctx, contact); err != nil {
			relay = "failed"
			s.logger.ErrorContext(ctx, "failed to forward contact message",
				slog.String("contact_id", contact.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	contactMessages.WithLabelValues(relay).Inc()

	s.logger.InfoContext(ctx, "contact message stored",
		slog.String("contact_id", contact.ID),
	)

	return contact, nil
}

// Subscribe adds an email to the newsletter. A repeated email is an
// AlreadyExists error.
func (s *ContactService) Subscribe(ctx context.Context, email string) (*domain.Subscriber, error) {
	subscriber := &domain.Subscriber{
		ID:        uuid.New().String(),
		Email:     strings.TrimSpace(email),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.subscribers.Create(ctx, subscriber); err != nil {
		return nil, fmt.Errorf("create subscriber: %w", err)
	}

	if err := s.producer.PublishNewsletterSubscribed(ctx, subscriber); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish newsletter.subscribed event",
			slog.String("subscriber_id", subscriber.ID),
			slog.String("error", err.Error()),
		)
	}
	newsletterSignups.Inc()

	s.logger.InfoContext(ctx, "newsletter subscriber added",
		slog.String("subscriber_id", subscriber.ID),
	)

	return subscriber, nil
}
