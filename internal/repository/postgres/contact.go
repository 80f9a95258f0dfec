package postgres

import (
	"context"
	"fmt"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/database"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// ContactRepository implements repository.ContactRepository using PostgreSQL.
type ContactRepository struct {
	db database.DBTX
}

// NewContactRepository creates a new PostgreSQL-backed contact repository.
func NewContactRepository(db database.DBTX) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create stores a contact form message.
func (r *ContactRepository) Create(ctx context.Context, c *domain.Contact) error {
	query := `
		INSERT INTO contacts (id, name, email, subject, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := r.db.Exec(ctx, query, c.ID, c.Name, c.Email, c.Subject, c.Message, c.CreatedAt); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// SubscriberRepository implements repository.SubscriberRepository using PostgreSQL.
type SubscriberRepository struct {
	db database.DBTX
}

// NewSubscriberRepository creates a new PostgreSQL-backed subscriber repository.
func NewSubscriberRepository(db database.DBTX) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// Create stores a newsletter subscription. Emails are unique ignoring case.
func (r *SubscriberRepository) Create(ctx context.Context, s *domain.Subscriber) error {
	query := `
		INSERT INTO subscribers (id, email, created_at)
		VALUES ($1, $2, $3)`

	if _, err := r.db.Exec(ctx, query, s.ID, s.Email, s.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("subscriber", "email", s.Email)
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}
