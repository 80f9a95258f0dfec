package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicProductCreated       = "storefront.product.created"
	TopicProductUpdated       = "storefront.product.updated"
	TopicProductDeleted       = "storefront.product.deleted"
	TopicReviewCreated        = "storefront.review.created"
	TopicContactSubmitted     = "storefront.contact.submitted"
	TopicNewsletterSubscribed = "storefront.newsletter.subscribed"
)

// Aggregate type constants.
const (
	AggregateTypeProduct    = "product"
	AggregateTypeReview     = "review"
	AggregateTypeContact    = "contact"
	AggregateTypeSubscriber = "subscriber"
)

// Source identifies events published by this service.
const Source = "storefront"

// ProductData is the payload for product events.
type ProductData struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Slug       string          `json:"slug"`
	CategoryID *string         `json:"category_id,omitempty"`
	SKU        *string         `json:"sku,omitempty"`
	Price      decimal.Decimal `json:"price"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ID            string  `json:"id"`
	ProductID     string  `json:"product_id"`
	UserProfileID string  `json:"user_profile_id"`
	Rating        int     `json:"rating"`
	ProductRating float64 `json:"product_rating"`
}

// ContactSubmittedData is the payload for a contact.submitted event.
type ContactSubmittedData struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
}

// NewsletterSubscribedData is the payload for a newsletter.subscribed event.
type NewsletterSubscribedData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Publisher is the subset of pkgkafka.Producer used here.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes storefront domain events to Kafka. A nil publisher
// turns every publish into a no-op.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, product.ID, AggregateTypeProduct, productData(product))
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, product.ID, AggregateTypeProduct, productData(product))
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, productID string) error {
	return p.publish(ctx, TopicProductDeleted, productID, AggregateTypeProduct, ProductDeletedData{ID: productID})
}

// PublishReviewCreated publishes a review.created event carrying the
// product's recomputed rating.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review, productRating float64) error {
	return p.publish(ctx, TopicReviewCreated, review.ID, AggregateTypeReview, ReviewCreatedData{
		ID:            review.ID,
		ProductID:     review.ProductID,
		UserProfileID: review.UserProfileID,
		Rating:        review.Rating,
		ProductRating: productRating,
	})
}

// PublishContactSubmitted publishes a contact.submitted event.
func (p *Producer) PublishContactSubmitted(ctx context.Context, contact *domain.Contact) error {
	return p.publish(ctx, TopicContactSubmitted, contact.ID, AggregateTypeContact, ContactSubmittedData{
		ID:      contact.ID,
		Email:   contact.Email,
		Subject: contact.Subject,
	})
}

// PublishNewsletterSubscribed publishes a newsletter.subscribed event.
func (p *Producer) PublishNewsletterSubscribed(ctx context.Context, subscriber *domain.Subscriber) error {
	return p.publish(ctx, TopicNewsletterSubscribed, subscriber.ID, AggregateTypeSubscriber, NewsletterSubscribedData{
		ID:    subscriber.ID,
		Email: subscriber.Email,
	})
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	if p == nil || p.kafka == nil {
		return nil
	}

	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}

func productData(p *domain.Product) ProductData {
	return ProductData{
		ID:         p.ID,
		Name:       p.Name,
		Slug:       p.Slug,
		CategoryID: p.CategoryID,
		SKU:        p.SKU,
		Price:      p.Price,
	}
}
