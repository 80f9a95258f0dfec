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
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// ReviewService handles product reviews and the derived product rating.
type ReviewService struct {
	reviews  repository.ReviewRepository
	profiles repository.ProfileRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviews repository.ReviewRepository,
	profiles repository.ProfileRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		profiles: profiles,
		producer: producer,
		logger:   logger,
	}
}

// CreateReviewInput holds the parameters for writing a review.
type CreateReviewInput struct {
	ProductID string
	UserID    string
	Rating    int
	Review    string
}

// CreateReview stores a review by the signed-in user and returns it along
// with the product's recomputed rating.
func (s *ReviewService) CreateReview(ctx context.Context, in CreateReviewInput) (*domain.Review, float64, error) {
	if in.Rating < domain.MinRating || in.Rating > domain.MaxRating {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	text := strings.TrimSpace(in.Review)
	if text == "" {
		return nil, 0, apperrors.InvalidInput("review is required")
	}
	if len([]rune(text)) > domain.MaxReviewLength {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("review must be at most %d characters", domain.MaxReviewLength))
	}

	profile, err := s.profiles.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, 0, fmt.Errorf("get reviewer profile: %w", err)
	}

	review := &domain.Review{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		UserProfileID: profile.ID,
		Rating:        in.Rating,
		Review:        text,
		CreatedAt:     time.Now().UTC(),
	}

	rating, err := s.reviews.CreateAndUpdateRating(ctx, review)
	if err != nil {
		return nil, 0, fmt.Errorf("create review: %w", err)
	}

	if err := s.producer.PublishReviewCreated(ctx, review, rating); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}
	reviewsCreated.Inc()

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
		slog.Float64("product_rating", rating),
	)

	return review, rating, nil
}

// ListReviews returns a page of reviews for a product together with its summary.
func (s *ReviewService) ListReviews(ctx context.Context, productID string, page, perPage int) ([]domain.Review, *domain.ReviewSummary, error) {
	reviews, _, err := s.reviews.ListByProductID(ctx, productID, page, perPage)
	if err != nil {
		return nil, nil, fmt.Errorf("list reviews: %w", err)
	}

	summary, err := s.reviews.GetSummary(ctx, productID)
	if err != nil {
		return nil, nil, fmt.Errorf("get review summary: %w", err)
	}

	return reviews, summary, nil
}
