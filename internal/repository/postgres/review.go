package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/database"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	db database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(db database.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// CreateAndUpdateRating inserts the review and stores the product's new
// average rating, rounded to the nearest half. The product row is locked
// first so concurrent reviews of the same product apply one after another.
func (r *ReviewRepository) CreateAndUpdateRating(ctx context.Context, review *domain.Review) (rating float64, err error) {
	ctx, end := database.TraceQuery(ctx, "CreateReview", "INSERT INTO reviews")
	defer func() { end(err) }()

	err = database.InTx(ctx, r.db, func(tx pgx.Tx) error {
		var locked string
		err := tx.QueryRow(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, review.ProductID).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFound("product", review.ProductID)
			}
			return fmt.Errorf("lock product: %w", err)
		}

		insert := `
		INSERT INTO reviews (id, product_id, user_profile_id, rating, review, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := tx.Exec(ctx, insert,
			review.ID,
			review.ProductID,
			review.UserProfileID,
			review.Rating,
			review.Review,
			review.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert review: %w", err)
		}

		var avg float64
		if err := tx.QueryRow(ctx,
			`SELECT AVG(rating)::float8 FROM reviews WHERE product_id = $1`,
			review.ProductID,
		).Scan(&avg); err != nil {
			return fmt.Errorf("average rating: %w", err)
		}
		rating = domain.RoundHalf(avg)

		if _, err := tx.Exec(ctx,
			`UPDATE products SET rating = $1 WHERE id = $2`,
			rating, review.ProductID,
		); err != nil {
			return fmt.Errorf("update product rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return rating, nil
}

// ListByProductID returns paginated reviews for a given product along with the total count.
func (r *ReviewRepository) ListByProductID(ctx context.Context, productID string, page, perPage int) ([]domain.Review, int, error) {
	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	query := `
		SELECT r.id, r.product_id, r.user_profile_id, u.username, r.rating, r.review, r.created_at,
		       count(*) OVER() AS total_count
		FROM reviews r
		JOIN user_profiles up ON up.id = r.user_profile_id
		JOIN users u ON u.id = up.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC, r.id
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var (
		reviews    []domain.Review
		totalCount int
	)

	for rows.Next() {
		var rv domain.Review

		if err := rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&rv.UserProfileID,
			&rv.Author,
			&rv.Rating,
			&rv.Review,
			&rv.CreatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}

		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, totalCount, nil
}

// GetSummary returns the average rating, rounded to the nearest half, and
// the total count of reviews for a product.
func (r *ReviewRepository) GetSummary(ctx context.Context, productID string) (*domain.ReviewSummary, error) {
	query := `
		SELECT AVG(rating)::float8, COUNT(*)
		FROM reviews
		WHERE product_id = $1`

	var (
		summary domain.ReviewSummary
		avg     *float64
	)

	if err := r.db.QueryRow(ctx, query, productID).Scan(&avg, &summary.TotalCount); err != nil {
		return nil, fmt.Errorf("get review summary: %w", err)
	}

	if avg != nil {
		rounded := domain.RoundHalf(*avg)
		summary.AverageRating = &rounded
	}

	return &summary, nil
}
