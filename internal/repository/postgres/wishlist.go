package postgres

import (
	"context"
	"fmt"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/database"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// WishlistRepository implements repository.WishlistRepository using PostgreSQL.
type WishlistRepository struct {
	db database.DBTX
}

// NewWishlistRepository creates a new PostgreSQL-backed wishlist repository.
func NewWishlistRepository(db database.DBTX) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// Add inserts a product into the profile's wishlist.
// Uses ON CONFLICT DO NOTHING for idempotent behavior.
func (r *WishlistRepository) Add(ctx context.Context, profileID, productID string) error {
	query := `
		INSERT INTO wishlist_items (user_profile_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_profile_id, product_id) DO NOTHING`

	_, err := r.db.Exec(ctx, query, profileID, productID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("product", productID)
		}
		return fmt.Errorf("add to wishlist: %w", err)
	}

	return nil
}

// Remove deletes a product from the profile's wishlist.
func (r *WishlistRepository) Remove(ctx context.Context, profileID, productID string) error {
	query := `DELETE FROM wishlist_items WHERE user_profile_id = $1 AND product_id = $2`

	ct, err := r.db.Exec(ctx, query, profileID, productID)
	if err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("wishlist item", productID)
	}

	return nil
}

// List returns the wishlisted products, most recently added first, and the total count.
func (r *WishlistRepository) List(ctx context.Context, profileID string, page, perPage int) ([]domain.Product, int, error) {
	countQuery := `SELECT COUNT(*) FROM wishlist_items WHERE user_profile_id = $1`

	var total int
	if err := r.db.QueryRow(ctx, countQuery, profileID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count wishlist items: %w", err)
	}

	offset := (page - 1) * perPage
	query := productSelect + `
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE w.user_profile_id = $1
		ORDER BY w.created_at DESC, p.id
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, profileID, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list wishlist items: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan wishlist product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate wishlist rows: %w", err)
	}

	return products, total, nil
}

// Exists checks whether a product is in the profile's wishlist.
func (r *WishlistRepository) Exists(ctx context.Context, profileID, productID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM wishlist_items WHERE user_profile_id = $1 AND product_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, profileID, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check wishlist item exists: %w", err)
	}

	return exists, nil
}
