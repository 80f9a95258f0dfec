package repository

import (
	"context"

	"github.com/utafrali/storefront/internal/domain"
)

// ProductFilter describes a catalog listing: which products to include,
// how to order them and which page to return.
type ProductFilter struct {
	// CategoryNames restricts results to products in any of these categories.
	CategoryNames []string
	// Search matches name or description, case-insensitively.
	Search *string
	// Sort is one of the domain sort keys; empty keeps the default order.
	Sort       string
	Descending bool
	Page       int
	PerPage    int
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product into the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product, with its category, by identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns products matching the filter along with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// Update modifies an existing product in the store.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product and, by cascade, its reviews and wishlist entries.
	Delete(ctx context.Context, id string) error
}

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create inserts a new category into the store.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Category, error)

	// ListAll returns every category ordered by name.
	ListAll(ctx context.Context) ([]domain.Category, error)

	// ListByNames returns the categories whose name is in names.
	ListByNames(ctx context.Context, names []string) ([]domain.Category, error)
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	// CreateAndUpdateRating inserts the review, recomputes the product's
	// average rating and stores it on the product, all in one transaction.
	// It returns the new product rating.
	CreateAndUpdateRating(ctx context.Context, review *domain.Review) (float64, error)

	// ListByProductID returns reviews for a product, newest first, and the total count.
	ListByProductID(ctx context.Context, productID string, page, perPage int) ([]domain.Review, int, error)

	// GetSummary returns the rounded average rating and review count for a product.
	GetSummary(ctx context.Context, productID string) (*domain.ReviewSummary, error)
}

// ContactRepository stores contact form messages.
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
}

// SubscriberRepository stores newsletter subscriptions.
type SubscriberRepository interface {
	// Create inserts a subscriber; a duplicate email is an AlreadyExists error.
	Create(ctx context.Context, subscriber *domain.Subscriber) error
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts the user and its profile in one transaction.
	Create(ctx context.Context, user *domain.User, profile *domain.UserProfile) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// SetSuperuser grants or revokes store owner rights.
	SetSuperuser(ctx context.Context, id string, isSuperuser bool) error
}

// ProfileRepository defines the interface for user profile persistence.
type ProfileRepository interface {
	// GetByUserID retrieves the profile owned by the given user.
	GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error)

	// Update stores the profile's delivery information.
	Update(ctx context.Context, profile *domain.UserProfile) error
}

// WishlistRepository defines the interface for wishlist persistence. Entries
// are addressed by user profile.
type WishlistRepository interface {
	// Add inserts a product into the wishlist (idempotent).
	Add(ctx context.Context, profileID, productID string) error

	// Remove deletes a product from the wishlist.
	Remove(ctx context.Context, profileID, productID string) error

	// List returns the wishlisted products, most recently added first, and the total count.
	List(ctx context.Context, profileID string, page, perPage int) ([]domain.Product, int, error)

	// Exists checks whether a product is in the wishlist.
	Exists(ctx context.Context, profileID, productID string) (bool, error)
}
