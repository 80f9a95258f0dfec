package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
)

// WishlistService manages the signed-in shopper's wishlist.
type WishlistService struct {
	wishlist repository.WishlistRepository
	products repository.ProductRepository
	profiles repository.ProfileRepository
	logger   *slog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(
	wishlist repository.WishlistRepository,
	products repository.ProductRepository,
	profiles repository.ProfileRepository,
	logger *slog.Logger,
) *WishlistService {
	return &WishlistService{
		wishlist: wishlist,
		products: products,
		profiles: profiles,
		logger:   logger,
	}
}

// Add puts a product on the user's wishlist. Adding twice is not an error.
func (s *WishlistService) Add(ctx context.Context, userID, productID string) (*domain.Product, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	if err := s.wishlist.Add(ctx, profile.ID, productID); err != nil {
		return nil, fmt.Errorf("add to wishlist: %w", err)
	}

	s.logger.InfoContext(ctx, "product added to wishlist",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
	)

	return product, nil
}

// Remove takes a product off the user's wishlist.
func (s *WishlistService) Remove(ctx context.Context, userID, productID string) (*domain.Product, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	if err := s.wishlist.Remove(ctx, profile.ID, productID); err != nil {
		return nil, fmt.Errorf("remove from wishlist: %w", err)
	}

	s.logger.InfoContext(ctx, "product removed from wishlist",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
	)

	return product, nil
}

// List returns a page of the user's wishlisted products and the total count.
func (s *WishlistService) List(ctx context.Context, userID string, page, perPage int) ([]domain.Product, int, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("get user profile: %w", err)
	}

	products, total, err := s.wishlist.List(ctx, profile.ID, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list wishlist: %w", err)
	}
	return products, total, nil
}
