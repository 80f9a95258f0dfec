package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func newTestWishlistService() (*WishlistService, *mockWishlistRepository, *mockProductRepository, *mockProfileRepository) {
	wishlist := new(mockWishlistRepository)
	products := new(mockProductRepository)
	profiles := new(mockProfileRepository)
	return NewWishlistService(wishlist, products, profiles, newTestLogger()), wishlist, products, profiles
}

func TestWishlistAdd(t *testing.T) {
	svc, wishlist, products, profiles := newTestWishlistService()
	ctx := context.Background()
	p := sampleProduct()

	profiles.On("GetByUserID", ctx, "user-1").Return(&domain.UserProfile{ID: "profile-1"}, nil)
	products.On("GetByID", ctx, p.ID).Return(p, nil)
	wishlist.On("Add", ctx, "profile-1", p.ID).Return(nil)

	got, err := svc.Add(ctx, "user-1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Linen Shirt", got.Name)
	wishlist.AssertExpectations(t)
}

func TestWishlistAdd_UnknownProduct(t *testing.T) {
	svc, wishlist, products, profiles := newTestWishlistService()
	ctx := context.Background()

	profiles.On("GetByUserID", ctx, "user-1").Return(&domain.UserProfile{ID: "profile-1"}, nil)
	products.On("GetByID", ctx, "missing").Return(nil, apperrors.NotFound("product", "missing"))

	_, err := svc.Add(ctx, "user-1", "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	wishlist.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestWishlistRemove_NotOnList(t *testing.T) {
	svc, wishlist, products, profiles := newTestWishlistService()
	ctx := context.Background()
	p := sampleProduct()

	profiles.On("GetByUserID", ctx, "user-1").Return(&domain.UserProfile{ID: "profile-1"}, nil)
	products.On("GetByID", ctx, p.ID).Return(p, nil)
	wishlist.On("Remove", ctx, "profile-1", p.ID).Return(apperrors.NotFound("wishlist item", p.ID))

	_, err := svc.Remove(ctx, "user-1", p.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestWishlistList(t *testing.T) {
	svc, wishlist, _, profiles := newTestWishlistService()
	ctx := context.Background()

	profiles.On("GetByUserID", ctx, "user-1").Return(&domain.UserProfile{ID: "profile-1"}, nil)
	wishlist.On("List", ctx, "profile-1", 1, 20).Return([]domain.Product{*sampleProduct()}, 1, nil)

	products, total, err := svc.List(ctx, "user-1", 1, 20)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, total)
}
