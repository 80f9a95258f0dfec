package domain

import "time"

// WishlistItem records that a user wants a product. A product appears at
// most once per wishlist.
type WishlistItem struct {
	UserProfileID string    `json:"user_profile_id"`
	ProductID     string    `json:"product_id"`
	CreatedAt     time.Time `json:"created_at"`
}
