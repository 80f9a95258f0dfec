package domain

import (
	"time"
)

// Review limits.
const (
	MinRating       = 1
	MaxRating       = 5
	MaxReviewLength = 1000
)

// Review is a shopper's rating of a product. Reviews are immutable once
// written.
type Review struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	UserProfileID string    `json:"user_profile_id"`
	Author        string    `json:"author,omitempty"`
	Rating        int       `json:"rating"`
	Review        string    `json:"review"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReviewSummary contains aggregate review statistics for a product.
// AverageRating is rounded to the nearest half and nil without reviews.
type ReviewSummary struct {
	AverageRating *float64 `json:"average_rating"`
	TotalCount    int      `json:"total_count"`
}
