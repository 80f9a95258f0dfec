package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Sort keys accepted by the catalog listing.
const (
	SortName     = "name"
	SortPrice    = "price"
	SortRating   = "rating"
	SortCategory = "category"
	SortSKU      = "sku"
)

// MaxPrice is the exclusive upper bound of a product price.
var MaxPrice = decimal.NewFromInt(10000)

// Product represents an item in the catalog. Rating is derived from the
// product's reviews and is nil until the first review arrives.
type Product struct {
	ID          string          `json:"id"`
	CategoryID  *string         `json:"category_id,omitempty"`
	Category    *Category       `json:"category,omitempty"`
	SKU         *string         `json:"sku,omitempty"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Rating      *float64        `json:"rating"`
	ImageURL    *string         `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ValidSortKeys returns the sort keys the catalog listing understands.
func ValidSortKeys() []string {
	return []string{SortName, SortPrice, SortRating, SortCategory, SortSKU}
}

// IsValidSortKey reports whether key is a known sort key.
func IsValidSortKey(key string) bool {
	for _, k := range ValidSortKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// RoundHalf rounds v to the nearest multiple of 0.5. Ties between two
// halves go to the one with an even number of halves, so 4.25 becomes 4.
func RoundHalf(v float64) float64 {
	return math.RoundToEven(v*2) / 2
}

// HasValidPriceScale reports whether price has at most two decimal places.
func HasValidPriceScale(price decimal.Decimal) bool {
	return price.Round(2).Equal(price)
}
