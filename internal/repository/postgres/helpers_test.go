package postgres

import (
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/database"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func noStr() *string              { return nil }
func noFloat() *float64           { return nil }

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

var productColumns = []string{
	"id", "category_id", "sku", "name", "slug", "description", "price", "rating",
	"image_url", "created_at", "updated_at",
	"id", "name", "friendly_name",
}

var productColumnsWithCount = append(append([]string{}, productColumns...), "total_count")

func sampleProduct() domain.Product {
	return domain.Product{
		ID:          "prod-1",
		CategoryID:  strPtr("cat-1"),
		SKU:         strPtr("pp5001340155"),
		Name:        "Iron Skillet",
		Slug:        "iron-skillet",
		Description: "A heavy cast iron skillet",
		Price:       decimal.RequireFromString("24.99"),
		Rating:      floatPtr(4.5),
		ImageURL:    strPtr("https://cdn.example.com/skillet.jpg"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func productRow(p domain.Product, catName string) []any {
	return []any{
		p.ID, p.CategoryID, p.SKU, p.Name, p.Slug, p.Description, p.Price, p.Rating,
		p.ImageURL, p.CreatedAt, p.UpdatedAt,
		p.CategoryID, strPtr(catName), strPtr("Kitchen"),
	}
}
