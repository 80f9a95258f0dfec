package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/pagination"
	"github.com/utafrali/storefront/pkg/slug"
)

// MsgNoSearchCriteria is shown when a search is submitted without a term.
const MsgNoSearchCriteria = "You didn't enter any search criteria!"

// ProductService implements catalog browsing and store owner product management.
type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	reviews    repository.ReviewRepository
	profiles   repository.ProfileRepository
	wishlist   repository.WishlistRepository
	producer   *event.Producer
	logger     *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	reviews repository.ReviewRepository,
	profiles repository.ProfileRepository,
	wishlist repository.WishlistRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		reviews:    reviews,
		profiles:   profiles,
		wishlist:   wishlist,
		producer:   producer,
		logger:     logger,
	}
}

// ListProductsInput holds catalog query parameters. A nil field means the
// parameter was absent from the request, which differs from an empty value.
type ListProductsInput struct {
	Sort       *string
	Direction  *string
	Categories *string
	Query      *string
	Page       int
	PerPage    int
}

// ProductListing is one page of the catalog together with the echo of the
// query that produced it.
type ProductListing struct {
	Products          []domain.Product
	SearchTerm        *string
	CurrentCategories []domain.Category
	CurrentSorting    string
	TotalCount        int
	Page              int
	PerPage           int
}

// ListProducts resolves sorting, category filtering and search the way the
// catalog page does. An empty search term is rejected before any lookup.
func (s *ProductService) ListProducts(ctx context.Context, in ListProductsInput) (*ProductListing, error) {
	params := pagination.New(in.Page, in.PerPage)
	filter := repository.ProductFilter{Page: params.Page, PerPage: params.PerPage}

	if in.Sort != nil {
		if !domain.IsValidSortKey(*in.Sort) {
			return nil, apperrors.InvalidParameter(fmt.Sprintf(
				"sort must be one of: %s", strings.Join(domain.ValidSortKeys(), ", ")))
		}
		filter.Sort = *in.Sort
		filter.Descending = in.Direction != nil && *in.Direction == "desc"
	}

	listing := &ProductListing{
		CurrentSorting: currentSorting(in.Sort, in.Direction),
		Page:           params.Page,
		PerPage:        params.PerPage,
	}

	// An empty search term fails even when the category filter matches nothing.
	if in.Query != nil {
		if *in.Query == "" {
			return nil, apperrors.InvalidInput(MsgNoSearchCriteria).WithRedirect("/products")
		}
		filter.Search = in.Query
		listing.SearchTerm = in.Query
	}

	if in.Categories != nil {
		filter.CategoryNames = splitCategories(*in.Categories)
		categories, err := s.categories.ListByNames(ctx, filter.CategoryNames)
		if err != nil {
			return nil, fmt.Errorf("list current categories: %w", err)
		}
		listing.CurrentCategories = categories
		// A filter naming no category matches nothing.
		if len(filter.CategoryNames) == 0 {
			listing.Products = []domain.Product{}
			return listing, nil
		}
	}

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	listing.Products = products
	listing.TotalCount = total

	return listing, nil
}

// currentSorting renders the "<sort>_<direction>" marker used by the
// catalog's sort selector. Missing parts render as "None".
func currentSorting(sort, direction *string) string {
	s, d := "None", "None"
	if sort != nil {
		s = *sort
		if direction != nil {
			d = *direction
		}
	}
	return s + "_" + d
}

func splitCategories(raw string) []string {
	names := []string{}
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ProductDetail is everything the product page shows. Profile and
// InWishlist are only set for signed-in shoppers.
type ProductDetail struct {
	Product     *domain.Product
	Reviews     []domain.Review
	ReviewCount int
	AvgRating   *float64
	Profile     *domain.UserProfile
	InWishlist  *bool
}

// GetProduct retrieves a product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// GetProductDetail loads a product with its reviews and rounded average
// rating. When userID is set the shopper's profile and wishlist state are
// included.
func (s *ProductService) GetProductDetail(ctx context.Context, id, userID string) (*ProductDetail, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}

	reviews, err := s.allReviews(ctx, id)
	if err != nil {
		return nil, err
	}

	summary, err := s.reviews.GetSummary(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review summary: %w", err)
	}

	detail := &ProductDetail{
		Product:     product,
		Reviews:     reviews,
		ReviewCount: len(reviews),
		AvgRating:   summary.AverageRating,
	}

	if userID == "" {
		return detail, nil
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	detail.Profile = profile

	inWishlist, err := s.wishlist.Exists(ctx, profile.ID, id)
	if err != nil {
		return nil, fmt.Errorf("check wishlist: %w", err)
	}
	detail.InWishlist = &inWishlist

	return detail, nil
}

// allReviews pages through every review of a product, newest first.
func (s *ProductService) allReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	var all []domain.Review
	for page := 1; ; page++ {
		reviews, total, err := s.reviews.ListByProductID(ctx, productID, page, pagination.MaxPerPage)
		if err != nil {
			return nil, fmt.Errorf("list product reviews: %w", err)
		}
		all = append(all, reviews...)
		if len(reviews) < pagination.MaxPerPage || len(all) >= total {
			break
		}
	}
	if all == nil {
		all = []domain.Review{}
	}
	return all, nil
}

// ProductInput holds the editable fields of a product.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	SKU         *string
	CategoryID  *string
	ImageURL    *string
}

func (s *ProductService) validateInput(ctx context.Context, in *ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperrors.InvalidInput("product name is required")
	}
	if in.Price.IsNegative() || !in.Price.LessThan(domain.MaxPrice) {
		return apperrors.InvalidInput("price must be at least 0 and less than 10000")
	}
	if !domain.HasValidPriceScale(in.Price) {
		return apperrors.InvalidInput("price must have at most 2 decimal places")
	}
	if in.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.InvalidInput("category does not exist")
			}
			return fmt.Errorf("get category: %w", err)
		}
	}
	return nil
}

// CreateProduct adds a product to the catalog. The slug is derived from
// the name and made unique with a short suffix when it is already taken.
func (s *ProductService) CreateProduct(ctx context.Context, in *ProductInput) (*domain.Product, error) {
	if err := s.validateInput(ctx, in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		CategoryID:  in.CategoryID,
		SKU:         in.SKU,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	product.Slug = slug.Generate(product.Name)

	err := s.products.Create(ctx, product)
	if errors.Is(err, apperrors.ErrAlreadyExists) {
		product.Slug = slug.WithSuffix(product.Slug, product.ID[:8])
		err = s.products.Create(ctx, product)
	}
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}
	productChanges.WithLabelValues("created").Inc()

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// UpdateProduct replaces the editable fields of an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, in *ProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if err := s.validateInput(ctx, in); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name != product.Name {
		product.Slug = slug.WithSuffix(slug.Generate(name), product.ID[:min(8, len(product.ID))])
	}
	product.Name = name
	product.Description = in.Description
	product.Price = in.Price
	product.SKU = in.SKU
	product.ImageURL = in.ImageURL
	if product.CategoryID == nil || in.CategoryID == nil || *product.CategoryID != *in.CategoryID {
		product.Category = nil
	}
	product.CategoryID = in.CategoryID

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}
	productChanges.WithLabelValues("updated").Inc()

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// DeleteProduct removes a product and returns what was deleted.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for delete: %w", err)
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}
	productChanges.WithLabelValues("deleted").Inc()

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return product, nil
}

// ListCategories returns every category ordered by name.
func (s *ProductService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
