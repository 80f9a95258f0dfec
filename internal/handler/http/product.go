package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/middleware"
	"github.com/utafrali/storefront/pkg/pagination"
)

// Shopper-facing messages for catalog management.
const (
	msgProductAdded        = "Successfully added product!"
	msgProductAddFailed    = "Failed to add product. Please ensure the form is valid."
	msgProductUpdated      = "Successfully updated product!"
	msgProductUpdateFailed = "Failed to update product. Please ensure the form is valid."
	msgProductDeleted      = "Product deleted!"
	msgOwnersOnly          = "Sorry, only store owners can do that."
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// ProductRequest is the JSON body of the add and edit product forms.
type ProductRequest struct {
	Name        string           `json:"name" validate:"required,max=254"`
	Description string           `json:"description" validate:"required"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0,lt=10000"`
	SKU         *string          `json:"sku" validate:"omitempty,max=254"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url,max=1024"`
}

func (req *ProductRequest) normalize() {
	req.SKU = blankToNil(req.SKU)
	req.CategoryID = blankToNil(req.CategoryID)
	req.ImageURL = blankToNil(req.ImageURL)
}

func (req *ProductRequest) input() *service.ProductInput {
	return &service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		SKU:         req.SKU,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
	}
}

// --- Response DTOs ---

type productListResponse struct {
	Products          []domain.Product  `json:"products"`
	SearchTerm        *string           `json:"search_term"`
	CurrentCategories []domain.Category `json:"current_categories"`
	CurrentSorting    string            `json:"current_sorting"`
	TotalCount        int               `json:"total_count"`
	Page              int               `json:"page"`
	PerPage           int               `json:"per_page"`
	TotalPages        int               `json:"total_pages"`
	HasNext           bool              `json:"has_next"`
}

type productDetailResponse struct {
	Product     *domain.Product     `json:"product"`
	Reviews     []domain.Review     `json:"reviews"`
	ReviewCount int                 `json:"review_count"`
	AvgRating   *float64            `json:"avg_rating"`
	UserProfile *domain.UserProfile `json:"user_profile,omitempty"`
	InWishlist  *bool               `json:"in_wishlist,omitempty"`
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products
// @Summary List products
// @Description Returns a page of the catalog, optionally sorted, filtered by category names and searched
// @Tags products
// @Produce json
// @Param sort query string false "Sort key" Enums(name,price,rating,category,sku)
// @Param direction query string false "Sort direction" Enums(asc,desc)
// @Param category query string false "Comma-separated category names"
// @Param q query string false "Search term"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 100)" default(20)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := pagination.FromRequest(r)

	listing, err := h.service.ListProducts(r.Context(), service.ListProductsInput{
		Sort:       optionalParam(q, "sort"),
		Direction:  optionalParam(q, "direction"),
		Categories: optionalParam(q, "category"),
		Query:      optionalParam(q, "q"),
		Page:       params.Page,
		PerPage:    params.PerPage,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	page := httputil.NewPaginatedResponse(listing.Products, listing.TotalCount, listing.Page, listing.PerPage)
	categories := listing.CurrentCategories
	if categories == nil {
		categories = []domain.Category{}
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: productListResponse{
		Products:          page.Data,
		SearchTerm:        listing.SearchTerm,
		CurrentCategories: categories,
		CurrentSorting:    listing.CurrentSorting,
		TotalCount:        page.TotalCount,
		Page:              page.Page,
		PerPage:           page.PerPage,
		TotalPages:        page.TotalPages,
		HasNext:           page.HasNext,
	}})
}

// GetProduct handles GET /api/v1/products/{id}
// @Summary Get product detail
// @Description Returns a product with its reviews and average rating. Signed-in shoppers also get their profile and wishlist state.
// @Tags products
// @Produce json
// @Param id path string true "Product UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	detail, err := h.service.GetProductDetail(r.Context(), id.String(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	reviews := detail.Reviews
	if reviews == nil {
		reviews = []domain.Review{}
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: productDetailResponse{
		Product:     detail.Product,
		Reviews:     reviews,
		ReviewCount: detail.ReviewCount,
		AvgRating:   detail.AvgRating,
		UserProfile: detail.Profile,
		InWishlist:  detail.InWishlist,
	}})
}

// CreateProduct handles POST /api/v1/products (and /api/v1/products/add)
// @Summary Add a product
// @Tags products
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decodeForm(r, &req, req.normalize); err != nil {
		httputil.WriteFormError(w, err, msgProductAddFailed)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), req.input())
	if err != nil {
		if isFormError(err) {
			httputil.WriteFormError(w, err, msgProductAddFailed)
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data:     product,
		Messages: []httputil.Message{httputil.Success(msgProductAdded)},
		Redirect: productPath(product.ID),
	})
}

// EditProductForm handles GET /api/v1/products/{id}/edit
// It returns the product to prefill the edit form.
func (h *ProductHandler) EditProductForm(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data:     product,
		Messages: []httputil.Message{httputil.Info(fmt.Sprintf("You are editing %s", product.Name))},
	})
}

// UpdateProduct handles PUT /api/v1/products/{id} (and PUT|POST /api/v1/products/{id}/edit)
// @Summary Edit a product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id} [put]
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req ProductRequest
	if err := decodeForm(r, &req, req.normalize); err != nil {
		httputil.WriteFormError(w, err, msgProductUpdateFailed)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id.String(), req.input())
	if err != nil {
		if isFormError(err) {
			httputil.WriteFormError(w, err, msgProductUpdateFailed)
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data:     product,
		Messages: []httputil.Message{httputil.Success(msgProductUpdated)},
		Redirect: productPath(product.ID),
	})
}

// DeleteProduct handles DELETE /api/v1/products/{id} (and DELETE|POST /api/v1/products/{id}/delete)
// @Summary Delete a product
// @Tags products
// @Param id path string true "Product UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.service.DeleteProduct(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data:     product,
		Messages: []httputil.Message{httputil.Success(msgProductDeleted)},
		Redirect: "/products",
	})
}

func productPath(id string) string {
	return "/products/" + id
}
