package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/middleware"
	"github.com/utafrali/storefront/pkg/pagination"
)

const (
	msgReviewAdded  = "Successfully added review."
	msgReviewFailed = "Failed to add review. Please check the form is valid and try again."
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateReviewRequest is the JSON body of the review form.
type CreateReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Review string `json:"review" validate:"required,max=1000"`
}

type reviewCreatedResponse struct {
	Review        *domain.Review `json:"review"`
	ProductRating float64        `json:"product_rating"`
}

type reviewListResponse struct {
	httputil.PaginatedResponse[domain.Review]
	AverageRating *float64 `json:"average_rating"`
}

// CreateReview handles POST /api/v1/products/{id}/reviews (and POST /api/v1/products/{id})
// @Summary Review a product
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Product UUID"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/products/{id}/reviews [post]
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := decodeForm(r, &req, nil); err != nil {
		httputil.WriteFormError(w, err, msgReviewFailed)
		return
	}

	review, rating, err := h.service.CreateReview(r.Context(), service.CreateReviewInput{
		ProductID: productID.String(),
		UserID:    middleware.UserIDFromContext(r.Context()),
		Rating:    req.Rating,
		Review:    req.Review,
	})
	if err != nil {
		if isFormError(err) {
			httputil.WriteFormError(w, err, msgReviewFailed)
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data:     reviewCreatedResponse{Review: review, ProductRating: rating},
		Messages: []httputil.Message{httputil.Info(msgReviewAdded)},
		Redirect: productPath(productID.String()),
	})
}

// ListReviews handles GET /api/v1/products/{id}/reviews
// @Summary List product reviews
// @Tags reviews
// @Produce json
// @Param id path string true "Product UUID"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 100)" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/products/{id}/reviews [get]
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	params := pagination.FromRequest(r)

	reviews, summary, err := h.service.ListReviews(r.Context(), productID.String(), params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviewListResponse{
		PaginatedResponse: httputil.NewPaginatedResponse(reviews, summary.TotalCount, params.Page, params.PerPage),
		AverageRating:     summary.AverageRating,
	}})
}
