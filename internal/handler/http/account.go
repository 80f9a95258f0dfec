package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/middleware"
)

// AccountHandler handles registration, login and profile endpoints.
type AccountHandler struct {
	service *service.AccountService
	logger  *slog.Logger
}

// NewAccountHandler creates a new account HTTP handler.
func NewAccountHandler(svc *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		service: svc,
		logger:  logger,
	}
}

// RegisterRequest is the JSON body for creating an account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Username string `json:"username" validate:"required,min=3,max=150"`
	Password string `json:"password" validate:"required,min=8,max=72,password"`
}

// LoginRequest is the JSON body for signing in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileRequest is the JSON body of the delivery profile form.
type ProfileRequest struct {
	FullName       *string `json:"full_name" validate:"omitempty,max=50"`
	PhoneNumber    *string `json:"phone_number" validate:"omitempty,max=20"`
	StreetAddress1 *string `json:"street_address1" validate:"omitempty,max=80"`
	StreetAddress2 *string `json:"street_address2" validate:"omitempty,max=80"`
	TownOrCity     *string `json:"town_or_city" validate:"omitempty,max=40"`
	Postcode       *string `json:"postcode" validate:"omitempty,max=20"`
	County         *string `json:"county" validate:"omitempty,max=80"`
	Country        *string `json:"country" validate:"omitempty,iso3166_1_alpha2"`
}

func (req *ProfileRequest) normalize() {
	for _, f := range []**string{
		&req.FullName, &req.PhoneNumber, &req.StreetAddress1, &req.StreetAddress2,
		&req.TownOrCity, &req.Postcode, &req.County, &req.Country,
	} {
		*f = blankToNil(*f)
	}
}

type registerResponse struct {
	User  *domain.User      `json:"user"`
	Token *domain.AuthToken `json:"token"`
}

// Register handles POST /api/v1/auth/register
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/auth/register [post]
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeForm(r, &req, nil); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, token, err := h.service.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: registerResponse{User: user, Token: token},
	})
}

// Login handles POST /api/v1/auth/login
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/auth/login [post]
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeForm(r, &req, nil); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: token})
}

// GetProfile handles GET /api/v1/profile
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfile(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: profile})
}

// UpdateProfile handles PUT /api/v1/profile
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := decodeForm(r, &req, req.normalize); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), middleware.UserIDFromContext(r.Context()), service.ProfileInput{
		FullName:       req.FullName,
		PhoneNumber:    req.PhoneNumber,
		StreetAddress1: req.StreetAddress1,
		StreetAddress2: req.StreetAddress2,
		TownOrCity:     req.TownOrCity,
		Postcode:       req.Postcode,
		County:         req.County,
		Country:        req.Country,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data:     profile,
		Messages: []httputil.Message{httputil.Success("Profile updated successfully")},
	})
}
