package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
)

const (
	msgContactSent = "Your message has been sent!"
	msgSubscribed  = "Thank you for subscribing"
)

// ContactHandler serves the contact and newsletter forms.
type ContactHandler struct {
	service *service.ContactService
	logger  *slog.Logger
}

// NewContactHandler creates a new contact HTTP handler.
func NewContactHandler(svc *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		service: svc,
		logger:  logger,
	}
}

// ContactRequest is the JSON body of the contact form.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=250"`
	Subject string `json:"subject" validate:"required,max=40"`
	Message string `json:"message" validate:"required,max=500"`
}

// SubscribeRequest is the JSON body of the newsletter form.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// FormField describes one input of an empty form.
type FormField struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Required  bool   `json:"required"`
	MaxLength int    `json:"max_length,omitempty"`
}

// FormDescription lists the inputs a client renders for a form.
type FormDescription struct {
	Fields []FormField `json:"fields"`
}

var (
	contactForm = FormDescription{Fields: []FormField{
		{Name: "name", Type: "text", Required: true, MaxLength: 100},
		{Name: "email", Type: "email", Required: true, MaxLength: 250},
		{Name: "subject", Type: "text", Required: true, MaxLength: 40},
		{Name: "message", Type: "textarea", Required: true, MaxLength: 500},
	}}

	newsletterForm = FormDescription{Fields: []FormField{
		{Name: "email", Type: "email", Required: true, MaxLength: 254},
	}}
)

// ContactForm handles GET /api/v1/contact
func (h *ContactHandler) ContactForm(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: contactForm})
}

// SubmitContact handles POST /api/v1/contact
// @Summary Send a message to the store
// @Tags contact
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/contact [post]
func (h *ContactHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := decodeForm(r, &req, nil); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	contact, err := h.service.SubmitContact(r.Context(), service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data:     contact,
		Messages: []httputil.Message{httputil.Success(msgContactSent)},
	})
}

// NewsletterForm handles GET /api/v1/newsletter
func (h *ContactHandler) NewsletterForm(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newsletterForm})
}

// Subscribe handles POST /api/v1/newsletter
// @Summary Subscribe to the newsletter
// @Tags newsletter
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/newsletter [post]
func (h *ContactHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := decodeForm(r, &req, nil); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	subscriber, err := h.service.Subscribe(r.Context(), req.Email)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data:     subscriber,
		Messages: []httputil.Message{httputil.Success(msgSubscribed)},
	})
}
