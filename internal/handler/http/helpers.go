package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/validator"
)

// optionalParam distinguishes an absent query parameter (nil) from one sent
// with an empty value.
func optionalParam(q url.Values, key string) *string {
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	return &v
}

// blankToNil turns an empty optional form value into an absent one.
func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// decodeForm reads the JSON body into dst, lets normalize clean it up and
// then validates it.
func decodeForm(r *http.Request, dst any, normalize func()) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.InvalidInput(fmt.Sprintf("invalid request body: %v", err))
	}
	if normalize != nil {
		normalize()
	}
	return validator.Validate(dst)
}

// isFormError reports whether err should be rendered as a rejected form
// rather than a general error.
func isFormError(err error) bool {
	var valErr *validator.ValidationError
	return errors.As(err, &valErr) || errors.Is(err, apperrors.ErrInvalidInput)
}
