package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, Params{Page: 1, PerPage: 20, Offset: 0}, p)
}

func TestFromRequest(t *testing.T) {
	tests := []struct {
		query string
		want  Params
	}{
		{"", Params{Page: 1, PerPage: 20, Offset: 0}},
		{"?page=3&per_page=50", Params{Page: 3, PerPage: 50, Offset: 100}},
		{"?page=-1", Params{Page: 1, PerPage: 20, Offset: 0}},
		{"?page=abc&per_page=xyz", Params{Page: 1, PerPage: 20, Offset: 0}},
		{"?per_page=101", Params{Page: 1, PerPage: 20, Offset: 0}},
		{"?page=2&per_page=100", Params{Page: 2, PerPage: 100, Offset: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products"+tt.query, nil)
			assert.Equal(t, tt.want, FromRequest(req))
		})
	}
}

func TestNew_ClampsValues(t *testing.T) {
	assert.Equal(t, Params{Page: 1, PerPage: 20, Offset: 0}, New(0, 0))
	assert.Equal(t, Params{Page: 4, PerPage: 10, Offset: 30}, New(4, 10))
}
