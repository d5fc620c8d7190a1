package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds 1-based pagination parameters as used by the storefront.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Default returns the storefront pagination defaults.
func Default() Params {
	return Params{Page: DefaultPage, Limit: DefaultLimit}
}

// FromRequest extracts page and limit from the request query string,
// falling back to defaults for absent or invalid values.
func FromRequest(r *http.Request) Params {
	p := Default()

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= MaxLimit {
			p.Limit = n
		}
	}

	return p
}

// BackendPage converts the 1-based page to the zero-based index the
// catalog backend expects.
func (p Params) BackendPage() int {
	return p.Page - 1
}
