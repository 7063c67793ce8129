package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
)

// queryString returns nil for an absent or empty parameter.
func queryString(r *http.Request, key string) *string {
	if value := r.URL.Query().Get(key); value != "" {
		return &value
	}
	return nil
}

// queryInt returns 0 for an absent parameter and -1 for a malformed one, so
// pagination validation reports it instead of silently using the default.
func queryInt(r *http.Request, key string) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}
	return n
}

func queryIntPtr(r *http.Request, key string) *int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		n = -1
	}
	return &n
}

// pathUUID reads the {id} URL parameter. Malformed ids can never match a
// row, so callers report them as not found.
func pathUUID(r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	return id, validator.IsValidUUID(id)
}
