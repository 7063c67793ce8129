package middleware

import (
	"context"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestID reuses an incoming X-Request-ID or generates a UUID, echoes it
// back and stores it where chimiddleware.GetReqID finds it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(chimiddleware.RequestIDHeader)
		if rid == "" || len(rid) > 64 {
			rid = uuid.NewString()
		}

		w.Header().Set(chimiddleware.RequestIDHeader, rid)
		ctx := context.WithValue(r.Context(), chimiddleware.RequestIDKey, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
