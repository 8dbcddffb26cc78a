// Package request propagates the chi request id into requestcontext so
// services can log it without importing chi.
package request

import (
	"context"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"tandem/pkg/requestcontext"
)

// RequestID must run after chi's middleware.RequestID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if reqID := chimw.GetReqID(ctx); reqID != "" {
			ctx = requestcontext.WithRequestID(ctx, reqID)
			w.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request id for ctx, or "".
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
