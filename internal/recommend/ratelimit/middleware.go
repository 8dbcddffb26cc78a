package ratelimit

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	dErrors "tandem/pkg/domain-errors"
	"tandem/pkg/platform/httputil"
	request "tandem/pkg/platform/middleware/request"
)

// KeyFunc extracts the limiting key from a request. An empty key skips
// limiting.
type KeyFunc func(r *http.Request) string

// Middleware rejects requests over the window with 429 and reports the
// remaining budget in X-RateLimit headers.
func Middleware(w *Window, key KeyFunc, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			k := key(r)
			if w == nil || k == "" {
				next.ServeHTTP(rw, r)
				return
			}
			ctx := r.Context()
			res := w.Allow(ctx, k)
			if res.Limit > 0 {
				addHeaders(rw, res)
			}
			if !res.Allowed {
				logger.InfoContext(ctx, "refresh rate limited",
					"request_id", request.GetRequestID(ctx),
					"key", k,
					"retry_after", res.RetryAfter,
				)
				rw.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(res)))
				httputil.WriteError(rw, dErrors.New(dErrors.CodeRateLimited, "too many refresh requests"))
				return
			}
			next.ServeHTTP(rw, r)
		})
	}
}

func addHeaders(w http.ResponseWriter, res Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
}

// retryAfterSeconds rounds up so clients never retry early.
func retryAfterSeconds(res Result) int {
	secs := int(math.Ceil(res.RetryAfter.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
