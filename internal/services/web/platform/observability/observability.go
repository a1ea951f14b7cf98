// Package observability provides request logging for the web service.
package observability

import (
	"log"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/louisbranch/hubbble/internal/services/web/platform/httpx"
)

// RequestLogger logs one line per request after the handler returns.
func RequestLogger(logger *log.Logger) httpx.Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)
			logger.Printf(
				"http request method=%s path=%s status=%d bytes=%d latency=%s request_id=%s",
				r.Method,
				r.URL.Path,
				m.Code,
				m.Written,
				m.Duration,
				httpx.RequestIDFromRequest(r),
			)
		})
	}
}
