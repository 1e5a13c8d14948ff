package middleware

import (
	"log/slog"
	"net/http"

	h "eventnexus/internal/delivery/http/helpers"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit limits requests per client IP with an in-memory store. rate uses the limiter
// format, e.g. "20-M" for twenty requests per minute.
func RateLimit(rate string, trustForwardHeader bool, logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(memory.NewStore(), parsed, limiter.WithTrustForwardHeader(trustForwardHeader))
	mw := stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			h.WriteJSONError(w, http.StatusTooManyRequests, h.ErrCodeRateLimited, "too many requests, slow down")
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			logger.ErrorContext(r.Context(), "rate limiter failed", "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
		}),
	)
	return mw.Handler, nil
}
