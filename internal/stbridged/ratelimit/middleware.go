package ratelimit

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Middleware returns an HTTP middleware enforcing the named limit per
// caller address. Requests over the limit get 429 with a Retry-After
// hint; store failures fail open so a Redis outage never takes the API
// down with it.
func Middleware(service Service, limitType string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := LimitKey{
				Type:     limitType,
				RemoteIP: remoteIP(r),
				BoxID:    chi.URLParam(r, "boxID"),
			}

			if err := service.Allow(r.Context(), key); err != nil {
				if errors.Is(err, ErrLimitExceeded) {
					limit := service.GetLimit(limitType)
					w.Header().Set("Retry-After", strconv.Itoa(int(limit.Period.Seconds())))
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusTooManyRequests)
					json.NewEncoder(w).Encode(map[string]string{
						"code":    ErrLimitExceeded.Code,
						"message": ErrLimitExceeded.Message,
					})
					return
				}
				logger.Error("rate limit check errored, allowing request",
					"error", err,
					"type", limitType,
				)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func remoteIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
