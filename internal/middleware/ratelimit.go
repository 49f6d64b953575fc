package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/josh-kwaku/vault-ledger/internal/handler"
	"github.com/josh-kwaku/vault-ledger/internal/logging"
	"github.com/josh-kwaku/vault-ledger/internal/ratelimit"
)

type limiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Result, error)
	Limit() int
}

// RateLimit budgets requests per client IP. Health checks are exempt. When
// the limiter itself fails the request is let through.
func RateLimit(l limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/health") {
				next.ServeHTTP(w, r)
				return
			}

			res, err := l.Allow(r.Context(), clientIP(r))
			if err != nil {
				logging.FromContext(r.Context()).Warn("rate limiter unavailable, allowing request", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.Limit()))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			if !res.Allowed {
				secs := int(math.Ceil(res.RetryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
				handler.RespondAppError(w, handler.ErrRateLimited, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the connection's remote host. Forwarded headers are ignored
// since any client can set them.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
