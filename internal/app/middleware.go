package app

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/httpx/response"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/metrics"
)

// corsHandler allows browser clients to call the functions and the data API
func corsHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Client-Info", "Apikey"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}

// rateLimit rejects requests above rpm per minute per client IP with 429. Burst is a sixth of rpm.
// The client IP is the request's RemoteAddr, as set by middleware.RealIP.
func rateLimit(rpm int) func(http.Handler) http.Handler {
	if rpm <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	burst := rpm / 6
	if burst < 1 {
		burst = 1
	}
	limiters := newClientLimiters(rate.Limit(float64(rpm)/60.0), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.get(clientIP(r)).Allow() {
				response.TooManyRequests(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// limiterIdleTTL is how long an unused client limiter is kept
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters hands out one token bucket per client
type clientLimiters struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	clients   map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

func newClientLimiters(limit rate.Limit, burst int) *clientLimiters {
	return &clientLimiters{
		limit:   limit,
		burst:   burst,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

func (c *clientLimiters) get(key string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) > time.Minute {
		for k, cl := range c.clients {
			if now.Sub(cl.lastSeen) > limiterIdleTTL {
				delete(c.clients, k)
			}
		}
		c.lastSweep = now
	}

	cl, ok := c.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// accessLog logs every request through slog and records it in metrics under its route pattern
func accessLog(logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				duration := time.Since(start)

				route := r.URL.Path
				if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
					route = rctx.RoutePattern()
				}

				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", duration,
					"request_id", middleware.GetReqID(r.Context()),
				)

				m.RecordHTTPRequest(r.Context(), r.Method, route, ww.Status(), duration)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
