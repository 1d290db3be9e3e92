package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/FBNTech/ndosiphar/internal/utils"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ndosiphar_http_requests_total",
			Help: "Total HTTP requests by route, method and status code.",
		},
		[]string{"route", "method", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ndosiphar_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// Logger tags each request with an id, then logs method, path, status
// and duration once the handler returns.
func (app *Application) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		app.Log.Infow("request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", elapsed.String(),
		)
	})
}

// Metrics records per-route Prometheus counters and latency. The chi
// route pattern keeps label cardinality bounded.
func (app *Application) Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// AuthUser validates the Bearer token and stores the claims on the
// request context.
func (app *Application) AuthUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.Unauthorized(w, "Missing bearer token")
			return
		}

		claims, err := utils.ParseJWT(strings.TrimPrefix(authHeader, "Bearer "), app.Config.JWT)
		if err != nil {
			utils.Unauthorized(w, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithUser(r.Context(), claims)))
	})
}

// RequireRoles gates a route to the given roles.
func (app *Application) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := utils.GetUser(r)
			if user == nil {
				utils.Unauthorized(w, "")
				return
			}
			if !allowed[user.Role] {
				utils.Forbidden(w, "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

const (
	signinLimitWindow = 1 * time.Minute
	signinLimitCount  = 10
)

// clientIP strips the port from a remote address, handling the
// bracketed IPv6 form. An address with no port comes back as is.
func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// RateLimitSignin throttles sign-in attempts per client IP with a
// fixed window in Redis. Without a Redis client, or when Redis is
// down, requests pass through.
func (app *Application) RateLimitSignin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.Redis == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := "rate_limit:signin:" + clientIP(r.RemoteAddr)

		count, err := app.Redis.Incr(r.Context(), key).Result()
		if err != nil {
			app.Log.Errorw("rate limit", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			app.Redis.Expire(r.Context(), key, signinLimitWindow)
		}
		if count > signinLimitCount {
			utils.WriteJSON(w, http.StatusTooManyRequests, map[string]any{
				"error":   true,
				"message": "Too many sign-in attempts, try again later",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
