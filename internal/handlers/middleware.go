package handlers

import (
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"verbalist/internal/auth"
	"verbalist/internal/callable"
	"verbalist/internal/ratelimit"
)

// RequireAuth rejects REST requests that carry no verified identity
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.FromContext(r.Context()); !ok {
			respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit throttles callable requests per caller, keyed by uid when
// authenticated and by client address otherwise. A nil limiter disables it.
func RateLimit(l *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + clientIP(r)
			if id, ok := auth.FromContext(r.Context()); ok {
				key = "uid:" + id.UID
			}
			if !l.Allow(key) {
				log.Printf("Rate limit exceeded for %s", key)
				callable.WriteError(w, callable.NewError(callable.CodeResourceExhausted, "Too many requests. Please try again later."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr, which RealIP has already
// replaced with the forwarded address when one is present
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		// Call next handler
		next.ServeHTTP(ww, r)

		// Log request
		log.Printf("[%s] %s %s %d %s", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
