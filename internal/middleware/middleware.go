package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/pranavnigade123/drawzzl-backend/internal/config"
)

// Apply wraps the router with CORS, rate limiting and request logging
func Apply(router *mux.Router, cfg *config.Config) http.Handler {
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: true,
	})

	limiter := rate.NewLimiter(rate.Limit(float64(cfg.RateLimit.RequestsPerMinute)/60.0), cfg.RateLimit.BurstSize)

	return corsMiddleware.Handler(rateLimitMiddleware(limiter, loggingMiddleware(router)))
}

// loggingMiddleware logs incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// rateLimitMiddleware applies a process-wide limit to HTTP endpoints.
// Websocket traffic is limited per socket inside the gateway instead.
func rateLimitMiddleware(limiter *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
