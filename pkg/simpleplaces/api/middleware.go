package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/tendant/simple-places/pkg/simpleplaces/tenant"
)

// DomainMiddleware maps the request host to a tenant and publishes it in the
// X-Site-Id header. Any client supplied header is discarded first, so the
// header only ever carries a value derived from the host.
func DomainMiddleware(registry *tenant.Registry) func(http.Handler) http.Handler {
	if registry == nil {
		registry = tenant.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Header.Del(tenant.Header)
			if t, ok := registry.ByDomain(r.Host); ok {
				r.Header.Set(tenant.Header, string(t.ID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TenantMiddleware resolves the active tenant once per request and stores
// it in the request context.
func TenantMiddleware(configuredDefault string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t := tenant.Resolve(tenant.SignalsFromRequest(r, configuredDefault))
			next.ServeHTTP(w, r.WithContext(tenant.WithTenant(r.Context(), t)))
		})
	}
}

// LoggingMiddleware logs one line per request.
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			}
			if t, ok := tenant.FromContext(r.Context()); ok {
				attrs = append(attrs, "tenant", t.ID)
			}
			logger.InfoContext(r.Context(), "request", attrs...)
		})
	}
}
