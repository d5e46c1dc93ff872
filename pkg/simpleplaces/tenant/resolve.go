package tenant

import (
	"context"
	"net/http"
)

// Wire names of the resolution signals.
const (
	AdminParam   = "admin_site"
	PreviewParam = "site"
	Header       = "X-Site-Id"
)

// Signals are the raw, untrusted inputs that may name a tenant, listed from
// highest to lowest precedence.
type Signals struct {
	// AdminOverride lets editorial tooling act on another tenant.
	AdminOverride string
	// PreviewOverride previews a tenant without owning its domain.
	PreviewOverride string
	// Header is set upstream after mapping the request domain.
	Header string
	// ConfiguredDefault is the process-wide default.
	ConfiguredDefault string
}

// Resolve picks the active tenant. It never fails: unrecognized values are
// skipped and the registry default is used when nothing matches.
func Resolve(s Signals) Tenant {
	return registry.Resolve(s)
}

// Resolve is the registry-bound form of the package level Resolve.
func (r *Registry) Resolve(s Signals) Tenant {
	for _, candidate := range []string{s.AdminOverride, s.PreviewOverride, s.Header, s.ConfiguredDefault} {
		if id, ok := ParseID(candidate); ok {
			if t, ok := r.Lookup(id); ok {
				return t
			}
		}
	}
	return r.DefaultTenant()
}

// SignalsFromRequest reads the resolution signals off an HTTP request.
func SignalsFromRequest(r *http.Request, configuredDefault string) Signals {
	q := r.URL.Query()
	return Signals{
		AdminOverride:     q.Get(AdminParam),
		PreviewOverride:   q.Get(PreviewParam),
		Header:            r.Header.Get(Header),
		ConfiguredDefault: configuredDefault,
	}
}

type contextKey struct{}

// WithTenant returns a copy of ctx carrying t.
func WithTenant(ctx context.Context, t Tenant) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}

// FromContext returns the tenant stored by WithTenant.
func FromContext(ctx context.Context) (Tenant, bool) {
	t, ok := ctx.Value(contextKey{}).(Tenant)
	return t, ok
}
