package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendant/simple-places/pkg/simpleplaces/tenant"
)

func TestDomainMiddleware(t *testing.T) {
	var seen string
	h := DomainMiddleware(tenant.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(tenant.Header)
	}))

	tests := []struct {
		host   string
		header string
		want   string
	}{
		{"guiavalparaiso.cl", "", "valparaiso"},
		{"GuiaSantiago.cl:443", "valparaiso", "santiago"},
		{"localhost", "valparaiso", ""},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tt.host
			if tt.header != "" {
				req.Header.Set(tenant.Header, tt.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, seen)
		})
	}
}

func TestTenantMiddleware_ConfiguredDefault(t *testing.T) {
	var got tenant.Tenant
	h := TenantMiddleware("valparaiso")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = tenant.FromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, tenant.Valparaiso, got.ID)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(tenant.Header, "santiago")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, tenant.Santiago, got.ID)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/posts", nil))
	assert.Contains(t, buf.String(), "status=418")
	assert.Contains(t, buf.String(), "path=/posts")
}
