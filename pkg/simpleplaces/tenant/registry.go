// Package tenant holds the closed catalogue of sites served by the platform
// and the rules for picking the active one for a request.
package tenant

import (
	"strings"

	"github.com/tendant/simple-places/internal/textfold"
)

// ID identifies a tenant. Only the constants below are valid; convert
// untrusted strings with ParseID.
type ID string

const (
	Santiago   ID = "santiago"
	Valparaiso ID = "valparaiso"
)

// DefaultID is the registry's hard-coded fallback tenant.
const DefaultID = Santiago

// Tenant is one independently branded catalogue.
type Tenant struct {
	ID                ID       `json:"id"`
	Domain            string   `json:"domain"`
	DisplayName       string   `json:"display_name"`
	AllowedCategories []string `json:"allowed_categories"`
}

// Allows reports whether category belongs to the tenant's taxonomy.
// Matching ignores case and accents.
func (t Tenant) Allows(category string) bool {
	key := textfold.Slug(category)
	if key == "" {
		return false
	}
	for _, c := range t.AllowedCategories {
		if textfold.Slug(c) == key {
			return true
		}
	}
	return false
}

var catalogue = []Tenant{
	{
		ID:          Santiago,
		Domain:      "guiasantiago.cl",
		DisplayName: "Guía Santiago",
		AllowedCategories: []string{
			"hoteles", "restaurantes", "cafes", "bares", "museos",
			"mercados", "parques", "tours", "niños",
		},
	},
	{
		ID:          Valparaiso,
		Domain:      "guiavalparaiso.cl",
		DisplayName: "Guía Valparaíso",
		AllowedCategories: []string{
			"hoteles", "restaurantes", "cafes", "bares", "miradores",
			"ascensores", "playas", "tours", "arte callejero",
		},
	},
}

// Registry is a read-only view over the static catalogue.
type Registry struct {
	byID map[ID]Tenant
}

var registry = newRegistry(catalogue)

func newRegistry(tenants []Tenant) *Registry {
	r := &Registry{byID: make(map[ID]Tenant, len(tenants))}
	for _, t := range tenants {
		r.byID[t.ID] = t
	}
	return r
}

// Default returns the process-wide registry.
func Default() *Registry {
	return registry
}

// Lookup returns the tenant for id.
func (r *Registry) Lookup(id ID) (Tenant, bool) {
	t, ok := r.byID[id]
	if !ok {
		return Tenant{}, false
	}
	return t.clone(), true
}

// MustLookup is Lookup for ids that are known to be valid constants.
func (r *Registry) MustLookup(id ID) Tenant {
	t, ok := r.Lookup(id)
	if !ok {
		panic("tenant: unknown id " + string(id))
	}
	return t
}

// DefaultTenant returns the hard-coded fallback tenant.
func (r *Registry) DefaultTenant() Tenant {
	return r.MustLookup(DefaultID)
}

// All returns every tenant in catalogue order.
func (r *Registry) All() []Tenant {
	out := make([]Tenant, 0, len(catalogue))
	for _, t := range catalogue {
		out = append(out, t.clone())
	}
	return out
}

// ByDomain maps a request host to a tenant. The port, letter case and a
// leading "www." are ignored.
func (r *Registry) ByDomain(host string) (Tenant, bool) {
	host = strings.ToLower(strings.TrimSpace(host))
	if i := strings.LastIndexByte(host, ':'); i >= 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return Tenant{}, false
	}
	for _, t := range catalogue {
		if t.Domain == host {
			return t.clone(), true
		}
	}
	return Tenant{}, false
}

// ParseID converts an untrusted string into an ID. Unknown values report false.
func ParseID(s string) (ID, bool) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := registry.byID[id]; !ok {
		return "", false
	}
	return id, true
}

func (t Tenant) clone() Tenant {
	t.AllowedCategories = append([]string(nil), t.AllowedCategories...)
	return t
}
