package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tendant/simple-places/pkg/simpleplaces"
	"github.com/tendant/simple-places/pkg/simpleplaces/tenant"
)

type postKey struct {
	tenant tenant.ID
	slug   string
}

type orderKey struct {
	tenant tenant.ID
	set    string
	key    string
}

type sliderKey struct {
	tenant tenant.ID
	name   string
}

type categoryKey struct {
	tenant tenant.ID
	slug   string
}

// Repository implements simpleplaces.Repository using in-memory storage
type Repository struct {
	mu         sync.RWMutex
	posts      map[postKey]*simpleplaces.JoinedRow
	categories map[categoryKey]simpleplaces.CategoryRecord
	orders     map[orderKey]*simpleplaces.MediaOrderSpec
	sliders    map[sliderKey][]simpleplaces.SliderItem
}

var _ simpleplaces.Repository = (*Repository)(nil)

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		posts:      make(map[postKey]*simpleplaces.JoinedRow),
		categories: make(map[categoryKey]simpleplaces.CategoryRecord),
		orders:     make(map[orderKey]*simpleplaces.MediaOrderSpec),
		sliders:    make(map[sliderKey][]simpleplaces.SliderItem),
	}
}

// Post operations

func (r *Repository) SavePost(ctx context.Context, row *simpleplaces.JoinedRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := postKey{row.Post.TenantID, row.Post.Slug}
	if existing, ok := r.posts[k]; ok {
		row.Post.ID = existing.Post.ID
		row.Post.CreatedAt = existing.Post.CreatedAt
	}

	// Categories are shared by every post of a tenant; the first writer of a
	// slug owns its labels.
	for i, link := range row.CategoryLinks {
		ck := categoryKey{row.Post.TenantID, link.Category.Slug}
		if c, ok := r.categories[ck]; ok {
			row.CategoryLinks[i].Category = c
			continue
		}
		r.categories[ck] = link.Category
	}

	stored := cloneRow(row)
	r.posts[k] = &stored
	return nil
}

func (r *Repository) GetPost(ctx context.Context, tenantID tenant.ID, slug string) (*simpleplaces.JoinedRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.posts[postKey{tenantID, slug}]
	if !ok || row.Post.DeletedAt != nil {
		return nil, simpleplaces.ErrPostNotFound
	}
	out := cloneRow(row)
	return &out, nil
}

func (r *Repository) ListPosts(ctx context.Context, tenantID tenant.ID) ([]*simpleplaces.JoinedRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*simpleplaces.JoinedRow
	for k, row := range r.posts {
		if k.tenant != tenantID || row.Post.DeletedAt != nil {
			continue
		}
		c := cloneRow(row)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Post.Slug < out[j].Post.Slug })
	return out, nil
}

func (r *Repository) RenamePost(ctx context.Context, tenantID tenant.ID, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	src := postKey{tenantID, from}
	row, ok := r.posts[src]
	if !ok || row.Post.DeletedAt != nil {
		return simpleplaces.ErrPostNotFound
	}
	dst := postKey{tenantID, to}
	if _, taken := r.posts[dst]; taken {
		return simpleplaces.ErrPostExists
	}

	delete(r.posts, src)
	row.Post.Slug = to
	r.posts[dst] = row
	return nil
}

// Media order operations

func (r *Repository) GetMediaOrder(ctx context.Context, tenantID tenant.ID, set, key string) (*simpleplaces.MediaOrderSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.orders[orderKey{tenantID, set, key}]
	if !ok {
		return nil, simpleplaces.ErrMediaOrderNotFound
	}
	out := *spec
	out.Order = append([]string{}, spec.Order...)
	return &out, nil
}

func (r *Repository) SetMediaOrder(ctx context.Context, tenantID tenant.ID, spec *simpleplaces.MediaOrderSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *spec
	stored.Order = append([]string{}, spec.Order...)
	r.orders[orderKey{tenantID, spec.Set, spec.Key}] = &stored
	return nil
}

// Slider operations

func (r *Repository) ListSlider(ctx context.Context, tenantID tenant.ID, name string) ([]simpleplaces.SliderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]simpleplaces.SliderItem{}, r.sliders[sliderKey{tenantID, name}]...), nil
}

func (r *Repository) ReplaceSlider(ctx context.Context, tenantID tenant.ID, name string, items []simpleplaces.SliderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sliders[sliderKey{tenantID, name}] = append([]simpleplaces.SliderItem{}, items...)
	return nil
}

func cloneRow(row *simpleplaces.JoinedRow) simpleplaces.JoinedRow {
	out := simpleplaces.JoinedRow{
		Post:          row.Post,
		Images:        append([]simpleplaces.ImageRecord{}, row.Images...),
		Locations:     append([]simpleplaces.LocationRecord{}, row.Locations...),
		Translations:  make([]simpleplaces.TranslationRecord, 0, len(row.Translations)),
		CategoryLinks: append([]simpleplaces.CategoryLinkRecord{}, row.CategoryLinks...),
	}
	for _, tr := range row.Translations {
		tr.Description = append([]string{}, tr.Description...)
		out.Translations = append(out.Translations, tr)
	}
	return out
}
