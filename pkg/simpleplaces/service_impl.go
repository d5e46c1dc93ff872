package simpleplaces

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-places/pkg/simpleplaces/mediaorder"
	"github.com/tendant/simple-places/pkg/simpleplaces/tenant"
)

// service implements the Service interface
type service struct {
	repository Repository
	mediaStore MediaStore
	eventSink  EventSink
	registry   *tenant.Registry
	table      mediaorder.Table
	logger     *slog.Logger
	now        func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithMediaStore sets the media storage backend
func WithMediaStore(store MediaStore) Option {
	return func(s *service) {
		s.mediaStore = store
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithLogger sets the logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithRegistry replaces the built-in tenant registry
func WithRegistry(r *tenant.Registry) Option {
	return func(s *service) {
		s.registry = r
	}
}

// WithClassification replaces the gallery classification table
func WithClassification(table mediaorder.Table) Option {
	return func(s *service) {
		s.table = table
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		registry: tenant.Default(),
		table:    mediaorder.DefaultTable,
		now:      func() time.Time { return time.Now().UTC() },
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.eventSink == nil {
		s.eventSink = NewNoopEventSink()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

// Post operations

func (s *service) SavePost(ctx context.Context, tenantID tenant.ID, sub Submission) (*Post, error) {
	p, result := s.CheckPost(ctx, sub)
	if !result.OK {
		return nil, &PostError{Tenant: tenantID, Slug: p.Slug, Op: "save", Err: &ValidationError{Issues: result.Issues}}
	}
	if strings.HasSuffix(p.Slug, TrashedSuffix) {
		return nil, &PostError{Tenant: tenantID, Slug: p.Slug, Op: "save", Err: &ValidationError{
			Issues: []Issue{{Path: "slug", Message: "trashed posts cannot be edited"}},
		}}
	}
	if len(p.Categories) > 0 {
		p.CategorySource = CategoryFromLink
	}
	s.adviseCategories(ctx, tenantID, p)

	row := RowFromPost(*p, uuid.New(), tenantID, s.now())
	if err := s.repository.SavePost(ctx, &row); err != nil {
		return nil, &PostError{Tenant: tenantID, Slug: p.Slug, Op: "save", Err: err}
	}

	saved := MapRow(row)
	if err := s.eventSink.PostSaved(ctx, tenantID, &saved); err != nil {
		s.logger.WarnContext(ctx, "event sink failed", "event", "post_saved", "slug", saved.Slug, "err", err)
	}
	return &saved, nil
}

func (s *service) CheckPost(ctx context.Context, sub Submission) (*Post, ValidationResult) {
	p := Normalize(sub)
	return &p, Validate(p)
}

// adviseCategories logs categories missing from the tenant taxonomy. They are
// still stored.
func (s *service) adviseCategories(ctx context.Context, tenantID tenant.ID, p *Post) {
	t, ok := s.registry.Lookup(tenantID)
	if !ok {
		return
	}
	for _, c := range p.Categories {
		if !t.Allows(c) {
			s.logger.WarnContext(ctx, "category outside tenant taxonomy", "tenant", tenantID, "slug", p.Slug, "category", c)
		}
	}
}

// GetPost hides trashed posts the same way ListPosts does.
func (s *service) GetPost(ctx context.Context, tenantID tenant.ID, slug string) (*Post, error) {
	if strings.HasSuffix(slug, TrashedSuffix) {
		return nil, &PostError{Tenant: tenantID, Slug: slug, Op: "get", Err: ErrPostNotFound}
	}
	row, err := s.repository.GetPost(ctx, tenantID, slug)
	if err != nil {
		return nil, &PostError{Tenant: tenantID, Slug: slug, Op: "get", Err: err}
	}
	p := MapRow(*row)
	return &p, nil
}

func (s *service) ListPosts(ctx context.Context, tenantID tenant.ID) ([]*Post, error) {
	rows, err := s.repository.ListPosts(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	posts := make([]*Post, 0, len(rows))
	for _, row := range rows {
		if strings.HasSuffix(row.Post.Slug, TrashedSuffix) {
			continue
		}
		p := MapRow(*row)
		posts = append(posts, &p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].Slug < posts[j].Slug })
	return posts, nil
}

func (s *service) TrashPost(ctx context.Context, tenantID tenant.ID, slug string) error {
	if strings.HasSuffix(slug, TrashedSuffix) {
		return &PostError{Tenant: tenantID, Slug: slug, Op: "trash", Err: ErrPostNotFound}
	}
	if err := s.repository.RenamePost(ctx, tenantID, slug, slug+TrashedSuffix); err != nil {
		return &PostError{Tenant: tenantID, Slug: slug, Op: "trash", Err: err}
	}

	if err := s.eventSink.PostTrashed(ctx, tenantID, slug); err != nil {
		s.logger.WarnContext(ctx, "event sink failed", "event", "post_trashed", "slug", slug, "err", err)
	}
	return nil
}

// Gallery operations

func (s *service) Gallery(ctx context.Context, tenantID tenant.ID, slug, key string) ([]GalleryItem, error) {
	if s.mediaStore == nil {
		return nil, ErrNoMediaStore
	}
	prefix := MediaPrefix(tenantID, slug)
	keys, err := s.mediaStore.List(ctx, prefix)
	if err != nil {
		return nil, &StorageError{Key: prefix, Op: "list", Err: err}
	}

	names := make([]string, 0, len(keys))
	for _, k := range keys {
		name := strings.TrimPrefix(k, prefix)
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		names = append(names, name)
	}

	explicit, err := s.explicitOrder(ctx, tenantID, slug, key)
	if err != nil {
		return nil, err
	}

	ordered := mediaorder.Order(names, explicit, s.table)
	items := make([]GalleryItem, 0, len(ordered))
	for _, name := range ordered {
		items = append(items, GalleryItem{Name: name, URL: s.mediaStore.URL(prefix + name)})
	}
	return items, nil
}

// explicitOrder returns the order list for key, falling back to the default
// key. No list at all is not an error.
func (s *service) explicitOrder(ctx context.Context, tenantID tenant.ID, set, key string) ([]string, error) {
	keys := []string{key}
	if key != "" {
		keys = append(keys, "")
	}
	for _, k := range keys {
		spec, err := s.repository.GetMediaOrder(ctx, tenantID, set, k)
		if errors.Is(err, ErrMediaOrderNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get media order: %w", err)
		}
		return spec.Order, nil
	}
	return nil, nil
}

func (s *service) SetMediaOrder(ctx context.Context, tenantID tenant.ID, spec MediaOrderSpec) (*MediaOrderSpec, error) {
	spec.Set = strings.TrimSpace(spec.Set)
	spec.Key = strings.TrimSpace(spec.Key)
	if spec.Set == "" {
		return nil, fmt.Errorf("%w: set is required", ErrInvalidMediaOrder)
	}
	spec.Order = dedupeNonEmpty(spec.Order)
	spec.UpdatedAt = s.now()

	if err := s.repository.SetMediaOrder(ctx, tenantID, &spec); err != nil {
		return nil, fmt.Errorf("failed to set media order: %w", err)
	}

	if err := s.eventSink.MediaOrderReplaced(ctx, tenantID, &spec); err != nil {
		s.logger.WarnContext(ctx, "event sink failed", "event", "media_order_replaced", "set", spec.Set, "err", err)
	}
	return &spec, nil
}

func (s *service) GetMediaOrder(ctx context.Context, tenantID tenant.ID, set, key string) (*MediaOrderSpec, error) {
	spec, err := s.repository.GetMediaOrder(ctx, tenantID, set, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get media order: %w", err)
	}
	return spec, nil
}

func (s *service) UploadMedia(ctx context.Context, tenantID tenant.ID, slug, filename string, reader io.Reader, mimeType string) (*GalleryItem, error) {
	if s.mediaStore == nil {
		return nil, ErrNoMediaStore
	}
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "" || name == "." || name == "/" || name == ".." {
		return nil, fmt.Errorf("%w: filename is required", ErrInvalidMedia)
	}
	if !ValidSlug(slug) {
		return nil, fmt.Errorf("%w: invalid slug %q", ErrInvalidMedia, slug)
	}

	key := MediaKey(tenantID, slug, name)
	if err := s.mediaStore.Upload(ctx, key, reader, mimeType); err != nil {
		return nil, &StorageError{Key: key, Op: "upload", Err: err}
	}
	return &GalleryItem{Name: name, URL: s.mediaStore.URL(key)}, nil
}

// Slider operations

func (s *service) ReplaceSlider(ctx context.Context, tenantID tenant.ID, name string, items []SliderItem) ([]SliderItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidSlider)
	}

	out := make([]SliderItem, 0, len(items))
	for i, item := range items {
		item.ImageURL = strings.TrimSpace(item.ImageURL)
		if item.ImageURL == "" {
			return nil, fmt.Errorf("%w: item %d has no image", ErrInvalidSlider, i)
		}
		if item.Language != "" && !supported(item.Language) {
			return nil, fmt.Errorf("%w: item %d has unsupported language %q", ErrInvalidSlider, i, item.Language)
		}
		item.Href = NormalizeURL(item.Href)
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.Position = i
		out = append(out, item)
	}

	if err := s.repository.ReplaceSlider(ctx, tenantID, name, out); err != nil {
		return nil, fmt.Errorf("failed to replace slider: %w", err)
	}

	if err := s.eventSink.SliderReplaced(ctx, tenantID, name, out); err != nil {
		s.logger.WarnContext(ctx, "event sink failed", "event", "slider_replaced", "slider", name, "err", err)
	}
	return out, nil
}

func (s *service) ListSlider(ctx context.Context, tenantID tenant.ID, name string, lang Language) ([]SliderItem, error) {
	items, err := s.repository.ListSlider(ctx, tenantID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list slider: %w", err)
	}

	out := make([]SliderItem, 0, len(items))
	for _, item := range items {
		if !item.Active {
			continue
		}
		if item.Language != "" && lang != "" && item.Language != lang {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}
