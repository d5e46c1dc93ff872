package simpleplaces

import (
	"context"
	"io"

	"github.com/tendant/simple-places/pkg/simpleplaces/tenant"
)

// Service defines the main interface for the simple-places library
type Service interface {
	// Post operations
	SavePost(ctx context.Context, tenantID tenant.ID, s Submission) (*Post, error)
	CheckPost(ctx context.Context, s Submission) (*Post, ValidationResult)
	GetPost(ctx context.Context, tenantID tenant.ID, slug string) (*Post, error)
	ListPosts(ctx context.Context, tenantID tenant.ID) ([]*Post, error)
	TrashPost(ctx context.Context, tenantID tenant.ID, slug string) error

	// Gallery operations
	Gallery(ctx context.Context, tenantID tenant.ID, slug, key string) ([]GalleryItem, error)
	SetMediaOrder(ctx context.Context, tenantID tenant.ID, spec MediaOrderSpec) (*MediaOrderSpec, error)
	GetMediaOrder(ctx context.Context, tenantID tenant.ID, set, key string) (*MediaOrderSpec, error)
	UploadMedia(ctx context.Context, tenantID tenant.ID, slug, filename string, reader io.Reader, mimeType string) (*GalleryItem, error)

	// Slider operations
	ReplaceSlider(ctx context.Context, tenantID tenant.ID, name string, items []SliderItem) ([]SliderItem, error)
	ListSlider(ctx context.Context, tenantID tenant.ID, name string, lang Language) ([]SliderItem, error)
}

// GalleryItem is one resolved media file of a post.
type GalleryItem struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
