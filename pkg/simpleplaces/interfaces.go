package simpleplaces

import (
	"context"
	"io"

	"github.com/tendant/simple-places/pkg/simpleplaces/tenant"
)

// Repository defines the interface for post, media order and slider
// persistence. Posts are addressed by tenant and slug.
type Repository interface {
	// SavePost replaces the post and all of its relations. An existing post
	// keeps its ID and creation time; row is updated to match what was stored.
	SavePost(ctx context.Context, row *JoinedRow) error
	GetPost(ctx context.Context, tenantID tenant.ID, slug string) (*JoinedRow, error)
	ListPosts(ctx context.Context, tenantID tenant.ID) ([]*JoinedRow, error)
	// RenamePost changes a slug, failing with ErrPostExists when taken.
	RenamePost(ctx context.Context, tenantID tenant.ID, from, to string) error

	// Media order lists, replaced wholesale
	GetMediaOrder(ctx context.Context, tenantID tenant.ID, set, key string) (*MediaOrderSpec, error)
	SetMediaOrder(ctx context.Context, tenantID tenant.ID, spec *MediaOrderSpec) error

	// Slider item sets, replaced wholesale
	ListSlider(ctx context.Context, tenantID tenant.ID, name string) ([]SliderItem, error)
	ReplaceSlider(ctx context.Context, tenantID tenant.ID, name string, items []SliderItem) error
}

// MediaStore defines the interface for media object storage
type MediaStore interface {
	// List returns the keys stored under prefix, in no particular order
	List(ctx context.Context, prefix string) ([]string, error)

	// Upload stores content under key
	Upload(ctx context.Context, key string, reader io.Reader, mimeType string) error

	// Delete removes key
	Delete(ctx context.Context, key string) error

	// URL returns the public URL of key
	URL(key string) string
}

// EventSink defines the interface for event handling
type EventSink interface {
	// PostSaved is fired after a post is persisted
	PostSaved(ctx context.Context, tenantID tenant.ID, post *Post) error

	// PostTrashed is fired after a post is moved to the trash
	PostTrashed(ctx context.Context, tenantID tenant.ID, slug string) error

	// MediaOrderReplaced is fired after an order list is replaced
	MediaOrderReplaced(ctx context.Context, tenantID tenant.ID, spec *MediaOrderSpec) error

	// SliderReplaced is fired after a slider set is replaced
	SliderReplaced(ctx context.Context, tenantID tenant.ID, name string, items []SliderItem) error
}

// MediaKey is the storage key of a media file of a post.
func MediaKey(tenantID tenant.ID, slug, filename string) string {
	return MediaPrefix(tenantID, slug) + filename
}

// MediaPrefix is the storage prefix under which a post's media lives.
func MediaPrefix(tenantID tenant.ID, slug string) string {
	return string(tenantID) + "/" + slug + "/"
}
