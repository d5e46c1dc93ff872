package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/tendant/simple-places/pkg/simpleplaces"
)

// ErrObjectNotFound is returned when deleting a missing key
var ErrObjectNotFound = errors.New("object not found")

type object struct {
	data     []byte
	mimeType string
}

// Backend is an in-memory implementation of the simpleplaces.MediaStore interface
type Backend struct {
	mu        sync.RWMutex
	objects   map[string]object
	urlPrefix string
}

// New creates a new in-memory media store. URLs are urlPrefix + "/" + key.
func New(urlPrefix string) *Backend {
	return &Backend{
		objects:   make(map[string]object),
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}
}

var _ simpleplaces.MediaStore = (*Backend)(nil)

// List returns the keys under prefix in lexical order
func (b *Backend) List(ctx context.Context, prefix string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0)
	for k := range b.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Upload stores a copy of the reader's content
func (b *Backend) Upload(ctx context.Context, key string, reader io.Reader, mimeType string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = object{data: buf.Bytes(), mimeType: mimeType}
	return nil
}

// Delete removes key
func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.objects[key]; !ok {
		return ErrObjectNotFound
	}
	delete(b.objects, key)
	return nil
}

// URL returns the public URL of key
func (b *Backend) URL(key string) string {
	return b.urlPrefix + "/" + key
}

// Get returns a stored object's content and MIME type
func (b *Backend) Get(key string) ([]byte, string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	o, ok := b.objects[key]
	if !ok {
		return nil, "", false
	}
	return append([]byte(nil), o.data...), o.mimeType, true
}
