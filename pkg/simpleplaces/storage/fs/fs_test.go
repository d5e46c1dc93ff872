package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-places/pkg/simpleplaces/storage/fs"
)

func TestFSBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	backend, err := fs.New(fs.Config{BaseDir: dir, URLPrefix: "/media/"})
	require.NoError(t, err)

	require.NoError(t, backend.Upload(ctx, "santiago/cafe/portada.jpg", strings.NewReader("x"), "image/jpeg"))
	require.NoError(t, backend.Upload(ctx, "santiago/cafe/menu.jpg", strings.NewReader("y"), "image/jpeg"))
	require.NoError(t, backend.Upload(ctx, "valparaiso/cafe/mar.jpg", strings.NewReader("z"), "image/jpeg"))

	t.Run("Upload writes below base dir", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(dir, "santiago", "cafe", "portada.jpg"))
		require.NoError(t, err)
		assert.Equal(t, "x", string(data))
	})

	t.Run("List filters by prefix", func(t *testing.T) {
		keys, err := backend.List(ctx, "santiago/cafe/")
		require.NoError(t, err)
		sort.Strings(keys)
		assert.Equal(t, []string{"santiago/cafe/menu.jpg", "santiago/cafe/portada.jpg"}, keys)
	})

	t.Run("URL", func(t *testing.T) {
		assert.Equal(t, "/media/santiago/cafe/menu.jpg", backend.URL("santiago/cafe/menu.jpg"))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, backend.Delete(ctx, "santiago/cafe/menu.jpg"))
		assert.Error(t, backend.Delete(ctx, "santiago/cafe/menu.jpg"))
	})

	t.Run("Rejects escaping keys", func(t *testing.T) {
		assert.Error(t, backend.Upload(ctx, "../outside.jpg", strings.NewReader("x"), "image/jpeg"))
		assert.Error(t, backend.Delete(ctx, "../../etc/passwd"))
	})
}

func TestFSBackend_RequiresBaseDir(t *testing.T) {
	_, err := fs.New(fs.Config{})
	assert.Error(t, err)
}
