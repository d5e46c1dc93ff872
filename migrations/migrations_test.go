package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(FS, "sql/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		data, err := fs.ReadFile(FS, f)
		require.NoError(t, err)
		body := string(data)
		assert.True(t, strings.Contains(body, "-- +goose Up"), "%s lacks an up section", f)
		assert.True(t, strings.Contains(body, "-- +goose Down"), "%s lacks a down section", f)
	}
}

func TestInitCreatesEveryTable(t *testing.T) {
	data, err := fs.ReadFile(FS, "sql/00001_init.sql")
	require.NoError(t, err)

	for _, table := range []string{
		"place_post", "place_image", "place_location", "place_translation",
		"place_category", "place_post_category", "media_order", "slider_item",
	} {
		assert.Contains(t, string(data), "CREATE TABLE "+table+" (")
	}
}
