package simpleplaces

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-places/pkg/simpleplaces/tenant"
)

func TestLoggingEventSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLoggingEventSink(slog.New(slog.NewTextHandler(&buf, nil)))
	ctx := context.Background()

	require.NoError(t, sink.PostSaved(ctx, tenant.Santiago, &Post{Slug: "cafe", Media: []string{"a.jpg"}, Content: map[Language]LocalizedContent{LangES: {Name: "Café"}}}))
	require.NoError(t, sink.PostTrashed(ctx, tenant.Santiago, "cafe"))
	require.NoError(t, sink.MediaOrderReplaced(ctx, tenant.Valparaiso, &MediaOrderSpec{Set: "cafe", Key: "es", Order: []string{"a", "b"}}))
	require.NoError(t, sink.SliderReplaced(ctx, tenant.Valparaiso, "home", nil))

	out := buf.String()
	assert.Contains(t, out, `msg="post saved" tenant=santiago slug=cafe media=1 locations=0 name=Café`)
	assert.Contains(t, out, `msg="post trashed" tenant=santiago slug=cafe`)
	assert.Contains(t, out, `msg="media order replaced" tenant=valparaiso set=cafe key=es entries=2`)
	assert.Contains(t, out, `msg="slider replaced" tenant=valparaiso slider=home items=0`)
}

func TestNoopEventSink(t *testing.T) {
	sink := NewNoopEventSink()
	assert.NoError(t, sink.PostSaved(context.Background(), tenant.Santiago, &Post{}))
	assert.Equal(t, emptyLocalized(), (&Post{}).Localized(LangEN))
	assert.NoError(t, sink.SliderReplaced(context.Background(), tenant.Santiago, "home", nil))
}
