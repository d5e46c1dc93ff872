package simpleplaces

import (
	"context"
	"log/slog"

	"github.com/tendant/simple-places/pkg/simpleplaces/tenant"
)

// NoopEventSink is a no-operation implementation of EventSink
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (n *NoopEventSink) PostSaved(ctx context.Context, tenantID tenant.ID, post *Post) error {
	return nil
}

func (n *NoopEventSink) PostTrashed(ctx context.Context, tenantID tenant.ID, slug string) error {
	return nil
}

func (n *NoopEventSink) MediaOrderReplaced(ctx context.Context, tenantID tenant.ID, spec *MediaOrderSpec) error {
	return nil
}

func (n *NoopEventSink) SliderReplaced(ctx context.Context, tenantID tenant.ID, name string, items []SliderItem) error {
	return nil
}

// LoggingEventSink writes every event to a structured logger.
// Useful for development and debugging
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates a new logging event sink. A nil logger uses
// slog.Default().
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

func (l *LoggingEventSink) PostSaved(ctx context.Context, tenantID tenant.ID, post *Post) error {
	l.logger.InfoContext(ctx, "post saved", "tenant", tenantID, "slug", post.Slug,
		"media", len(post.Media), "locations", len(post.Locations), "name", post.Localized(LangES).Name)
	return nil
}

func (l *LoggingEventSink) PostTrashed(ctx context.Context, tenantID tenant.ID, slug string) error {
	l.logger.InfoContext(ctx, "post trashed", "tenant", tenantID, "slug", slug)
	return nil
}

func (l *LoggingEventSink) MediaOrderReplaced(ctx context.Context, tenantID tenant.ID, spec *MediaOrderSpec) error {
	l.logger.InfoContext(ctx, "media order replaced", "tenant", tenantID, "set", spec.Set,
		"key", spec.Key, "entries", len(spec.Order))
	return nil
}

func (l *LoggingEventSink) SliderReplaced(ctx context.Context, tenantID tenant.ID, name string, items []SliderItem) error {
	l.logger.InfoContext(ctx, "slider replaced", "tenant", tenantID, "slider", name, "items", len(items))
	return nil
}
