package pressroom

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// EventSink defines the interface for lifecycle event handling. Sink
// failures are logged by the service and never fail the operation that
// fired them.
type EventSink interface {
	// ContentCreated is fired after content and its creation snapshot are persisted
	ContentCreated(ctx context.Context, content *Content) error

	// ContentUpdated is fired after an edit or workflow transition is persisted
	ContentUpdated(ctx context.Context, content *Content) error

	// ContentDeleted is fired after content, versions and files are removed
	ContentDeleted(ctx context.Context, contentID uuid.UUID) error
}

// NoopEventSink is a no-operation implementation of EventSink
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// ContentCreated does nothing and returns nil
func (n *NoopEventSink) ContentCreated(ctx context.Context, content *Content) error {
	return nil
}

// ContentUpdated does nothing and returns nil
func (n *NoopEventSink) ContentUpdated(ctx context.Context, content *Content) error {
	return nil
}

// ContentDeleted does nothing and returns nil
func (n *NoopEventSink) ContentDeleted(ctx context.Context, contentID uuid.UUID) error {
	return nil
}

// LoggingEventSink writes lifecycle events to a structured logger.
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates an event sink backed by the given logger.
// A nil logger falls back to slog.Default().
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

func (l *LoggingEventSink) ContentCreated(ctx context.Context, content *Content) error {
	l.logger.InfoContext(ctx, "content created",
		"content_id", content.ID.String(),
		"status", string(content.Status),
		"created_by", content.CreatedBy)
	return nil
}

func (l *LoggingEventSink) ContentUpdated(ctx context.Context, content *Content) error {
	l.logger.InfoContext(ctx, "content updated",
		"content_id", content.ID.String(),
		"status", string(content.Status))
	return nil
}

func (l *LoggingEventSink) ContentDeleted(ctx context.Context, contentID uuid.UUID) error {
	l.logger.InfoContext(ctx, "content deleted", "content_id", contentID.String())
	return nil
}
