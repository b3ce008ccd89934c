package events

import (
	"context"
	"fmt"
	"log/slog"
)

// LogPublisher stands in for the bus when NATS is not configured: each event
// is written at debug level under the subject it would have been published on.
type LogPublisher struct {
	prefix string
	logger *slog.Logger
}

var _ Publisher = (*LogPublisher)(nil)

func NewLogPublisher(prefix string, logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{prefix: prefix, logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, subject string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	attrs := append([]any{"subject", Subject(p.prefix, subject)}, eventAttrs(event)...)
	p.logger.DebugContext(ctx, "events.publish.local", attrs...)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

func eventAttrs(event any) []any {
	switch e := event.(type) {
	case RecordExtracted:
		return []any{"event_name", e.Record.EventName, "used_fallback", e.UsedFallback, "persisted", e.Persisted}
	case *RecordExtracted:
		return eventAttrs(*e)
	case EmailSent:
		return []any{"to", e.To, "ok", e.OK, "stage", e.Stage}
	case *EmailSent:
		return eventAttrs(*e)
	default:
		return []any{"type", fmt.Sprintf("%T", event)}
	}
}
