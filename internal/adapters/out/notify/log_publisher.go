package notify

import (
	"context"
	"log/slog"
)

// LogPublisher implements ports.LivePublisher by logging live updates. The
// publish step after a completed delivery is best-effort; callers log and
// swallow failures, so a log sink is a valid production default until a real
// push channel exists.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a log-backed live update publisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{
		logger: logger.With("component", "live_publisher"),
	}
}

// Publish logs the update and always succeeds.
func (p *LogPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	p.logger.InfoContext(ctx, "live update published",
		"topic", topic,
		"payload", string(payload),
	)
	return nil
}
