package driven

import (
	"context"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

// Notifier delivers operator notifications. Sending is best-effort.
type Notifier interface {
	Send(ctx context.Context, n domain.Notification) error
}

// AuditSink records flow responses for audit, one write per event.
type AuditSink interface {
	Record(ctx context.Context, event domain.AuditEvent) error
	Close() error
}

// MetricsRecorder publishes counters describing a finished run.
type MetricsRecorder interface {
	RecordRun(ctx context.Context, summary domain.RunSummary) error
}
