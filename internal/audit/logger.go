package audit

import (
	"context"
	"log/slog"

	"a2admin/pkg/requestcontext"
)

// Emitter is satisfied by *Publisher.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Logger writes an audit line to the structured log and, when an emitter is
// configured, persists the same event.
type Logger struct {
	textLogger *slog.Logger
	emitter    Emitter
}

// NewLogger creates an audit logger. emitter may be nil.
func NewLogger(textLogger *slog.Logger, emitter Emitter) *Logger {
	return &Logger{textLogger: textLogger, emitter: emitter}
}

// Log records event. The actor and request id are taken from ctx; extra
// attributes only go to the text log.
//
//	logger.Log(ctx, audit.Event{Action: string(audit.EventTenantSuspended), TenantID: id})
func (l *Logger) Log(ctx context.Context, event Event, attributes ...any) {
	if l == nil {
		return
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ActorID == "" {
		if p, ok := requestcontext.PrincipalFrom(ctx); ok {
			event.ActorID = p.ID.String()
		}
	}
	if event.Outcome == "" {
		event.Outcome = OutcomeSuccess
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}

	l.logToText(ctx, event, attributes)
	l.emit(ctx, event)
}

func (l *Logger) logToText(ctx context.Context, event Event, attributes []any) {
	if l.textLogger == nil {
		return
	}
	args := append(attributes,
		"event", event.Action,
		"log_type", "audit",
		"outcome", event.Outcome,
	)
	if event.TenantID != "" {
		args = append(args, "tenant_id", event.TenantID)
	}
	if event.ActorID != "" {
		args = append(args, "actor_id", event.ActorID)
	}
	if event.RequestID != "" {
		args = append(args, "request_id", event.RequestID)
	}
	if event.Reason != "" {
		args = append(args, "reason", event.Reason)
	}
	level := slog.LevelInfo
	if event.Outcome == OutcomeFailure {
		level = slog.LevelWarn
	}
	l.textLogger.Log(ctx, level, event.Action, args...)
}

func (l *Logger) emit(ctx context.Context, event Event) {
	if l.emitter == nil {
		return
	}
	if err := l.emitter.Emit(ctx, event); err != nil && l.textLogger != nil {
		l.textLogger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"event", event.Action,
		)
	}
}
