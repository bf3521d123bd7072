// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"

	"github.com/bookworks/middleoffice/internal/app/store/audit"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Validation controls logging for validation lifecycle events
	// (request created, decision recorded, decision refused).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Validation string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}

	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if event.BookID != "" {
		fields = append(fields, zap.String("book_id", event.BookID))
	}
	if event.ValidatorID != "" {
		fields = append(fields, zap.String("validator_id", event.ValidatorID))
	}
	if event.Actor != "" {
		fields = append(fields, zap.String("actor", event.Actor))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
// Logging destination is controlled by config: "all", "db", "log", or "off".
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := l.config.Validation
	if setting == "" {
		setting = "all"
	}
	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// RequestCreated logs the opening of a validation request.
func (l *Logger) RequestCreated(ctx context.Context, requestID, bookID, templateID, createdBy string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryValidation,
		EventType: audit.EventRequestCreated,
		RequestID: requestID,
		BookID:    bookID,
		Actor:     createdBy,
		Success:   true,
		Details: map[string]string{
			"template_id": templateID,
		},
	})
}

// DecisionRecorded logs an accepted validator decision and the resulting
// global status.
func (l *Logger) DecisionRecorded(ctx context.Context, requestID, validatorID, decidedBy, decision, globalStatus string) {
	l.Log(ctx, audit.Event{
		Category:    audit.CategoryValidation,
		EventType:   audit.EventDecisionRecorded,
		RequestID:   requestID,
		ValidatorID: validatorID,
		Actor:       decidedBy,
		Success:     true,
		Details: map[string]string{
			"decision":      decision,
			"global_status": globalStatus,
		},
	})
}

// DecisionRefused logs a decision the state machine turned away.
func (l *Logger) DecisionRefused(ctx context.Context, requestID, validatorID, decidedBy, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryValidation,
		EventType:     audit.EventDecisionRejected,
		RequestID:     requestID,
		ValidatorID:   validatorID,
		Actor:         decidedBy,
		Success:       false,
		FailureReason: reason,
	})
}
