package event

import (
	"context"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditLogHandler writes an audit trail of document lifecycle events to
// the application log
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogHandler{logger: logger.Named("audit")}
}

// EventTypes lists the events this handler subscribes to
func (h *AuditLogHandler) EventTypes() []string {
	return []string{
		billing.EventTypeDocumentCreated,
		billing.EventTypeDocumentStatusChanged,
		billing.EventTypeDocumentExported,
	}
}

// Handle logs one audit entry per event
func (h *AuditLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *billing.DocumentCreatedEvent:
		fields = append(fields,
			zap.String("kind", string(e.Kind)),
			zap.String("number", e.Number))
	case *billing.DocumentStatusChangedEvent:
		fields = append(fields,
			zap.String("from", string(e.From)),
			zap.String("to", string(e.To)))
	case *billing.DocumentExportedEvent:
		fields = append(fields, zap.String("object_key", e.ObjectKey))
	}

	h.logger.Info("document event", fields...)
	return nil
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)
