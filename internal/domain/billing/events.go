package billing

import (
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeFinancialDocument = "FinancialDocument"

// Event type constants
const (
	EventTypeDocumentCreated       = "DocumentCreated"
	EventTypeDocumentStatusChanged = "DocumentStatusChanged"
	EventTypeDocumentExported      = "DocumentExported"
)

// DocumentCreatedEvent is raised when a new document is created
type DocumentCreatedEvent struct {
	shared.BaseDomainEvent
	DocumentID uuid.UUID    `json:"document_id"`
	Kind       DocumentKind `json:"kind"`
	Number     string       `json:"number"`
	Currency   string       `json:"currency"`
}

// NewDocumentCreatedEvent creates a new DocumentCreatedEvent
func NewDocumentCreatedEvent(doc *FinancialDocument) *DocumentCreatedEvent {
	return &DocumentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentCreated, AggregateTypeFinancialDocument, doc.ID),
		DocumentID:      doc.ID,
		Kind:            doc.Kind,
		Number:          doc.Number,
		Currency:        string(doc.Currency),
	}
}

// EventType returns the event type name
func (e *DocumentCreatedEvent) EventType() string {
	return EventTypeDocumentCreated
}

// DocumentStatusChangedEvent is raised on every effective status
// transition. Same-status no-ops do not produce an event.
type DocumentStatusChangedEvent struct {
	shared.BaseDomainEvent
	DocumentID uuid.UUID       `json:"document_id"`
	Kind       DocumentKind    `json:"kind"`
	Number     string          `json:"number"`
	ClientName string          `json:"client_name"`
	From       DocumentStatus  `json:"from"`
	To         DocumentStatus  `json:"to"`
	Total      decimal.Decimal `json:"total"`
}

// NewDocumentStatusChangedEvent creates a new DocumentStatusChangedEvent
func NewDocumentStatusChangedEvent(doc *FinancialDocument, from DocumentStatus) *DocumentStatusChangedEvent {
	return &DocumentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentStatusChanged, AggregateTypeFinancialDocument, doc.ID),
		DocumentID:      doc.ID,
		Kind:            doc.Kind,
		Number:          doc.Number,
		ClientName:      doc.Client.Name,
		From:            from,
		To:              doc.Status,
		Total:           doc.Total,
	}
}

// EventType returns the event type name
func (e *DocumentStatusChangedEvent) EventType() string {
	return EventTypeDocumentStatusChanged
}

// DocumentExportedEvent is raised when a document artifact is produced,
// for example a rendered PDF uploaded to object storage
type DocumentExportedEvent struct {
	shared.BaseDomainEvent
	DocumentID uuid.UUID    `json:"document_id"`
	Kind       DocumentKind `json:"kind"`
	Number     string       `json:"number"`
	ObjectKey  string       `json:"object_key"`
}

// NewDocumentExportedEvent creates a new DocumentExportedEvent
func NewDocumentExportedEvent(doc *FinancialDocument, objectKey string) *DocumentExportedEvent {
	return &DocumentExportedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentExported, AggregateTypeFinancialDocument, doc.ID),
		DocumentID:      doc.ID,
		Kind:            doc.Kind,
		Number:          doc.Number,
		ObjectKey:       objectKey,
	}
}

// EventType returns the event type name
func (e *DocumentExportedEvent) EventType() string {
	return EventTypeDocumentExported
}
