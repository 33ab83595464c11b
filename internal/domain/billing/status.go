package billing

// DocumentKind discriminates between the two concrete financial documents.
// The kind is fixed at creation and never changes.
type DocumentKind string

const (
	KindInvoice DocumentKind = "invoice"
	KindQuote   DocumentKind = "quote"
)

// IsValid checks if the kind is a known DocumentKind
func (k DocumentKind) IsValid() bool {
	return k == KindInvoice || k == KindQuote
}

// String returns the string representation of DocumentKind
func (k DocumentKind) String() string {
	return string(k)
}

// DocumentStatus represents the lifecycle status of a financial document.
// Invoices and quotes share the machine shape but use different vocabularies.
type DocumentStatus string

const (
	StatusDraft DocumentStatus = "draft"
	StatusSent  DocumentStatus = "sent"

	// Invoice-only statuses
	StatusPaid      DocumentStatus = "paid"
	StatusOverdue   DocumentStatus = "overdue"
	StatusCancelled DocumentStatus = "cancelled"

	// Quote-only statuses
	StatusAccepted DocumentStatus = "accepted"
	StatusRejected DocumentStatus = "rejected"
	StatusExpired  DocumentStatus = "expired"
)

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// transitions is the per-kind transition table. A missing target means the
// transition is rejected. Overdue is reached from sent by an explicit user
// action only; there is no timer watching due dates, and once overdue the
// document has no further moves.
var transitions = map[DocumentKind]map[DocumentStatus][]DocumentStatus{
	KindInvoice: {
		StatusDraft:     {StatusSent},
		StatusSent:      {StatusPaid, StatusOverdue, StatusCancelled},
		StatusOverdue:   {},
		StatusPaid:      {},
		StatusCancelled: {},
	},
	KindQuote: {
		StatusDraft:    {StatusSent},
		StatusSent:     {StatusAccepted, StatusRejected, StatusExpired},
		StatusAccepted: {},
		StatusRejected: {},
		StatusExpired:  {},
	},
}

// StatusesFor returns the valid status vocabulary for a document kind,
// in lifecycle order.
func StatusesFor(kind DocumentKind) []DocumentStatus {
	switch kind {
	case KindInvoice:
		return []DocumentStatus{StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled}
	case KindQuote:
		return []DocumentStatus{StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusExpired}
	}
	return nil
}

// IsValidFor checks whether the status belongs to the kind's vocabulary
func (s DocumentStatus) IsValidFor(kind DocumentKind) bool {
	for _, valid := range StatusesFor(kind) {
		if s == valid {
			return true
		}
	}
	return false
}

// CanTransition reports whether a document of the given kind may move from
// one status to another. A same-status transition is always allowed (no-op).
func CanTransition(kind DocumentKind, from, to DocumentStatus) bool {
	if from == to {
		return from.IsValidFor(kind)
	}
	targets, ok := transitions[kind][from]
	if !ok {
		return false
	}
	for _, target := range targets {
		if target == to {
			return true
		}
	}
	return false
}

// IsTerminalFor reports whether the status is terminal for the kind
func (s DocumentStatus) IsTerminalFor(kind DocumentKind) bool {
	targets, ok := transitions[kind][s]
	return ok && len(targets) == 0
}
