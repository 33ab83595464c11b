package billing

import (
	"strings"

	"github.com/facturio/backend/internal/domain/shared"
)

// ValidationReason identifies one completeness rule a document failed
type ValidationReason string

const (
	ReasonNumberRequired         ValidationReason = "number_required"
	ReasonIssueDateRequired      ValidationReason = "issue_date_required"
	ReasonDueDateRequired        ValidationReason = "due_date_required"
	ReasonDueDateBeforeIssueDate ValidationReason = "due_date_before_issue_date"
	ReasonClientRequired         ValidationReason = "client_required"
	ReasonItemsRequired          ValidationReason = "items_required"
	ReasonItemDescriptionEmpty   ValidationReason = "item_description_empty"
	ReasonItemQuantityInvalid    ValidationReason = "item_quantity_invalid"
	ReasonItemPriceInvalid       ValidationReason = "item_price_invalid"
)

// ValidationResult collects the reasons a document is not complete.
// A document with no reasons is valid.
type ValidationResult struct {
	Reasons []ValidationReason
}

// IsValid returns true if no rules failed
func (r ValidationResult) IsValid() bool {
	return len(r.Reasons) == 0
}

// Has returns true if a specific reason is present
func (r ValidationResult) Has(reason ValidationReason) bool {
	for _, got := range r.Reasons {
		if got == reason {
			return true
		}
	}
	return false
}

// Error converts the result into a domain error, or nil when valid
func (r ValidationResult) Error() error {
	if r.IsValid() {
		return nil
	}
	parts := make([]string, len(r.Reasons))
	for i, reason := range r.Reasons {
		parts[i] = string(reason)
	}
	return shared.NewDomainError("VALIDATION_FAILED", "Document is incomplete: "+strings.Join(parts, ", "))
}

// Validate checks that a document is complete enough to be persisted as
// non-draft or to leave draft status. It is side-effect free; callers
// decide whether to block the action or merely warn. The status machine
// itself never runs these checks.
func Validate(doc *FinancialDocument) ValidationResult {
	var result ValidationResult

	if strings.TrimSpace(doc.Number) == "" {
		result.Reasons = append(result.Reasons, ReasonNumberRequired)
	}
	if doc.IssueDate.IsZero() {
		result.Reasons = append(result.Reasons, ReasonIssueDateRequired)
	}
	if doc.DueDate.IsZero() {
		result.Reasons = append(result.Reasons, ReasonDueDateRequired)
	}
	if !doc.IssueDate.IsZero() && !doc.DueDate.IsZero() && doc.DueDate.Before(doc.IssueDate) {
		result.Reasons = append(result.Reasons, ReasonDueDateBeforeIssueDate)
	}
	if doc.Client.ID == nil || strings.TrimSpace(doc.Client.Name) == "" {
		result.Reasons = append(result.Reasons, ReasonClientRequired)
	}

	if len(doc.Items) == 0 {
		result.Reasons = append(result.Reasons, ReasonItemsRequired)
		return result
	}

	for _, item := range doc.Items {
		if strings.TrimSpace(item.Description) == "" {
			result.Reasons = append(result.Reasons, ReasonItemDescriptionEmpty)
			break
		}
	}
	for _, item := range doc.Items {
		if !item.Quantity.IsPositive() {
			result.Reasons = append(result.Reasons, ReasonItemQuantityInvalid)
			break
		}
	}
	for _, item := range doc.Items {
		if item.UnitPrice.IsNegative() {
			result.Reasons = append(result.Reasons, ReasonItemPriceInvalid)
			break
		}
	}

	return result
}
