package billing

import (
	"fmt"
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem represents one billable row within a financial document
type LineItem struct {
	ID          uuid.UUID
	DocumentID  uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal // Quantity * UnitPrice, never edited directly
	Position    int             // display order, not meaningful for computation
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewLineItem creates a new line item with its amount derived
func NewLineItem(documentID uuid.UUID, description string, quantity, unitPrice decimal.Decimal, position int) (*LineItem, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Item description cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &LineItem{
		ID:          uuid.New(),
		DocumentID:  documentID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      ComputeLineAmount(quantity, unitPrice),
		Position:    position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateQuantity updates the item quantity and rederives the amount
func (i *LineItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	i.Quantity = quantity
	i.Amount = ComputeLineAmount(i.Quantity, i.UnitPrice)
	i.UpdatedAt = time.Now()
	return nil
}

// UpdateUnitPrice updates the unit price and rederives the amount
func (i *LineItem) UpdateUnitPrice(unitPrice decimal.Decimal) error {
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	i.UnitPrice = unitPrice
	i.Amount = ComputeLineAmount(i.Quantity, i.UnitPrice)
	i.UpdatedAt = time.Now()
	return nil
}

// UpdateDescription updates the item description
func (i *LineItem) UpdateDescription(description string) error {
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Item description cannot be empty")
	}
	i.Description = description
	i.UpdatedAt = time.Now()
	return nil
}

// FinancialDocument is the aggregate root shared by invoices and quotes.
// It owns the line items, the derived totals and the status machine.
type FinancialDocument struct {
	shared.BaseAggregateRoot
	Kind           DocumentKind
	Number         string
	IssueDate      time.Time
	DueDate        time.Time
	Status         DocumentStatus
	Client         Party
	CompanyDetails Party
	ProjectID      *uuid.UUID
	ProjectName    string
	Items          []LineItem
	Subtotal       decimal.Decimal
	TaxRate        decimal.Decimal // percent, e.g. 20 for 20% VAT
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
	Notes          string
	PaymentTerms   string
	PaymentMethod  string
	Currency       valueobject.Currency
	PaidAt         *time.Time // invoice only, set exactly once on entering paid
}

// NewFinancialDocument creates a new draft document with an empty item list
// and zero totals. Kind and currency are fixed for the document's lifetime.
func NewFinancialDocument(kind DocumentKind, currency valueobject.Currency) (*FinancialDocument, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", fmt.Sprintf("Unknown document kind %q", kind))
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency %q", currency))
	}

	doc := &FinancialDocument{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		Status:            StatusDraft,
		Items:             make([]LineItem, 0),
		Subtotal:          decimal.Zero,
		TaxRate:           decimal.Zero,
		TaxAmount:         decimal.Zero,
		Total:             decimal.Zero,
		Currency:          currency,
	}

	doc.AddDomainEvent(NewDocumentCreatedEvent(doc))

	return doc, nil
}

// CanModify returns true if the document content can still be edited
func (d *FinancialDocument) CanModify() bool {
	return d.Status == StatusDraft
}

// IsDraft returns true if the document is in draft status
func (d *FinancialDocument) IsDraft() bool {
	return d.Status == StatusDraft
}

// IsTerminal returns true if the document reached a terminal status
func (d *FinancialDocument) IsTerminal() bool {
	return d.Status.IsTerminalFor(d.Kind)
}

// SetNumber sets the human-readable document number
func (d *FinancialDocument) SetNumber(number string) error {
	if !d.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot renumber a non-draft document")
	}
	if len(number) > 50 {
		return shared.NewDomainError("INVALID_NUMBER", "Document number cannot exceed 50 characters")
	}
	d.Number = number
	d.UpdatedAt = time.Now()
	return nil
}

// SetDates sets issue and due dates. The due date must not precede the
// issue date.
func (d *FinancialDocument) SetDates(issueDate, dueDate time.Time) error {
	if !d.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change dates of a non-draft document")
	}
	if !issueDate.IsZero() && !dueDate.IsZero() && dueDate.Before(issueDate) {
		return shared.NewDomainError("INVALID_DATES", "Due date cannot be before issue date")
	}
	d.IssueDate = issueDate
	d.DueDate = dueDate
	d.UpdatedAt = time.Now()
	return nil
}

// SetClient replaces the embedded client snapshot
func (d *FinancialDocument) SetClient(client Party) error {
	if !d.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change client of a non-draft document")
	}
	d.Client = client
	d.UpdatedAt = time.Now()
	return nil
}

// SetCompanyDetails replaces the embedded issuer snapshot
func (d *FinancialDocument) SetCompanyDetails(company Party) error {
	if !d.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change issuer of a non-draft document")
	}
	d.CompanyDetails = company
	d.UpdatedAt = time.Now()
	return nil
}

// SetProject sets the optional project association with a denormalized name
func (d *FinancialDocument) SetProject(projectID *uuid.UUID, projectName string) error {
	if !d.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change project of a non-draft document")
	}
	d.ProjectID = projectID
	d.ProjectName = projectName
	d.UpdatedAt = time.Now()
	return nil
}

// SetNotes sets the free-text notes
func (d *FinancialDocument) SetNotes(notes string) {
	d.Notes = notes
	d.UpdatedAt = time.Now()
}

// SetPaymentTerms sets the free-text payment terms
func (d *FinancialDocument) SetPaymentTerms(terms string) {
	d.PaymentTerms = terms
	d.UpdatedAt = time.Now()
}

// SetPaymentMethod sets the free-text payment method
func (d *FinancialDocument) SetPaymentMethod(method string) {
	d.PaymentMethod = method
	d.UpdatedAt = time.Now()
}

// SetTaxRate sets the tax rate in percent and rederives the totals
func (d *FinancialDocument) SetTaxRate(taxRate decimal.Decimal) error {
	if !d.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change tax rate of a non-draft document")
	}
	if taxRate.IsNegative() {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}
	d.TaxRate = taxRate
	d.recalculateTotals()
	d.UpdatedAt = time.Now()
	return nil
}

// AddItem appends a new line item and rederives the totals.
// Only allowed in draft status.
func (d *FinancialDocument) AddItem(description string, quantity, unitPrice decimal.Decimal) (*LineItem, error) {
	if !d.CanModify() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft document")
	}

	item, err := NewLineItem(d.ID, description, quantity, unitPrice, len(d.Items))
	if err != nil {
		return nil, err
	}

	d.Items = append(d.Items, *item)
	d.recalculateTotals()
	d.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing item
func (d *FinancialDocument) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if !d.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items of a non-draft document")
	}
	for idx := range d.Items {
		if d.Items[idx].ID == itemID {
			if err := d.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			d.recalculateTotals()
			d.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
}

// UpdateItemPrice updates the unit price of an existing item
func (d *FinancialDocument) UpdateItemPrice(itemID uuid.UUID, unitPrice decimal.Decimal) error {
	if !d.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items of a non-draft document")
	}
	for idx := range d.Items {
		if d.Items[idx].ID == itemID {
			if err := d.Items[idx].UpdateUnitPrice(unitPrice); err != nil {
				return err
			}
			d.recalculateTotals()
			d.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
}

// UpdateItemDescription updates the description of an existing item
func (d *FinancialDocument) UpdateItemDescription(itemID uuid.UUID, description string) error {
	if !d.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items of a non-draft document")
	}
	for idx := range d.Items {
		if d.Items[idx].ID == itemID {
			if err := d.Items[idx].UpdateDescription(description); err != nil {
				return err
			}
			d.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
}

// RemoveItem removes a line item and rederives the totals
func (d *FinancialDocument) RemoveItem(itemID uuid.UUID) error {
	if !d.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft document")
	}
	for idx, item := range d.Items {
		if item.ID == itemID {
			d.Items = append(d.Items[:idx], d.Items[idx+1:]...)
			for pos := range d.Items {
				d.Items[pos].Position = pos
			}
			d.recalculateTotals()
			d.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
}

// GetItem returns a line item by its ID
func (d *FinancialDocument) GetItem(itemID uuid.UUID) *LineItem {
	for idx := range d.Items {
		if d.Items[idx].ID == itemID {
			return &d.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of line items
func (d *FinancialDocument) ItemCount() int {
	return len(d.Items)
}

// recalculateTotals rederives the document totals from the item list and
// tax rate. It is the single place derived fields are written.
func (d *FinancialDocument) recalculateTotals() {
	totals := ComputeTotals(d.Items, d.TaxRate)
	d.Subtotal = totals.Subtotal
	d.TaxAmount = totals.TaxAmount
	d.Total = totals.Total
}

// Transition moves the document to a new status. A same-status transition
// is a no-op success. Disallowed pairs fail loudly with INVALID_TRANSITION;
// the machine never silently coerces status. Entering paid on an invoice
// stamps PaidAt once. Business completeness (items, client, number) is the
// validator's concern and is enforced by callers before leaving draft.
func (d *FinancialDocument) Transition(target DocumentStatus) error {
	if d.Status == target {
		return nil
	}
	if !CanTransition(d.Kind, d.Status, target) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition %s from %s to %s", d.Kind, d.Status, target))
	}

	now := time.Now()
	from := d.Status
	d.Status = target
	if d.Kind == KindInvoice && target == StatusPaid && d.PaidAt == nil {
		d.PaidAt = &now
	}
	d.UpdatedAt = now

	d.AddDomainEvent(NewDocumentStatusChangedEvent(d, from))

	return nil
}

// Send marks the document as sent
func (d *FinancialDocument) Send() error {
	return d.Transition(StatusSent)
}

// MarkPaid marks an invoice as paid
func (d *FinancialDocument) MarkPaid() error {
	return d.Transition(StatusPaid)
}

// MarkOverdue marks an invoice as overdue. This is a manual action; the
// system never flips the status on a timer when the due date passes.
func (d *FinancialDocument) MarkOverdue() error {
	return d.Transition(StatusOverdue)
}

// Cancel cancels an invoice
func (d *FinancialDocument) Cancel() error {
	return d.Transition(StatusCancelled)
}

// Accept marks a quote as accepted
func (d *FinancialDocument) Accept() error {
	return d.Transition(StatusAccepted)
}

// Reject marks a quote as rejected
func (d *FinancialDocument) Reject() error {
	return d.Transition(StatusRejected)
}

// Expire marks a quote as expired
func (d *FinancialDocument) Expire() error {
	return d.Transition(StatusExpired)
}

// ConvertToInvoice creates a new draft invoice from an accepted quote,
// carrying over items, party snapshots, currency and payment fields. The
// quote itself is left untouched; the invoice gets fresh identifiers and
// no number until one is assigned.
func (d *FinancialDocument) ConvertToInvoice() (*FinancialDocument, error) {
	if d.Kind != KindQuote {
		return nil, shared.NewDomainError("INVALID_KIND", "Only quotes can be converted to invoices")
	}
	if d.Status != StatusAccepted {
		return nil, shared.NewDomainError("INVALID_STATE", "Only accepted quotes can be converted to invoices")
	}

	invoice, err := NewFinancialDocument(KindInvoice, d.Currency)
	if err != nil {
		return nil, err
	}

	invoice.Client = d.Client
	invoice.CompanyDetails = d.CompanyDetails
	invoice.ProjectID = d.ProjectID
	invoice.ProjectName = d.ProjectName
	invoice.TaxRate = d.TaxRate
	invoice.Notes = d.Notes
	invoice.PaymentTerms = d.PaymentTerms
	invoice.PaymentMethod = d.PaymentMethod

	for _, item := range d.Items {
		if _, err := invoice.AddItem(item.Description, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}

	return invoice, nil
}

// SubtotalMoney returns the subtotal as Money
func (d *FinancialDocument) SubtotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(d.Subtotal, d.Currency)
	return m
}

// TaxAmountMoney returns the tax amount as Money
func (d *FinancialDocument) TaxAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(d.TaxAmount, d.Currency)
	return m
}

// TotalMoney returns the total as Money
func (d *FinancialDocument) TotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(d.Total, d.Currency)
	return m
}
