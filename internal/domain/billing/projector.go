package billing

import (
	"encoding/json"
	"time"

	"github.com/facturio/backend/internal/domain/shared/valueobject"
)

const exportDateLayout = "2006-01-02"

// ExportItem is the flat wire shape of one line item inside the
// JSON-encoded items channel
type ExportItem struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Amount      string `json:"amount"`
}

// ExportModel is the flat projection of a document consumed by the PDF
// template engine. Every value is a scalar; items and the two party
// snapshots are pre-serialized to JSON strings so the model can cross
// any channel that takes only flat values. Monetary values are rounded
// to the currency's minor unit here, at the export boundary, and
// nowhere earlier.
type ExportModel struct {
	DocumentID    string `json:"document_id"`
	Kind          string `json:"kind"`
	Number        string `json:"number"`
	Status        string `json:"status"`
	IssueDate     string `json:"issue_date"`
	DueDate       string `json:"due_date"`
	ClientName    string `json:"client_name"`
	ProjectID     string `json:"project_id,omitempty"`
	ProjectName   string `json:"project_name,omitempty"`
	Subtotal      string `json:"subtotal"`
	TaxRate       string `json:"tax_rate"`
	TaxAmount     string `json:"tax_amount"`
	Total         string `json:"total"`
	Currency      string `json:"currency"`
	Notes         string `json:"notes,omitempty"`
	PaymentTerms  string `json:"payment_terms,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
	PaidAt        string `json:"paid_at,omitempty"`
	ItemsJSON     string `json:"items"`
	ClientJSON    string `json:"client"`
	CompanyJSON   string `json:"company"`
}

// Project maps a document into its flat export model. It only reads the
// totals the calculator last produced and never recomputes them.
func Project(doc *FinancialDocument) (*ExportModel, error) {
	items := make([]ExportItem, len(doc.Items))
	for i, item := range doc.Items {
		items[i] = ExportItem{
			ID:          item.ID.String(),
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			UnitPrice:   item.UnitPrice.StringFixed(valueobject.MinorUnitPlaces),
			Amount:      item.Amount.StringFixed(valueobject.MinorUnitPlaces),
		}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	clientJSON, err := json.Marshal(doc.Client)
	if err != nil {
		return nil, err
	}
	companyJSON, err := json.Marshal(doc.CompanyDetails)
	if err != nil {
		return nil, err
	}

	model := &ExportModel{
		DocumentID:    doc.ID.String(),
		Kind:          string(doc.Kind),
		Number:        doc.Number,
		Status:        string(doc.Status),
		ClientName:    doc.Client.Name,
		ProjectName:   doc.ProjectName,
		Subtotal:      doc.Subtotal.StringFixed(valueobject.MinorUnitPlaces),
		TaxRate:       doc.TaxRate.String(),
		TaxAmount:     doc.TaxAmount.StringFixed(valueobject.MinorUnitPlaces),
		Total:         doc.Total.StringFixed(valueobject.MinorUnitPlaces),
		Currency:      string(doc.Currency),
		Notes:         doc.Notes,
		PaymentTerms:  doc.PaymentTerms,
		PaymentMethod: doc.PaymentMethod,
		ItemsJSON:     string(itemsJSON),
		ClientJSON:    string(clientJSON),
		CompanyJSON:   string(companyJSON),
	}

	if !doc.IssueDate.IsZero() {
		model.IssueDate = doc.IssueDate.Format(exportDateLayout)
	}
	if !doc.DueDate.IsZero() {
		model.DueDate = doc.DueDate.Format(exportDateLayout)
	}
	if doc.ProjectID != nil {
		model.ProjectID = doc.ProjectID.String()
	}
	if doc.PaidAt != nil {
		model.PaidAt = doc.PaidAt.Format(time.RFC3339)
	}

	return model, nil
}

// DecodeItems parses the JSON-encoded items channel back into line items
func (m *ExportModel) DecodeItems() ([]ExportItem, error) {
	if m.ItemsJSON == "" {
		return nil, nil
	}
	var items []ExportItem
	if err := json.Unmarshal([]byte(m.ItemsJSON), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// DecodeClient parses the JSON-encoded client snapshot
func (m *ExportModel) DecodeClient() (Party, error) {
	var party Party
	if m.ClientJSON == "" {
		return party, nil
	}
	err := json.Unmarshal([]byte(m.ClientJSON), &party)
	return party, err
}

// DecodeCompany parses the JSON-encoded issuer snapshot
func (m *ExportModel) DecodeCompany() (Party, error) {
	var party Party
	if m.CompanyJSON == "" {
		return party, nil
	}
	err := json.Unmarshal([]byte(m.CompanyJSON), &party)
	return party, err
}

