package billing

import (
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartyInput carries a party snapshot in requests
type PartyInput struct {
	ID         *uuid.UUID `json:"id"`
	Name       string     `json:"name" binding:"required,min=1,max=200"`
	Address    string     `json:"address"`
	PostalCode string     `json:"postal_code"`
	City       string     `json:"city"`
	Country    string     `json:"country"`
	Email      string     `json:"email" binding:"omitempty,email"`
	Phone      string     `json:"phone"`
	VATNumber  string     `json:"vat_number"`
}

// LineItemInput represents one line item in create/update requests
type LineItemInput struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateDocumentRequest represents a request to create an invoice or quote
type CreateDocumentRequest struct {
	Number        string          `json:"number" binding:"omitempty,max=50"`
	IssueDate     *time.Time      `json:"issue_date"`
	DueDate       *time.Time      `json:"due_date"`
	Client        *PartyInput     `json:"client"`
	Company       *PartyInput     `json:"company"`
	ProjectID     *uuid.UUID      `json:"project_id"`
	ProjectName   string          `json:"project_name"`
	Items         []LineItemInput `json:"items"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Notes         string          `json:"notes"`
	PaymentTerms  string          `json:"payment_terms"`
	PaymentMethod string          `json:"payment_method"`
	Currency      string          `json:"currency" binding:"omitempty,len=3"`
}

// UpdateDocumentRequest represents a partial update of a draft document.
// A non-nil Items slice replaces the whole item list.
type UpdateDocumentRequest struct {
	Number        *string          `json:"number" binding:"omitempty,max=50"`
	IssueDate     *time.Time       `json:"issue_date"`
	DueDate       *time.Time       `json:"due_date"`
	Client        *PartyInput      `json:"client"`
	Company       *PartyInput      `json:"company"`
	ProjectID     *uuid.UUID       `json:"project_id"`
	ProjectName   *string          `json:"project_name"`
	Items         []LineItemInput  `json:"items"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	Notes         *string          `json:"notes"`
	PaymentTerms  *string          `json:"payment_terms"`
	PaymentMethod *string          `json:"payment_method"`
}

// ChangeStatusRequest represents a status transition request
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// DocumentListFilter represents filter options for document lists
type DocumentListFilter struct {
	Search    string     `form:"search"`
	ClientID  *uuid.UUID `form:"client_id"`
	ProjectID *uuid.UUID `form:"project_id"`
	Status    *string    `form:"status"`
	StartDate *time.Time `form:"start_date"`
	EndDate   *time.Time `form:"end_date"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by" binding:"omitempty,oneof=date amount client status"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PartyResponse represents a party snapshot in API responses
type PartyResponse struct {
	ID         *uuid.UUID `json:"id,omitempty"`
	Name       string     `json:"name"`
	Address    string     `json:"address,omitempty"`
	PostalCode string     `json:"postal_code,omitempty"`
	City       string     `json:"city,omitempty"`
	Country    string     `json:"country,omitempty"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	VATNumber  string     `json:"vat_number,omitempty"`
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	Position    int             `json:"position"`
}

// DocumentResponse represents a full document in API responses
type DocumentResponse struct {
	ID            uuid.UUID          `json:"id"`
	Kind          string             `json:"kind"`
	Number        string             `json:"number"`
	IssueDate     *time.Time         `json:"issue_date,omitempty"`
	DueDate       *time.Time         `json:"due_date,omitempty"`
	Status        string             `json:"status"`
	Client        PartyResponse      `json:"client"`
	Company       PartyResponse      `json:"company"`
	ProjectID     *uuid.UUID         `json:"project_id,omitempty"`
	ProjectName   string             `json:"project_name,omitempty"`
	Items         []LineItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	TaxRate       decimal.Decimal    `json:"tax_rate"`
	TaxAmount     decimal.Decimal    `json:"tax_amount"`
	Total         decimal.Decimal    `json:"total"`
	Notes         string             `json:"notes,omitempty"`
	PaymentTerms  string             `json:"payment_terms,omitempty"`
	PaymentMethod string             `json:"payment_method,omitempty"`
	Currency      string             `json:"currency"`
	PaidAt        *time.Time         `json:"paid_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Version       int                `json:"version"`
}

// DocumentListItemResponse represents a document in list responses
type DocumentListItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Kind        string          `json:"kind"`
	Number      string          `json:"number"`
	IssueDate   *time.Time      `json:"issue_date,omitempty"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Status      string          `json:"status"`
	ClientName  string          `json:"client_name"`
	ProjectName string          `json:"project_name,omitempty"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ValidationResponse reports the completeness of a document
type ValidationResponse struct {
	Valid   bool     `json:"valid"`
	Reasons []string `json:"reasons,omitempty"`
}

// StatusSummaryResponse reports per-status document counts for one kind
type StatusSummaryResponse struct {
	Kind   string           `json:"kind"`
	Total  int64            `json:"total"`
	Counts map[string]int64 `json:"counts"`
}

// ExportResponse describes a stored PDF artifact
type ExportResponse struct {
	DocumentID  uuid.UUID `json:"document_id"`
	Number      string    `json:"number"`
	ObjectKey   string    `json:"object_key"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
	SizeBytes   int       `json:"size_bytes"`
}

func toPartyInputParty(in *PartyInput) billing.Party {
	if in == nil {
		return billing.Party{}
	}
	return billing.Party{
		ID:         in.ID,
		Name:       in.Name,
		Address:    in.Address,
		PostalCode: in.PostalCode,
		City:       in.City,
		Country:    in.Country,
		Email:      in.Email,
		Phone:      in.Phone,
		VATNumber:  in.VATNumber,
	}
}

func toPartyResponse(p billing.Party) PartyResponse {
	return PartyResponse{
		ID:         p.ID,
		Name:       p.Name,
		Address:    p.Address,
		PostalCode: p.PostalCode,
		City:       p.City,
		Country:    p.Country,
		Email:      p.Email,
		Phone:      p.Phone,
		VATNumber:  p.VATNumber,
	}
}

// ToDocumentResponse converts a domain document to its API representation
func ToDocumentResponse(doc *billing.FinancialDocument) DocumentResponse {
	items := make([]LineItemResponse, len(doc.Items))
	for i, item := range doc.Items {
		items[i] = LineItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
			Position:    item.Position,
		}
	}

	resp := DocumentResponse{
		ID:            doc.ID,
		Kind:          string(doc.Kind),
		Number:        doc.Number,
		Status:        string(doc.Status),
		Client:        toPartyResponse(doc.Client),
		Company:       toPartyResponse(doc.CompanyDetails),
		ProjectID:     doc.ProjectID,
		ProjectName:   doc.ProjectName,
		Items:         items,
		Subtotal:      doc.Subtotal,
		TaxRate:       doc.TaxRate,
		TaxAmount:     doc.TaxAmount,
		Total:         doc.Total,
		Notes:         doc.Notes,
		PaymentTerms:  doc.PaymentTerms,
		PaymentMethod: doc.PaymentMethod,
		Currency:      string(doc.Currency),
		PaidAt:        doc.PaidAt,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
		Version:       doc.Version,
	}
	if !doc.IssueDate.IsZero() {
		issue := doc.IssueDate
		resp.IssueDate = &issue
	}
	if !doc.DueDate.IsZero() {
		due := doc.DueDate
		resp.DueDate = &due
	}
	return resp
}

// ToDocumentListItemResponse converts a domain document to its list representation
func ToDocumentListItemResponse(doc *billing.FinancialDocument) DocumentListItemResponse {
	resp := DocumentListItemResponse{
		ID:          doc.ID,
		Kind:        string(doc.Kind),
		Number:      doc.Number,
		Status:      string(doc.Status),
		ClientName:  doc.Client.Name,
		ProjectName: doc.ProjectName,
		Total:       doc.Total,
		Currency:    string(doc.Currency),
		PaidAt:      doc.PaidAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	if !doc.IssueDate.IsZero() {
		issue := doc.IssueDate
		resp.IssueDate = &issue
	}
	if !doc.DueDate.IsZero() {
		due := doc.DueDate
		resp.DueDate = &due
	}
	return resp
}

// ToDocumentListItemResponses converts a slice of documents
func ToDocumentListItemResponses(docs []billing.FinancialDocument) []DocumentListItemResponse {
	responses := make([]DocumentListItemResponse, len(docs))
	for i := range docs {
		responses[i] = ToDocumentListItemResponse(&docs[i])
	}
	return responses
}

// ToValidationResponse converts a domain validation result
func ToValidationResponse(result billing.ValidationResult) ValidationResponse {
	resp := ValidationResponse{Valid: result.IsValid()}
	for _, reason := range result.Reasons {
		resp.Reasons = append(resp.Reasons, string(reason))
	}
	return resp
}
