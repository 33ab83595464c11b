package models

import (
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentModel is the persistence model for the FinancialDocument aggregate root.
// Invoices and quotes share one table, discriminated by the kind column.
type DocumentModel struct {
	AggregateModel
	Kind          billing.DocumentKind   `gorm:"type:varchar(10);not null;index:idx_documents_kind_number;index:idx_documents_kind_status"`
	Number        string                 `gorm:"type:varchar(50);index:idx_documents_kind_number"`
	IssueDate     *time.Time             `gorm:"index"`
	DueDate       *time.Time             `gorm:"index"`
	Status        billing.DocumentStatus `gorm:"type:varchar(20);not null;default:'draft';index:idx_documents_kind_status"`
	Client        billing.Party          `gorm:"embedded;embeddedPrefix:client_"`
	Company       billing.Party          `gorm:"embedded;embeddedPrefix:company_"`
	ProjectID     *uuid.UUID             `gorm:"type:uuid;index"`
	ProjectName   string                 `gorm:"type:varchar(200)"`
	Items         []LineItemModel        `gorm:"foreignKey:DocumentID"`
	Subtotal      decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate       decimal.Decimal        `gorm:"type:decimal(8,4);not null;default:0"`
	TaxAmount     decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Total         decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Notes         string                 `gorm:"type:text"`
	PaymentTerms  string                 `gorm:"type:varchar(500)"`
	PaymentMethod string                 `gorm:"type:varchar(100)"`
	Currency      valueobject.Currency   `gorm:"type:varchar(3);not null;default:'EUR'"`
	PaidAt        *time.Time
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the persistence model to a domain FinancialDocument.
func (m *DocumentModel) ToDomain() *billing.FinancialDocument {
	doc := &billing.FinancialDocument{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Kind:           m.Kind,
		Number:         m.Number,
		Status:         m.Status,
		Client:         m.Client,
		CompanyDetails: m.Company,
		ProjectID:      m.ProjectID,
		ProjectName:    m.ProjectName,
		Subtotal:       m.Subtotal,
		TaxRate:        m.TaxRate,
		TaxAmount:      m.TaxAmount,
		Total:          m.Total,
		Notes:          m.Notes,
		PaymentTerms:   m.PaymentTerms,
		PaymentMethod:  m.PaymentMethod,
		Currency:       m.Currency,
		PaidAt:         m.PaidAt,
	}

	if m.IssueDate != nil {
		doc.IssueDate = *m.IssueDate
	}
	if m.DueDate != nil {
		doc.DueDate = *m.DueDate
	}

	doc.Items = make([]billing.LineItem, len(m.Items))
	for i := range m.Items {
		doc.Items[i] = *m.Items[i].ToDomain()
	}

	return doc
}

// DocumentModelFromDomain converts a domain FinancialDocument to a persistence model.
func DocumentModelFromDomain(doc *billing.FinancialDocument) *DocumentModel {
	m := &DocumentModel{
		Kind:          doc.Kind,
		Number:        doc.Number,
		Status:        doc.Status,
		Client:        doc.Client,
		Company:       doc.CompanyDetails,
		ProjectID:     doc.ProjectID,
		ProjectName:   doc.ProjectName,
		Subtotal:      doc.Subtotal,
		TaxRate:       doc.TaxRate,
		TaxAmount:     doc.TaxAmount,
		Total:         doc.Total,
		Notes:         doc.Notes,
		PaymentTerms:  doc.PaymentTerms,
		PaymentMethod: doc.PaymentMethod,
		Currency:      doc.Currency,
		PaidAt:        doc.PaidAt,
	}
	m.FromDomainAggregateRoot(doc.BaseAggregateRoot)

	if !doc.IssueDate.IsZero() {
		issueDate := doc.IssueDate
		m.IssueDate = &issueDate
	}
	if !doc.DueDate.IsZero() {
		dueDate := doc.DueDate
		m.DueDate = &dueDate
	}

	m.Items = make([]LineItemModel, len(doc.Items))
	for i := range doc.Items {
		m.Items[i] = *LineItemModelFromDomain(&doc.Items[i])
	}

	return m
}

// LineItemModel is the persistence model for document line items.
type LineItemModel struct {
	BaseModel
	DocumentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Position    int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (LineItemModel) TableName() string {
	return "document_items"
}

// ToDomain converts the persistence model to a domain LineItem.
func (m *LineItemModel) ToDomain() *billing.LineItem {
	return &billing.LineItem{
		ID:          m.ID,
		DocumentID:  m.DocumentID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Amount:      m.Amount,
		Position:    m.Position,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// LineItemModelFromDomain converts a domain LineItem to a persistence model.
func LineItemModelFromDomain(item *billing.LineItem) *LineItemModel {
	return &LineItemModel{
		BaseModel: BaseModel{
			ID:        item.ID,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		},
		DocumentID:  item.DocumentID,
		Description: item.Description,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		Amount:      item.Amount,
		Position:    item.Position,
	}
}

// DocumentSequenceModel tracks the last allocated number per document kind and year.
type DocumentSequenceModel struct {
	ID        uint                 `gorm:"primaryKey;autoIncrement"`
	Kind      billing.DocumentKind `gorm:"type:varchar(10);not null;uniqueIndex:idx_document_sequences_kind_year,priority:1"`
	Year      int                  `gorm:"not null;uniqueIndex:idx_document_sequences_kind_year,priority:2"`
	Value     int                  `gorm:"not null;default:0"`
	CreatedAt time.Time            `gorm:"not null"`
	UpdatedAt time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}
