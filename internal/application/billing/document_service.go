package billing

import (
	"context"
	"fmt"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// numberPrefixes maps a document kind to its number prefix
var numberPrefixes = map[billing.DocumentKind]string{
	billing.KindInvoice: "FAC",
	billing.KindQuote:   "DEV",
}

// DocumentService handles invoice and quote business operations
type DocumentService struct {
	repo           billing.DocumentRepository
	eventPublisher shared.EventPublisher
	companyDefault billing.Party
	logger         *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(repo billing.DocumentRepository, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		repo:   repo,
		logger: logger,
	}
}

// SetEventPublisher sets the event publisher for integrations
func (s *DocumentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetCompanyDefault sets the issuer snapshot stamped onto new documents
// when the request carries none
func (s *DocumentService) SetCompanyDefault(company billing.Party) {
	s.companyDefault = company
}

// Create creates a new draft document. When the request carries no number
// one is generated from the per-kind yearly sequence.
func (s *DocumentService) Create(ctx context.Context, kind billing.DocumentKind, req CreateDocumentRequest) (*DocumentResponse, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown document kind")
	}

	doc, err := billing.NewFinancialDocument(kind, valueobject.Currency(req.Currency))
	if err != nil {
		return nil, err
	}

	number := req.Number
	if number == "" {
		year := doc.CreatedAt.Year()
		if req.IssueDate != nil {
			year = req.IssueDate.Year()
		}
		if number, err = s.generateNumber(ctx, kind, year); err != nil {
			return nil, err
		}
	} else {
		exists, err := s.repo.ExistsByNumber(ctx, kind, number)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("A %s numbered %s already exists", kind, number))
		}
	}
	if err := doc.SetNumber(number); err != nil {
		return nil, err
	}

	if err := s.applyContent(doc, req); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, doc); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, doc)
	s.logger.Info("document created",
		zap.String("id", doc.ID.String()),
		zap.String("kind", string(doc.Kind)),
		zap.String("number", doc.Number))

	response := ToDocumentResponse(doc)
	return &response, nil
}

func (s *DocumentService) applyContent(doc *billing.FinancialDocument, req CreateDocumentRequest) error {
	if req.IssueDate != nil || req.DueDate != nil {
		issue := doc.IssueDate
		due := doc.DueDate
		if req.IssueDate != nil {
			issue = *req.IssueDate
		}
		if req.DueDate != nil {
			due = *req.DueDate
		}
		if err := doc.SetDates(issue, due); err != nil {
			return err
		}
	}
	if req.Client != nil {
		if err := doc.SetClient(toPartyInputParty(req.Client)); err != nil {
			return err
		}
	}
	if req.Company != nil {
		if err := doc.SetCompanyDetails(toPartyInputParty(req.Company)); err != nil {
			return err
		}
	} else if s.companyDefault.Name != "" {
		if err := doc.SetCompanyDetails(s.companyDefault); err != nil {
			return err
		}
	}
	if req.ProjectID != nil || req.ProjectName != "" {
		if err := doc.SetProject(req.ProjectID, req.ProjectName); err != nil {
			return err
		}
	}
	if err := doc.SetTaxRate(req.TaxRate); err != nil {
		return err
	}
	for _, item := range req.Items {
		if _, err := doc.AddItem(item.Description, item.Quantity, item.UnitPrice); err != nil {
			return err
		}
	}
	doc.SetNotes(req.Notes)
	doc.SetPaymentTerms(req.PaymentTerms)
	doc.SetPaymentMethod(req.PaymentMethod)
	return nil
}

func (s *DocumentService) generateNumber(ctx context.Context, kind billing.DocumentKind, year int) (string, error) {
	seq, err := s.repo.NextSequence(ctx, kind, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%04d", numberPrefixes[kind], year, seq), nil
}

// GetByID retrieves a document by ID
func (s *DocumentService) GetByID(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc)
	return &response, nil
}

// GetByNumber retrieves a document by its number within a kind
func (s *DocumentService) GetByNumber(ctx context.Context, kind billing.DocumentKind, number string) (*DocumentResponse, error) {
	doc, err := s.repo.FindByNumber(ctx, kind, number)
	if err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc)
	return &response, nil
}

// List retrieves documents of one kind with filtering and pagination
func (s *DocumentService) List(ctx context.Context, kind billing.DocumentKind, filter DocumentListFilter) ([]DocumentListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.ClientID != nil {
		domainFilter.Filters["client_id"] = *filter.ClientID
	}
	if filter.ProjectID != nil {
		domainFilter.Filters["project_id"] = *filter.ProjectID
	}
	if filter.Status != nil {
		status := billing.DocumentStatus(*filter.Status)
		if !status.IsValidFor(kind) {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown %s status %q", kind, *filter.Status))
		}
		domainFilter.Filters["status"] = string(status)
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	docs, err := s.repo.FindAll(ctx, kind, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, kind, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToDocumentListItemResponses(docs), total, nil
}

// Update applies a partial update to a draft document. A non-nil item
// slice replaces the current item list. Kind can never change.
func (s *DocumentService) Update(ctx context.Context, id uuid.UUID, req UpdateDocumentRequest) (*DocumentResponse, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !doc.CanModify() {
		return nil, shared.NewDomainError("INVALID_STATE", "Document can only be modified in draft status")
	}

	if req.Number != nil && *req.Number != doc.Number {
		exists, err := s.repo.ExistsByNumber(ctx, doc.Kind, *req.Number)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("A %s numbered %s already exists", doc.Kind, *req.Number))
		}
		if err := doc.SetNumber(*req.Number); err != nil {
			return nil, err
		}
	}
	if req.IssueDate != nil || req.DueDate != nil {
		issue := doc.IssueDate
		due := doc.DueDate
		if req.IssueDate != nil {
			issue = *req.IssueDate
		}
		if req.DueDate != nil {
			due = *req.DueDate
		}
		if err := doc.SetDates(issue, due); err != nil {
			return nil, err
		}
	}
	if req.Client != nil {
		if err := doc.SetClient(toPartyInputParty(req.Client)); err != nil {
			return nil, err
		}
	}
	if req.Company != nil {
		if err := doc.SetCompanyDetails(toPartyInputParty(req.Company)); err != nil {
			return nil, err
		}
	}
	if req.ProjectID != nil || req.ProjectName != nil {
		projectID := doc.ProjectID
		projectName := doc.ProjectName
		if req.ProjectID != nil {
			projectID = req.ProjectID
		}
		if req.ProjectName != nil {
			projectName = *req.ProjectName
		}
		if err := doc.SetProject(projectID, projectName); err != nil {
			return nil, err
		}
	}
	if req.TaxRate != nil {
		if err := doc.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.Items != nil {
		for len(doc.Items) > 0 {
			if err := doc.RemoveItem(doc.Items[0].ID); err != nil {
				return nil, err
			}
		}
		for _, item := range req.Items {
			if _, err := doc.AddItem(item.Description, item.Quantity, item.UnitPrice); err != nil {
				return nil, err
			}
		}
	}
	if req.Notes != nil {
		doc.SetNotes(*req.Notes)
	}
	if req.PaymentTerms != nil {
		doc.SetPaymentTerms(*req.PaymentTerms)
	}
	if req.PaymentMethod != nil {
		doc.SetPaymentMethod(*req.PaymentMethod)
	}

	if err := s.repo.SaveWithLock(ctx, doc); err != nil {
		return nil, err
	}

	response := ToDocumentResponse(doc)
	return &response, nil
}

// Delete deletes a document. Deleting an unknown ID surfaces NOT_FOUND.
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("document deleted", zap.String("id", id.String()))
	return nil
}

// Validate reports whether a document is complete enough to leave draft
func (s *DocumentService) Validate(ctx context.Context, id uuid.UUID) (*ValidationResponse, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToValidationResponse(billing.Validate(doc))
	return &response, nil
}

// ChangeStatus transitions a document to a new status. Leaving draft is
// gated by the validator; the transition itself is checked by the status
// machine.
func (s *DocumentService) ChangeStatus(ctx context.Context, id uuid.UUID, target billing.DocumentStatus) (*DocumentResponse, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if doc.Status == billing.StatusDraft && target != billing.StatusDraft {
		if result := billing.Validate(doc); !result.IsValid() {
			return nil, result.Error()
		}
	}

	if err := doc.Transition(target); err != nil {
		return nil, err
	}

	if err := s.repo.SaveWithLock(ctx, doc); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, doc)
	s.logger.Info("document status changed",
		zap.String("id", doc.ID.String()),
		zap.String("status", string(doc.Status)))

	response := ToDocumentResponse(doc)
	return &response, nil
}

// ConvertQuote creates a draft invoice from an accepted quote and assigns
// it a fresh invoice number
func (s *DocumentService) ConvertQuote(ctx context.Context, quoteID uuid.UUID) (*DocumentResponse, error) {
	quote, err := s.repo.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	invoice, err := quote.ConvertToInvoice()
	if err != nil {
		return nil, err
	}

	number, err := s.generateNumber(ctx, billing.KindInvoice, invoice.CreatedAt.Year())
	if err != nil {
		return nil, err
	}
	if err := invoice.SetNumber(number); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)
	s.logger.Info("quote converted to invoice",
		zap.String("quote_id", quote.ID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.Number))

	response := ToDocumentResponse(invoice)
	return &response, nil
}

// StatusSummary returns per-status document counts for one kind
func (s *DocumentService) StatusSummary(ctx context.Context, kind billing.DocumentKind) (*StatusSummaryResponse, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown document kind")
	}

	counts, err := s.repo.CountByStatus(ctx, kind)
	if err != nil {
		return nil, err
	}

	resp := &StatusSummaryResponse{
		Kind:   string(kind),
		Counts: make(map[string]int64),
	}
	for _, status := range billing.StatusesFor(kind) {
		resp.Counts[string(status)] = counts[status]
		resp.Total += counts[status]
	}
	return resp, nil
}

func (s *DocumentService) publishEvents(ctx context.Context, doc *billing.FinancialDocument) {
	if s.eventPublisher == nil {
		doc.ClearDomainEvents()
		return
	}
	for _, event := range doc.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	doc.ClearDomainEvents()
}
