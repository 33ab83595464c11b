package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDocumentRepository is a mock implementation of billing.DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.FinancialDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.FinancialDocument), args.Error(1)
}

func (m *MockDocumentRepository) FindByNumber(ctx context.Context, kind billing.DocumentKind, number string) (*billing.FinancialDocument, error) {
	args := m.Called(ctx, kind, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.FinancialDocument), args.Error(1)
}

func (m *MockDocumentRepository) FindAll(ctx context.Context, kind billing.DocumentKind, filter shared.Filter) ([]billing.FinancialDocument, error) {
	args := m.Called(ctx, kind, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.FinancialDocument), args.Error(1)
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *billing.FinancialDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) SaveWithLock(ctx context.Context, doc *billing.FinancialDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) Count(ctx context.Context, kind billing.DocumentKind, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, kind, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) CountByStatus(ctx context.Context, kind billing.DocumentKind) (map[billing.DocumentStatus]int64, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[billing.DocumentStatus]int64), args.Error(1)
}

func (m *MockDocumentRepository) ExistsByNumber(ctx context.Context, kind billing.DocumentKind, number string) (bool, error) {
	args := m.Called(ctx, kind, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) NextSequence(ctx context.Context, kind billing.DocumentKind, year int) (int, error) {
	args := m.Called(ctx, kind, year)
	return args.Int(0), args.Error(1)
}

var _ billing.DocumentRepository = (*MockDocumentRepository)(nil)

// Test helpers

func newCompleteDocument(t *testing.T, kind billing.DocumentKind, number string) *billing.FinancialDocument {
	t.Helper()

	doc, err := billing.NewFinancialDocument(kind, valueobject.EUR)
	require.NoError(t, err)
	require.NoError(t, doc.SetNumber(number))

	issue := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, doc.SetDates(issue, issue.AddDate(0, 1, 0)))

	clientID := uuid.New()
	require.NoError(t, doc.SetClient(billing.Party{ID: &clientID, Name: "Martin & Fils"}))

	_, err = doc.AddItem("Développement", decimal.NewFromInt(3), decimal.NewFromInt(400))
	require.NoError(t, err)
	require.NoError(t, doc.SetTaxRate(decimal.NewFromInt(20)))

	doc.ClearDomainEvents()
	return doc
}

func completeCreateRequest() CreateDocumentRequest {
	clientID := uuid.New()
	issue := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 1, 0)
	return CreateDocumentRequest{
		IssueDate: &issue,
		DueDate:   &due,
		Client:    &PartyInput{ID: &clientID, Name: "Martin & Fils"},
		Items: []LineItemInput{
			{Description: "Développement", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(400)},
		},
		TaxRate: decimal.NewFromInt(20),
	}
}

// Tests

func TestDocumentService_Create(t *testing.T) {
	t.Run("generates number from sequence when none given", func(t *testing.T) {
		mockRepo := new(MockDocumentRepository)
		service := NewDocumentService(mockRepo, nil)

		mockRepo.On("NextSequence", mock.Anything, billing.KindInvoice, 2026).Return(41, nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.FinancialDocument")).Return(nil)

		resp, err := service.Create(context.Background(), billing.KindInvoice, completeCreateRequest())
		require.NoError(t, err)

		assert.Equal(t, "FAC-2026-0041", resp.Number)
		assert.Equal(t, "invoice", resp.Kind)
		assert.Equal(t, "draft", resp.Status)
		assert.Equal(t, "1200", resp.Subtotal.String())
		assert.Equal(t, "240", resp.TaxAmount.String())
		assert.Equal(t, "1440", resp.Total.String())

		mockRepo.AssertExpectations(t)
	})

	t.Run("uses DEV prefix for quotes", func(t *testing.T) {
		mockRepo := new(MockDocumentRepository)
		service := NewDocumentService(mockRepo, nil)

		mockRepo.On("NextSequence", mock.Anything, billing.KindQuote, 2026).Return(3, nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.FinancialDocument")).Return(nil)

		resp, err := service.Create(context.Background(), billing.KindQuote, completeCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, "DEV-2026-0003", resp.Number)
	})

	t.Run("keeps explicit number after uniqueness check", func(t *testing.T) {
		mockRepo := new(MockDocumentRepository)
		service := NewDocumentService(mockRepo, nil)

		mockRepo.On("ExistsByNumber", mock.Anything, billing.KindInvoice, "FAC-2026-0100").Return(false, nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.FinancialDocument")).Return(nil)

		req := completeCreateRequest()
		req.Number = "FAC-2026-0100"

		resp, err := service.Create(context.Background(), billing.KindInvoice, req)
		require.NoError(t, err)
		assert.Equal(t, "FAC-2026-0100", resp.Number)
	})

	t.Run("rejects duplicate explicit number", func(t *testing.T) {
		mockRepo := new(MockDocumentRepository)
		service := NewDocumentService(mockRepo, nil)

		mockRepo.On("ExistsByNumber", mock.Anything, billing.KindInvoice, "FAC-2026-0100").Return(true, nil)

		req := completeCreateRequest()
		req.Number = "FAC-2026-0100"

		_, err := service.Create(context.Background(), billing.KindInvoice, req)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		mockRepo := new(MockDocumentRepository)
		service := NewDocumentService(mockRepo, nil)

		_, err := service.Create(context.Background(), billing.DocumentKind("receipt"), completeCreateRequest())
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_KIND", domainErr.Code)
	})

	t.Run("stamps company default when request has no issuer", func(t *testing.T) {
		mockRepo := new(MockDocumentRepository)
		service := NewDocumentService(mockRepo, nil)
		service.SetCompanyDefault(billing.Party{Name: "Facturio SAS", City: "Paris", VATNumber: "FR12345678901"})

		mockRepo.On("NextSequence", mock.Anything, billing.KindInvoice, 2026).Return(1, nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.FinancialDocument")).Return(nil)

		resp, err := service.Create(context.Background(), billing.KindInvoice, completeCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, "Facturio SAS", resp.Company.Name)
		assert.Equal(t, "FR12345678901", resp.Company.VATNumber)
	})

	t.Run("request issuer wins over company default", func(t *testing.T) {
		mockRepo := new(MockDocumentRepository)
		service := NewDocumentService(mockRepo, nil)
		service.SetCompanyDefault(billing.Party{Name: "Facturio SAS"})

		mockRepo.On("NextSequence", mock.Anything, billing.KindInvoice, 2026).Return(1, nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.FinancialDocument")).Return(nil)

		req := completeCreateRequest()
		req.Company = &PartyInput{Name: "Atelier Durand"}

		resp, err := service.Create(context.Background(), billing.KindInvoice, req)
		require.NoError(t, err)
		assert.Equal(t, "Atelier Durand", resp.Company.Name)
	})
}

func TestDocumentService_Update(t *testing.T) {
	t.Run("replaces items when a list is given", func(t *testing.T) {
		mockRepo := new(MockDocumentRepository)
		service := NewDocumentService(mockRepo, nil)

		doc := newCompleteDocument(t, billing.KindInvoice, "FAC-2026-0001")
		mockRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		mockRepo.On("SaveWithLock", mock.Anything, doc).Return(nil)

		resp, err := service.Update(context.Background(), doc.ID, UpdateDocumentRequest{
			Items: []LineItemInput{
				{Description: "Audit", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(900)},
				{Description: "Formation", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(300)},
			},
		})
		require.NoError(t, err)

		require.Len(t, resp.Items, 2)
		assert.Equal(t, "Audit", resp.Items[0].Description)
		assert.Equal(t, 0, resp.Items[0].Position)
		assert.Equal(t, 1, resp.Items[1].Position)
		assert.Equal(t, "1500", resp.Subtotal.String())

		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects update outside draft", func(t *testing.T) {
		mockRepo := new(MockDocumentRepository)
		service := NewDocumentService(mockRepo, nil)

		doc := newCompleteDocument(t, billing.KindInvoice, "FAC-2026-0001")
		require.NoError(t, doc.Transition(billing.StatusSent))
		doc.ClearDomainEvents()

		mockRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)

		notes := "too late"
		_, err := service.Update(context.Background(), doc.ID, UpdateDocumentRequest{Notes: &notes})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("rejects number already taken", func(t *testing.T) {
		mockRepo := new(MockDocumentRepository)
		service := NewDocumentService(mockRepo, nil)

		doc := newCompleteDocument(t, billing.KindInvoice, "FAC-2026-0001")
		mockRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		mockRepo.On("ExistsByNumber", mock.Anything, billing.KindInvoice, "FAC-2026-0002").Return(true, nil)

		number := "FAC-2026-0002"
		_, err := service.Update(context.Background(), doc.ID, UpdateDocumentRequest{Number: &number})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})
}

func TestDocumentService_List(t *testing.T) {
	t.Run("maps filters and applies defaults", func(t *testing.T) {
		mockRepo := new(MockDocumentRepository)
		service := NewDocumentService(mockRepo, nil)

		clientID := uuid.New()
		var captured shared.Filter
		mockRepo.On("FindAll", mock.Anything, billing.KindInvoice, mock.AnythingOfType("shared.Filter")).
			Run(func(args mock.Arguments) {
				captured = args.Get(2).(shared.Filter)
			}).
			Return([]billing.FinancialDocument{}, nil)
		mockRepo.On("Count", mock.Anything, billing.KindInvoice, mock.AnythingOfType("shared.Filter")).
			Return(int64(0), nil)

		status := "sent"
		_, total, err := service.List(context.Background(), billing.KindInvoice, DocumentListFilter{
			ClientID: &clientID,
			Status:   &status,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)

		assert.Equal(t, 1, captured.Page)
		assert.Equal(t, 20, captured.PageSize)
		assert.Equal(t, "date", captured.OrderBy)
		assert.Equal(t, "desc", captured.OrderDir)
		assert.Equal(t, clientID, captured.Filters["client_id"])
		assert.Equal(t, "sent", captured.Filters["status"])
	})

	t.Run("rejects status of the other kind", func(t *testing.T) {
		mockRepo := new(MockDocumentRepository)
		service := NewDocumentService(mockRepo, nil)

		status := "accepted"
		_, _, err := service.List(context.Background(), billing.KindInvoice, DocumentListFilter{Status: &status})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})
}

func TestDocumentService_ChangeStatus(t *testing.T) {
	t.Run("blocks incomplete document from leaving draft", func(t *testing.T) {
		mockRepo := new(MockDocumentRepository)
		service := NewDocumentService(mockRepo, nil)

		doc, err := billing.NewFinancialDocument(billing.KindInvoice, valueobject.EUR)
		require.NoError(t, err)
		doc.ClearDomainEvents()

		mockRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)

		_, err = service.ChangeStatus(context.Background(), doc.ID, billing.StatusSent)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	})

	t.Run("marks invoice paid and stamps paid_at", func(t *testing.T) {
		mockRepo := new(MockDocumentRepository)
		service := NewDocumentService(mockRepo, nil)

		doc := newCompleteDocument(t, billing.KindInvoice, "FAC-2026-0001")
		require.NoError(t, doc.Transition(billing.StatusSent))
		doc.ClearDomainEvents()

		mockRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		mockRepo.On("SaveWithLock", mock.Anything, doc).Return(nil)

		resp, err := service.ChangeStatus(context.Background(), doc.ID, billing.StatusPaid)
		require.NoError(t, err)
		assert.Equal(t, "paid", resp.Status)
		require.NotNil(t, resp.PaidAt)
		assert.WithinDuration(t, time.Now(), *resp.PaidAt, 5*time.Second)
	})

	t.Run("surfaces invalid transitions", func(t *testing.T) {
		mockRepo := new(MockDocumentRepository)
		service := NewDocumentService(mockRepo, nil)

		doc := newCompleteDocument(t, billing.KindInvoice, "FAC-2026-0001")
		mockRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)

		_, err := service.ChangeStatus(context.Background(), doc.ID, billing.StatusPaid)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	})
}

func TestDocumentService_ConvertQuote(t *testing.T) {
	t.Run("creates draft invoice with fresh number", func(t *testing.T) {
		mockRepo := new(MockDocumentRepository)
		service := NewDocumentService(mockRepo, nil)

		quote := newCompleteDocument(t, billing.KindQuote, "DEV-2026-0001")
		require.NoError(t, quote.Transition(billing.StatusSent))
		require.NoError(t, quote.Transition(billing.StatusAccepted))
		quote.ClearDomainEvents()

		year := time.Now().Year()
		mockRepo.On("FindByID", mock.Anything, quote.ID).Return(quote, nil)
		mockRepo.On("NextSequence", mock.Anything, billing.KindInvoice, year).Return(9, nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.FinancialDocument")).Return(nil)

		resp, err := service.ConvertQuote(context.Background(), quote.ID)
		require.NoError(t, err)

		assert.Equal(t, "invoice", resp.Kind)
		assert.Equal(t, "draft", resp.Status)
		assert.Equal(t, fmt.Sprintf("FAC-%d-0009", year), resp.Number)
		assert.NotEqual(t, quote.ID, resp.ID)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Développement", resp.Items[0].Description)
		assert.Equal(t, quote.Total.String(), resp.Total.String())

		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects quote that is not accepted", func(t *testing.T) {
		mockRepo := new(MockDocumentRepository)
		service := NewDocumentService(mockRepo, nil)

		quote := newCompleteDocument(t, billing.KindQuote, "DEV-2026-0001")
		mockRepo.On("FindByID", mock.Anything, quote.ID).Return(quote, nil)

		_, err := service.ConvertQuote(context.Background(), quote.ID)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("rejects invoices", func(t *testing.T) {
		mockRepo := new(MockDocumentRepository)
		service := NewDocumentService(mockRepo, nil)

		invoice := newCompleteDocument(t, billing.KindInvoice, "FAC-2026-0001")
		mockRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)

		_, err := service.ConvertQuote(context.Background(), invoice.ID)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_KIND", domainErr.Code)
	})
}

func TestDocumentService_StatusSummary(t *testing.T) {
	mockRepo := new(MockDocumentRepository)
	service := NewDocumentService(mockRepo, nil)

	mockRepo.On("CountByStatus", mock.Anything, billing.KindQuote).
		Return(map[billing.DocumentStatus]int64{
			billing.StatusDraft:    4,
			billing.StatusSent:     2,
			billing.StatusAccepted: 1,
		}, nil)

	resp, err := service.StatusSummary(context.Background(), billing.KindQuote)
	require.NoError(t, err)

	assert.Equal(t, "quote", resp.Kind)
	assert.Equal(t, int64(7), resp.Total)
	assert.Equal(t, int64(4), resp.Counts["draft"])
	assert.Equal(t, int64(0), resp.Counts["rejected"])
	// invoice-only statuses never appear on quote summaries
	_, hasPaid := resp.Counts["paid"]
	assert.False(t, hasPaid)
}
