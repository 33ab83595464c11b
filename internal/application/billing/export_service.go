package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared"
	infrapdf "github.com/facturio/backend/internal/infrastructure/pdf"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ArtifactStorage defines the interface for storing rendered documents.
// This interface is implemented by the infrastructure layer (S3 or any
// S3-compatible backend).
type ArtifactStorage interface {
	// Upload stores raw data under a storage key
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// GenerateDownloadURL generates a presigned URL for downloading an
	// object, returning the URL and its expiration time
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// ExportServiceConfig holds configuration for the export service
type ExportServiceConfig struct {
	// DownloadURLExpiry is the duration for which download URLs are valid
	DownloadURLExpiry time.Duration
}

// DefaultExportServiceConfig returns the default configuration
func DefaultExportServiceConfig() ExportServiceConfig {
	return ExportServiceConfig{
		DownloadURLExpiry: 1 * time.Hour,
	}
}

// ExportService turns documents into stored PDF artifacts
type ExportService struct {
	repo           billing.DocumentRepository
	templateEngine *infrapdf.TemplateEngine
	renderer       infrapdf.PDFRenderer
	storage        ArtifactStorage
	eventPublisher shared.EventPublisher
	config         ExportServiceConfig
	logger         *zap.Logger
}

// NewExportService creates a new ExportService
func NewExportService(
	repo billing.DocumentRepository,
	templateEngine *infrapdf.TemplateEngine,
	renderer infrapdf.PDFRenderer,
	storage ArtifactStorage,
	config ExportServiceConfig,
	logger *zap.Logger,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.DownloadURLExpiry <= 0 {
		config.DownloadURLExpiry = DefaultExportServiceConfig().DownloadURLExpiry
	}
	return &ExportService{
		repo:           repo,
		templateEngine: templateEngine,
		renderer:       renderer,
		storage:        storage,
		config:         config,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for integrations
func (s *ExportService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ObjectKey returns the storage key of a document's PDF artifact
func ObjectKey(kind billing.DocumentKind, number string) string {
	return fmt.Sprintf("documents/%s/%s.pdf", kind, number)
}

// ExportPDF projects a document, renders it to PDF, stores the artifact
// and returns a presigned download URL. The document itself is not
// mutated; exporting is allowed in any status.
func (s *ExportService) ExportPDF(ctx context.Context, id uuid.UUID) (*ExportResponse, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	model, err := billing.Project(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to project document: %w", err)
	}

	html, err := s.templateEngine.RenderDocument(model)
	if err != nil {
		return nil, fmt.Errorf("failed to render document template: %w", err)
	}

	result, err := s.renderer.Render(ctx, &infrapdf.RenderRequest{
		HTML:  html,
		Title: fmt.Sprintf("%s %s", doc.Kind, doc.Number),
	})
	if err != nil {
		return nil, err
	}

	key := ObjectKey(doc.Kind, doc.Number)
	if err := s.storage.Upload(ctx, key, result.PDFData, "application/pdf"); err != nil {
		return nil, fmt.Errorf("failed to store PDF artifact: %w", err)
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, s.config.DownloadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate download URL: %w", err)
	}

	if s.eventPublisher != nil {
		event := billing.NewDocumentExportedEvent(doc, key)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish export event",
				zap.String("document_id", doc.ID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("document exported",
		zap.String("id", doc.ID.String()),
		zap.String("number", doc.Number),
		zap.String("object_key", key),
		zap.Int("size_bytes", len(result.PDFData)),
		zap.Duration("render_duration", result.RenderDuration))

	return &ExportResponse{
		DocumentID:  doc.ID,
		Number:      doc.Number,
		ObjectKey:   key,
		DownloadURL: url,
		ExpiresAt:   expiresAt,
		SizeBytes:   len(result.PDFData),
	}, nil
}
