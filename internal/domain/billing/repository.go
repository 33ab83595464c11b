package billing

import (
	"context"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentRepository defines the interface for document persistence
type DocumentRepository interface {
	// FindByID finds a document by ID
	FindByID(ctx context.Context, id uuid.UUID) (*FinancialDocument, error)

	// FindByNumber finds a document by its number within a kind
	FindByNumber(ctx context.Context, kind DocumentKind, number string) (*FinancialDocument, error)

	// FindAll finds documents of a kind with filtering, searching and sorting
	FindAll(ctx context.Context, kind DocumentKind, filter shared.Filter) ([]FinancialDocument, error)

	// Save creates or updates a document together with its items
	Save(ctx context.Context, doc *FinancialDocument) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, doc *FinancialDocument) error

	// Delete deletes a document. Deleting an unknown ID returns ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts documents of a kind matching a filter
	Count(ctx context.Context, kind DocumentKind, filter shared.Filter) (int64, error)

	// CountByStatus counts documents of a kind per status
	CountByStatus(ctx context.Context, kind DocumentKind) (map[DocumentStatus]int64, error)

	// ExistsByNumber checks number uniqueness within a kind
	ExistsByNumber(ctx context.Context, kind DocumentKind, number string) (bool, error)

	// NextSequence returns the next per-kind, per-year sequence value
	// used to build document numbers
	NextSequence(ctx context.Context, kind DocumentKind, year int) (int, error)
}
