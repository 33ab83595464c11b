package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDocumentRepository implements billing.DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByID finds a document by its ID
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.FinancialDocument, error) {
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).
		Preload("Items", itemOrder).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a document by its number within a kind
func (r *GormDocumentRepository) FindByNumber(ctx context.Context, kind billing.DocumentKind, number string) (*billing.FinancialDocument, error) {
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).
		Preload("Items", itemOrder).
		Where("kind = ? AND number = ?", kind, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds documents of a kind with filtering, searching and sorting
func (r *GormDocumentRepository) FindAll(ctx context.Context, kind billing.DocumentKind, filter shared.Filter) ([]billing.FinancialDocument, error) {
	var documentModels []models.DocumentModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.DocumentModel{}).Where("kind = ?", kind),
		filter,
	)

	if err := query.Find(&documentModels).Error; err != nil {
		return nil, err
	}

	documents := make([]billing.FinancialDocument, len(documentModels))
	for i := range documentModels {
		documents[i] = *documentModels[i].ToDomain()
	}
	return documents, nil
}

// Save creates or updates a document together with its items
func (r *GormDocumentRepository) Save(ctx context.Context, doc *billing.FinancialDocument) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.DocumentModelFromDomain(doc)

		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}

		return r.saveItems(tx, model)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormDocumentRepository) SaveWithLock(ctx context.Context, doc *billing.FinancialDocument) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored models.DocumentModel
		if err := tx.Model(&models.DocumentModel{}).
			Select("version").
			Where("id = ?", doc.ID).
			First(&stored).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		currentVersion := stored.Version

		if currentVersion != doc.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The document has been modified by another user")
		}

		doc.Version++
		doc.UpdatedAt = time.Now()

		model := models.DocumentModelFromDomain(doc)

		result := tx.Model(&models.DocumentModel{}).
			Where("id = ? AND version = ?", doc.ID, currentVersion).
			Updates(map[string]interface{}{
				"number":              model.Number,
				"issue_date":          model.IssueDate,
				"due_date":            model.DueDate,
				"status":              model.Status,
				"client_id":           model.Client.ID,
				"client_name":         model.Client.Name,
				"client_address":      model.Client.Address,
				"client_postal_code":  model.Client.PostalCode,
				"client_city":         model.Client.City,
				"client_country":      model.Client.Country,
				"client_email":        model.Client.Email,
				"client_phone":        model.Client.Phone,
				"client_vat_number":   model.Client.VATNumber,
				"company_name":        model.Company.Name,
				"company_address":     model.Company.Address,
				"company_postal_code": model.Company.PostalCode,
				"company_city":        model.Company.City,
				"company_country":     model.Company.Country,
				"company_email":       model.Company.Email,
				"company_phone":       model.Company.Phone,
				"company_vat_number":  model.Company.VATNumber,
				"project_id":          model.ProjectID,
				"project_name":        model.ProjectName,
				"subtotal":            model.Subtotal,
				"tax_rate":            model.TaxRate,
				"tax_amount":          model.TaxAmount,
				"total":               model.Total,
				"notes":               model.Notes,
				"payment_terms":       model.PaymentTerms,
				"payment_method":      model.PaymentMethod,
				"paid_at":             model.PaidAt,
				"version":             model.Version,
				"updated_at":          model.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The document has been modified by another user")
		}

		return r.saveItems(tx, model)
	})
}

// Delete deletes a document and its items. Deleting an unknown ID returns ErrNotFound.
func (r *GormDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&models.LineItemModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.DocumentModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts documents of a kind matching a filter
func (r *GormDocumentRepository) Count(ctx context.Context, kind billing.DocumentKind, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.DocumentModel{}).Where("kind = ?", kind)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts documents of a kind per status
func (r *GormDocumentRepository) CountByStatus(ctx context.Context, kind billing.DocumentKind) (map[billing.DocumentStatus]int64, error) {
	var rows []struct {
		Status billing.DocumentStatus
		Count  int64
	}

	if err := r.db.WithContext(ctx).
		Model(&models.DocumentModel{}).
		Select("status, COUNT(*) AS count").
		Where("kind = ?", kind).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[billing.DocumentStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// ExistsByNumber checks if a document number exists within a kind
func (r *GormDocumentRepository) ExistsByNumber(ctx context.Context, kind billing.DocumentKind, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DocumentModel{}).
		Where("kind = ? AND number = ?", kind, number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// NextSequence returns the next per-kind, per-year sequence value used to build
// document numbers. The allocation is atomic, concurrent callers get distinct values.
func (r *GormDocumentRepository) NextSequence(ctx context.Context, kind billing.DocumentKind, year int) (int, error) {
	var next int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		seq := models.DocumentSequenceModel{
			Kind:      kind,
			Year:      year,
			Value:     1,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "kind"}, {Name: "year"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"value":      gorm.Expr("document_sequences.value + 1"),
				"updated_at": now,
			}),
		}).Create(&seq).Error; err != nil {
			return err
		}

		var current models.DocumentSequenceModel
		if err := tx.Where("kind = ? AND year = ?", kind, year).First(&current).Error; err != nil {
			return err
		}
		next = current.Value
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// saveItems reconciles the persisted item rows with the aggregate's item list:
// rows removed from the aggregate are deleted, the rest are upserted.
func (r *GormDocumentRepository) saveItems(tx *gorm.DB, model *models.DocumentModel) error {
	currentItemIDs := make([]uuid.UUID, len(model.Items))
	for i, item := range model.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("document_id = ? AND id NOT IN ?", model.ID, currentItemIDs).
			Delete(&models.LineItemModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("document_id = ?", model.ID).
			Delete(&models.LineItemModel{}).Error; err != nil {
			return err
		}
	}

	for i := range model.Items {
		model.Items[i].DocumentID = model.ID
		if err := tx.Save(&model.Items[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// itemOrder preloads line items in display order
func itemOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// applyFilter applies filter options to the query
func (r *GormDocumentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	// Apply ordering
	column := ValidateSortField(filter.OrderBy, DocumentSortFields, "issue_date")
	direction := ValidateSortOrder(filter.OrderDir)
	query = query.Order(column + " " + direction)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormDocumentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search. LOWER + LIKE keeps the match case-insensitive on both
	// postgres and the sqlite test harness.
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(number) LIKE ? OR LOWER(client_name) LIKE ? OR LOWER(project_name) LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "project_id":
			query = query.Where("project_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("issue_date >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("issue_date <= ?", t)
			}
		case "min_amount":
			if d, ok := value.(decimal.Decimal); ok {
				query = query.Where("total >= ?", d)
			}
		case "max_amount":
			if d, ok := value.(decimal.Decimal); ok {
				query = query.Where("total <= ?", d)
			}
		}
	}

	return query
}

// Ensure GormDocumentRepository implements DocumentRepository
var _ billing.DocumentRepository = (*GormDocumentRepository)(nil)
