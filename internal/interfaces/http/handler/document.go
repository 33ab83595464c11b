package handler

import (
	appbilling "github.com/facturio/backend/internal/application/billing"
	"github.com/facturio/backend/internal/domain/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentHandler handles invoice or quote API endpoints. One instance is
// mounted per document kind so that /invoices and /quotes share the same
// code path.
type DocumentHandler struct {
	BaseHandler
	kind      billing.DocumentKind
	documents *appbilling.DocumentService
	exporter  *appbilling.ExportService
}

// NewDocumentHandler creates a new DocumentHandler for one document kind
func NewDocumentHandler(kind billing.DocumentKind, documents *appbilling.DocumentService, exporter *appbilling.ExportService) *DocumentHandler {
	return &DocumentHandler{
		kind:      kind,
		documents: documents,
		exporter:  exporter,
	}
}

// Create creates a new draft document
func (h *DocumentHandler) Create(c *gin.Context) {
	var req appbilling.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	doc, err := h.documents.Create(c.Request.Context(), h.kind, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, doc)
}

// loadOwnKind fetches a document and verifies it belongs to this handler's
// kind. A cross-kind id answers 404 so the /invoices routes can never read
// or mutate a quote and vice versa. Returns false after writing the error
// response.
func (h *DocumentHandler) loadOwnKind(c *gin.Context, id uuid.UUID) (*appbilling.DocumentResponse, bool) {
	doc, err := h.documents.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	if doc.Kind != string(h.kind) {
		h.NotFound(c, "Document not found")
		return nil, false
	}
	return doc, true
}

// GetByID retrieves a document by ID
func (h *DocumentHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	doc, ok := h.loadOwnKind(c, id)
	if !ok {
		return
	}

	h.Success(c, doc)
}

// GetByNumber retrieves a document by its number
func (h *DocumentHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Document number is required")
		return
	}

	doc, err := h.documents.GetByNumber(c.Request.Context(), h.kind, number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// List retrieves documents with filtering and pagination
func (h *DocumentHandler) List(c *gin.Context) {
	var filter appbilling.DocumentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	docs, total, err := h.documents.List(c.Request.Context(), h.kind, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, docs, total, filter.Page, filter.PageSize)
}

// Update applies a partial update to a draft document
func (h *DocumentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	var req appbilling.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if _, ok := h.loadOwnKind(c, id); !ok {
		return
	}

	doc, err := h.documents.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// Delete deletes a document
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	if _, ok := h.loadOwnKind(c, id); !ok {
		return
	}

	if err := h.documents.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Validate reports whether a document is complete enough to be sent
func (h *DocumentHandler) Validate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	if _, ok := h.loadOwnKind(c, id); !ok {
		return
	}

	result, err := h.documents.Validate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ChangeStatus transitions a document to a new status
func (h *DocumentHandler) ChangeStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	var req appbilling.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if _, ok := h.loadOwnKind(c, id); !ok {
		return
	}

	doc, err := h.documents.ChangeStatus(c.Request.Context(), id, billing.DocumentStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// Convert creates a draft invoice from an accepted quote. Mounted on the
// quote group only.
func (h *DocumentHandler) Convert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	invoice, err := h.documents.ConvertQuote(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// Export renders a document to PDF, stores the artifact and returns a
// presigned download URL
func (h *DocumentHandler) Export(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	if _, ok := h.loadOwnKind(c, id); !ok {
		return
	}

	result, err := h.exporter.ExportPDF(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// StatusSummary reports per-status document counts
func (h *DocumentHandler) StatusSummary(c *gin.Context) {
	summary, err := h.documents.StatusSummary(c.Request.Context(), h.kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}
