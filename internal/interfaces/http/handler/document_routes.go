package handler

import (
	"github.com/facturio/backend/internal/interfaces/http/router"
)

// InvoiceRoutes creates the route group for invoice endpoints
func InvoiceRoutes(handler *DocumentHandler) *router.DomainGroup {
	group := router.NewDomainGroup("invoices", "/invoices")

	group.POST("", handler.Create)
	group.GET("", handler.List)
	group.GET("/summary", handler.StatusSummary)
	group.GET("/number/:number", handler.GetByNumber)
	group.GET("/:id", handler.GetByID)
	group.PATCH("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
	group.GET("/:id/validate", handler.Validate)
	group.POST("/:id/status", handler.ChangeStatus)
	group.POST("/:id/export", handler.Export)

	return group
}

// QuoteRoutes creates the route group for quote endpoints. Quotes carry
// one extra operation, conversion into a draft invoice.
func QuoteRoutes(handler *DocumentHandler) *router.DomainGroup {
	group := router.NewDomainGroup("quotes", "/quotes")

	group.POST("", handler.Create)
	group.GET("", handler.List)
	group.GET("/summary", handler.StatusSummary)
	group.GET("/number/:number", handler.GetByNumber)
	group.GET("/:id", handler.GetByID)
	group.PATCH("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
	group.GET("/:id/validate", handler.Validate)
	group.POST("/:id/status", handler.ChangeStatus)
	group.POST("/:id/convert", handler.Convert)
	group.POST("/:id/export", handler.Export)

	return group
}
