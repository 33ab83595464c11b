package pdf

import (
	"strings"
	"testing"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"time"
)

func projectedInvoice(t *testing.T) *billing.ExportModel {
	doc, err := billing.NewFinancialDocument(billing.KindInvoice, valueobject.EUR)
	require.NoError(t, err)
	require.NoError(t, doc.SetNumber("FAC-2026-0042"))
	issue := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, doc.SetDates(issue, issue.AddDate(0, 0, 30)))
	clientID := uuid.New()
	require.NoError(t, doc.SetClient(billing.Party{ID: &clientID, Name: "Acme SARL", City: "Lyon"}))
	require.NoError(t, doc.SetCompanyDetails(billing.Party{Name: "Facturio SAS", City: "Paris", VATNumber: "FR12345678901"}))
	require.NoError(t, doc.SetTaxRate(decimal.NewFromInt(20)))
	_, err = doc.AddItem("Conseil", decimal.NewFromInt(2), decimal.NewFromInt(100))
	require.NoError(t, err)
	doc.SetPaymentTerms("Paiement à 30 jours")

	model, err := billing.Project(doc)
	require.NoError(t, err)
	return model
}

func TestTemplateEngine_RenderDocument(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	t.Run("renders invoice fields", func(t *testing.T) {
		html, err := engine.RenderDocument(projectedInvoice(t))
		require.NoError(t, err)

		assert.Contains(t, html, "FACTURE")
		assert.Contains(t, html, "FAC-2026-0042")
		assert.Contains(t, html, "Acme SARL")
		assert.Contains(t, html, "Facturio SAS")
		assert.Contains(t, html, "Conseil")
		assert.Contains(t, html, "01/02/2026")
		assert.Contains(t, html, "200.00 €")
		assert.Contains(t, html, "240.00 €")
		assert.Contains(t, html, "Paiement à 30 jours")
		assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	})

	t.Run("uses DEVIS heading for quotes", func(t *testing.T) {
		model := projectedInvoice(t)
		model.Kind = "quote"

		html, err := engine.RenderDocument(model)
		require.NoError(t, err)
		assert.Contains(t, html, "DEVIS")
	})

	t.Run("escapes HTML in user content", func(t *testing.T) {
		model := projectedInvoice(t)
		model.Notes = "<script>alert(1)</script>"

		html, err := engine.RenderDocument(model)
		require.NoError(t, err)
		assert.NotContains(t, html, "<script>alert(1)</script>")
	})

	t.Run("fails on malformed items channel", func(t *testing.T) {
		model := projectedInvoice(t)
		model.ItemsJSON = "{not json"

		_, err := engine.RenderDocument(model)
		assert.Error(t, err)
	})
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "10.00 €", formatAmount("10.00", "EUR"))
	assert.Equal(t, "10.00 $", formatAmount("10.00", "USD"))
	assert.Equal(t, "10.00 XXX", formatAmount("10.00", "XXX"))
	assert.Equal(t, "15/03/2026", formatDateFR("2026-03-15"))
	assert.Equal(t, "", formatDateFR(""))
	assert.Equal(t, "not-a-date", formatDateFR("not-a-date"))
}
