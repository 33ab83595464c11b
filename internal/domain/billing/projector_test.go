package billing

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildProjectableInvoice(t *testing.T) *FinancialDocument {
	doc := createTestInvoice(t)
	require.NoError(t, doc.SetNumber("FAC-2026-0042"))
	issue := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, doc.SetDates(issue, issue.AddDate(0, 0, 30)))
	require.NoError(t, doc.SetClient(testClient()))
	require.NoError(t, doc.SetCompanyDetails(Party{Name: "Facturio SAS", City: "Paris", Country: "France", VATNumber: "FR12345678901"}))
	require.NoError(t, doc.SetTaxRate(decimal.NewFromInt(20)))
	addTestItem(t, doc, "Conseil", 2, 100)
	addTestItem(t, doc, "Support", 1, 50)
	return doc
}

func TestProject(t *testing.T) {
	t.Run("flattens document and rounds monetary values", func(t *testing.T) {
		doc := buildProjectableInvoice(t)

		model, err := Project(doc)
		require.NoError(t, err)

		assert.Equal(t, doc.ID.String(), model.DocumentID)
		assert.Equal(t, "invoice", model.Kind)
		assert.Equal(t, "FAC-2026-0042", model.Number)
		assert.Equal(t, "draft", model.Status)
		assert.Equal(t, "2026-02-01", model.IssueDate)
		assert.Equal(t, "2026-03-03", model.DueDate)
		assert.Equal(t, "Acme SARL", model.ClientName)
		assert.Equal(t, "250.00", model.Subtotal)
		assert.Equal(t, "50.00", model.TaxAmount)
		assert.Equal(t, "300.00", model.Total)
		assert.Equal(t, "20", model.TaxRate)
		assert.Equal(t, "EUR", model.Currency)
		assert.Empty(t, model.PaidAt)
	})

	t.Run("totals are read, never recomputed", func(t *testing.T) {
		doc := buildProjectableInvoice(t)
		// simulate a persisted document rehydrated with stored totals
		doc.Total = decimal.NewFromInt(999)

		model, err := Project(doc)
		require.NoError(t, err)
		assert.Equal(t, "999.00", model.Total)
	})

	t.Run("nested structures are JSON string encoded", func(t *testing.T) {
		doc := buildProjectableInvoice(t)

		model, err := Project(doc)
		require.NoError(t, err)

		// every nested channel must hold valid JSON text
		var rawItems []map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(model.ItemsJSON), &rawItems))
		require.Len(t, rawItems, 2)
		assert.Equal(t, "Conseil", rawItems[0]["description"])
		assert.Equal(t, "200.00", rawItems[0]["amount"])

		var rawClient map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(model.ClientJSON), &rawClient))
		assert.Equal(t, "Acme SARL", rawClient["name"])

		var rawCompany map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(model.CompanyJSON), &rawCompany))
		assert.Equal(t, "Facturio SAS", rawCompany["name"])
	})

	t.Run("decode helpers invert the encoding", func(t *testing.T) {
		doc := buildProjectableInvoice(t)

		model, err := Project(doc)
		require.NoError(t, err)

		items, err := model.DecodeItems()
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, doc.Items[0].ID.String(), items[0].ID)

		client, err := model.DecodeClient()
		require.NoError(t, err)
		assert.Equal(t, doc.Client.Name, client.Name)
		require.NotNil(t, client.ID)
		assert.Equal(t, *doc.Client.ID, *client.ID)

		company, err := model.DecodeCompany()
		require.NoError(t, err)
		assert.Equal(t, "Facturio SAS", company.Name)
	})

	t.Run("includes PaidAt for paid invoices", func(t *testing.T) {
		doc := buildProjectableInvoice(t)
		require.NoError(t, doc.Send())
		require.NoError(t, doc.MarkPaid())

		model, err := Project(doc)
		require.NoError(t, err)
		assert.Equal(t, "paid", model.Status)
		assert.NotEmpty(t, model.PaidAt)
	})

	t.Run("projection is pure", func(t *testing.T) {
		doc := buildProjectableInvoice(t)

		first, err := Project(doc)
		require.NoError(t, err)
		second, err := Project(doc)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 2, doc.ItemCount())
	})
}
