package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/facturio/backend/internal/domain/billing"
)

// kindLabels maps a document kind to its printed heading
var kindLabels = map[string]string{
	"invoice": "FACTURE",
	"quote":   "DEVIS",
}

// currencySymbols maps ISO codes to their display symbol
var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"CHF": "CHF",
	"CAD": "$",
}

// documentView is the data handed to the document template
type documentView struct {
	Model     *billing.ExportModel
	Items     []billing.ExportItem
	Client    billing.Party
	Company   billing.Party
	KindLabel string
}

// TemplateEngine renders export models into printable HTML using Go's
// html/template package
type TemplateEngine struct {
	tmpl *template.Template
}

// NewTemplateEngine creates a new template engine with the built-in
// document template
func NewTemplateEngine() (*TemplateEngine, error) {
	funcMap := template.FuncMap{
		"money":      formatAmount,
		"dateFR":     formatDateFR,
		"kindLabel":  lookupKindLabel,
		"hasContent": func(s string) bool { return s != "" },
	}

	tmpl, err := template.New("document").Funcs(funcMap).Parse(documentTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document template: %w", err)
	}
	return &TemplateEngine{tmpl: tmpl}, nil
}

// RenderDocument renders an export model into a complete HTML page.
// The nested JSON channels of the model are decoded here; the template
// only sees structured data.
func (e *TemplateEngine) RenderDocument(model *billing.ExportModel) (string, error) {
	items, err := model.DecodeItems()
	if err != nil {
		return "", fmt.Errorf("failed to decode items: %w", err)
	}
	client, err := model.DecodeClient()
	if err != nil {
		return "", fmt.Errorf("failed to decode client: %w", err)
	}
	company, err := model.DecodeCompany()
	if err != nil {
		return "", fmt.Errorf("failed to decode company: %w", err)
	}

	view := documentView{
		Model:     model,
		Items:     items,
		Client:    client,
		Company:   company,
		KindLabel: lookupKindLabel(model.Kind),
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to execute document template: %w", err)
	}
	return buf.String(), nil
}

func lookupKindLabel(kind string) string {
	if label, ok := kindLabels[kind]; ok {
		return label
	}
	return kind
}

// formatAmount renders "1234.50" + "EUR" as "1234.50 €"
func formatAmount(amount, currency string) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency
	}
	return amount + " " + symbol
}

// formatDateFR renders an ISO date as DD/MM/YYYY
func formatDateFR(iso string) string {
	if iso == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}

const documentTemplate = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="UTF-8">
<title>{{.KindLabel}} {{.Model.Number}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #1a1a2e; margin: 0; }
  .header { display: flex; justify-content: space-between; margin-bottom: 32px; }
  .doc-title { font-size: 26px; font-weight: bold; letter-spacing: 2px; }
  .doc-meta { text-align: right; color: #555; }
  .parties { display: flex; justify-content: space-between; margin-bottom: 32px; }
  .party { width: 45%; }
  .party h3 { font-size: 11px; text-transform: uppercase; color: #888; margin-bottom: 6px; }
  table.items { width: 100%; border-collapse: collapse; margin-bottom: 24px; }
  table.items th { text-align: left; border-bottom: 2px solid #1a1a2e; padding: 6px 8px; font-size: 11px; text-transform: uppercase; }
  table.items td { border-bottom: 1px solid #ddd; padding: 6px 8px; }
  table.items .num { text-align: right; }
  .totals { width: 40%; margin-left: auto; }
  .totals td { padding: 4px 8px; }
  .totals .num { text-align: right; }
  .totals .grand { font-weight: bold; border-top: 2px solid #1a1a2e; font-size: 14px; }
  .footer { margin-top: 40px; color: #555; font-size: 11px; }
  .footer h4 { margin-bottom: 4px; color: #1a1a2e; }
</style>
</head>
<body>
  <div class="header">
    <div>
      <div class="doc-title">{{.KindLabel}}</div>
      <div>{{.Model.Number}}</div>
    </div>
    <div class="doc-meta">
      {{if hasContent .Model.IssueDate}}<div>Date d'émission : {{dateFR .Model.IssueDate}}</div>{{end}}
      {{if hasContent .Model.DueDate}}<div>Date d'échéance : {{dateFR .Model.DueDate}}</div>{{end}}
      {{if hasContent .Model.ProjectName}}<div>Projet : {{.Model.ProjectName}}</div>{{end}}
    </div>
  </div>

  <div class="parties">
    <div class="party">
      <h3>Émetteur</h3>
      <div><strong>{{.Company.Name}}</strong></div>
      {{if .Company.Address}}<div>{{.Company.Address}}</div>{{end}}
      {{if .Company.City}}<div>{{.Company.PostalCode}} {{.Company.City}}</div>{{end}}
      {{if .Company.Country}}<div>{{.Company.Country}}</div>{{end}}
      {{if .Company.VATNumber}}<div>TVA : {{.Company.VATNumber}}</div>{{end}}
      {{if .Company.Email}}<div>{{.Company.Email}}</div>{{end}}
    </div>
    <div class="party">
      <h3>Client</h3>
      <div><strong>{{.Client.Name}}</strong></div>
      {{if .Client.Address}}<div>{{.Client.Address}}</div>{{end}}
      {{if .Client.City}}<div>{{.Client.PostalCode}} {{.Client.City}}</div>{{end}}
      {{if .Client.Country}}<div>{{.Client.Country}}</div>{{end}}
      {{if .Client.VATNumber}}<div>TVA : {{.Client.VATNumber}}</div>{{end}}
    </div>
  </div>

  <table class="items">
    <thead>
      <tr>
        <th>Description</th>
        <th class="num">Quantité</th>
        <th class="num">Prix unitaire</th>
        <th class="num">Montant</th>
      </tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr>
        <td>{{.Description}}</td>
        <td class="num">{{.Quantity}}</td>
        <td class="num">{{money .UnitPrice $.Model.Currency}}</td>
        <td class="num">{{money .Amount $.Model.Currency}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <table class="totals">
    <tr>
      <td>Sous-total</td>
      <td class="num">{{money .Model.Subtotal .Model.Currency}}</td>
    </tr>
    <tr>
      <td>TVA ({{.Model.TaxRate}}%)</td>
      <td class="num">{{money .Model.TaxAmount .Model.Currency}}</td>
    </tr>
    <tr class="grand">
      <td class="grand">Total TTC</td>
      <td class="num grand">{{money .Model.Total .Model.Currency}}</td>
    </tr>
  </table>

  <div class="footer">
    {{if hasContent .Model.PaymentTerms}}<h4>Conditions de paiement</h4><p>{{.Model.PaymentTerms}}</p>{{end}}
    {{if hasContent .Model.PaymentMethod}}<h4>Mode de paiement</h4><p>{{.Model.PaymentMethod}}</p>{{end}}
    {{if hasContent .Model.Notes}}<h4>Notes</h4><p>{{.Model.Notes}}</p>{{end}}
  </div>
</body>
</html>`
