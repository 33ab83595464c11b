package billing

import "github.com/shopspring/decimal"

// Totals holds the derived monetary aggregates of a document. All values
// keep full decimal precision; rounding to the currency minor unit happens
// at export and display boundaries only.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// ComputeLineAmount derives a line amount from quantity and unit price.
// It is a total function: negative inputs are a validator concern, not a
// calculator one.
func ComputeLineAmount(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// ComputeTotals derives subtotal, tax amount and total from a list of line
// items and a tax rate expressed in percent. An empty item list yields zero
// totals. The function is pure: calling it twice on unchanged inputs yields
// identical results.
func ComputeTotals(items []LineItem, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount)
	}
	taxAmount := subtotal.Mul(taxRate).Div(decimal.NewFromInt(100))
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal.Add(taxAmount),
	}
}
