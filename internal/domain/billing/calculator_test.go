package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(desc string, qty, price float64) LineItem {
	return LineItem{
		Description: desc,
		Quantity:    decimal.NewFromFloat(qty),
		UnitPrice:   decimal.NewFromFloat(price),
		Amount:      ComputeLineAmount(decimal.NewFromFloat(qty), decimal.NewFromFloat(price)),
	}
}

func TestComputeLineAmount(t *testing.T) {
	tests := []struct {
		name      string
		quantity  float64
		unitPrice float64
		want      string
	}{
		{"integer quantities", 2, 100, "200"},
		{"fractional quantity", 2.5, 100, "250"},
		{"fractional price", 3, 19.99, "59.97"},
		{"zero quantity", 0, 100, "0"},
		{"zero price", 4, 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeLineAmount(decimal.NewFromFloat(tt.quantity), decimal.NewFromFloat(tt.unitPrice))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestComputeTotals(t *testing.T) {
	t.Run("empty item list yields zero totals", func(t *testing.T) {
		totals := ComputeTotals(nil, decimal.NewFromInt(20))
		assert.True(t, totals.Subtotal.IsZero())
		assert.True(t, totals.TaxAmount.IsZero())
		assert.True(t, totals.Total.IsZero())
	})

	t.Run("two items with 20 percent tax", func(t *testing.T) {
		items := []LineItem{
			item("Conseil", 2, 100),
			item("Support", 1, 50),
		}
		totals := ComputeTotals(items, decimal.NewFromInt(20))
		assert.Equal(t, "250", totals.Subtotal.String())
		assert.Equal(t, "50", totals.TaxAmount.String())
		assert.Equal(t, "300", totals.Total.String())
	})

	t.Run("zero tax rate", func(t *testing.T) {
		items := []LineItem{item("Dev", 10, 75)}
		totals := ComputeTotals(items, decimal.Zero)
		assert.Equal(t, "750", totals.Subtotal.String())
		assert.True(t, totals.TaxAmount.IsZero())
		assert.Equal(t, "750", totals.Total.String())
	})

	t.Run("total always equals subtotal plus tax", func(t *testing.T) {
		items := []LineItem{
			item("a", 3, 33.33),
			item("b", 7, 0.07),
			item("c", 1.5, 19.99),
		}
		totals := ComputeTotals(items, decimal.NewFromFloat(5.5))
		assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.TaxAmount)))
	})

	t.Run("item order does not change totals", func(t *testing.T) {
		a := []LineItem{item("x", 2, 100), item("y", 1, 50), item("z", 3, 7.5)}
		b := []LineItem{a[2], a[0], a[1]}
		rate := decimal.NewFromInt(20)
		got1 := ComputeTotals(a, rate)
		got2 := ComputeTotals(b, rate)
		assert.True(t, got1.Subtotal.Equal(got2.Subtotal))
		assert.True(t, got1.Total.Equal(got2.Total))
	})

	t.Run("idempotent on unchanged inputs", func(t *testing.T) {
		items := []LineItem{item("Conseil", 2, 100)}
		rate := decimal.NewFromInt(20)
		first := ComputeTotals(items, rate)
		second := ComputeTotals(items, rate)
		require.True(t, first.Subtotal.Equal(second.Subtotal))
		require.True(t, first.TaxAmount.Equal(second.TaxAmount))
		require.True(t, first.Total.Equal(second.Total))
	})
}
