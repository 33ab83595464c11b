package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromFloat(10.50), EUR)
	require.NoError(t, err)
	assert.Equal(t, EUR, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(10.50)))

	_, err = NewMoney(decimal.Zero, "")
	assert.Error(t, err)
}

func TestNewMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("99.99", EUR)
	require.NoError(t, err)
	assert.Equal(t, "99.99", m.StringFixed(2))

	_, err = NewMoneyFromString("not-a-number", EUR)
	assert.Error(t, err)
}

func TestCurrency_IsValid(t *testing.T) {
	assert.True(t, EUR.IsValid())
	assert.True(t, USD.IsValid())
	assert.False(t, Currency("XXX").IsValid())
	assert.False(t, Currency("").IsValid())
}

func TestMoney_Add(t *testing.T) {
	a := NewMoneyEURFromFloat(10)
	b := NewMoneyEURFromFloat(5.25)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "15.25", sum.StringFixed(2))

	usd, _ := NewMoneyFromFloat(1, USD)
	_, err = a.Add(usd)
	assert.Error(t, err)
}

func TestMoney_Subtract(t *testing.T) {
	a := NewMoneyEURFromFloat(10)
	b := NewMoneyEURFromFloat(2.50)

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "7.50", diff.StringFixed(2))
}

func TestMoney_CalculatePercentage(t *testing.T) {
	m := NewMoneyEURFromFloat(250)
	tax := m.CalculatePercentage(decimal.NewFromInt(20))
	assert.Equal(t, "50.00", tax.StringFixed(2))
}

func TestMoney_RoundMinorUnit(t *testing.T) {
	m := NewMoneyEUR(decimal.NewFromFloat(10.005))
	assert.Equal(t, "10.01", m.RoundMinorUnit().Amount().String())

	// full precision is kept until rounding is asked for
	assert.Equal(t, "10.005", m.Amount().String())
}

func TestMoney_Comparisons(t *testing.T) {
	a := NewMoneyEURFromFloat(1)
	b := NewMoneyEURFromFloat(2)

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, gt)

	assert.True(t, a.Equals(NewMoneyEURFromFloat(1)))
	assert.False(t, a.Equals(b))
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyEURFromFloat(123.45)
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var back Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, m.Equals(back))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("42.10"))
	assert.Equal(t, DefaultCurrency, m.Currency())
	assert.Equal(t, "42.10", m.StringFixed(2))

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	assert.Error(t, m.Scan(3.14))
}
