package taxes

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLineResult_RoundsToTwoPlaces(t *testing.T) {
	result := NewLineResult(
		decimal.RequireFromString("107.29875"),
		decimal.RequireFromString("99.9049"),
		decimal.RequireFromString("0.074"),
	)

	assert.Equal(t, "107.3", result.TotalGrossAmount.String())
	assert.Equal(t, "99.9", result.TotalNetAmount.String())
	assert.Equal(t, "0.074", result.TaxRate.String(), "tax rate is passed through unrounded")
}

func TestFallbackResponse_ZeroTaxTotals(t *testing.T) {
	tb := taxBaseWithTotals([]string{"100", "50"}, []string{"15"})
	tb.ShippingPrice = money("10")

	resp := FallbackResponse(tb)
	require.Len(t, resp.Lines, 2)

	// Discounts still prorate: [10, 5] against totals [100, 50].
	assert.Equal(t, "90", resp.Lines[0].TotalGrossAmount.String())
	assert.Equal(t, "90", resp.Lines[0].TotalNetAmount.String())
	assert.True(t, resp.Lines[0].TaxRate.IsZero())
	assert.Equal(t, "45", resp.Lines[1].TotalGrossAmount.String())
	assert.True(t, resp.Lines[1].TaxRate.IsZero())

	assert.Equal(t, "10", resp.ShippingPriceGrossAmount.String())
	assert.Equal(t, "10", resp.ShippingPriceNetAmount.String())
	assert.True(t, resp.ShippingTaxRate.IsZero())
}

func TestCalculateTaxesResponse_WireFormat(t *testing.T) {
	resp := &CalculateTaxesResponse{
		ShippingPriceGrossAmount: decimal.RequireFromString("10.8"),
		ShippingPriceNetAmount:   decimal.RequireFromString("10"),
		ShippingTaxRate:          decimal.RequireFromString("0.08"),
		Lines: []LineResult{
			NewLineResult(decimal.RequireFromString("108"), decimal.RequireFromString("100"), decimal.RequireFromString("0.08")),
		},
	}

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	// Amounts must serialize as JSON numbers under the platform field names.
	assert.JSONEq(t, `{
		"shipping_price_gross_amount": 10.8,
		"shipping_price_net_amount": 10,
		"shipping_tax_rate": 0.08,
		"lines": [{"total_gross_amount": 108, "total_net_amount": 100, "tax_rate": 0.08}]
	}`, string(raw))
}
