package taxes

import "github.com/shopspring/decimal"

// LineResult is the calculated tax of one input line. Results are returned
// in the same order as the request lines.
type LineResult struct {
	TotalGrossAmount decimal.Decimal `json:"total_gross_amount"`
	TotalNetAmount   decimal.Decimal `json:"total_net_amount"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
}

// CalculateTaxesResponse is the normalized webhook reply. Field names are
// the platform wire contract.
type CalculateTaxesResponse struct {
	ShippingPriceGrossAmount decimal.Decimal `json:"shipping_price_gross_amount"`
	ShippingPriceNetAmount   decimal.Decimal `json:"shipping_price_net_amount"`
	ShippingTaxRate          decimal.Decimal `json:"shipping_tax_rate"`
	Lines                    []LineResult    `json:"lines"`
}

// NewLineResult rounds the monetary amounts to 2 decimal places. This is
// the single rounding point of the pipeline.
func NewLineResult(gross, net, rate decimal.Decimal) LineResult {
	return LineResult{
		TotalGrossAmount: Round2(gross),
		TotalNetAmount:   Round2(net),
		TaxRate:          rate,
	}
}

// FallbackResponse builds the zero-tax reply returned when the customer has
// not entered an address yet: every line untaxed at its discounted total,
// shipping untaxed, all rates zero. The response stays total |lines| long.
func FallbackResponse(tb *TaxBase) *CalculateTaxesResponse {
	prepared := PrepareLines(tb)
	lines := make([]LineResult, 0, len(prepared))
	for _, line := range prepared {
		taxable := line.TaxableAmount()
		lines = append(lines, NewLineResult(taxable, taxable, decimal.Zero))
	}
	return &CalculateTaxesResponse{
		ShippingPriceGrossAmount: Round2(tb.ShippingPrice.Amount),
		ShippingPriceNetAmount:   Round2(tb.ShippingPrice.Amount),
		ShippingTaxRate:          decimal.Zero,
		Lines:                    lines,
	}
}
