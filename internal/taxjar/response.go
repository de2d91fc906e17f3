package taxjar

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/yourorg/taxes-app/internal/taxes"
)

// ResponseTransformer maps a TaxJar tax-for-order result back into the
// normalized calculate-taxes response.
type ResponseTransformer struct{}

// NewResponseTransformer creates a ResponseTransformer.
func NewResponseTransformer() *ResponseTransformer {
	return &ResponseTransformer{}
}

// Transform walks the prepared request lines in their original order and
// re-associates breakdown entries by line id, never by position. Lines
// without a breakdown entry (chargeTaxes off, or no taxable lines at all)
// default to an untaxed result at the discounted total. Rounding to 2
// decimal places happens here and nowhere earlier.
//
// Known gap, preserved deliberately: TaxJar regularly omits the shipping
// breakdown even when shipping was submitted, and reports a zero shipping
// rate when it is present. Absence falls back to the original untaxed
// shipping amount instead of failing the calculation.
func (rt *ResponseTransformer) Transform(
	prepared []taxes.PreparedLine,
	shippingPrice decimal.Decimal,
	res *TaxForOrderRes,
) *taxes.CalculateTaxesResponse {
	var breakdown *TaxBreakdown
	if res != nil {
		breakdown = res.Tax.Breakdown
	}

	byID := map[string]TaxBreakdownLineItem{}
	if breakdown != nil {
		byID = lo.SliceToMap(breakdown.LineItems, func(item TaxBreakdownLineItem) (string, TaxBreakdownLineItem) {
			return item.ID, item
		})
	}

	lines := make([]taxes.LineResult, 0, len(prepared))
	for _, line := range prepared {
		item, found := byID[line.ID]
		if !found {
			taxable := line.TaxableAmount()
			lines = append(lines, taxes.NewLineResult(taxable, taxable, decimal.Zero))
			continue
		}
		gross := item.TaxableAmount.Add(item.TaxCollectable)
		lines = append(lines, taxes.NewLineResult(gross, item.TaxableAmount, item.CombinedTaxRate))
	}

	response := &taxes.CalculateTaxesResponse{
		ShippingPriceGrossAmount: taxes.Round2(shippingPrice),
		ShippingPriceNetAmount:   taxes.Round2(shippingPrice),
		ShippingTaxRate:          decimal.Zero,
		Lines:                    lines,
	}
	if breakdown != nil && breakdown.Shipping != nil {
		shipping := breakdown.Shipping
		response.ShippingPriceGrossAmount = taxes.Round2(shipping.TaxableAmount.Add(shipping.TaxCollectable))
		response.ShippingPriceNetAmount = taxes.Round2(shipping.TaxableAmount)
		response.ShippingTaxRate = shipping.CombinedTaxRate
	}
	return response
}
