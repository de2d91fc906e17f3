package avatax

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/yourorg/taxes-app/internal/taxes"
)

// ResponseTransformer maps a calculated AvaTax transaction back into the
// normalized calculate-taxes response.
type ResponseTransformer struct{}

// NewResponseTransformer creates a ResponseTransformer.
func NewResponseTransformer() *ResponseTransformer {
	return &ResponseTransformer{}
}

// Transform walks the prepared request lines in their original order and
// re-associates provider results by line number, never by position. Lines
// the provider returned nothing for default to an untaxed result at the
// discounted total, so the response is total for every input line. All
// rounding to 2 decimal places happens here and nowhere earlier.
func (rt *ResponseTransformer) Transform(
	prepared []taxes.PreparedLine,
	shippingPrice decimal.Decimal,
	transaction *TransactionModel,
) *taxes.CalculateTaxesResponse {
	byNumber := lo.SliceToMap(transaction.Lines, func(line TransactionLineModel) (string, TransactionLineModel) {
		return line.LineNumber, line
	})

	lines := make([]taxes.LineResult, 0, len(prepared))
	for _, line := range prepared {
		calculated, found := byNumber[line.ID]
		if !found {
			taxable := line.TaxableAmount()
			lines = append(lines, taxes.NewLineResult(taxable, taxable, decimal.Zero))
			continue
		}
		gross := calculated.TaxableAmount.Add(calculated.Tax)
		lines = append(lines, taxes.NewLineResult(gross, calculated.TaxableAmount, lineRate(calculated)))
	}

	response := &taxes.CalculateTaxesResponse{
		ShippingPriceGrossAmount: taxes.Round2(shippingPrice),
		ShippingPriceNetAmount:   taxes.Round2(shippingPrice),
		ShippingTaxRate:          decimal.Zero,
		Lines:                    lines,
	}
	if shipping, found := byNumber[ShippingItemCode]; found {
		response.ShippingPriceGrossAmount = taxes.Round2(shipping.TaxableAmount.Add(shipping.Tax))
		response.ShippingPriceNetAmount = taxes.Round2(shipping.TaxableAmount)
		response.ShippingTaxRate = lineRate(shipping)
	}
	return response
}

// lineRate sums the per-jurisdiction detail rates into the line's effective
// rate. AvaTax reports no flat per-line rate.
func lineRate(line TransactionLineModel) decimal.Decimal {
	return lo.Reduce(line.Details, func(sum decimal.Decimal, detail TransactionLineDetailModel, _ int) decimal.Decimal {
		return sum.Add(detail.Rate)
	}, decimal.Zero)
}
