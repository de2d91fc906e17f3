package taxes

import "github.com/shopspring/decimal"

func init() {
	// Platform money objects carry plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Money is the platform's money object: a bare amount. Currency travels on
// the TaxBase, not per amount.
type Money struct {
	Amount decimal.Decimal `json:"amount"`
}

// Round2 rounds a monetary amount to 2 decimal places. Only the response
// transformers call it, at the point of response construction; rounding any
// earlier would compound the error across proration and summation.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
